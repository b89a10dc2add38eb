package cache

import (
	"context"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	bolt "go.etcd.io/bbolt"
)

// BoltStore keeps all cached documents in a single bbolt file, one bucket
// per resource kind. It implements the same contract as FileStore and is the
// document-store backend for deployments that prefer one file over a tree.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, crerr.New("bolt store path is required")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, crerr.Wrap(err, "open bolt store")
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BoltStore) Get(_ context.Context, key Key) ([]byte, error) {
	var doc []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(key.Kind))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key.String())); v != nil {
			doc = make([]byte, len(v))
			copy(doc, v)
		}
		return nil
	})
	if err != nil {
		return nil, crerr.Wrapf(err, "read cached document %s", key.String())
	}
	if doc == nil || !sonic.Valid(doc) {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *BoltStore) Put(_ context.Context, key Key, doc []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(key.Kind))
		if err != nil {
			return err
		}
		return b.Put([]byte(key.String()), doc)
	})
	if err != nil {
		return crerr.Wrapf(err, "store cached document %s", key.String())
	}
	return nil
}

func (s *BoltStore) Exists(ctx context.Context, key Key) (bool, error) {
	_, err := s.Get(ctx, key)
	if err != nil {
		if crerr.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *BoltStore) Delete(_ context.Context, key Key) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(key.Kind))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key.String()))
	})
	if err != nil {
		return crerr.Wrapf(err, "delete cached document %s", key.String())
	}
	return nil
}
