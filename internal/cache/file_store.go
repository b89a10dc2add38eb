package cache

import (
	"context"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// FileStore keeps one JSON file per resource key under a root directory:
// <root>/<kind>/<param value>/.../<last value>.json.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, crerr.New("file store root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, crerr.Wrap(err, "create cache root")
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(key Key) string {
	return filepath.Join(s.root, key.Path()+".json")
}

func (s *FileStore) Get(_ context.Context, key Key) ([]byte, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, crerr.Wrapf(err, "read cached document %s", key.String())
	}
	// A truncated file from an interrupted run counts as a miss.
	if !sonic.Valid(raw) {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (s *FileStore) Put(_ context.Context, key Key, doc []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return crerr.Wrapf(err, "create cache directory for %s", key.String())
	}

	// Write-then-rename so a killed run leaves either the old document or
	// nothing, not a half-written file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return crerr.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return crerr.Wrapf(err, "write cached document %s", key.String())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return crerr.Wrapf(err, "close cached document %s", key.String())
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return crerr.Wrap(err, "chmod cached document")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return crerr.Wrapf(err, "store cached document %s", key.String())
	}
	return nil
}

func (s *FileStore) Exists(ctx context.Context, key Key) (bool, error) {
	_, err := s.Get(ctx, key)
	if err != nil {
		if crerr.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *FileStore) Delete(_ context.Context, key Key) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return crerr.Wrapf(err, "delete cached document %s", key.String())
	}
	return nil
}
