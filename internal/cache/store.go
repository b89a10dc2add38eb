package cache

import (
	"context"

	crerr "github.com/cockroachdb/errors"
)

// ErrNotFound reports a cache miss. A corrupt or truncated entry is reported
// the same way so the caller re-fetches instead of failing.
var ErrNotFound = crerr.New("document not found")

// Store persists verbatim upstream JSON documents addressed by resource key.
//
// Get never performs network I/O. Put overwrites whatever is present and
// creates intermediate storage structure on demand. Documents are immutable
// once written except through an explicit force refresh upstream of the
// store; entries never expire on their own.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Put(ctx context.Context, key Key, doc []byte) error
	Exists(ctx context.Context, key Key) (bool, error)
	Delete(ctx context.Context, key Key) error
}
