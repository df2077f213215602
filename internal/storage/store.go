package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// KV is the durable document store behind the learned-match cache and the
// catalog snapshot. Set replaces the whole value of a key in one write.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
