// Package kvstore is the key-value capability every portal store is built on.
package kvstore

import (
	"context"
	"time"
)

// Engine stores raw values under string keys. A zero ttl means no expiry.
// Get returns nil and no error for a missing key.
type Engine interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}
