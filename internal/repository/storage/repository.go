package storage

import (
	"context"
)

// Storage is the key/value origin the cart is persisted in. Get returns
// (nil, nil) for a key that was never written.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}
