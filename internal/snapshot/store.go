// Package snapshot persists the last saved analysis of each browser in a
// single key-value slot.
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is a byte-oriented key-value backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}
