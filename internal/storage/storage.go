package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is the persistence layer for the serialized cart blob: a flat
// key-value string store addressed by a single fixed key per session.
// Consumers define this interface, not the backing implementation.
type Store interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
}
