// Package storage provides the key/value backends that stand in for browser
// local storage: an in-memory map, a single JSON file, and SQLite (in the
// sqlite subpackage).
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Backend is a flat key/value store of raw JSON values.
type Backend interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove is a no-op for absent keys.
	Remove(ctx context.Context, key string) error
	Close() error
}
