package store

import "context"

// Store defines durable key/value storage for session state.
// This abstraction allows swapping between a local SQLite file (default),
// Redis or MySQL (shared deployments) and memory (tests) without changing
// the session engine.
type Store interface {
	// Set stores a value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Get retrieves a value by key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a value by key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying storage.
	Close() error
}

// Common store errors
type StoreError string

func (e StoreError) Error() string { return string(e) }

const (
	// ErrNotFound indicates the key was not found in the store.
	ErrNotFound StoreError = "record not found"
)
