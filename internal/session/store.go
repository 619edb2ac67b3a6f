package session

import "context"

// Store defines the interface for durable per-browser session storage.
// Implementations must return ErrKeyNotFound for absent keys.
type Store interface {
	// Get retrieves a value for the given session and key
	Get(ctx context.Context, sessionID, key string) (string, error)

	// Set stores a value for the given session and key
	Set(ctx context.Context, sessionID, key, value string) error

	// Delete removes the given keys from a session
	Delete(ctx context.Context, sessionID string, keys ...string) error

	// Clear removes all keys for a session
	Clear(ctx context.Context, sessionID string) error

	// Close releases any resources held by the store
	Close() error
}
