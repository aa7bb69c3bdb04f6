package session

import "context"

// Store defines the local key-value storage API the session state lives in
type Store interface {
	// Get retrieves the value assigned to a key.
	// A missing key yields an empty string and no error.
	Get(ctx context.Context, key string) (string, error)

	// Set assigns a value to a key, overwriting any previous value
	Set(ctx context.Context, key, value string) error

	// Delete removes a key and its value.
	// Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close closes the store (i.e. closes a database connection)
	Close()
}
