// Package blob abstracts the object store holding ciphertext. The vault
// never writes plaintext through this interface.
package blob

import "context"

// Store reads and writes opaque byte blobs addressed by bucket and key.
type Store interface {
	// Put writes data under key. An existing object at the same key is
	// overwritten, so keys must be generated collision-free by the caller.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error

	// Get returns the bytes stored under key, or common.ErrNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Delete removes the object under key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, bucket, key string) error
}
