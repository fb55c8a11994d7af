package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore is the minimal surface the gallery needs from blob storage:
// store a blob, remove it, enumerate keys under a prefix, and resolve a
// key to a temporary signed download URL.
type ObjectStore interface {
	// Put stores a blob at the given key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a blob by key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List enumerates object keys under a prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// SignedURL resolves a key to a time-limited download URL
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Exists checks whether a blob is present
	Exists(ctx context.Context, key string) (bool, error)
}
