package utils

import (
	"context"
	"time"
)

// StoredObject is a listing entry of an ObjectStorage.
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage is the blob store behind payment screenshot uploads.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	List(ctx context.Context, prefix string) ([]StoredObject, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public URL Put would return for key.
	URL(key string) string
}
