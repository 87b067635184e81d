// Package storage abstracts where uploaded image bytes live: local disk,
// an S3-compatible bucket, or Cloudinary.
package storage

import (
	"context"
	"io"
)

// ObjectStorage stores and retrieves opaque blobs. Save takes a suggested
// key and returns the reference actually stored, which callers must keep
// to delete or resolve the object later.
type ObjectStorage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ctx context.Context, ref string) (string, error)
}
