package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("invalid file key")

// FileStorage keeps uploaded files under slash-separated keys,
// e.g. "leave/EMP_1/<uuid>.pdf".
type FileStorage interface {
	// Put writes r under key and returns the stored key
	Put(ctx context.Context, r io.Reader, key string) (string, error)

	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key; a missing file is not an error
	Delete(ctx context.Context, key string) error

	// URL is the public address the file is served from
	URL(key string) string
}
