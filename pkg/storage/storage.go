// Package storage defines the FileStore interface used to persist
// synthesized audio. It abstracts the underlying storage backend so that
// the same pipeline can write to local disk or to an S3-compatible object
// store.
//
// Writes are all-or-nothing: a reader never observes a partially written
// artifact.
package storage

import (
	"context"
	"io"
)

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading.
	// The caller must close the returned ReadCloser when done.
	// If the file does not exist, an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Put stores data under the named path, replacing any existing file.
	// Readers observe either the previous content or all of data.
	// Parent directories are created automatically.
	Put(ctx context.Context, path string, data []byte) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}
