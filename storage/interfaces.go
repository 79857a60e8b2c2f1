package storage

import (
	"context"
	"io"
)

// FileStore provides access to stored plaintext artifacts by object ID.
// Implementations must be thread-safe and support concurrent access.
type FileStore interface {
	// Download opens the artifact identified by objectID for reading.
	// The caller must close the returned reader on every exit path.
	// Returns ErrObjectNotFound if no artifact exists under objectID.
	Download(ctx context.Context, objectID string) (io.ReadCloser, error)

	// Upload stores the contents of r as the artifact identified by objectID.
	// filename is descriptive only; the artifact is addressed by objectID.
	Upload(ctx context.Context, objectID, filename string, r io.Reader) error
}
