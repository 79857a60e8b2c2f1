package vectorstore

import "errors"

var (
	// ErrLengthMismatch indicates texts and metadata arrays of unequal length.
	// Rejecting the batch up front protects the 1:1 chunk/metadata alignment.
	ErrLengthMismatch = errors.New("texts and metadatas length mismatch")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
