package vectorstore

import (
	"context"

	"github.com/poiesic/textindexer/core"
)

// Index accepts batches of chunk texts with 1:1 metadata and makes them
// searchable by semantic similarity. Implementations must be thread-safe.
type Index interface {
	// AddTexts embeds every text and upserts the resulting vectors together
	// with their metadata records. texts[i] and metadatas[i] describe the
	// same chunk; the arrays must be equal length and their alignment is
	// preserved through the upsert. Chunk order within the batch is kept.
	AddTexts(ctx context.Context, texts []string, metadatas []core.ChunkMetadata) error
}
