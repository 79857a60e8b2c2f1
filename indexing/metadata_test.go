package indexing

import (
	"testing"

	"github.com/poiesic/textindexer/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChunkMetadata(t *testing.T) {
	event := &core.DocumentEvent{
		ObjectID:              "5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26",
		OriginatingObjectID:   "ba7816bf-8f01-4fa7-b2e5-57e2b6b2c3d4",
		OriginatingObjectPath: "/share/docs/report.docx",
		OriginatingObjectPDF:  "c3d4e5f6-0000-4111-8222-333344445555",
	}

	metadatas := BuildChunkMetadata(event, "file_data", 4)
	require.Len(t, metadatas, 4)

	for _, md := range metadatas {
		assert.Equal(t, "file_data", md.Source)
		assert.Equal(t, event.ObjectID, md.ObjectID)
		assert.Equal(t, event.OriginatingObjectID, md.OriginatingObjectID)
		assert.Equal(t, event.OriginatingObjectPath, md.OriginatingObjectPath)
		assert.Equal(t, event.OriginatingObjectPDF, md.OriginatingObjectPDF)
	}
}

func TestBuildChunkMetadata_EmptyProvenancePassesThrough(t *testing.T) {
	event := &core.DocumentEvent{ObjectID: "5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26"}

	metadatas := BuildChunkMetadata(event, "manual", 2)
	require.Len(t, metadatas, 2)
	assert.Empty(t, metadatas[0].OriginatingObjectID)
	assert.Empty(t, metadatas[0].OriginatingObjectPath)
	assert.Empty(t, metadatas[0].OriginatingObjectPDF)
}

func TestBuildChunkMetadata_ZeroChunks(t *testing.T) {
	event := &core.DocumentEvent{ObjectID: "5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26"}
	assert.Empty(t, BuildChunkMetadata(event, "file_data", 0))
}
