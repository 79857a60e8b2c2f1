package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/textindexer/ai/mock"
	"github.com/poiesic/textindexer/core"
	"github.com/poiesic/textindexer/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	apiKey string
	body   map[string]any
}

func newTestServer(t *testing.T, status int) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path + "?" + r.URL.RawQuery,
			apiKey: r.Header.Get("api-key"),
			body:   body,
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, &captured
}

func testMetadata(objectID string) core.ChunkMetadata {
	return core.ChunkMetadata{
		Source:                "web",
		ObjectID:              objectID,
		OriginatingObjectID:   "ba7816bf-8f01-4fa7-b2e5-57e2b6b2c3d4",
		OriginatingObjectPath: "/share/docs/report.docx",
		OriginatingObjectPDF:  "c3d4e5f6-0000-4111-8222-333344445555",
	}
}

func TestNewIndex_Validation(t *testing.T) {
	embedder := mock.NewMockEmbedder()

	_, err := NewIndex(Config{Collection: "chunks"}, embedder)
	assert.Error(t, err)

	_, err = NewIndex(Config{URL: "http://localhost:6333"}, embedder)
	assert.Error(t, err)

	_, err = NewIndex(Config{URL: "http://localhost:6333", Collection: "chunks"}, nil)
	assert.ErrorIs(t, err, vectorstore.ErrEmbedderRequired)
}

func TestAddTexts_UpsertsAlignedPoints(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK)

	ix, err := NewIndex(Config{URL: server.URL, Collection: "chunks", APIKey: "secret"}, mock.NewMockEmbedder())
	require.NoError(t, err)

	objectID := "5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26"
	texts := []string{"first chunk", "second chunk", "third chunk"}
	metadatas := []core.ChunkMetadata{
		testMetadata(objectID),
		testMetadata(objectID),
		testMetadata(objectID),
	}

	err = ix.AddTexts(context.Background(), texts, metadatas)
	require.NoError(t, err)

	require.Len(t, *captured, 1, "the batch must be one upsert call")
	req := (*captured)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/collections/chunks/points?wait=true", req.path)
	assert.Equal(t, "secret", req.apiKey)

	points, ok := req.body["points"].([]any)
	require.True(t, ok)
	require.Len(t, points, 3)

	for i, p := range points {
		point := p.(map[string]any)
		payload := point["payload"].(map[string]any)

		assert.Equal(t, PointID(objectID, i).String(), point["id"], "point %d id", i)
		assert.Equal(t, texts[i], payload["page_content"], "point %d text misaligned", i)
		assert.Equal(t, float64(i), payload["chunk"])
		assert.Equal(t, "web", payload["source"])
		assert.Equal(t, objectID, payload["object_id"])
		assert.Equal(t, "/share/docs/report.docx", payload["originating_object_path"])

		vector := point["vector"].([]any)
		assert.Len(t, vector, 384)
	}
}

func TestAddTexts_EmptyBatchIsNoOp(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK)

	ix, err := NewIndex(Config{URL: server.URL, Collection: "chunks"}, mock.NewMockEmbedder())
	require.NoError(t, err)

	err = ix.AddTexts(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, *captured)
}

func TestAddTexts_LengthMismatch(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK)

	ix, err := NewIndex(Config{URL: server.URL, Collection: "chunks"}, mock.NewMockEmbedder())
	require.NoError(t, err)

	err = ix.AddTexts(context.Background(),
		[]string{"one", "two"},
		[]core.ChunkMetadata{testMetadata("5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26")})
	assert.ErrorIs(t, err, vectorstore.ErrLengthMismatch)
	assert.Empty(t, *captured, "misaligned batch must not reach the store")
}

func TestAddTexts_EmbedderErrorPropagates(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("quota exceeded")
	}

	ix, err := NewIndex(Config{URL: server.URL, Collection: "chunks"}, embedder)
	require.NoError(t, err)

	err = ix.AddTexts(context.Background(),
		[]string{"one"},
		[]core.ChunkMetadata{testMetadata("5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, *captured)
}

func TestAddTexts_StoreErrorPropagates(t *testing.T) {
	server, _ := newTestServer(t, http.StatusInternalServerError)

	ix, err := NewIndex(Config{URL: server.URL, Collection: "chunks"}, mock.NewMockEmbedder())
	require.NoError(t, err)

	err = ix.AddTexts(context.Background(),
		[]string{"one"},
		[]core.ChunkMetadata{testMetadata("5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26")})
	assert.Error(t, err)
}

func TestEnsureCollection(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK)

	ix, err := NewIndex(Config{URL: server.URL, Collection: "chunks"}, mock.NewMockEmbedder())
	require.NoError(t, err)

	require.NoError(t, ix.EnsureCollection(context.Background(), 384))

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/collections/chunks?", req.path)

	vectors := req.body["vectors"].(map[string]any)
	assert.Equal(t, float64(384), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])

	assert.Error(t, ix.EnsureCollection(context.Background(), 0))
}

func TestPointID_Deterministic(t *testing.T) {
	objectID := "5eb63bbb-e01e-4889-8f07-2a0a2f2b7a26"

	assert.Equal(t, PointID(objectID, 0), PointID(objectID, 0))
	assert.NotEqual(t, PointID(objectID, 0), PointID(objectID, 1))
	assert.NotEqual(t, PointID(objectID, 0), PointID("ba7816bf-8f01-4fa7-b2e5-57e2b6b2c3d4", 0))
}
