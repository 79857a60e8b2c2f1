// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package qdrant implements vectorstore.Index against the Qdrant REST API.
//
// Points carry deterministic UUIDv5 identifiers derived from the object ID
// and chunk index, so re-indexing the same document overwrites its previous
// points instead of accumulating duplicates.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/textindexer/ai"
	"github.com/poiesic/textindexer/core"
	"github.com/poiesic/textindexer/vectorstore"
)

// pointNamespace is the fixed UUIDv5 namespace for chunk point IDs.
var pointNamespace = uuid.MustParse("a1f8c3d2-9b47-4e06-8c25-3f1d6b7e9a40")

// Config holds connection parameters for a Qdrant collection.
type Config struct {
	// URL is the Qdrant base URL, e.g. "http://localhost:6333".
	URL string

	// APIKey authenticates requests; empty for unsecured deployments.
	APIKey string

	// Collection is the collection points are upserted into.
	Collection string

	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration
}

// Index implements vectorstore.Index by embedding batches through an
// ai.Embedder and upserting the vectors over the Qdrant REST API.
type Index struct {
	cfg      Config
	embedder ai.Embedder
	client   *http.Client
	logger   *slog.Logger
}

var _ vectorstore.Index = (*Index)(nil)

// NewIndex creates a Qdrant-backed index.
func NewIndex(cfg Config, embedder ai.Embedder) (*Index, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection required")
	}
	if embedder == nil {
		return nil, vectorstore.ErrEmbedderRequired
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Index{
		cfg:      cfg,
		embedder: embedder,
		client:   &http.Client{Timeout: timeout},
		logger:   slog.Default().With("component", "qdrant-index"),
	}, nil
}

// EnsureCollection creates the collection with the given vector dimension if
// it does not exist. Qdrant answers 200 for an existing collection with a
// matching schema.
func (ix *Index) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid vector dimension %d", dimension)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return ix.putJSON(ctx, fmt.Sprintf("%s/collections/%s", ix.cfg.URL, ix.cfg.Collection), body)
}

// AddTexts embeds the batch and upserts one point per chunk.
func (ix *Index) AddTexts(ctx context.Context, texts []string, metadatas []core.ChunkMetadata) error {
	if len(texts) != len(metadatas) {
		return fmt.Errorf("%w: %d texts, %d metadatas",
			vectorstore.ErrLengthMismatch, len(texts), len(metadatas))
	}
	if len(texts) == 0 {
		return nil
	}

	vectors, err := ix.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d",
			len(texts), len(vectors))
	}

	points := make([]map[string]any, len(texts))
	for i := range texts {
		md := metadatas[i]
		points[i] = map[string]any{
			"id":     PointID(md.ObjectID, i).String(),
			"vector": vectors[i],
			"payload": map[string]any{
				"page_content":            texts[i],
				"chunk":                   i,
				"source":                  md.Source,
				"object_id":               md.ObjectID,
				"originating_object_id":   md.OriginatingObjectID,
				"originating_object_path": md.OriginatingObjectPath,
				"originating_object_pdf":  md.OriginatingObjectPDF,
			},
		}
	}

	body := map[string]any{"points": points}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", ix.cfg.URL, ix.cfg.Collection)
	if err := ix.putJSON(ctx, url, body); err != nil {
		return err
	}

	ix.logger.Debug("upserted points", "collection", ix.cfg.Collection, "points", len(points))
	return nil
}

// PointID derives the deterministic point identifier for a chunk.
// The same object ID and chunk index always map to the same point, which
// makes redelivered work an overwrite rather than a duplicate insert.
func PointID(objectID string, chunk int) uuid.UUID {
	return uuid.NewSHA1(pointNamespace, []byte(fmt.Sprintf("%s/%d", objectID, chunk)))
}

func (ix *Index) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if ix.cfg.APIKey != "" {
		req.Header.Set("api-key", ix.cfg.APIKey)
	}

	resp, err := ix.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}
