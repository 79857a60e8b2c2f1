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


package indexing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/textindexer/chunker"
	"github.com/poiesic/textindexer/core"
	"github.com/poiesic/textindexer/storage"
	"github.com/poiesic/textindexer/vectorstore"
)

// Ledger records completed document events so redelivered work can be
// skipped. Implementations must be thread-safe.
type Ledger interface {
	Seen(id core.ID) (bool, error)
	Mark(id core.ID, chunkCount int) error
}

// Processor indexes one document event at a time: retrieve, chunk, embed,
// upsert. Safe for concurrent use.
type Processor struct {
	files    storage.FileStore
	index    vectorstore.Index
	splitter *chunker.Splitter
	ledger   Ledger
	logger   *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor) error

// WithLedger attaches an idempotency ledger. Without one every delivery is
// processed; deterministic point IDs keep that correct, just not cheap.
func WithLedger(ledger Ledger) ProcessorOption {
	return func(p *Processor) error {
		p.ledger = ledger
		return nil
	}
}

// WithProcessorLogger sets a custom logger.
// Default is slog.Default().
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a document processor.
func NewProcessor(
	files storage.FileStore,
	index vectorstore.Index,
	splitter *chunker.Splitter,
	opts ...ProcessorOption,
) (*Processor, error) {
	if files == nil {
		return nil, ErrFileStoreRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}

	p := &Processor{
		files:    files,
		index:    index,
		splitter: splitter,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Process indexes a single document event. It returns nil both on success and
// for documents that legitimately produce no chunks (empty or whitespace-only
// text). Failures come back classified as ErrInvalidEvent, ErrRetrieval or
// ErrIndexing.
func (p *Processor) Process(ctx context.Context, event *core.DocumentEvent, source string) error {
	if err := core.ValidateDocumentEvent(event); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	fingerprint := event.Fingerprint(source)
	if p.ledger != nil {
		seen, err := p.ledger.Seen(fingerprint)
		if err != nil {
			// The ledger is an optimization. A read failure must not fail the
			// document, so log and process anyway.
			p.logger.Warn("ledger lookup failed", "object_id", event.ObjectID, "err", err)
		} else if seen {
			p.logger.Debug("skipping already indexed document", "object_id", event.ObjectID)
			return nil
		}
	}

	reader, err := p.files.Download(ctx, event.ObjectID)
	if err != nil {
		return fmt.Errorf("%w: downloading %s: %w", ErrRetrieval, event.ObjectID, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrRetrieval, event.ObjectID, err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		p.logger.Info("document has no indexable text", "object_id", event.ObjectID)
		return nil
	}

	chunks := p.splitter.Split(text)
	if len(chunks) == 0 {
		return nil
	}

	metadatas := BuildChunkMetadata(event, source, len(chunks))

	start := time.Now()
	if err := p.index.AddTexts(ctx, chunks, metadatas); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIndexing, event.ObjectID, err)
	}

	p.logger.Info("indexed document",
		"object_id", event.ObjectID,
		"chunks", len(chunks),
		"elapsed", time.Since(start))

	if p.ledger != nil {
		if err := p.ledger.Mark(fingerprint, len(chunks)); err != nil {
			p.logger.Warn("ledger mark failed", "object_id", event.ObjectID, "err", err)
		}
	}

	return nil
}
