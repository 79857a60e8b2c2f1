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


package textindexer

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/poiesic/textindexer/chunker"
	"github.com/poiesic/textindexer/core"
	"github.com/poiesic/textindexer/indexing"
	"github.com/poiesic/textindexer/ledger"
	"github.com/poiesic/textindexer/storage"
	"github.com/poiesic/textindexer/vectorstore"
)

// defaultChunkSize is the token budget per chunk when none is configured.
const defaultChunkSize = 500

// overlapDivisor derives the default chunk overlap from the chunk size.
const overlapDivisor = 15

// Indexer ties the pipeline together for embedding into a host process: it
// owns the splitter, the optional ledger, the processor and the queue handler,
// and releases them as a unit.
type Indexer struct {
	processor *indexing.Processor
	handler   *indexing.Handler
	ledger    *ledger.Store
	logger    *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*indexerOptions)

type indexerOptions struct {
	chunkSize    int
	chunkOverlap int
	poolSize     int
	ledgerPath   string
	ledgerMemory bool
}

// WithChunkSize sets the token budget per chunk. Default is 500.
// The overlap follows as chunkSize/15 unless set explicitly.
func WithChunkSize(size int) IndexerOption {
	return func(o *indexerOptions) {
		o.chunkSize = size
	}
}

// WithChunkOverlap sets the token overlap between consecutive chunks.
func WithChunkOverlap(overlap int) IndexerOption {
	return func(o *indexerOptions) {
		o.chunkOverlap = overlap
	}
}

// WithPoolSize sets how many events of one message are processed
// concurrently. Default is 1.
func WithPoolSize(size int) IndexerOption {
	return func(o *indexerOptions) {
		o.poolSize = size
	}
}

// WithLedgerPath enables the idempotency ledger at the given directory.
func WithLedgerPath(path string) IndexerOption {
	return func(o *indexerOptions) {
		o.ledgerPath = path
	}
}

// WithInMemoryLedger enables an in-memory ledger. It deduplicates redelivered
// work within the process lifetime only.
func WithInMemoryLedger() IndexerOption {
	return func(o *indexerOptions) {
		o.ledgerMemory = true
	}
}

// New creates an Indexer around a file store and a vector index.
func New(files storage.FileStore, index vectorstore.Index, opts ...IndexerOption) (*Indexer, error) {
	options := &indexerOptions{
		chunkSize:    defaultChunkSize,
		chunkOverlap: -1,
		poolSize:     1,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.chunkOverlap < 0 {
		options.chunkOverlap = options.chunkSize / overlapDivisor
	}

	splitter, err := chunker.NewSplitter(options.chunkSize, options.chunkOverlap)
	if err != nil {
		return nil, err
	}

	var store *ledger.Store
	processorOpts := []indexing.ProcessorOption{}
	if options.ledgerPath != "" || options.ledgerMemory {
		store, err = ledger.Open(options.ledgerPath, options.ledgerMemory)
		if err != nil {
			return nil, err
		}
		processorOpts = append(processorOpts, indexing.WithLedger(store))
	}

	processor, err := indexing.NewProcessor(files, index, splitter, processorOpts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	handler, err := indexing.NewHandler(processor, indexing.WithPoolSize(options.poolSize))
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	return &Indexer{
		processor: processor,
		handler:   handler,
		ledger:    store,
		logger:    slog.Default(),
	}, nil
}

// Process indexes a single document event synchronously.
func (ix *Indexer) Process(ctx context.Context, event *core.DocumentEvent, source string) error {
	return ix.processor.Process(ctx, event, source)
}

// HandleIndexTask is the asynq handler for index messages. Register it on a
// mux under queue.TypeIndexPlaintext.
func (ix *Indexer) HandleIndexTask(ctx context.Context, task *asynq.Task) error {
	return ix.handler.HandleIndexTask(ctx, task)
}

// Close releases the worker pool and the ledger.
// The indexer should not be used after calling Close.
func (ix *Indexer) Close() error {
	ix.handler.Release()

	if ix.ledger != nil {
		if err := ix.ledger.Close(); err != nil {
			ix.logger.Error("error closing ledger", "err", err)
			return err
		}
	}
	return nil
}
