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
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hibiken/asynq"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/textindexer/queue"
)

// Handler consumes index messages from the queue and dispatches their
// document events to a Processor through a worker pool.
type Handler struct {
	processor *Processor
	pool      *ants.Pool
	logger    *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler) error

// WithPoolSize sets the worker pool size for event processing within one
// message. Default is 1, which processes events sequentially in order.
func WithPoolSize(size int) HandlerOption {
	return func(h *Handler) error {
		if size < 1 {
			size = 1
		}

		if h.pool != nil {
			h.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		h.pool = pool
		return nil
	}
}

// WithHandlerLogger sets a custom logger.
// Default is slog.Default().
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// NewHandler creates a message handler around a processor.
func NewHandler(processor *Processor, opts ...HandlerOption) (*Handler, error) {
	if processor == nil {
		return nil, ErrProcessorRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		processor: processor,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(h); err != nil {
			h.Release()
			return nil, err
		}
	}

	return h, nil
}

// HandleIndexTask processes one index message. Document events are handled
// independently: a failed event is logged with its object ID and never
// prevents siblings from being attempted. The handler returns nil for any
// decodable message so it is acknowledged exactly once, regardless of
// per-event outcomes. A payload that cannot be decoded is discarded rather
// than redelivered.
func (h *Handler) HandleIndexTask(ctx context.Context, task *asynq.Task) error {
	msg, err := queue.DecodeIndexMessage(task.Payload())
	if err != nil {
		h.logger.Error("discarding malformed index message", "err", err)
		return fmt.Errorf("decoding index message: %v: %w", err, asynq.SkipRetry)
	}

	if len(msg.Data) == 0 {
		h.logger.Debug("index message carries no events", "source", msg.Metadata.Source)
		return nil
	}

	var wg sync.WaitGroup
	var failed atomic.Int64

	for i := range msg.Data {
		event := msg.Data[i]
		wg.Add(1)

		submitErr := h.pool.Submit(func() {
			defer wg.Done()
			if err := h.processor.Process(ctx, &event, msg.Metadata.Source); err != nil {
				failed.Add(1)
				h.logger.Error("document event failed",
					"object_id", event.ObjectID,
					"source", msg.Metadata.Source,
					"err", err)
			}
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			h.logger.Error("document event dispatch failed",
				"object_id", event.ObjectID, "err", submitErr)
		}
	}

	wg.Wait()

	h.logger.Info("index message processed",
		"source", msg.Metadata.Source,
		"events", len(msg.Data),
		"failed", failed.Load())
	return nil
}

// Release releases the worker pool.
// The handler should not be used after calling Release.
func (h *Handler) Release() {
	if h.pool != nil {
		h.pool.Release()
	}
}
