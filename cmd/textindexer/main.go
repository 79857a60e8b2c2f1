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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poiesic/textindexer"
	"github.com/poiesic/textindexer/ai"
	"github.com/poiesic/textindexer/ai/openai"
	"github.com/poiesic/textindexer/core"
	"github.com/poiesic/textindexer/queue"
	"github.com/poiesic/textindexer/storage/gridfs"
	"github.com/poiesic/textindexer/vectorstore/qdrant"
)

func main() {
	// Missing .env is fine; flags and real env vars still apply.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "textindexer",
		Usage: "Chunk, embed and index plaintext documents for semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"TEXTINDEXER_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the indexing worker, consuming index messages from the queue",
				Action: serveCommand,
				Flags: append(append(redisFlags(), mongoFlags()...),
					&cli.StringFlag{
						Name:    "qdrant-url",
						Usage:   "Qdrant base URL",
						Value:   "http://localhost:6333",
						EnvVars: []string{"QDRANT_URL"},
					},
					&cli.StringFlag{
						Name:    "qdrant-api-key",
						Usage:   "Qdrant API key",
						EnvVars: []string{"QDRANT_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "qdrant-collection",
						Usage:   "Qdrant collection for document chunks",
						Value:   "text_chunks",
						EnvVars: []string{"QDRANT_COLLECTION"},
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"EMBEDDING_HOST"},
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						Value:   "embeddinggemma",
						EnvVars: []string{"EMBEDDING_MODEL"},
					},
					&cli.StringFlag{
						Name:    "embedding-api-key",
						Usage:   "Embedding service API key",
						EnvVars: []string{"EMBEDDING_API_KEY"},
					},
					&cli.IntFlag{
						Name:    "chunk-size",
						Usage:   "Maximum chunk size in tokens",
						Value:   500,
						EnvVars: []string{"TEXTINDEXER_CHUNK_SIZE"},
					},
					&cli.IntFlag{
						Name:    "concurrency",
						Usage:   "Number of queue messages processed concurrently",
						Value:   10,
						EnvVars: []string{"TEXTINDEXER_CONCURRENCY"},
					},
					&cli.IntFlag{
						Name:    "pool-size",
						Usage:   "Events processed concurrently within one message",
						Value:   1,
						EnvVars: []string{"TEXTINDEXER_POOL_SIZE"},
					},
					&cli.StringFlag{
						Name:    "ledger-path",
						Usage:   "Directory for the idempotency ledger (empty disables it)",
						EnvVars: []string{"TEXTINDEXER_LEDGER_PATH"},
					},
				),
			},
			{
				Name:   "enqueue",
				Usage:  "Publish an index message for existing plaintext objects",
				Action: enqueueCommand,
				Flags: append(redisFlags(),
					&cli.StringSliceFlag{
						Name:     "object-id",
						Usage:    "Object ID of a stored plaintext artifact (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source workflow label attached to the message",
						Value: "manual",
					},
				),
			},
			{
				Name:   "upload",
				Usage:  "Store a local plaintext file and optionally enqueue it for indexing",
				Action: uploadCommand,
				Flags: append(append(redisFlags(), mongoFlags()...),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the plaintext file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "object-id",
						Usage: "Object ID to store under (defaults to a fresh UUID)",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source workflow label used when enqueueing",
						Value: "manual",
					},
					&cli.BoolFlag{
						Name:  "enqueue",
						Usage: "Enqueue an index message after uploading",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func redisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis address for the task queue",
			Value:   "localhost:6379",
			EnvVars: []string{"REDIS_ADDR"},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{"REDIS_PASSWORD"},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			Value:   0,
			EnvVars: []string{"REDIS_DB"},
		},
	}
}

func mongoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "mongo-uri",
			Usage:   "MongoDB connection URI",
			Value:   "mongodb://localhost:27017",
			EnvVars: []string{"MONGO_URI"},
		},
		&cli.StringFlag{
			Name:    "mongo-db",
			Usage:   "MongoDB database holding the plaintext bucket",
			Value:   "documents",
			EnvVars: []string{"MONGO_DB"},
		},
		&cli.StringFlag{
			Name:    "gridfs-bucket",
			Usage:   "GridFS bucket name for plaintext artifacts",
			Value:   "plaintext",
			EnvVars: []string{"GRIDFS_BUCKET"},
		},
	}
}

func redisOpt(c *cli.Context) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.String("redis-addr"),
		Password: c.String("redis-password"),
		DB:       c.Int("redis-db"),
	}
}

func connectMongo(ctx context.Context, c *cli.Context) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(c.String("mongo-uri")))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

func serveCommand(c *cli.Context) error {
	ctx := context.Background()
	logger := slog.Default()

	chunkSize := c.Int("chunk-size")
	if chunkSize <= 0 {
		return fmt.Errorf("chunk-size must be greater than 0")
	}

	mongoClient, err := connectMongo(ctx, c)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	files, err := gridfs.NewStore(mongoClient.Database(c.String("mongo-db")), c.String("gridfs-bucket"))
	if err != nil {
		return fmt.Errorf("creating file store: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("embedding-api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid embedding configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	index, err := qdrant.NewIndex(qdrant.Config{
		URL:        c.String("qdrant-url"),
		APIKey:     c.String("qdrant-api-key"),
		Collection: c.String("qdrant-collection"),
	}, embedder)
	if err != nil {
		return fmt.Errorf("creating vector index: %w", err)
	}

	// Probe the model once to learn the vector dimension, then make sure the
	// collection exists before any message arrives.
	probe, err := embedder.EmbedText(ctx, "dimension probe")
	if err != nil {
		return fmt.Errorf("probing embedding model: %w", err)
	}
	if err := index.EnsureCollection(ctx, len(probe)); err != nil {
		return fmt.Errorf("ensuring collection: %w", err)
	}

	indexerOpts := []textindexer.IndexerOption{
		textindexer.WithChunkSize(chunkSize),
		textindexer.WithPoolSize(c.Int("pool-size")),
	}
	if path := c.String("ledger-path"); path != "" {
		indexerOpts = append(indexerOpts, textindexer.WithLedgerPath(path))
	}

	indexer, err := textindexer.New(files, index, indexerOpts...)
	if err != nil {
		return fmt.Errorf("creating indexer: %w", err)
	}
	defer indexer.Close()

	server := asynq.NewServer(redisOpt(c), asynq.Config{
		Concurrency: c.Int("concurrency"),
		Queues: map[string]int{
			queue.QueueDefault: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("task failed", "type", task.Type(), "err", err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeIndexPlaintext, indexer.HandleIndexTask)

	logger.Info("starting indexing worker",
		"redis", c.String("redis-addr"),
		"collection", c.String("qdrant-collection"),
		"model", aiConfig.EmbeddingModel,
		"chunk_size", chunkSize,
		"dimension", len(probe),
		"concurrency", c.Int("concurrency"))

	if err := server.Run(mux); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}
	return nil
}

func enqueueCommand(c *cli.Context) error {
	objectIDs := c.StringSlice("object-id")
	events := make([]core.DocumentEvent, len(objectIDs))
	for i, id := range objectIDs {
		events[i] = core.DocumentEvent{ObjectID: id}
		if err := core.ValidateDocumentEvent(&events[i]); err != nil {
			return err
		}
	}

	return enqueueEvents(c, c.String("source"), events)
}

func uploadCommand(c *cli.Context) error {
	ctx := context.Background()

	objectID := c.String("object-id")
	if objectID == "" {
		objectID = uuid.NewString()
	} else if _, err := uuid.Parse(objectID); err != nil {
		return fmt.Errorf("%w: %q", core.ErrInvalidObjectID, objectID)
	}

	path := c.String("file")
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mongoClient, err := connectMongo(ctx, c)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	files, err := gridfs.NewStore(mongoClient.Database(c.String("mongo-db")), c.String("gridfs-bucket"))
	if err != nil {
		return fmt.Errorf("creating file store: %w", err)
	}

	if err := files.Upload(ctx, objectID, filepath.Base(path), f); err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}

	fmt.Println(objectID)

	if !c.Bool("enqueue") {
		return nil
	}
	return enqueueEvents(c, c.String("source"), []core.DocumentEvent{{ObjectID: objectID}})
}

func enqueueEvents(c *cli.Context, source string, events []core.DocumentEvent) error {
	task, err := queue.NewIndexTask(&core.IndexMessage{
		Metadata: core.MessageMetadata{Source: source},
		Data:     events,
	})
	if err != nil {
		return err
	}

	client := asynq.NewClient(redisOpt(c))
	defer client.Close()

	info, err := client.Enqueue(task)
	if err != nil {
		return fmt.Errorf("enqueueing index message: %w", err)
	}

	slog.Info("enqueued index message",
		"task_id", info.ID,
		"queue", info.Queue,
		"events", len(events),
		"source", source)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
