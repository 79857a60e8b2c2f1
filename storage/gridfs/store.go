package gridfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/textindexer/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultBucketName = "plaintext"

// Store implements storage.FileStore on a MongoDB GridFS bucket.
// Artifacts are addressed by their object UUID string, stored as the GridFS
// file ID so lookups are a single indexed read.
type Store struct {
	bucket *gridfs.Bucket
	logger *slog.Logger
}

var _ storage.FileStore = (*Store)(nil)

// NewStore creates a FileStore backed by a GridFS bucket on db.
// An empty bucketName selects the default "plaintext" bucket.
func NewStore(db *mongo.Database, bucketName string) (storage.FileStore, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo database required")
	}
	if bucketName == "" {
		bucketName = defaultBucketName
	}

	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, err
	}

	return &Store{
		bucket: bucket,
		logger: slog.Default().With("component", "gridfs-store"),
	}, nil
}

// Download opens the artifact stored under objectID.
func (s *Store) Download(ctx context.Context, objectID string) (io.ReadCloser, error) {
	// The v1 gridfs API predates context plumbing; honor a ctx deadline
	// through the bucket's read deadline.
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}

	stream, err := s.bucket.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, objectID)
		}
		return nil, err
	}

	s.logger.Debug("opened download stream", "object_id", objectID)
	return stream, nil
}

// Upload stores the contents of r under objectID.
func (s *Store) Upload(ctx context.Context, objectID, filename string, r io.Reader) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}

	if err := s.bucket.UploadFromStreamWithID(objectID, filename, r); err != nil {
		return err
	}

	s.logger.Debug("uploaded artifact", "object_id", objectID, "filename", filename)
	return nil
}
