package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("stored file not found")

// Store is the capability interface for document bytes. Put returns a
// backend-specific handle that Get and Delete accept back.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Config selects and parameterizes a backend.
type Config struct {
	Backend   string
	LocalPath string
	Bucket    string
	Region    string
}

// New builds the Store named by cfg.Backend: "local", "gridfs" or "s3".
func New(ctx context.Context, cfg Config, db *mongo.Database) (Store, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStore(cfg.LocalPath)
	case "gridfs":
		return NewGridFSStore(db)
	case "s3":
		return NewS3Store(ctx, cfg.Region, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
