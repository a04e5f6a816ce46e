package storage

import (
	"bytes"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore keeps file bytes in the database itself. Keys are the hex
// GridFS file ids.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("uploads"))
	if err != nil {
		return nil, err
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	id, err := s.bucket.UploadFromStream(name, bytes.NewReader(data),
		options.GridFSUpload().SetMetadata(map[string]string{"contentType": contentType}))
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (s *GridFSStore) Get(ctx context.Context, key string) ([]byte, error) {
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return nil, ErrNotFound
	}
	var buf bytes.Buffer
	if _, err := s.bucket.DownloadToStream(id, &buf); err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *GridFSStore) Delete(ctx context.Context, key string) error {
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return ErrNotFound
	}
	if err := s.bucket.Delete(id); err != nil {
		if err == gridfs.ErrFileNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}
