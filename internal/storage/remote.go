package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"storyhatch/internal/entities"
)

// RemoteTier persists each book as one JSON document in an
// S3-compatible bucket (`books/<id>.json`). It is the last tier in
// both read and write order and only exists when credentials are
// configured.
type RemoteTier struct {
	client *minio.Client
	bucket string
}

// NewRemoteTier connects to the object store and ensures the bucket
// exists.
func NewRemoteTier(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*RemoteTier, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init remote store client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &RemoteTier{client: client, bucket: bucket}, nil
}

func (r *RemoteTier) Name() string { return "remote" }

func bookKey(id string) string {
	return "books/" + id + ".json"
}

func (r *RemoteTier) TryGet(ctx context.Context, id string) (*entities.Book, bool, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, bookKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("get document: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read document: %w", err)
	}

	var book entities.Book
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, false, fmt.Errorf("decode document: %w", err)
	}
	return &book, true, nil
}

func (r *RemoteTier) TrySet(ctx context.Context, book *entities.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = r.client.PutObject(ctx, r.bucket, bookKey(book.ID),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (r *RemoteTier) TryHas(ctx context.Context, id string) (bool, error) {
	_, err := r.client.StatObject(ctx, r.bucket, bookKey(id), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat document: %w", err)
	}
	return true, nil
}

func (r *RemoteTier) TryDelete(ctx context.Context, id string) error {
	err := r.client.RemoveObject(ctx, r.bucket, bookKey(id), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
