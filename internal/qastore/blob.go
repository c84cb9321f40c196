package qastore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const DefaultBucket = "qa-sets"

type BlobConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// BlobStore keeps QA JSONL artifacts in an S3 compatible bucket.
type BlobStore struct {
	client *minio.Client
	bucket string
}

func NewBlobStore(cfg BlobConfig) (*BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}

	return &BlobStore{client: client, bucket: bucket}, nil
}

func (s *BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	slog.Info("Created bucket", "bucket", s.bucket)
	return nil
}

// Put stores pairs as a JSONL object.
func (s *BlobStore) Put(ctx context.Context, object string, pairs []domain.QAPair) error {
	var buf bytes.Buffer
	if err := Write(&buf, pairs); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/x-ndjson",
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", object, err)
	}

	slog.Info("Uploaded QA set", "bucket", s.bucket, "object", object, "pairs", len(pairs))
	return nil
}

func (s *BlobStore) Get(ctx context.Context, object string, opts ...ReadOption) ([]domain.QAPair, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", object, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", object, err)
	}

	return Read(bytes.NewReader(data), opts...)
}
