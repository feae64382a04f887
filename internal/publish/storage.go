package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectStore is the durable storage surface the publisher needs. The S3
// Storage implements it; tests substitute an in-memory fake.
type ObjectStore interface {
	// UploadFile streams the file at path to key and returns its size.
	UploadFile(ctx context.Context, key, path, contentType string) (int64, error)
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// Get returns the object body, or nil (no error) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	PublicURL(key string) string
}

// Storage handles S3 uploads for episode audio, the episode catalog, and the
// feed document. Objects are publicly fetchable at a deterministic URL under
// the configured base.
type Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewStorage creates an S3 storage handler. baseURL is the public base the
// bucket is served from, without a trailing slash.
func NewStorage(client *s3.Client, bucket, baseURL string) *Storage {
	return &Storage{client: client, bucket: bucket, baseURL: baseURL}
}

// NewStorageFromEnv builds an S3 client from the default AWS credential
// chain for the given region.
func NewStorageFromEnv(ctx context.Context, region, bucket, baseURL string) (*Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewStorage(s3.NewFromConfig(cfg), bucket, baseURL), nil
}

func (s *Storage) UploadFile(ctx context.Context, key, path, contentType string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          f,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return 0, fmt.Errorf("upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return info.Size(), nil
}

func (s *Storage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

func (s *Storage) PublicURL(key string) string {
	return s.baseURL + "/" + key
}
