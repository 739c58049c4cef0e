package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ErrObjectNotFound is returned when the bucket or object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Client wraps a Cloud Storage client.
type Client struct {
	storage *storage.Client
}

// NewClient creates a Cloud Storage client using Application Default
// Credentials unless opts say otherwise. STORAGE_EMULATOR_HOST is honored.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Client{storage: c}, nil
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	return c.storage.Close()
}

// ReadObject downloads an object. A missing bucket or object yields an
// error matching ErrObjectNotFound.
func (c *Client) ReadObject(ctx context.Context, bucket, object string) ([]byte, error) {
	r, err := c.storage.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("failed to read gs://%s/%s: %w: %w", bucket, object, ErrObjectNotFound, err)
		}
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}
