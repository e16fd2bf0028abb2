package sink

import (
	"context"
	"strings"

	"gocloud.dev/blob"

	// Import cloud drivers for production use
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobSink implements Sink using gocloud.dev/blob.
// This supports GCS, S3, Azure, and other cloud storage providers.
type BlobSink struct {
	bucket *blob.Bucket
	prefix string
}

// NewBlobSink creates a new blob-backed sink.
// bucketURL should be in the format "gs://bucket-name" for GCS.
// prefix is an optional path prefix for all keys.
func NewBlobSink(ctx context.Context, bucketURL, prefix string) (*BlobSink, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return NewBlobSinkFromBucket(bucket, prefix), nil
}

// NewBlobSinkFromBucket creates a new blob-backed sink from an existing bucket.
// This is useful for testing with memblob.
func NewBlobSinkFromBucket(bucket *blob.Bucket, prefix string) *BlobSink {
	// Normalize prefix: ensure trailing slash if non-empty
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}
	return &BlobSink{
		bucket: bucket,
		prefix: prefix,
	}
}

func (b *BlobSink) fullKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + key
}

func (b *BlobSink) Write(ctx context.Context, key string, data []byte) error {
	return b.bucket.WriteAll(ctx, b.fullKey(key), data, nil)
}

func (b *BlobSink) Close() error {
	return b.bucket.Close()
}
