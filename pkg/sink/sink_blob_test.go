package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func newTestBlobSink(t *testing.T, prefix string) (*BlobSink, *blob.Bucket) {
	t.Helper()
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { bucket.Close() })
	return NewBlobSinkFromBucket(bucket, prefix), bucket
}

func TestBlobSink_Write(t *testing.T) {
	ctx := context.Background()
	s, bucket := newTestBlobSink(t, "")

	err := s.Write(ctx, "index.html", []byte("<html>"))
	require.NoError(t, err)

	data, err := bucket.ReadAll(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("<html>"), data)
}

func TestBlobSink_Write_WithPrefix(t *testing.T) {
	ctx := context.Background()
	s, bucket := newTestBlobSink(t, "site")

	err := s.Write(ctx, "hello-world/index.html", []byte("<html>"))
	require.NoError(t, err)

	// prefix is normalized with a trailing slash
	data, err := bucket.ReadAll(ctx, "site/hello-world/index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("<html>"), data)
}

func TestBlobSink_Write_Overwrite(t *testing.T) {
	ctx := context.Background()
	s, bucket := newTestBlobSink(t, "")

	err := s.Write(ctx, "index.html", []byte("original"))
	require.NoError(t, err)
	err = s.Write(ctx, "index.html", []byte("updated"))
	require.NoError(t, err)

	data, err := bucket.ReadAll(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), data)
}
