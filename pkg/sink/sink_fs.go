package sink

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// FilesystemSink implements Sink on top of a local output directory.
type FilesystemSink struct {
	baseDir string
	mu      sync.Mutex
}

// NewFilesystemSink creates a new filesystem-backed sink.
func NewFilesystemSink(baseDir string) (*FilesystemSink, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FilesystemSink{baseDir: baseDir}, nil
}

func (f *FilesystemSink) Write(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (f *FilesystemSink) Close() error {
	return nil
}
