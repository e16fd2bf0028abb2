package sink

import (
	"context"
)

// Sink is the output destination for generated pages and assets.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Write stores a generated artifact under the given relative key.
	Write(ctx context.Context, key string, data []byte) error

	// Close releases any resources held by the sink.
	Close() error
}
