package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/foomo/sitegen/pkg/content"
	"github.com/foomo/sitegen/pkg/metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	indexDocument = "index"
	itemDocument  = "item"
)

type (
	// Fetcher retrieves content documents from a single source. Every call
	// performs exactly one GET, there is no caching and no retry: a failed
	// fetch is a failed build.
	Fetcher struct {
		l          *zap.Logger
		source     content.Source
		collection string
		httpClient *http.Client
	}
	Option func(*Fetcher)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, source content.Source, opts ...Option) *Fetcher {
	inst := &Fetcher{
		l:          l.Named("fetch"),
		source:     source,
		collection: "posts",
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Fetcher) {
		o.httpClient = v
	}
}

func WithCollection(v string) Option {
	return func(o *Fetcher) {
		o.collection = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// FetchIndex retrieves and decodes the collection index document. The order
// of the returned items is the display order.
func (f *Fetcher) FetchIndex(ctx context.Context) (*content.Index, error) {
	addr := f.source.Resolve(f.collection + "/_index.json")
	data, err := f.get(ctx, indexDocument, addr)
	if err != nil {
		return nil, err
	}

	if jsoniter.Get(data, "items").ValueType() != jsoniter.ArrayValue {
		return nil, &content.FormatError{URL: addr, Message: "expected an object with an array-valued \"items\" field"}
	}

	index := &content.Index{}
	if err := json.Unmarshal(data, index); err != nil {
		return nil, &content.FormatError{URL: addr, Message: err.Error()}
	}
	if err := index.Validate(); err != nil {
		return nil, &content.FormatError{URL: addr, Message: err.Error()}
	}

	// the declared count is informational only, a divergence is the
	// producer's inconsistency and must not break the build
	if index.TotalItems != len(index.Items) {
		f.l.Warn("index item count diverges from its item list",
			zap.Int("total_items", index.TotalItems),
			zap.Int("items", len(index.Items)),
		)
	}

	f.l.Debug("fetched index", zap.String("url", addr), zap.Int("items", len(index.Items)))
	return index, nil
}

// FetchItem retrieves and decodes the full record for one slug.
func (f *Fetcher) FetchItem(ctx context.Context, slug string) (*content.Record, error) {
	addr := f.source.Resolve(f.collection + "/" + slug + ".json")
	data, err := f.get(ctx, itemDocument, addr)
	if err != nil {
		return nil, err
	}

	record := &content.Record{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, &content.FormatError{URL: addr, Message: err.Error()}
	}
	if err := record.Validate(); err != nil {
		return nil, &content.FormatError{URL: addr, Message: err.Error()}
	}
	if record.Slug != slug {
		return nil, &content.FormatError{URL: addr, Message: "record slug \"" + record.Slug + "\" does not match requested slug \"" + slug + "\""}
	}

	f.l.Debug("fetched item", zap.String("url", addr), zap.String("slug", slug))
	return record, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (f *Fetcher) get(ctx context.Context, document, addr string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create content request")
	}
	response, err := f.httpClient.Do(req)
	if err != nil {
		metrics.FetchCounter.WithLabelValues(document, "error").Inc()
		return nil, errors.Wrap(err, "failed to get content document")
	}
	defer response.Body.Close()

	metrics.FetchCounter.WithLabelValues(document, response.Status).Inc()
	metrics.FetchDuration.WithLabelValues(document).Observe(time.Since(start).Seconds())

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, &content.FetchError{
			URL:     addr,
			Status:  response.StatusCode,
			Message: response.Status,
		}
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read content response")
	}
	return data, nil
}
