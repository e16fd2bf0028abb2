package content

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ErrSourceMissing signals that no content source URL was configured at all.
// This is an operator error and must abort the build before any network call.
var ErrSourceMissing = errors.New("content source url must not be empty")

// Source is the base URL all content documents are resolved against.
// It is constructed once at the top of a build and shared read-only
// between the fetcher and the generator.
type Source struct {
	base string
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewSource validates the raw base URL and strips any trailing slash, so
// resolved document addresses never contain doubled separators regardless
// of how the value was entered.
func NewSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, ErrSourceMissing
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, errors.Wrap(err, "invalid content source url")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Source{}, errors.Errorf("content source url %q must be a http(s) url with a host", raw)
	}
	return Source{base: strings.TrimRight(raw, "/")}, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Resolve joins a relative document path onto the base URL.
func (s Source) Resolve(relative string) string {
	return s.base + "/" + strings.TrimLeft(relative, "/")
}

func (s Source) String() string {
	return s.base
}
