package generate_test

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/foomo/sitegen/pkg/content"
	"github.com/foomo/sitegen/pkg/fetch"
	"github.com/foomo/sitegen/pkg/generate"
	"github.com/foomo/sitegen/pkg/mock"
	"github.com/foomo/sitegen/pkg/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// memSink records writes for assertions.
type memSink struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemSink() *memSink {
	return &memSink{entries: map[string][]byte{}}
}

func (m *memSink) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
	return nil
}

func (m *memSink) Close() error {
	return nil
}

func newTestGenerator(t *testing.T, baseURL string, opts ...generate.Option) *generate.Generator {
	t.Helper()
	source, err := content.NewSource(baseURL)
	require.NoError(t, err)
	l := zaptest.NewLogger(t)
	return generate.New(l, fetch.New(l, source), opts...)
}

func TestListingPage(t *testing.T) {
	server := mock.GetMockServer(t)
	g := newTestGenerator(t, server.URL)

	page, err := g.ListingPage(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "index.html", page.Path)

	html := string(page.Body)
	assert.Equal(t, 3, strings.Count(html, `<li class="card">`))
	assert.Contains(t, html, `<a href="/hello-world/">Hello World</a>`)
	assert.Contains(t, html, "The very first post.")

	// cards keep the index order
	first := strings.Index(html, "Hello World")
	second := strings.Index(html, "Static Sites")
	third := strings.Index(html, "Shipping It")
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestListingPage_Empty(t *testing.T) {
	server := mock.ServeDocuments(t, map[string]string{
		"/posts/_index.json": `{"total_items": 0, "items": []}`,
	})
	g := newTestGenerator(t, server.URL)

	page, err := g.ListingPage(t.Context())
	require.NoError(t, err)

	html := string(page.Body)
	assert.NotContains(t, html, `<li class="card">`)
	assert.Contains(t, html, "Nothing has been published yet.")
}

func TestDetailPages(t *testing.T) {
	server := mock.GetMockServer(t)
	g := newTestGenerator(t, server.URL)

	pages, err := g.DetailPages(t.Context())
	require.NoError(t, err)
	require.Len(t, pages, 3)

	// pages come out in index order regardless of fetch completion order
	assert.Equal(t, "hello-world/index.html", pages[0].Path)
	assert.Equal(t, "static-sites/index.html", pages[1].Path)
	assert.Equal(t, "shipping-it/index.html", pages[2].Path)

	html := string(pages[0].Body)
	assert.Contains(t, html, "<h1>Hello World</h1>")
	assert.Contains(t, html, "<p>Hello from the <em>CMS</em>.</p>")
	assert.Contains(t, html, `<a href="/">Back to all posts</a>`)
}

func TestLinkFor_RoundTrip(t *testing.T) {
	server := mock.GetMockServer(t)

	for _, basePath := range []string{"", "blog"} {
		g := newTestGenerator(t, server.URL, generate.WithBasePath(basePath))

		listing, err := g.ListingPage(t.Context())
		require.NoError(t, err)
		pages, err := g.DetailPages(t.Context())
		require.NoError(t, err)

		prefix := "/"
		if basePath != "" {
			prefix = "/" + basePath + "/"
		}
		for _, page := range pages {
			slug := strings.TrimSuffix(page.Path, "/index.html")
			link := g.LinkFor(slug)

			// the listing links to the path the detail page is emitted at
			assert.Contains(t, string(listing.Body), `href="`+link+`"`)
			assert.Equal(t, prefix+slug+"/", link)
		}
	}
}

func TestBuild(t *testing.T) {
	server := mock.GetMockServer(t)
	g := newTestGenerator(t, server.URL)
	out := newMemSink()

	stats, err := g.Build(t.Context(), out)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Pages)
	assert.Equal(t, 1, stats.Assets)

	assert.Contains(t, out.entries, "index.html")
	assert.Contains(t, out.entries, "hello-world/index.html")
	assert.Contains(t, out.entries, "static-sites/index.html")
	assert.Contains(t, out.entries, "shipping-it/index.html")
	assert.Contains(t, out.entries, "assets/site.css")
}

func TestBuild_Idempotent(t *testing.T) {
	server := mock.GetMockServer(t)
	g := newTestGenerator(t, server.URL)

	first := newMemSink()
	_, err := g.Build(t.Context(), first)
	require.NoError(t, err)

	second := newMemSink()
	_, err = g.Build(t.Context(), second)
	require.NoError(t, err)

	assert.Equal(t, first.entries, second.entries)
}

func TestBuild_IndexNotFound(t *testing.T) {
	server := mock.ServeDocuments(t, map[string]string{})
	g := newTestGenerator(t, server.URL)
	out := newMemSink()

	_, err := g.Build(t.Context(), out)
	var fetchErr *content.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
	assert.Empty(t, out.entries)
}

func TestBuild_MissingItemBodyAborts(t *testing.T) {
	documents := mock.Documents()
	documents["/posts/static-sites.json"] = `{"slug": "static-sites", "name": "Static Sites", "summary": "s"}`
	server := mock.ServeDocuments(t, documents)

	g := newTestGenerator(t, server.URL)
	out := newMemSink()

	_, err := g.Build(t.Context(), out)
	var formatErr *content.FormatError
	require.ErrorAs(t, err, &formatErr)

	// no partial output, even though the other items were fine
	assert.Empty(t, out.entries)
}

func TestBuild_MissingItemDocumentAborts(t *testing.T) {
	documents := mock.Documents()
	delete(documents, "/posts/shipping-it.json")
	server := mock.ServeDocuments(t, documents)

	g := newTestGenerator(t, server.URL)
	out := newMemSink()

	_, err := g.Build(t.Context(), out)
	var fetchErr *content.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
	assert.Empty(t, out.entries)
}

func TestBuild_FilesystemSink(t *testing.T) {
	server := mock.GetMockServer(t)
	g := newTestGenerator(t, server.URL, generate.WithBasePath("blog"))

	dir := t.TempDir()
	out, err := sink.NewFilesystemSink(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Close() })

	_, err = g.Build(t.Context(), out)
	require.NoError(t, err)

	listing, err := os.ReadFile(dir + "/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(listing), `href="/blog/hello-world/"`)

	detail, err := os.ReadFile(dir + "/hello-world/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(detail), `<a href="/blog/">Back to all posts</a>`)
	assert.Contains(t, string(detail), `href="/blog/assets/site.css"`)

	_, err = os.Stat(dir + "/assets/site.css")
	require.NoError(t, err)
}

func TestBuild_ConcurrencyCap(t *testing.T) {
	server := mock.GetMockServer(t)
	g := newTestGenerator(t, server.URL, generate.WithConcurrency(1))
	out := newMemSink()

	stats, err := g.Build(t.Context(), out)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Pages)
}
