package mock

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Documents returns a canned collection: the index plus one record per slug,
// keyed by request path.
func Documents() map[string]string {
	return map[string]string{
		"/posts/_index.json": `{
			"total_items": 3,
			"items": [
				{"slug": "hello-world", "name": "Hello World", "summary": "The very first post."},
				{"slug": "static-sites", "name": "Static Sites", "summary": "Why static is enough."},
				{"slug": "shipping-it", "name": "Shipping It", "summary": "From draft to deploy."}
			]
		}`,
		"/posts/hello-world.json": `{
			"slug": "hello-world",
			"name": "Hello World",
			"summary": "The very first post.",
			"body": "<p>Hello from the <em>CMS</em>.</p>"
		}`,
		"/posts/static-sites.json": `{
			"slug": "static-sites",
			"name": "Static Sites",
			"summary": "Why static is enough.",
			"body": "<p>No servers were harmed.</p>"
		}`,
		"/posts/shipping-it.json": `{
			"slug": "shipping-it",
			"name": "Shipping It",
			"summary": "From draft to deploy.",
			"body": "<p>Push, build, done.</p>"
		}`,
	}
}

// GetMockServer serves the canned collection returned by Documents.
func GetMockServer(tb testing.TB) *httptest.Server {
	tb.Helper()
	return ServeDocuments(tb, Documents())
}

// ServeDocuments spins up a test server for a path-to-body document set.
// Unknown paths respond with a 404, like object storage would.
func ServeDocuments(tb testing.TB, documents map[string]string) *httptest.Server {
	tb.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		document, ok := documents[req.URL.Path]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, document)
	}))
	tb.Cleanup(server.Close)
	return server
}
