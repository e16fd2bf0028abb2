package content

import "fmt"

// FetchError reports a non-success HTTP response from the content source.
type FetchError struct {
	URL     string
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s (status %d)", e.URL, e.Message, e.Status)
}

// FormatError reports a document that decoded as JSON but does not have the
// required shape.
type FormatError struct {
	URL     string
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed document %s: %s", e.URL, e.Message)
}
