package content

import (
	"html/template"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Summary is the partial record an index document carries for one item.
// It is sufficient to render a listing card and to link to the detail page.
type Summary struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Record is the full document for one item. Body holds pre-rendered markup
// published by the CMS and is treated as trusted HTML.
type Record struct {
	Slug    string        `json:"slug"`
	Name    string        `json:"name"`
	Summary string        `json:"summary"`
	Body    template.HTML `json:"body"`
}

// Index enumerates all items of a collection. The order of Items is the
// display order and must be preserved by everything downstream.
type Index struct {
	TotalItems int       `json:"total_items"`
	Items      []Summary `json:"items"`
}

// Validate checks that every summary carries the slug it will be fetched
// and linked by. All offending entries are reported at once.
func (i *Index) Validate() error {
	var err error
	for n, item := range i.Items {
		if item.Slug == "" {
			err = multierr.Append(err, errors.Errorf("index item %d has an empty slug", n))
		}
	}
	return err
}

// Validate checks the fields a detail page cannot be rendered without.
func (r *Record) Validate() error {
	var err error
	if r.Slug == "" {
		err = multierr.Append(err, errors.New("missing required field \"slug\""))
	}
	if r.Name == "" {
		err = multierr.Append(err, errors.New("missing required field \"name\""))
	}
	if r.Body == "" {
		err = multierr.Append(err, errors.New("missing required field \"body\""))
	}
	return err
}
