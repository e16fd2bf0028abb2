package generate

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io/fs"
	"path"
	"time"

	"github.com/foomo/sitegen/pkg/content"
	"github.com/foomo/sitegen/pkg/fetch"
	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/pkg/sink"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

//go:embed assets
var assetsFS embed.FS

type (
	// Generator turns the fetched content of one collection into a complete,
	// link-consistent set of static pages. It is a single linear pipeline:
	// fetch index, fan out item fetches, render, emit. Any error aborts the
	// whole build, partial output is never emitted.
	Generator struct {
		l           *zap.Logger
		fetcher     *fetch.Fetcher
		title       string
		basePath    string
		concurrency int
		templates   *template.Template
	}
	Option func(*Generator)
)

// Page is one output artifact at a deterministic relative path.
type Page struct {
	Path string
	Body []byte
}

// Stats summarizes what a build emitted.
type Stats struct {
	Pages  int
	Assets int
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, fetcher *fetch.Fetcher, opts ...Option) *Generator {
	inst := &Generator{
		l:           l.Named("generate"),
		fetcher:     fetcher,
		title:       "Blog",
		basePath:    "",
		concurrency: 8,
		templates:   template.Must(template.ParseFS(templatesFS, "templates/*.gohtml")),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithTitle(v string) Option {
	return func(o *Generator) {
		o.title = v
	}
}

// WithBasePath sets the deployment path prefix folded into every generated link.
func WithBasePath(v string) Option {
	return func(o *Generator) {
		o.basePath = v
	}
}

// WithConcurrency caps the item fetch fan-out.
func WithConcurrency(v int) Option {
	return func(o *Generator) {
		if v > 0 {
			o.concurrency = v
		}
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// LinkFor returns the site-absolute path of the detail page for a slug.
// Listing cards, detail page locations and back links all derive from it.
func (g *Generator) LinkFor(slug string) string {
	return path.Join("/", g.basePath, slug) + "/"
}

// ListingPage fetches the index and renders the one listing page.
func (g *Generator) ListingPage(ctx context.Context) (*Page, error) {
	index, err := g.fetcher.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}
	return g.renderListing(index)
}

// DetailPages fetches the index and renders one detail page per slug.
func (g *Generator) DetailPages(ctx context.Context) ([]*Page, error) {
	index, err := g.fetcher.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}
	return g.renderDetails(ctx, index)
}

// Build runs the whole pipeline and emits the page set plus shared assets
// through the sink. The sink is only written to once every page has been
// rendered, so a failing fetch can never publish a partial site.
func (g *Generator) Build(ctx context.Context, s sink.Sink) (*Stats, error) {
	start := time.Now()

	stats, err := g.build(ctx, s)
	if err != nil {
		metrics.BuildsFailedCounter.WithLabelValues().Inc()
		return nil, err
	}

	metrics.BuildsCompletedCounter.WithLabelValues().Inc()
	metrics.BuildDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	return stats, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (g *Generator) build(ctx context.Context, s sink.Sink) (*Stats, error) {
	index, err := g.fetcher.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	listing, err := g.renderListing(index)
	if err != nil {
		return nil, err
	}

	details, err := g.renderDetails(ctx, index)
	if err != nil {
		return nil, err
	}

	pages := append([]*Page{listing}, details...)
	for _, page := range pages {
		g.l.Debug("writing page", zap.String("path", page.Path))
		if err := s.Write(ctx, page.Path, page.Body); err != nil {
			return nil, errors.Wrapf(err, "failed to write page %q", page.Path)
		}
	}

	assets, err := g.writeAssets(ctx, s)
	if err != nil {
		return nil, err
	}

	metrics.PagesRenderedCounter.WithLabelValues().Add(float64(len(pages)))
	return &Stats{Pages: len(pages), Assets: assets}, nil
}

func (g *Generator) renderListing(index *content.Index) (*Page, error) {
	type card struct {
		Name    string
		Summary string
		Href    string
	}
	data := struct {
		Title          string
		StylesheetHref string
		Cards          []card
	}{
		Title:          g.title,
		StylesheetHref: g.assetHref("site.css"),
	}
	for _, item := range index.Items {
		data.Cards = append(data.Cards, card{
			Name:    item.Name,
			Summary: item.Summary,
			Href:    g.LinkFor(item.Slug),
		})
	}

	buffer := &bytes.Buffer{}
	if err := g.templates.ExecuteTemplate(buffer, "listing.gohtml", data); err != nil {
		return nil, errors.Wrap(err, "failed to render listing page")
	}
	return &Page{Path: "index.html", Body: buffer.Bytes()}, nil
}

// renderDetails fetches all records concurrently and renders one page per
// slug. The fetches are unordered, the returned pages keep the index order.
func (g *Generator) renderDetails(ctx context.Context, index *content.Index) ([]*Page, error) {
	records := make([]*content.Record, len(index.Items))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, item := range index.Items {
		eg.Go(func() error {
			record, err := g.fetcher.FetchItem(egCtx, item.Slug)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	pages := make([]*Page, 0, len(records))
	for _, record := range records {
		page, err := g.renderDetail(record)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (g *Generator) renderDetail(record *content.Record) (*Page, error) {
	data := struct {
		Title          string
		StylesheetHref string
		BackHref       string
		Name           string
		Body           template.HTML
	}{
		Title:          g.title,
		StylesheetHref: g.assetHref("site.css"),
		BackHref:       g.homeHref(),
		Name:           record.Name,
		Body:           record.Body,
	}

	buffer := &bytes.Buffer{}
	if err := g.templates.ExecuteTemplate(buffer, "detail.gohtml", data); err != nil {
		return nil, errors.Wrapf(err, "failed to render detail page for %q", record.Slug)
	}
	return &Page{Path: path.Join(record.Slug, "index.html"), Body: buffer.Bytes()}, nil
}

func (g *Generator) writeAssets(ctx context.Context, s sink.Sink) (int, error) {
	var count int
	err := fs.WalkDir(assetsFS, "assets", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := assetsFS.ReadFile(p)
		if err != nil {
			return err
		}
		count++
		return s.Write(ctx, p, data)
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to write shared assets")
	}
	return count, nil
}

func (g *Generator) assetHref(name string) string {
	return path.Join("/", g.basePath, "assets", name)
}

// homeHref is the listing page location, used as the back link target.
func (g *Generator) homeHref() string {
	if g.basePath == "" {
		return "/"
	}
	return path.Join("/", g.basePath) + "/"
}
