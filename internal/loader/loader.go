package loader

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goextract/internal/ujeebu"
)

// Document is one loaded page ready for indexing/retrieval: a content string
// plus string-keyed metadata (string or string-list values).
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// Loader turns a list of URLs into documents through the extract API. All
// configuration is fixed at construction; Load carries no state beyond the
// in-flight requests.
type Loader struct {
	client *ujeebu.Client
	opts   ujeebu.Options
}

// Config fixes the loader behavior. Options nil means DefaultOptions so each
// flag keeps its independent default; pass an explicit zero Options to turn
// everything off.
type Config struct {
	APIKey  string
	BaseURL string
	Options *ujeebu.Options
}

// New builds a Loader. A missing API key (explicit and env) is a
// construction-time failure.
func New(cfg Config) (*Loader, error) {
	c, err := ujeebu.NewClient(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	opts := ujeebu.DefaultOptions()
	if cfg.Options != nil {
		opts = *cfg.Options
	}
	return &Loader{client: c, opts: opts}, nil
}

// NewWithClient wraps an already-constructed client with the given options.
func NewWithClient(c *ujeebu.Client, opts ujeebu.Options) *Loader {
	return &Loader{client: c, opts: opts}
}

// loadResult pairs one requested URL with its outcome.
type loadResult struct {
	url     string
	article *ujeebu.Article
	err     error
}

// Load fans out one extraction request per URL, waits for all of them, and
// returns a document per success. A failing URL is logged and omitted; it
// never aborts or blocks the rest. Result order follows completion order,
// not input order.
func (l *Loader) Load(ctx context.Context, urls []string) []Document {
	if len(urls) == 0 {
		return nil
	}

	results := make(chan loadResult, len(urls))

	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			article, err := l.client.Extract(ctx, u, l.opts)
			results <- loadResult{url: u, article: article, err: err}
		}(u)
	}

	// Close the channel once every goroutine finishes.
	go func() {
		wg.Wait()
		close(results)
	}()

	docs := make([]Document, 0, len(urls))
	for res := range results {
		if res.err != nil {
			log.Warn().Str("url", res.url).Err(res.err).Msg("skipping URL: extraction failed")
			continue
		}
		docs = append(docs, l.document(res.url, res.article))
	}
	log.Debug().Int("requested", len(urls)).Int("loaded", len(docs)).Msg("batch load complete")
	return docs
}

// document maps one article into a (content, metadata) pair. The content
// sections are gated strictly on the configured flags even when the upstream
// returned the fields anyway.
func (l *Loader) document(requested string, a *ujeebu.Article) Document {
	parts := make([]string, 0, 2)
	if l.opts.Text && a.Text != "" {
		parts = append(parts, a.Text)
	}
	if l.opts.HTML && a.HTML != "" {
		parts = append(parts, "HTML: "+a.HTML)
	}

	meta := map[string]any{
		"source":        requested,
		"url":           firstNonEmpty(a.URL, requested),
		"canonical_url": firstNonEmpty(a.CanonicalURL, requested),
	}
	if a.Title != "" {
		meta["title"] = a.Title
	}
	if l.opts.Author && a.Author != "" {
		meta["author"] = a.Author
	}
	if l.opts.PubDate && a.PubDate != "" {
		meta["pub_date"] = a.PubDate
	}
	if a.Language != "" {
		meta["language"] = a.Language
	}
	if a.SiteName != "" {
		meta["site_name"] = a.SiteName
	}
	if a.Summary != "" {
		meta["summary"] = a.Summary
	}
	if a.Image != "" {
		meta["image"] = a.Image
	}
	if l.opts.Images && len(a.Images) > 0 {
		meta["images"] = append([]string(nil), a.Images...)
	}

	return Document{Content: strings.Join(parts, "\n\n"), Metadata: meta}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
