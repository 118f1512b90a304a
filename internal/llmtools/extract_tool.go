package llmtools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/hyperifyio/goextract/internal/ujeebu"
)

// maxReportImages caps the Images line in the formatted report.
const maxReportImages = 5

// ExtractTool exposes the Ujeebu extract API as an agent tool. It is
// synchronous and stateless beyond its client configuration.
type ExtractTool struct {
	client *ujeebu.Client
}

// NewExtractTool builds the tool, resolving the API key the same way the
// client does. A missing key is a construction-time failure.
func NewExtractTool(apiKey, baseURL string) (*ExtractTool, error) {
	c, err := ujeebu.NewClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	return &ExtractTool{client: c}, nil
}

// NewExtractToolWithClient wraps an already-constructed client.
func NewExtractToolWithClient(c *ujeebu.Client) *ExtractTool {
	return &ExtractTool{client: c}
}

func (t *ExtractTool) Name() string { return "ujeebu_extract" }

func (t *ExtractTool) Description() string {
	return "Extract the readable article (title, author, date, text) from a webpage URL. " +
		"Input is a URL, or a JSON object {url, text, html, author, pub_date, images, quick_mode} to choose fields."
}

// extractInput mirrors the structured tool input. Pointer booleans keep
// absent fields distinguishable from explicit false so each flag defaults
// independently.
type extractInput struct {
	URL       string `json:"url"`
	Text      *bool  `json:"text,omitempty"`
	HTML      *bool  `json:"html,omitempty"`
	Author    *bool  `json:"author,omitempty"`
	PubDate   *bool  `json:"pub_date,omitempty"`
	Images    *bool  `json:"images,omitempty"`
	QuickMode *bool  `json:"quick_mode,omitempty"`
}

// Invoke extracts one URL and formats the article as a multi-line report.
// Every failure path returns a descriptive string; no error escapes because
// agents consume the return value as transcript text.
func (t *ExtractTool) Invoke(ctx context.Context, input string) string {
	in := strings.TrimSpace(input)
	if in == "" {
		return `Error: no URL provided. Pass a URL, or a JSON object with a "url" field.`
	}
	target, opts := parseToolInput(in)
	if target == "" {
		return `Error: no URL provided. Pass a URL, or a JSON object with a "url" field.`
	}
	article, err := t.client.Extract(ctx, target, opts)
	if err != nil {
		return extractErrorText(err)
	}
	report := formatArticle(article, opts)
	if report == "" {
		return "Error: no article content extracted for " + target
	}
	return report
}

// parseToolInput accepts either a serialized parameter object or a bare URL.
// Non-JSON input falls back to bare-URL-with-defaults silently; agents pass
// both forms interchangeably.
func parseToolInput(in string) (string, ujeebu.Options) {
	opts := ujeebu.DefaultOptions()
	var p extractInput
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		return in, opts
	}
	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&opts.Text, p.Text)
	apply(&opts.HTML, p.HTML)
	apply(&opts.Author, p.Author)
	apply(&opts.PubDate, p.PubDate)
	apply(&opts.Images, p.Images)
	apply(&opts.QuickMode, p.QuickMode)
	return strings.TrimSpace(p.URL), opts
}

// formatArticle renders the fixed-order report, omitting empty fields.
func formatArticle(a *ujeebu.Article, opts ujeebu.Options) string {
	lines := make([]string, 0, 12)
	if a.Title != "" {
		lines = append(lines, "Title: "+a.Title)
	}
	if a.Author != "" {
		lines = append(lines, "Author: "+a.Author)
	}
	if a.PubDate != "" {
		lines = append(lines, "Published: "+a.PubDate)
	}
	if a.SiteName != "" {
		lines = append(lines, "Site: "+a.SiteName)
	}
	if a.Summary != "" {
		lines = append(lines, "", "Summary: "+a.Summary)
	}
	if opts.Text && a.Text != "" {
		lines = append(lines, "", "Content:", a.Text)
	}
	if opts.HTML && a.HTML != "" {
		lines = append(lines, "", "HTML:", a.HTML)
	}
	if opts.Images && len(a.Images) > 0 {
		imgs := a.Images
		if len(imgs) > maxReportImages {
			imgs = imgs[:maxReportImages]
		}
		lines = append(lines, "Images: "+strings.Join(imgs, ", "))
	}
	return strings.Join(lines, "\n")
}

// extractErrorText maps client failures to agent-facing text. The taxonomy
// sentinels already carry stable wording; anything else gets a generic prefix.
func extractErrorText(err error) string {
	switch {
	case errors.Is(err, ujeebu.ErrInvalidAPIKey),
		errors.Is(err, ujeebu.ErrSourceNotFound),
		errors.Is(err, ujeebu.ErrUpstreamTimeout):
		return err.Error()
	default:
		return "Error extracting content: " + err.Error()
	}
}
