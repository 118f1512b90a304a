package ujeebu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is the production extract endpoint.
const DefaultBaseURL = "https://api.ujeebu.com/extract"

// APIKeyEnv is consulted when no key is passed explicitly.
const APIKeyEnv = "UJEEBU_API_KEY"

// SignupURL is where users obtain an API key.
const SignupURL = "https://ujeebu.com"

// defaultTimeout bounds a single extract round trip.
const defaultTimeout = 60 * time.Second

// Sentinel errors for the upstream status taxonomy. Callers match with
// errors.Is; the messages are stable because agent-facing surfaces embed them.
var (
	ErrInvalidAPIKey   = errors.New("ujeebu: Invalid API key")
	ErrSourceNotFound  = errors.New("ujeebu: source URL not found or not extractable")
	ErrUpstreamTimeout = errors.New("ujeebu: upstream extraction timeout")
)

// Article is the parsed response for one extracted page. Every field is
// optional; the API omits absent ones. It is a value object owned by the
// caller that issued the request.
type Article struct {
	Title        string   `json:"title,omitempty"`
	Text         string   `json:"text,omitempty"`
	HTML         string   `json:"html,omitempty"`
	Author       string   `json:"author,omitempty"`
	PubDate      string   `json:"pub_date,omitempty"`
	ModifiedDate string   `json:"modified_date,omitempty"`
	URL          string   `json:"url,omitempty"`
	CanonicalURL string   `json:"canonical_url,omitempty"`
	SiteName     string   `json:"site_name,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Language     string   `json:"language,omitempty"`
	Image        string   `json:"image,omitempty"`
	Images       []string `json:"images,omitempty"`
	Favicon      string   `json:"favicon,omitempty"`
}

// Options selects which article parts the upstream extracts. Each flag is
// integer-encoded as 0/1 on the wire.
type Options struct {
	Text      bool
	HTML      bool
	Author    bool
	PubDate   bool
	Images    bool
	QuickMode bool
}

// DefaultOptions returns the stock flag set: text, author and pub_date on,
// html, images and quick_mode off.
func DefaultOptions() Options {
	return Options{Text: true, Author: true, PubDate: true}
}

// Client issues single-URL extract requests. Each request is a stateless
// round trip; the client holds only configuration.
type Client struct {
	APIKey     string
	BaseURL    string // overridable for testing
	HTTPClient *http.Client
}

// NewClient resolves the API key (explicit value first, then UJEEBU_API_KEY)
// and fails fast when none is available. Components wrapping the client check
// the key once here, never per call.
func NewClient(apiKey, baseURL string) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}
	if key == "" {
		return nil, fmt.Errorf("ujeebu: missing API key: pass one explicitly or set %s (sign up at %s)", APIKeyEnv, SignupURL)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		APIKey:  key,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

// extractEnvelope is the JSON wrapper the API returns around the article.
type extractEnvelope struct {
	Article *Article `json:"article"`
}

// Extract fetches one URL through the extract API. The boolean options are
// sent as 0/1 query parameters and the key travels in the ApiKey header.
func (c *Client) Extract(ctx context.Context, target string, opts Options) (*Article, error) {
	if strings.TrimSpace(target) == "" {
		return nil, errors.New("ujeebu: missing target URL")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("ujeebu: parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("url", target)
	q.Set("text", boolFlag(opts.Text))
	q.Set("html", boolFlag(opts.HTML))
	q.Set("author", boolFlag(opts.Author))
	q.Set("pub_date", boolFlag(opts.PubDate))
	q.Set("images", boolFlag(opts.Images))
	q.Set("quick_mode", boolFlag(opts.QuickMode))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ujeebu: new request: %w", err)
	}
	req.Header.Set("ApiKey", c.APIKey)

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ujeebu: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ujeebu: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w (check your credentials or sign up at %s)", ErrInvalidAPIKey, SignupURL)
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, target)
		case http.StatusRequestTimeout:
			return nil, fmt.Errorf("%w: %s", ErrUpstreamTimeout, target)
		default:
			return nil, fmt.Errorf("ujeebu: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}

	var env extractEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("ujeebu: parse response: %w", err)
	}
	if env.Article == nil {
		return nil, fmt.Errorf("ujeebu: response for %s carries no article", target)
	}
	return env.Article, nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
