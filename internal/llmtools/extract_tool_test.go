package llmtools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/goextract/internal/ujeebu"
)

func newTestTool(serverURL string) *ExtractTool {
	return NewExtractToolWithClient(&ujeebu.Client{
		APIKey:     "test-key",
		BaseURL:    serverURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	})
}

func serveArticle(t *testing.T, article ujeebu.Article, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		fmt.Fprintf(w, `{"article":%s}`, mustJSON(t, article))
	}))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestExtractTool_Name(t *testing.T) {
	tool := newTestTool("http://unused")
	if tool.Name() != "ujeebu_extract" {
		t.Errorf("unexpected name %q", tool.Name())
	}
	if tool.Description() == "" {
		t.Error("description must not be empty")
	}
}

func TestNewExtractTool_MissingKey(t *testing.T) {
	t.Setenv(ujeebu.APIKeyEnv, "")
	if _, err := NewExtractTool("", ""); err == nil {
		t.Fatal("expected construction error for missing API key")
	}
}

func TestInvoke_EmptyInput(t *testing.T) {
	tool := newTestTool("http://unused")
	out := tool.Invoke(context.Background(), "   ")
	if !strings.Contains(out, "Error") {
		t.Errorf("expected error text, got %q", out)
	}
}

func TestInvoke_BareURLUsesDefaults(t *testing.T) {
	server := serveArticle(t, ujeebu.Article{Title: "T"}, func(r *http.Request) {
		q := r.URL.Query()
		if q.Get("url") != "https://example.com/a" {
			t.Errorf("url = %q", q.Get("url"))
		}
		if q.Get("text") != "1" || q.Get("author") != "1" || q.Get("pub_date") != "1" {
			t.Errorf("default-on flags not encoded: %v", q)
		}
		if q.Get("html") != "0" || q.Get("images") != "0" || q.Get("quick_mode") != "0" {
			t.Errorf("default-off flags not encoded: %v", q)
		}
	})
	defer server.Close()
	out := newTestTool(server.URL).Invoke(context.Background(), "https://example.com/a")
	if !strings.Contains(out, "Title: T") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestInvoke_JSONInputOverridesFlags(t *testing.T) {
	server := serveArticle(t, ujeebu.Article{Title: "T", HTML: "<p>x</p>"}, func(r *http.Request) {
		q := r.URL.Query()
		if q.Get("html") != "1" {
			t.Errorf("html flag should be 1, got %q", q.Get("html"))
		}
		if q.Get("text") != "0" {
			t.Errorf("text flag should be 0, got %q", q.Get("text"))
		}
		if q.Get("author") != "1" {
			t.Errorf("author should keep its default, got %q", q.Get("author"))
		}
	})
	defer server.Close()
	in := `{"url":"https://example.com/a","html":true,"text":false}`
	out := newTestTool(server.URL).Invoke(context.Background(), in)
	if !strings.Contains(out, "HTML:") {
		t.Errorf("expected HTML section, got %q", out)
	}
}

func TestInvoke_JSONWithoutURL(t *testing.T) {
	tool := newTestTool("http://unused")
	out := tool.Invoke(context.Background(), `{"text":true}`)
	if !strings.Contains(out, "Error") {
		t.Errorf("expected error text, got %q", out)
	}
}

func TestInvoke_FormatOrder(t *testing.T) {
	server := serveArticle(t, ujeebu.Article{
		Title:    "T",
		Author:   "A",
		PubDate:  "D",
		SiteName: "S",
		Summary:  "Sum",
		Text:     "Body",
	}, nil)
	defer server.Close()
	out := newTestTool(server.URL).Invoke(context.Background(), "https://example.com/a")

	for _, want := range []string{"Title: T", "Author: A", "Published: D", "Site: S", "\nSummary: Sum", "\nContent:\nBody"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	ti := strings.Index(out, "Title: T")
	ai := strings.Index(out, "Author: A")
	pi := strings.Index(out, "Published: D")
	if !(ti < ai && ai < pi) {
		t.Errorf("fields out of order:\n%s", out)
	}
}

func TestInvoke_ContentGatedOnTextFlag(t *testing.T) {
	// Upstream returns text anyway; the disabled flag must still suppress it.
	server := serveArticle(t, ujeebu.Article{Title: "T", Text: "Body"}, nil)
	defer server.Close()
	out := newTestTool(server.URL).Invoke(context.Background(), `{"url":"https://example.com/a","text":false}`)
	if strings.Contains(out, "Content:") {
		t.Errorf("content should be suppressed when text flag is off:\n%s", out)
	}
}

func TestInvoke_ImagesTruncatedToFive(t *testing.T) {
	images := make([]string, 8)
	for i := range images {
		images[i] = fmt.Sprintf("https://example.com/img%d.png", i)
	}
	server := serveArticle(t, ujeebu.Article{Title: "T", Images: images}, nil)
	defer server.Close()
	out := newTestTool(server.URL).Invoke(context.Background(), `{"url":"https://example.com/a","images":true}`)

	line := ""
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "Images: ") {
			line = l
		}
	}
	if line == "" {
		t.Fatalf("no Images line in output:\n%s", out)
	}
	if got := len(strings.Split(strings.TrimPrefix(line, "Images: "), ", ")); got != 5 {
		t.Errorf("expected 5 image URLs, got %d: %s", got, line)
	}
	if strings.Contains(line, "img5.png") {
		t.Errorf("sixth image should be truncated: %s", line)
	}
}

func TestInvoke_ImagesSuppressedWithoutFlag(t *testing.T) {
	server := serveArticle(t, ujeebu.Article{Title: "T", Images: []string{"https://example.com/1.png"}}, nil)
	defer server.Close()
	out := newTestTool(server.URL).Invoke(context.Background(), "https://example.com/a")
	if strings.Contains(out, "Images:") {
		t.Errorf("images line should need the flag:\n%s", out)
	}
}

func TestInvoke_ErrorStrings(t *testing.T) {
	tests := []struct {
		status   int
		contains string
	}{
		{http.StatusUnauthorized, "Invalid API key"},
		{http.StatusNotFound, "not found"},
		{http.StatusRequestTimeout, "timeout"},
		{http.StatusBadGateway, "Error"},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		out := newTestTool(server.URL).Invoke(context.Background(), "https://example.com/a")
		server.Close()
		if !strings.Contains(out, tt.contains) {
			t.Errorf("status %d: output %q should contain %q", tt.status, out, tt.contains)
		}
	}
}

func TestInvoke_NetworkErrorAsString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	out := newTestTool(server.URL).Invoke(context.Background(), "https://example.com/a")
	if !strings.Contains(out, "Error") {
		t.Errorf("network failure should map to error text, got %q", out)
	}
}
