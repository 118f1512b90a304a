package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/goextract/internal/ujeebu"
)

func TestMarkdown_SingleEntry(t *testing.T) {
	entries := []Entry{{
		RequestedURL: "https://x/a",
		Article: &ujeebu.Article{
			Title:    "A Title",
			Author:   "Jane",
			PubDate:  "2024-05-01",
			SiteName: "X",
			Summary:  "Short summary.",
			Language: "en",
			Text:     "Body text here.",
		},
	}}
	md := Markdown(entries, ujeebu.DefaultOptions())

	for _, want := range []string{
		"# A Title",
		"*Jane — 2024-05-01 — X*",
		"Language: English (en)",
		"> Short summary.",
		"Body text here.",
		"Source: [https://x/a](https://x/a)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_HTMLOnlyFlattened(t *testing.T) {
	entries := []Entry{{
		RequestedURL: "https://x/a",
		Article:      &ujeebu.Article{Title: "A", HTML: "<p>From <b>markup</b>.</p>"},
	}}
	md := Markdown(entries, ujeebu.Options{HTML: true})
	if strings.Contains(md, "<p>") {
		t.Errorf("raw markup leaked into report:\n%s", md)
	}
	if !strings.Contains(md, "From markup.") {
		t.Errorf("flattened body missing:\n%s", md)
	}
}

func TestMarkdown_TitleFallsBackToURL(t *testing.T) {
	entries := []Entry{{RequestedURL: "https://x/a", Article: &ujeebu.Article{Text: "b"}}}
	md := Markdown(entries, ujeebu.DefaultOptions())
	if !strings.Contains(md, "# https://x/a") {
		t.Errorf("expected URL heading:\n%s", md)
	}
}

func TestMarkdown_MultipleEntriesSeparated(t *testing.T) {
	entries := []Entry{
		{RequestedURL: "https://x/a", Article: &ujeebu.Article{Title: "A"}},
		{RequestedURL: "https://x/b", Article: &ujeebu.Article{Title: "B"}},
	}
	md := Markdown(entries, ujeebu.DefaultOptions())
	if !strings.Contains(md, "\n---\n") {
		t.Errorf("entries should be separated:\n%s", md)
	}
	if strings.Index(md, "# A") > strings.Index(md, "# B") {
		t.Errorf("entries out of order:\n%s", md)
	}
}

func TestMarkdown_CanonicalPreferredForSource(t *testing.T) {
	entries := []Entry{{
		RequestedURL: "https://x/a",
		Article:      &ujeebu.Article{Title: "A", CanonicalURL: "https://x/canonical"},
	}}
	md := Markdown(entries, ujeebu.DefaultOptions())
	if !strings.Contains(md, "Source: [https://x/canonical](https://x/canonical)") {
		t.Errorf("canonical URL should win:\n%s", md)
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "English (en)"},
		{"fi", "Finnish (fi)"},
		{"???", "???"},
	}
	for _, tt := range tests {
		if got := LanguageName(tt.code); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestSplitMarkdownLink(t *testing.T) {
	lead, url, ok := splitMarkdownLink("Source: [https://x/a](https://x/a)")
	if !ok || lead != "Source:" || url != "https://x/a" {
		t.Errorf("splitMarkdownLink = %q, %q, %v", lead, url, ok)
	}
	if _, _, ok := splitMarkdownLink("no link here"); ok {
		t.Error("plain text should not parse as link")
	}
}

func TestWritePDF(t *testing.T) {
	md := "# Heading\n\nSome paragraph text.\n\nSource: [https://x/a](https://x/a)\n"
	out := filepath.Join(t.TempDir(), "report.pdf")
	if err := WritePDF(md, out); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if len(b) == 0 || !strings.HasPrefix(string(b), "%PDF") {
		t.Errorf("output does not look like a PDF (%d bytes)", len(b))
	}
}
