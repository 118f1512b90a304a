package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/hyperifyio/goextract/internal/htmltext"
	"github.com/hyperifyio/goextract/internal/ujeebu"
)

// Entry pairs a requested URL with its extracted article.
type Entry struct {
	RequestedURL string
	Article      *ujeebu.Article
}

// Markdown renders the extracted articles as a single Markdown report, one
// section per entry. Sections follow input order. Empty fields are omitted;
// when only HTML was extracted the body is flattened to readable text.
func Markdown(entries []Entry, opts ujeebu.Options) string {
	var b strings.Builder
	for i, e := range entries {
		if e.Article == nil {
			continue
		}
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		writeEntry(&b, e, opts)
	}
	return b.String()
}

func writeEntry(b *strings.Builder, e Entry, opts ujeebu.Options) {
	a := e.Article
	title := a.Title
	if title == "" {
		title = e.RequestedURL
	}
	fmt.Fprintf(b, "# %s\n\n", title)

	var byline []string
	if a.Author != "" {
		byline = append(byline, a.Author)
	}
	if a.PubDate != "" {
		byline = append(byline, a.PubDate)
	}
	if a.SiteName != "" {
		byline = append(byline, a.SiteName)
	}
	if len(byline) > 0 {
		fmt.Fprintf(b, "*%s*\n\n", strings.Join(byline, " — "))
	}
	if a.Language != "" {
		fmt.Fprintf(b, "Language: %s\n\n", LanguageName(a.Language))
	}
	if a.Summary != "" {
		fmt.Fprintf(b, "> %s\n\n", a.Summary)
	}

	body := bodyText(a, opts)
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	if opts.Images && len(a.Images) > 0 {
		for _, img := range a.Images {
			fmt.Fprintf(b, "![](%s)\n", img)
		}
		b.WriteString("\n")
	}
	source := a.CanonicalURL
	if source == "" {
		source = e.RequestedURL
	}
	if source != "" {
		fmt.Fprintf(b, "Source: [%s](%s)\n", source, source)
	}
}

// bodyText prefers the plain text body; when only HTML was requested it
// flattens the markup instead of emitting raw tags into the report.
func bodyText(a *ujeebu.Article, opts ujeebu.Options) string {
	if opts.Text && a.Text != "" {
		return strings.TrimSpace(a.Text)
	}
	if opts.HTML && a.HTML != "" {
		return htmltext.Flatten(a.HTML)
	}
	return ""
}

// LanguageName turns an ISO language code into its English display name,
// keeping the code in parentheses. Unparseable codes pass through verbatim.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return fmt.Sprintf("%s (%s)", name, code)
}
