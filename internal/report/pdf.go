package report

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the Markdown report into a minimal PDF, preserving
// headings and paragraphs. Source lines become clickable links. This is
// intentionally simple and does not perform full Markdown layout.
func WritePDF(markdown string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasPrefix(s, "#") {
			i := 0
			for i < len(s) && s[i] == '#' {
				i++
			}
			text := strings.TrimSpace(s[i:])
			if text == "" {
				continue
			}
			size := 14.0
			if i >= 2 {
				size = 12.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		if text, url, ok := splitMarkdownLink(s); ok {
			if text != "" {
				pdf.Write(5, text+" ")
			}
			pdf.WriteLinkString(5, url, url)
			pdf.Ln(6)
			continue
		}
		pdf.MultiCell(0, 5, s, "", "L", false)
	}

	return pdf.OutputFileAndClose(outPath)
}

// splitMarkdownLink recognizes lines ending in a single [text](url) link and
// returns the leading text and the URL.
func splitMarkdownLink(s string) (lead string, url string, ok bool) {
	open := strings.Index(s, "[")
	mid := strings.Index(s, "](")
	if open < 0 || mid < open || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	url = s[mid+2 : len(s)-1]
	if url == "" || strings.ContainsAny(url, " \t") {
		return "", "", false
	}
	return strings.TrimSpace(s[:open]), url, true
}
