// Package htmltext extracts readable text from HTML documents.
package htmltext

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extract returns the visible text of an HTML document, one non-empty line per
// text block. Scripts, styles and other non-content elements are dropped.
func Extract(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, iframe, svg, template").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	// Block boundaries become line breaks so sentences from different blocks
	// are not glued together.
	root.Find("p, div, li, br, h1, h2, h3, h4, h5, h6, tr, section, article").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return normalize(root.Text()), nil
}

// Title returns the document title, or "" when there is none.
func Title(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func normalize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
