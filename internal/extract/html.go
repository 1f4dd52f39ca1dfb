package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagRe = regexp.MustCompile(`<(?:[a-zA-Z][a-zA-Z0-9]*)(?:\s[^>]*)?/?>`)

// LooksLikeHTML reports whether s contains at least one HTML element tag.
func LooksLikeHTML(s string) bool {
	return htmlTagRe.MatchString(s)
}

// HTMLToText converts a job description pasted as HTML to plain text.
// List items become "- " bullet lines, block elements end a line and blank
// lines are dropped.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("head, script, style, noscript, nav, footer, iframe").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n- ")
		s.AppendHtml("\n")
	})
	doc.Find("p, div, section, article, h1, h2, h3, h4, h5, h6, tr, ul, ol, dt, dd").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return CleanText(strings.Join(kept, "\n")), nil
}

// JobDescription normalizes a job description that may be plain text or HTML.
func JobDescription(raw string) (string, error) {
	if LooksLikeHTML(raw) {
		return HTMLToText(raw)
	}
	return CleanText(raw), nil
}
