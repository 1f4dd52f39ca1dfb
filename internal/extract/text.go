package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	inlineSpaceRe = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	excessBlankRe = regexp.MustCompile(`\n\n\n+`)
)

// bulletGlyphs are list markers emitted by word processors and PDF exporters
// (U+F0B7 is the Symbol-font bullet). They are rewritten to "•".
const bulletGlyphs = "▪●◦‣■➢➤✓✔\uf0b7"

// CleanText cleans and normalizes extracted text while preserving line
// structure: line endings become LF, runs of spaces collapse, exotic bullet
// glyphs become "•" and blank lines are capped at one.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = excessBlankRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	content := strings.TrimSpace(inlineSpaceRe.ReplaceAllString(line, " "))
	if content == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(content)
	if strings.ContainsRune(bulletGlyphs, r) {
		return "• " + strings.TrimSpace(content[size:])
	}
	return content
}
