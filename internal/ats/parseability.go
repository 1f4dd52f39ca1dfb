package ats

import (
	"strings"
	"unicode/utf8"
)

// ParseabilityResult is a text-volume proxy for "the file is not a scanned image".
type ParseabilityResult struct {
	Score int    `json:"score"`
	Note  string `json:"note"`
	Chars int    `json:"chars"`
}

const (
	minReadableChars    = 300
	minComfortableChars = 800
)

// ScoreParseability classifies the trimmed text length.
func ScoreParseability(resumeText string) ParseabilityResult {
	chars := utf8.RuneCountInString(strings.TrimSpace(resumeText))
	switch {
	case chars < minReadableChars:
		return ParseabilityResult{Score: 10, Note: "Very little selectable text (possible scanned PDF).", Chars: chars}
	case chars < minComfortableChars:
		return ParseabilityResult{Score: 50, Note: "Low text volume; consider a text-based PDF.", Chars: chars}
	default:
		return ParseabilityResult{Score: 100, Note: "Good amount of selectable text.", Chars: chars}
	}
}
