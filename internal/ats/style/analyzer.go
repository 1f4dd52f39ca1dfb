// Package style is the built-in prose checker used by the grammar factor.
// It flags passive voice, doubled words, indefinite article misuse and
// sentences that read above a target grade level.
package style

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/jonathan/placify/internal/ats"
)

// DefaultTargetAge is the reader age a resume is written for.
const DefaultTargetAge = 22

// minHardSentenceWords skips short fragments such as headings.
const minHardSentenceWords = 5

// Analyzer implements ats.StyleAnalyzer with local heuristics.
type Analyzer struct {
	// TargetAge is the reader age; sentences whose grade level exceeds
	// TargetAge-5 on at least two of three formulas are flagged.
	TargetAge int
}

var (
	_ ats.StyleAnalyzer = (*Analyzer)(nil)
	_ ats.Fingerprinter = (*Analyzer)(nil)
)

// New returns an Analyzer for the default audience.
func New() *Analyzer {
	return &Analyzer{TargetAge: DefaultTargetAge}
}

// Analyze counts issues sentence by sentence, stopping early if ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, text string) (ats.StyleIssues, error) {
	var issues ats.StyleIssues
	maxGrade := float64(a.targetAge() - 5)

	for _, sentence := range Sentences(text) {
		if err := ctx.Err(); err != nil {
			return ats.StyleIssues{}, err
		}
		words := Words(sentence)
		if len(words) == 0 {
			continue
		}
		issues.Passive += countPassive(words)
		issues.Repeated += countRepeated(words)
		issues.Articles += countArticleMisuse(words)
		if len(words) >= minHardSentenceWords && isHard(words, maxGrade) {
			issues.HardSentences++
		}
	}
	return issues, nil
}

// Fingerprint identifies the settings that affect Analyze.
func (a *Analyzer) Fingerprint() string {
	return fmt.Sprintf("age=%d", a.targetAge())
}

func (a *Analyzer) targetAge() int {
	if a.TargetAge <= 0 {
		return DefaultTargetAge
	}
	return a.TargetAge
}

// Sentences splits text into sentences using Unicode sentence boundaries.
// Line breaks also end a sentence since resume lines rarely carry periods.
func Sentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		state := -1
		rest := line
		var sentence string
		for len(rest) > 0 {
			sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
			if s := strings.TrimSpace(sentence); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Words returns the word segments of s that contain a letter or digit.
func Words(s string) []string {
	var out []string
	state := -1
	rest := s
	var word string
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if hasAlnum(word) {
			out = append(out, word)
		}
	}
	return out
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func countRepeated(words []string) int {
	n := 0
	for i := 1; i < len(words); i++ {
		if !isNumeric(words[i]) && strings.EqualFold(words[i], words[i-1]) {
			n++
		}
	}
	return n
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}
