package ats

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"
)

// StyleAnalyzer counts style and readability problems in prose.
type StyleAnalyzer interface {
	Analyze(ctx context.Context, text string) (StyleIssues, error)
}

// StyleIssues holds per-category issue counts.
type StyleIssues struct {
	Passive       int `json:"passive"`
	Repeated      int `json:"repeated"`
	Articles      int `json:"articles"`
	HardSentences int `json:"hardSentences"`
}

// Total sums all categories.
func (s StyleIssues) Total() int {
	return s.Passive + s.Repeated + s.Articles + s.HardSentences
}

// GrammarResult converts issue density into a score.
type GrammarResult struct {
	Score       int         `json:"score"`
	Issues      StyleIssues `json:"issues"`
	TotalIssues int         `json:"totalIssues"`
}

// ScoreGrammar runs the analyzer and charges 15 points per issue per 1000 characters.
func ScoreGrammar(ctx context.Context, analyzer StyleAnalyzer, resumeText string) (GrammarResult, error) {
	issues, err := analyzer.Analyze(ctx, resumeText)
	if err != nil {
		return GrammarResult{}, fmt.Errorf("style analysis failed: %w", err)
	}

	total := issues.Total()
	length := max(1, utf8.RuneCountInString(resumeText))
	perK := float64(total) / (float64(length) / 1000)
	score := clamp(100-math.Min(100, perK*15), 0, 100)

	return GrammarResult{
		Score:       int(math.Round(score)),
		Issues:      issues,
		TotalIssues: total,
	}, nil
}
