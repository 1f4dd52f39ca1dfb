// Package observability provides formatted output for the score CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/llm"
	"github.com/rivo/uniseg"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for the score command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// fit truncates line to width display cells and pads it to exactly width.
func fit(line string, width int) string {
	if uniseg.StringWidth(line) > width {
		var sb strings.Builder
		w := 0
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			cw := g.Width()
			if w+cw > width-3 {
				break
			}
			sb.WriteString(g.Str())
			w += cw
		}
		line = sb.String() + "..."
	}
	return line + strings.Repeat(" ", max(0, width-uniseg.StringWidth(line)))
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", fit(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", fit(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// bar renders score (0-100) as a 20-cell gauge.
func bar(score int) string {
	filled := max(0, min(score, 100)) / 5
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

// PrintScoreReport outputs the overall score and every factor with its weight.
func (p *Printer) PrintScoreReport(result *ats.Result) {
	if result == nil {
		return
	}
	f, w := result.Factors, result.Weights

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:        %3d / 100  %s\n\n", result.OverallScore, bar(result.OverallScore)))

	rows := []struct {
		name   string
		score  int
		weight float64
	}{
		{"Keywords", f.Keywords.Score, w.Keywords},
		{"Semantic", f.Semantic.Score, w.Semantic},
		{"Structure", f.Structure.Score, w.Structure},
		{"Grammar", f.Grammar.Score, w.Grammar},
		{"Action/Impact", f.ActionImpact.Score, w.ActionImpact},
		{"Recency", f.Recency.Score, w.Recency},
		{"Parseability", f.Parseability.Score, w.Parseability},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-14s  %3d  (w %4.1f)  %s\n", r.name, r.score, r.weight, bar(r.score)))
	}

	sb.WriteString(fmt.Sprintf("\nKeywords matched: %d of %d\n", len(f.Keywords.Matched), f.Keywords.Total))
	writeList(&sb, "Missing", f.Keywords.Missing)

	if f.Grammar.TotalIssues > 0 {
		sb.WriteString(fmt.Sprintf("Style issues: %d\n", f.Grammar.TotalIssues))
	}
	if f.Recency.MostRecentYear != nil {
		sb.WriteString(fmt.Sprintf("Most recent year: %d\n", *f.Recency.MostRecentYear))
	}
	sb.WriteString(fmt.Sprintf("Parseability: %s", f.Parseability.Note))

	p.printBox("ATS SCORE", sb.String())
}

// PrintFeedback outputs the AI fit feedback.
func (p *Printer) PrintFeedback(fb *llm.Feedback) {
	if fb == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fit score: %d / 100\n", fb.FitScore))
	writeList(&sb, "Strengths", fb.Strengths)
	writeList(&sb, "Weaknesses", fb.Weaknesses)
	writeList(&sb, "Suggestions", fb.Suggestions)

	p.printBox("AI FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", label))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}
