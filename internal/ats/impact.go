package ats

import (
	"math"
	"regexp"
	"strings"
)

// ImpactResult measures how many bullets lead with an action verb and carry a number.
type ImpactResult struct {
	Score              int     `json:"score"`
	ActionVerbRatio    float64 `json:"actionVerbRatio"`
	BulletsWithNumbers int     `json:"bulletsWithNumbers"`
	BulletsTotal       int     `json:"bulletsTotal"`
}

const bulletMarkers = "-*•·>"

var (
	leadingWordRe = regexp.MustCompile(`^[A-Za-z]+`)
	digitRe       = regexp.MustCompile(`\d`)
)

// ScoreActionImpact scores bullet lines: up to 70 points for leading action
// verbs and up to 30 for quantified results. Text extracted from PDFs often
// loses its bullet glyphs, so when no line carries a marker every non-empty
// line is treated as a bullet.
func (l *Lexicon) ScoreActionImpact(resumeText string) ImpactResult {
	bullets := bulletLines(resumeText)

	starts, withNumbers := 0, 0
	for _, b := range bullets {
		word := leadingWordRe.FindString(strings.TrimLeft(b, bulletMarkers+" \t"))
		if l.IsActionVerb(strings.ToLower(word)) {
			starts++
		}
		if digitRe.MatchString(b) {
			withNumbers++
		}
	}

	denom := float64(max(1, len(bullets)))
	actionRatio := float64(starts) / denom
	numberRatio := float64(withNumbers) / denom

	score := math.Min(70, actionRatio*100) + math.Min(30, numberRatio*75)
	return ImpactResult{
		Score:              int(math.Round(score)),
		ActionVerbRatio:    round2(actionRatio),
		BulletsWithNumbers: withNumbers,
		BulletsTotal:       len(bullets),
	}
}

func bulletLines(text string) []string {
	var marked, plain []string
	for _, line := range splitLines(text) {
		if isBulletLine(line) {
			marked = append(marked, line)
		} else if strings.TrimSpace(line) != "" {
			plain = append(plain, line)
		}
	}
	if len(marked) > 0 {
		return marked
	}
	return plain
}

// splitLines splits on LF or CRLF.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return false
	}
	return strings.ContainsRune(bulletMarkers, []rune(trimmed)[0])
}
