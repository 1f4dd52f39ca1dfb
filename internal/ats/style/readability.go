package style

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/summarize"
)

// Grades holds the US grade level of one sentence under three formulas.
type Grades struct {
	FleschKincaid float64
	ARI           float64
	ColemanLiau   float64
}

// SentenceGrades scores a single sentence given its words.
func SentenceGrades(words []string) Grades {
	if len(words) == 0 {
		return Grades{}
	}
	doc := summarize.Document{NumSentences: 1, NumWords: float64(len(words))}
	for _, w := range words {
		doc.NumCharacters += float64(countLetters(w))
		doc.NumSyllables += float64(Syllables(w))
	}
	return Grades{
		FleschKincaid: doc.FleschKincaid(),
		ARI:           doc.AutomatedReadability(),
		ColemanLiau:   doc.ColemanLiau(),
	}
}

func isHard(words []string, maxGrade float64) bool {
	g := SentenceGrades(words)
	over := 0
	for _, v := range []float64{g.FleschKincaid, g.ARI, g.ColemanLiau} {
		if v > maxGrade {
			over++
		}
	}
	return over >= 2
}

func countLetters(w string) int {
	n := 0
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Syllables returns the syllable count of an English word. Numbers and
// other words without letters count as one.
func Syllables(word string) int {
	w := strings.ToLower(word)
	if strings.IndexFunc(w, unicode.IsLetter) < 0 {
		return 1
	}
	return max(1, summarize.Syllables(w))
}
