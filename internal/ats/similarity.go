package ats

import (
	"math"
	"strings"
)

// SemanticResult blends two lexical similarity measures.
type SemanticResult struct {
	Score   int     `json:"score"`
	Cosine  float64 `json:"cosine"`
	Jaccard float64 `json:"jac"`
}

// ScoreSemantic compares the resume and job text lexically: a bigram Dice
// coefficient over the filtered token strings, blended 60/40 with the
// Jaccard index of the canonical token sets.
func (l *Lexicon) ScoreSemantic(resumeText, jobText string) SemanticResult {
	r := strings.Join(l.FilterStop(Tokenize(resumeText)), " ")
	j := strings.Join(l.FilterStop(Tokenize(jobText)), " ")
	cosine := DiceCoefficient(r, j)
	jac := Jaccard(l.keywords(resumeText), l.keywords(jobText))

	blended := 0.6*cosine + 0.4*jac
	return SemanticResult{
		Score:   int(math.Round(clamp(100*blended, 0, 100))),
		Cosine:  cosine,
		Jaccard: jac,
	}
}

// DiceCoefficient returns the Sørensen-Dice similarity of the character
// bigrams of a and b, ignoring whitespace. Two empty strings score 0.
func DiceCoefficient(a, b string) float64 {
	ra := []rune(strings.Join(strings.Fields(a), ""))
	rb := []rune(strings.Join(strings.Fields(b), ""))
	if len(ra) == 0 && len(rb) == 0 {
		return 0
	}
	if string(ra) == string(rb) {
		return 1
	}
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[[2]rune{ra[i], ra[i+1]}]++
	}

	intersection := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := [2]rune{rb[i], rb[i+1]}
		if bigrams[bg] > 0 {
			bigrams[bg]--
			intersection++
		}
	}
	return 2 * float64(intersection) / float64(len(ra)+len(rb)-2)
}

// Jaccard returns |A∩B| / |A∪B| of the token sets; 0 when both are empty.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
