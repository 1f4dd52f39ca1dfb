package ats

import "math"

// KeywordResult reports how many job keywords appear in the resume.
type KeywordResult struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Total   int      `json:"total"`
}

// ScoreKeywords computes the share of distinct job keywords present in the resume.
// A job description with no usable keywords scores 0.
func (l *Lexicon) ScoreKeywords(resumeText, jobText string) KeywordResult {
	have := make(map[string]struct{})
	for _, t := range l.keywords(resumeText) {
		have[t] = struct{}{}
	}

	jobKeywords := dedupe(l.keywords(jobText))
	matched := make([]string, 0, len(jobKeywords))
	missing := make([]string, 0, len(jobKeywords))
	for _, k := range jobKeywords {
		if _, ok := have[k]; ok {
			matched = append(matched, k)
		} else {
			missing = append(missing, k)
		}
	}

	total := len(jobKeywords)
	return KeywordResult{
		Score:   int(math.Round(100 * float64(len(matched)) / float64(max(1, total)))),
		Matched: matched,
		Missing: missing,
		Total:   total,
	}
}

// dedupe keeps the first occurrence of each token.
func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
