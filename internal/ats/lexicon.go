// Package ats scores a resume against a job description using a fixed set of
// independent text heuristics combined by a weighted average.
package ats

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern keeps symbols that are meaningful in tech names (c++, c#, node.js).
var tokenPattern = regexp.MustCompile(`[a-z0-9+#.\-]+`)

// Lexicon holds the word tables used by the scorers. It is never mutated
// after construction and may be shared between goroutines.
type Lexicon struct {
	stopwords   map[string]struct{}
	synonyms    map[string]string
	actionVerbs map[string]struct{}
}

// NewLexicon builds a Lexicon from the given tables. Synonym chains are
// followed to their end (a->b, b->c maps a and b to c) and every canonical
// spelling maps to itself, so canonization is idempotent. In a cycle the
// alphabetically first member is canonical.
func NewLexicon(stopwords []string, synonyms map[string]string, actionVerbs []string) *Lexicon {
	l := &Lexicon{
		stopwords:   make(map[string]struct{}, len(stopwords)),
		actionVerbs: make(map[string]struct{}, len(actionVerbs)),
	}
	for _, w := range stopwords {
		l.stopwords[strings.ToLower(w)] = struct{}{}
	}
	l.synonyms = closeSynonyms(synonyms)
	for _, v := range actionVerbs {
		l.actionVerbs[strings.ToLower(v)] = struct{}{}
	}
	return l
}

func closeSynonyms(raw map[string]string) map[string]string {
	lower := make(map[string]string, len(raw))
	for from, to := range raw {
		lower[strings.ToLower(from)] = strings.ToLower(to)
	}

	closed := make(map[string]string, len(lower)*2)
	for from := range lower {
		closed[from] = resolveSynonym(lower, from)
	}
	canonical := make([]string, 0, len(closed))
	for _, to := range closed {
		canonical = append(canonical, to)
	}
	for _, to := range canonical {
		closed[to] = to
	}
	return closed
}

// resolveSynonym follows word through table until it reaches a spelling
// with no further mapping.
func resolveSynonym(table map[string]string, word string) string {
	seen := map[string]int{}
	var path []string
	for {
		next, ok := table[word]
		if !ok || next == word {
			return word
		}
		if at, looped := seen[word]; looped {
			first := path[at]
			for _, w := range path[at:] {
				if w < first {
					first = w
				}
			}
			return first
		}
		seen[word] = len(path)
		path = append(path, word)
		word = next
	}
}

// DefaultLexicon returns the built-in tables.
func DefaultLexicon() *Lexicon {
	return NewLexicon(defaultStopwords, defaultSynonyms, defaultActionVerbs)
}

var defaultStopwords = []string{
	"job", "title", "description", "we", "are", "looking", "join", "our", "help", "ideal",
	"candidate", "should", "have", "both", "work", "fast-paced", "environment",
	"responsibilities", "requirements", "preferred", "excellent", "opportunity",
	"role", "skills", "must", "be", "with", "and", "the", "a", "an", "in", "of", "for", "on",
	"to", "by", "as", "is", "at", "from", "that", "other", "like",
}

var defaultSynonyms = map[string]string{
	"react": "react.js", "reactjs": "react.js",
	"node": "node.js", "nodejs": "node.js",
	"express": "express.js", "expressjs": "express.js",
	"ts":       "typescript",
	"js":       "javascript",
	"postgres": "postgresql", "postgre": "postgresql",
	"mongo":   "mongodb",
	"restful": "rest",
	"apis":    "api",
	"k8s":     "kubernetes",
	"github":  "git",
	"next":    "next.js", "nextjs": "next.js",
	"golang":    "go",
	"pipelines": "pipeline",
}

var defaultActionVerbs = []string{
	"built", "developed", "designed", "implemented", "delivered", "led", "owned", "created",
	"refactored", "optimized", "automated", "migrated", "launched", "deployed", "integrated",
	"scaled", "improved", "reduced", "increased", "collaborated", "mentored", "debugged",
	"tested", "documented",
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAccents strips combining marks so "résumé" tokenizes as "resume".
func foldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

// Tokenize lowercases text and splits it into alphanumeric-ish tokens.
// Sentence punctuation trailing a token ("node.js.") is dropped.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	raw := tokenPattern.FindAllString(strings.ToLower(foldAccents(text)), -1)
	tokens := raw[:0]
	for _, t := range raw {
		t = strings.TrimRight(t, ".-")
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// Canonize maps known synonyms to their canonical spelling.
func (l *Lexicon) Canonize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if c, ok := l.synonyms[t]; ok {
			out[i] = c
		} else {
			out[i] = t
		}
	}
	return out
}

// FilterStop drops stopwords.
func (l *Lexicon) FilterStop(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, stop := l.stopwords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// IsActionVerb reports whether word (lowercase) is an approved action verb.
func (l *Lexicon) IsActionVerb(word string) bool {
	_, ok := l.actionVerbs[word]
	return ok
}

// keywords returns the canonical, stopword-filtered tokens of text.
func (l *Lexicon) keywords(text string) []string {
	return l.Canonize(l.FilterStop(Tokenize(text)))
}

var defaultLexicon = DefaultLexicon()

// Canonize applies the default synonym table.
func Canonize(tokens []string) []string {
	return defaultLexicon.Canonize(tokens)
}

// FilterStop applies the default stopword set.
func FilterStop(tokens []string) []string {
	return defaultLexicon.FilterStop(tokens)
}
