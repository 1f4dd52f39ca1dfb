package style

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Words starting with a vowel letter but a consonant sound.
var consonantSoundPrefixes = []string{
	"one", "once", "unif", "union", "uniq", "unit", "univ", "use", "usu", "uti", "eu",
	"ubiq", "uga",
}

// Words starting with a consonant letter but a vowel sound.
var vowelSoundPrefixes = []string{
	"hour", "honest", "honor", "honour", "heir",
}

// countArticleMisuse flags "a" before a vowel sound and "an" before a
// consonant sound. Acronyms are skipped: "a REST API" and "an SQL query"
// depend on how the reader pronounces them.
func countArticleMisuse(words []string) int {
	n := 0
	for i := 0; i < len(words)-1; i++ {
		article := strings.ToLower(words[i])
		if article != "a" && article != "an" {
			continue
		}
		next := words[i+1]
		if !startsWithLetter(next) || isAcronym(next) {
			continue
		}
		vowel := startsWithVowelSound(next)
		if (article == "a" && vowel) || (article == "an" && !vowel) {
			n++
		}
	}
	return n
}

func startsWithLetter(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsLetter(r)
}

func startsWithVowelSound(word string) bool {
	w := strings.ToLower(word)
	for _, p := range vowelSoundPrefixes {
		if strings.HasPrefix(w, p) {
			return true
		}
	}
	for _, p := range consonantSoundPrefixes {
		if strings.HasPrefix(w, p) {
			return false
		}
	}
	return strings.ContainsRune("aeiou", []rune(w)[0])
}

func isAcronym(w string) bool {
	if len(w) < 2 {
		return false
	}
	for _, r := range w {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
