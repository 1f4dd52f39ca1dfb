package style

import "strings"

var beForms = map[string]struct{}{
	"am": {}, "are": {}, "is": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {},
}

var irregularParticiples = map[string]struct{}{
	"awoken": {}, "been": {}, "born": {}, "beaten": {}, "become": {}, "begun": {},
	"bent": {}, "bitten": {}, "blown": {}, "broken": {}, "brought": {}, "built": {},
	"bought": {}, "caught": {}, "chosen": {}, "done": {}, "drawn": {}, "driven": {},
	"eaten": {}, "fallen": {}, "felt": {}, "fought": {}, "found": {}, "forgotten": {},
	"given": {}, "gone": {}, "grown": {}, "held": {}, "hidden": {}, "hit": {},
	"kept": {}, "known": {}, "laid": {}, "led": {}, "left": {}, "lost": {},
	"made": {}, "meant": {}, "met": {}, "paid": {}, "put": {}, "read": {},
	"run": {}, "said": {}, "seen": {}, "sent": {}, "set": {}, "shown": {},
	"shut": {}, "sold": {}, "spent": {}, "split": {}, "spoken": {}, "stolen": {},
	"struck": {}, "taken": {}, "taught": {}, "thought": {}, "thrown": {}, "told": {},
	"understood": {}, "won": {}, "worn": {}, "written": {},
}

// notParticiples end in -ed but are adjectives or nouns in practice.
var notParticiples = map[string]struct{}{
	"need": {}, "seed": {}, "speed": {}, "indeed": {}, "bed": {}, "red": {}, "shed": {},
}

func isParticiple(word string) bool {
	w := strings.ToLower(word)
	if _, ok := irregularParticiples[w]; ok {
		return true
	}
	if _, ok := notParticiples[w]; ok {
		return false
	}
	return len(w) > 3 && strings.HasSuffix(w, "ed")
}

// countPassive flags "be" + past participle, allowing one -ly adverb between
// them ("was quickly adopted").
func countPassive(words []string) int {
	n := 0
	for i := 0; i < len(words)-1; i++ {
		if _, ok := beForms[strings.ToLower(words[i])]; !ok {
			continue
		}
		next := i + 1
		if strings.HasSuffix(strings.ToLower(words[next]), "ly") && next+1 < len(words) {
			next++
		}
		if isParticiple(words[next]) {
			n++
		}
	}
	return n
}
