// Package classify decides whether transcribed words match a configured
// block list, including fuzzy and obfuscated variants ("f**k", "s#it").
//
// All functions are pure: classification depends only on the word and the
// block list, never on hidden state.
package classify

import (
	"strings"

	"github.com/elci-group/babymode/internal/models"
)

// stopWords are common short words that must never be flagged, even when one
// of them coincidentally appears in the block list.
var stopWords = map[string]struct{}{
	"i": {}, "a": {}, "he": {}, "it": {}, "in": {}, "is": {}, "to": {},
	"or": {}, "as": {}, "be": {}, "we": {}, "on": {}, "so": {}, "up": {},
	"an": {}, "my": {}, "at": {}, "go": {}, "do": {}, "if": {}, "no": {},
	"me": {}, "us": {}, "oh": {},
}

const wildcards = "*#@"

// Normalize trims whitespace, strips leading and trailing punctuation and
// lowercases the word.
func Normalize(word string) string {
	w := strings.TrimSpace(word)
	w = strings.TrimFunc(w, isASCIIPunct)
	return strings.ToLower(w)
}

func isASCIIPunct(r rune) bool {
	return r < 128 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r)
}

// IsBlocked reports whether the word matches the block list after
// normalization. Words shorter than two characters and stop words are never
// blocked. Matching is attempted in order: exact, substring (both sides at
// least four characters, to catch inflections like "fucking"), then
// wildcard-obfuscated variants.
func IsBlocked(word string, blockList []string) bool {
	w := Normalize(word)
	if len(w) < 2 {
		return false
	}
	if _, stop := stopWords[w]; stop {
		return false
	}

	for _, entry := range blockList {
		if w == entry {
			return true
		}
	}

	if len(w) >= 4 {
		for _, entry := range blockList {
			if len(entry) >= 4 && (strings.Contains(w, entry) || strings.Contains(entry, w)) {
				return true
			}
		}
	}

	for _, entry := range blockList {
		if isObfuscated(w, entry) {
			return true
		}
	}
	return false
}

// isObfuscated reports whether w looks like a wildcard-censored rendering of
// target ("f**k" vs "fuck"). The words must have identical length; a wildcard
// in w always counts as agreement, and strictly more than half of the
// positions must agree.
func isObfuscated(w, target string) bool {
	wr := []rune(w)
	tr := []rune(target)
	if len(wr) != len(tr) || len(wr) == 0 {
		return false
	}

	agree := 0
	for i := range wr {
		if wr[i] == tr[i] || strings.ContainsRune(wildcards, wr[i]) {
			agree++
		}
	}
	return agree > len(wr)/2
}

// Annotate classifies every token against the block list, preserving order.
func Annotate(tokens []models.Token, blockList []string) []models.Detection {
	detections := make([]models.Detection, len(tokens))
	for i, tok := range tokens {
		detections[i] = models.Detection{
			Token:   tok,
			Blocked: IsBlocked(tok.Text, blockList),
		}
	}
	return detections
}

// Blocked filters annotated detections down to the flagged ones.
func Blocked(detections []models.Detection) []models.Detection {
	var blocked []models.Detection
	for _, d := range detections {
		if d.Blocked {
			blocked = append(blocked, d)
		}
	}
	return blocked
}
