package game

import (
	"strings"
	"unicode"
)

// MaskWord replaces every letter with an underscore, keeping length and any
// non-letter characters (spaces, hyphens) intact.
func MaskWord(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if unicode.IsLetter(r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
