// Package matching checks typed answers against accepted answers.
//
// Answers are compared after normalisation (case, diacritics, light punctuation and whitespace
// are ignored) and, failing an exact match, with a Levenshtein distance bounded by a fraction
// of the accepted answer's length.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// lightPunctuation is removed before comparison
const lightPunctuation = `.,;:!?¡¿"'´` + "`" + `()[]{}«»“”‘’…-–—/\`

// Normalize lowercases s, strips diacritics and light punctuation and collapses whitespace.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	lowered := strings.ToLower(s)
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case strings.ContainsRune(lightPunctuation, r):
			continue
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
