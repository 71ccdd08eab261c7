package scoring

import (
	"strings"
	"unicode"
)

// HintMask replaces hidden letters in a partial hint.
const HintMask = '_'

// Hint masks every word of text down to its first letter or digit,
// keeping punctuation and spacing so the shape of the line survives:
// "Hello, world!" becomes "H____, w____!".
func Hint(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	first := true
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			first = true
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if first {
				b.WriteRune(r)
				first = false
			} else {
				b.WriteRune(HintMask)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
