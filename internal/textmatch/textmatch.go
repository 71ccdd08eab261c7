// Package textmatch normalizes words and compares them for exact matches.
//
// Matching is binary: two words match only when their normalized forms are
// equal and non-empty. There is no fuzzy or phonetic tolerance.
package textmatch

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and drops every rune that is not a letter, digit
// or underscore.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsMatch reports whether spoken matches expected after normalization.
// Empty words never match, not even each other.
func IsMatch(expected, spoken string) bool {
	e := Normalize(expected)
	if e == "" {
		return false
	}
	return e == Normalize(spoken)
}

// Words returns the word tokens of s: whitespace-separated fields that keep
// at least one letter, digit or underscore. Punctuation-only tokens such as
// "-" or "..." are excluded.
func Words(s string) []string {
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if Normalize(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

// Fields splits s on whitespace.
func Fields(s string) []string {
	return strings.Fields(s)
}

// NormalizedSet returns the set of normalized word tokens in s.
func NormalizedSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Words(s) {
		set[Normalize(w)] = struct{}{}
	}
	return set
}
