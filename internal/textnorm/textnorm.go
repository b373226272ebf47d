// Package textnorm holds the Unicode-aware text comparisons shared by the
// criticality filter and the content matcher.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns s trimmed and Unicode case-folded for caseless comparison.
// A Caser is stateful, so each call gets its own.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
// An empty needle never matches.
func ContainsFold(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Fold(haystack), n)
}

// Words splits folded s on anything that is not a letter or digit.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// SignificantWords returns the set of folded words longer than minLen
// characters.
func SignificantWords(s string, minLen int) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range Words(s) {
		if utf8.RuneCountInString(w) > minLen {
			out[w] = struct{}{}
		}
	}
	return out
}

// Prefix returns the first n characters of folded s, or "" when s is shorter.
func Prefix(s string, n int) string {
	f := Fold(s)
	if utf8.RuneCountInString(f) < n {
		return ""
	}
	i := 0
	for pos := range f {
		if i == n {
			return f[:pos]
		}
		i++
	}
	return f
}
