// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
	"unicode/utf8"
)

// SanitizeText drops control characters other than tab and newline,
// folds CRLF and lone CR to LF, and trims surrounding space.
func SanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\r':
			b.WriteByte('\n')
		case r == '\n' || r == '\t' || (r >= 32 && r != 127):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// IsBlank reports whether s holds only whitespace.
func IsBlank(s string) bool { return strings.TrimSpace(s) == "" }

// Truncate cuts s to at most n runes, appending suffix when it cut anything.
func Truncate(s string, n int, suffix string) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + suffix
}
