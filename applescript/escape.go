package applescript

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen caps user-supplied text embedded in script source. Oversized
// input is truncated rather than rejected.
const maxInputLen = 10000

// SanitizeInput strips NUL bytes and truncates oversized input. Must run
// before Escape so the length cap applies to the raw text, not the escaped
// form. Truncation lands on a rune boundary.
func SanitizeInput(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	if len(s) > maxInputLen {
		cut := maxInputLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// Escape makes a string safe inside a double-quoted AppleScript literal.
// Backslashes must be doubled before quotes are escaped.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Quote sanitizes and escapes s and wraps it in double quotes, yielding a
// complete AppleScript string literal.
func Quote(s string) string {
	return `"` + Escape(SanitizeInput(s)) + `"`
}

// FormatList renders an AppleScript list literal: {"a", "b"}.
func FormatList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = Quote(item)
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}
