// Package textutil prepares file names for terminal output.
package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// SanitizeTerminalText makes a name safe to draw: whitespace controls become
// spaces, other control characters become '?', and invisible formatting
// runes (bidi overrides, zero-width joiners, BOM) are shown as ⟪U+XXXX⟫.
func SanitizeTerminalText(text string) string {
	for _, r := range text {
		if requiresSanitization(r) {
			return sanitize(text)
		}
	}
	return text
}

func requiresSanitization(r rune) bool {
	return unicode.IsControl(r) || isFormattingRune(r) || r == unicode.ReplacementChar
}

func sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t', r == '\n', r == '\r', r == '\v', r == '\f':
			b.WriteByte(' ')
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			b.WriteByte('?')
		case isFormattingRune(r):
			fmt.Fprintf(&b, "⟪U+%04X⟫", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isFormattingRune(r rune) bool {
	return unicode.In(r, unicode.Cf, unicode.Zl, unicode.Zp)
}
