package ui

import "strings"

// sanitizeText replaces control and direction-formatting characters so
// user-controlled file names cannot inject terminal escape sequences into
// the results list.
func sanitizeText(text string) string {
	for _, r := range text {
		if requiresSanitization(r) {
			return sanitize(text)
		}
	}
	return text
}

func requiresSanitization(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return true
	}
	if isFormattingRune(r) {
		return true
	}
	return (r >= 0 && r < 0x20) || r == 0x7f
}

func sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if requiresSanitization(r) {
			b.WriteRune('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isFormattingRune covers the invisible bidi/joiner code points that can
// reorder or hide display text.
func isFormattingRune(r rune) bool {
	switch r {
	case 0x061C, 0x00AD, 0x180E, 0x2060, 0xFEFF:
		return true
	}
	if r >= 0x200B && r <= 0x200F {
		return true
	}
	if r >= 0x202A && r <= 0x202E {
		return true
	}
	if r >= 0x2066 && r <= 0x206F {
		return true
	}
	return r == 0x2028 || r == 0x2029
}
