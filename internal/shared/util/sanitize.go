package util

import (
	"strings"
	"unicode"
)

// AttachmentName joins parts with "_" into a download-safe file stem.
// Spaces become underscores; anything other than letters, digits, '.', '-'
// and '_' is dropped, as are leading dots. Empty parts are skipped.
func AttachmentName(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := sanitizePart(p); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return "document"
	}
	if sanitizePart(parts[0]) == "" {
		cleaned = append([]string{"document"}, cleaned...)
	}
	return strings.Join(cleaned, "_")
}

func sanitizePart(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	s := strings.TrimLeft(b.String(), ".")
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", ".")
	}
	return strings.Trim(s, "_")
}
