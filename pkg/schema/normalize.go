package schema

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeText lowercases free text, strips diacritics, and collapses
// whitespace. Classification rules match against this form, which makes
// "Lácteos", "LACTEOS" and "lacteos" equivalent on the input side while
// category names keep their original spelling on the output side.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	s = StripDiacritics(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return s
}

// StripDiacritics removes diacritical marks from a string. It decomposes
// into NFD form and drops combining marks (unicode.Mn).
func StripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var result strings.Builder
	result.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

// Slug converts a category name into a stable column-safe identifier:
// lowercased, accent-stripped, non-alphanumerics collapsed to underscores.
// "Bebidas sin alcohol" -> "bebidas_sin_alcohol".
func Slug(s string) string {
	s = NormalizeText(s)
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
