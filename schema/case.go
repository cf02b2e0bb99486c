package schema

import (
	"strings"
	"unicode"
)

// toSnake converts a field name to the snake_case column name used by the
// storage layer when a field does not declare one. Punctuation collapses into a
// single underscore so the result is always a plain identifier.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	underscore := false
	sep := func() {
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sep()
				}
			}
			b.WriteRune(unicode.ToLower(r))
			underscore = false

		case unicode.IsLower(r):
			b.WriteRune(r)
			underscore = false

		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(runes[i-1]) {
				sep()
			}
			b.WriteRune(r)
			underscore = false

		default:
			sep()
		}
	}

	return strings.Trim(b.String(), "_")
}
