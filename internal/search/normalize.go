package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	hangulFirst = '가'
	hangulLast  = '힣'
)

// Normalize folds text for substring search: lower-case, whitespace removed,
// and only ASCII digits, ASCII lower-case letters and Hangul syllables kept.
// Input is NFC-composed first so decomposed Hangul jamo still match. Text
// that is already composed folds exactly as without that step, so the result
// is a superset of the plain filter and stays idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keep(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= hangulFirst && r <= hangulLast:
		return true
	default:
		return false
	}
}
