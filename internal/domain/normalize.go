package domain

import (
	"strings"
	"unicode"
)

// Normalize folds a station label into a comparable key: lower case, every
// rune that is not a letter, digit or space replaced by a space, whitespace
// runs collapsed and the result trimmed.
//
//	"CH Genteng (Bogor)"  →  "ch genteng bogor"
//	"ciawi-2001"          →  "ciawi 2001"
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		r = unicode.ToLower(r)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
