// Package rucase provides case folding and capitalization for Russian text.
//
// Russian has no locale-specific case exceptions, but user input arrives
// from phone keyboards in both composed and decomposed forms ("й" as
// U+0439 or as "и" + U+0306). Every function composes to NFC first so that
// dictionary keys and user text compare byte-for-byte.
//
// All functions are safe for concurrent use.
package rucase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Compose returns s in Unicode NFC form.
func Compose(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Lower returns the NFC lowercase form of s.
func Lower(s string) string {
	return strings.ToLower(Compose(s))
}

// Capitalize upper-cases the first rune of s and lower-cases the rest:
// "дк горького" -> "Дк горького", "ПОПОВА" -> "Попова".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	s = Compose(s)
	r, size := utf8.DecodeRuneInString(s)
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToTitle(r))
	b.WriteString(strings.ToLower(s[size:]))
	return b.String()
}

// IsWordRune reports whether r can be part of a word: a letter, a digit,
// a combining mark or an underscore.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_'
}

// HasWordBoundary reports whether s[start:end] is delimited on both sides
// by a non-word rune or the string edge.
func HasWordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if IsWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if IsWordRune(r) {
			return false
		}
	}
	return true
}

// IndexWord returns the byte offset of the first occurrence of phrase in s
// that sits on word boundaries, or -1.
func IndexWord(s, phrase string) int {
	if phrase == "" {
		return -1
	}
	offset := 0
	for offset <= len(s) {
		idx := strings.Index(s[offset:], phrase)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(phrase)
		if HasWordBoundary(s, start, end) {
			return start
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return -1
}
