package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

// scan splits s into tokens using a rune-by-rune state machine.
// The caller guarantees s is non-empty.
func scan(s string) []Token {
	tokens := make([]Token, 0, len(s)/4+1)

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])

		switch {
		case unicode.IsSpace(r):
			end := consume(s, i, unicode.IsSpace)
			tokens = append(tokens, Token{Text: s[i:end], Start: i, End: end, Type: Space})
			i = end

		case unicode.IsDigit(r):
			end := consume(s, i, unicode.IsDigit)
			tokens = append(tokens, Token{Text: s[i:end], Start: i, End: end, Type: Number})
			i = end

		case unicode.IsLetter(r):
			end := consume(s, i, isWordPart)
			tokens = append(tokens, Token{Text: s[i:end], Start: i, End: end, Type: Word})
			i = end

		case unicode.IsPunct(r):
			tokens = append(tokens, Token{Text: s[i : i+size], Start: i, End: i + size, Type: Punctuation})
			i += size

		default:
			tokens = append(tokens, Token{Text: s[i : i+size], Start: i, End: i + size, Type: Symbol})
			i += size
		}
	}

	return tokens
}

// consume advances from pos while runes satisfy ok and returns the end offset.
// Invalid UTF-8 bytes decode as RuneError, which no predicate accepts, so
// each such byte becomes a single Symbol token.
func consume(s string, pos int, ok func(rune) bool) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !ok(r) {
			break
		}
		pos += size
	}
	return pos
}

// isWordPart reports whether r continues a word: letters, digits,
// combining marks (decomposed "й") and underscores.
func isWordPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_'
}
