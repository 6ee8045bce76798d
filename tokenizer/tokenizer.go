// Package tokenizer splits short Russian messages into words, numbers and
// punctuation with byte offsets.
//
// The package provides two API layers:
//
//   - Structured: Tokens returns []Token with byte offsets and type
//     metadata. The invariant s[t.Start:t.End] == t.Text holds for every
//     token, and concatenating all token texts reconstructs the original
//     string.
//
//   - Convenience: Words returns the Word and Number texts in order, which
//     is what the dictionary matchers scan.
//
// A word is a maximal run of letters, digits, combining marks and
// underscores that starts with a letter. Hyphens and apostrophes always
// split words: "вальс-бостон" yields "вальс" and "бостон".
//
// All functions are safe for concurrent use by multiple goroutines.
package tokenizer

import "fmt"

// TokenType classifies a token.
type TokenType int

const (
	Word        TokenType = iota // Letter-initial run of letters and digits
	Number                       // Run of ASCII or Unicode digits
	Punctuation                  // Punctuation marks: . , ! ? : ; ( ) etc.
	Space                        // Contiguous whitespace
	Symbol                       // Everything else: emoji, math symbols, etc.
)

// String returns the name of the token type.
func (t TokenType) String() string {
	switch t {
	case Word:
		return "Word"
	case Number:
		return "Number"
	case Punctuation:
		return "Punctuation"
	case Space:
		return "Space"
	case Symbol:
		return "Symbol"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// MarshalJSON encodes the type as its name.
func (t TokenType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Token represents a unit of text with its position and classification.
type Token struct {
	Text  string    `json:"text"`
	Start int       `json:"start"` // byte offset, inclusive
	End   int       `json:"end"`   // byte offset, exclusive
	Type  TokenType `json:"type"`
}

// String returns a debug representation, e.g. Word("вальс")[0:10].
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", t.Type, t.Text, t.Start, t.End)
}

// Tokens splits text into tokens of every type.
func Tokens(s string) []Token {
	if s == "" {
		return nil
	}
	return scan(s)
}

// Words returns the texts of Word and Number tokens in order.
func Words(s string) []string {
	if s == "" {
		return nil
	}
	tokens := scan(s)
	words := make([]string, 0, len(tokens)/2+1)
	for _, t := range tokens {
		if t.Type == Word || t.Type == Number {
			words = append(words, t.Text)
		}
	}
	return words
}
