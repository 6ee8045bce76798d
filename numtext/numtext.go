// Package numtext converts between small integers and Russian cardinal
// number words.
//
// Message authors write clock hours as words as often as digits
// ("в семь вечера", "в двадцать один час"), so the parser accepts every
// cardinal from "ноль" to "девятьсот девяносто девять", including the
// feminine and neuter forms of one and two ("одна", "одно", "две").
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - Range is 0–999. Thousands never appear in clock or date phrases.
//   - Ordinals ("седьмое", "двадцатого") are not parsed.
package numtext

import (
	"errors"
	"fmt"
	"strings"
)

// MaxValue is the largest number Convert and Parse handle.
const MaxValue = 999

// ErrUnknownWord reports a word that is not a cardinal or that breaks the
// hundreds-tens-ones order.
var ErrUnknownWord = errors.New("numtext: not a cardinal number")

// Convert returns the Russian cardinal text for n in masculine form.
// Numbers outside 0–MaxValue return an empty string.
func Convert(n int) string {
	return convert(n)
}

// Parse converts Russian cardinal text to an integer. Input is
// whitespace-normalized and case-insensitive. Every word must be consumed.
func Parse(s string) (int, error) {
	words := strings.Fields(strings.ToLower(s))
	if len(words) == 0 {
		return 0, fmt.Errorf("numtext: empty input")
	}
	n, used := ParseWords(words)
	if used == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWord, words[0])
	}
	if used < len(words) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWord, words[used])
	}
	return n, nil
}

// ParseWords reads the longest cardinal prefix of lower-cased words and
// returns its value together with the number of words consumed. A zero
// count means words does not start with a number.
func ParseWords(words []string) (value, consumed int) {
	return parseWords(words)
}
