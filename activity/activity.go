// Package activity recognizes dance names in free text.
package activity

import (
	"slices"
	"strings"

	"github.com/Kostroma329/Calendar-bot/internal/rucase"
	"github.com/Kostroma329/Calendar-bot/lexicon"
	"github.com/Kostroma329/Calendar-bot/tokenizer"
)

// minWindow is the widest phrase always tried, even when the dictionary
// only holds shorter names.
const minWindow = 3

// Extractor matches word windows against an activity dictionary. It is
// immutable and safe for concurrent use.
type Extractor struct {
	dict   *lexicon.Dictionary
	window int
}

// New returns an Extractor over dict. A nil dict selects the default
// activity dictionary.
func New(dict *lexicon.Dictionary) *Extractor {
	if dict == nil {
		dict = lexicon.Default().Activities
	}
	return &Extractor{dict: dict, window: max(minWindow, dict.MaxWords())}
}

// Extract returns the canonical names of every activity mentioned in
// text, sorted and without duplicates. The result is never nil.
func (e *Extractor) Extract(text string) []string {
	words := tokenizer.Words(rucase.Lower(text))
	found := make(map[string]struct{})

	for i := range words {
		for n := 1; n <= e.window && i+n <= len(words); n++ {
			phrase := strings.Join(words[i:i+n], " ")
			if name, ok := e.dict.Lookup(phrase); ok {
				found[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
