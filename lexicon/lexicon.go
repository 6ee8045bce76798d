// Package lexicon holds the static knowledge tables the extractors consult:
// dance and venue dictionaries plus the month, weekday, relative-day and
// day-part vocabularies.
//
// Tables are plain data. They are parsed once, from the embedded default
// file (Default) or an operator-supplied YAML document (Parse), and are
// never mutated afterwards, so a single *Tables may be shared by any
// number of goroutines.
package lexicon

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/Kostroma329/Calendar-bot/data"
	"github.com/Kostroma329/Calendar-bot/internal/rucase"
)

var (
	// ErrConflict reports a surface form claimed by two canonical names.
	ErrConflict = errors.New("conflicting surface form")
	// ErrInvalid reports an out-of-range or empty table value.
	ErrInvalid = errors.New("invalid table value")
	// ErrEmpty reports a document without any tables.
	ErrEmpty = errors.New("no tables defined")
)

// maxInputBytes bounds the size of a lexicon document.
const maxInputBytes = 1 << 20 // 1 MiB

const daysPerWeek = 7

// Meridiem tells whether a day-part word denotes the first or second half
// of the day.
type Meridiem string

const (
	AM Meridiem = "am"
	PM Meridiem = "pm"
)

// Keyword is a phrase with an integer day offset. For weekdays the offset
// is the Monday-based weekday index (0 = Monday).
type Keyword struct {
	Phrase string `koanf:"phrase"`
	Offset int    `koanf:"offset"`
}

// Month maps a month word to its number.
type Month struct {
	Word   string `koanf:"word"`
	Number int    `koanf:"number"`
}

// DayPart is a time-of-day word such as "вечера" ("in the evening").
// NeedsAt marks a word that is also an ordinary noun form ("3 дня" is
// "three days"): a bare "<hour> <word>" then counts as a clock only
// after "в".
type DayPart struct {
	Word     string   `koanf:"word"`
	Meridiem Meridiem `koanf:"meridiem"`
	NeedsAt  bool     `koanf:"needs_at"`
}

// Apply converts a 12-hour clock hour to 24-hour form.
func (p DayPart) Apply(hour int) int {
	switch {
	case p.Meridiem == PM && hour < 12:
		return hour + 12
	case p.Meridiem == AM && hour == 12:
		return 0
	default:
		return hour
	}
}

// Tables is the complete set of knowledge tables.
type Tables struct {
	Activities   *Dictionary
	Venues       *Dictionary
	Months       []Month   // declaration order
	RelativeDays []Keyword // searched in order, first hit wins
	Weekdays     []Keyword // searched in order after RelativeDays
	DayParts     []DayPart
	Prepositions []string // words that introduce a place: "в", "на", "у"
}

// document mirrors the YAML layout.
type document struct {
	Activities   []Entry   `koanf:"activities"`
	Venues       []Entry   `koanf:"venues"`
	Months       []Month   `koanf:"months"`
	RelativeDays []Keyword `koanf:"relative_days"`
	Weekdays     []Keyword `koanf:"weekdays"`
	DayParts     []DayPart `koanf:"day_parts"`
	Prepositions []string  `koanf:"prepositions"`
}

// Parse builds Tables from a YAML document.
func Parse(b []byte) (*Tables, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("lexicon: empty document: %w", ErrEmpty)
	}
	if len(b) > maxInputBytes {
		return nil, fmt.Errorf("lexicon: document exceeds %d bytes", maxInputBytes)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("lexicon: parsing yaml: %w", err)
	}
	var doc document
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("lexicon: decoding tables: %w", err)
	}
	return build(doc)
}

// MustParse is like Parse but panics on error.
func MustParse(b []byte) *Tables {
	t, err := Parse(b)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultTables = sync.OnceValue(func() *Tables {
	return MustParse(data.Lexicon)
})

// Default returns the built-in Russian tables.
func Default() *Tables {
	return defaultTables()
}

func build(doc document) (*Tables, error) {
	if len(doc.Activities) == 0 && len(doc.Venues) == 0 && len(doc.Months) == 0 &&
		len(doc.RelativeDays) == 0 && len(doc.Weekdays) == 0 {
		return nil, fmt.Errorf("lexicon: %w", ErrEmpty)
	}

	activities, err := NewDictionary(doc.Activities)
	if err != nil {
		return nil, fmt.Errorf("activities: %w", err)
	}
	venues, err := NewDictionary(doc.Venues)
	if err != nil {
		return nil, fmt.Errorf("venues: %w", err)
	}

	t := &Tables{
		Activities: activities,
		Venues:     venues,
	}

	for _, m := range doc.Months {
		word := normalizePhrase(m.Word)
		if word == "" || m.Number < int(time.January) || m.Number > int(time.December) {
			return nil, fmt.Errorf("lexicon: month %q=%d: %w", m.Word, m.Number, ErrInvalid)
		}
		t.Months = append(t.Months, Month{Word: word, Number: m.Number})
	}

	for _, k := range doc.RelativeDays {
		phrase := normalizePhrase(k.Phrase)
		if phrase == "" || k.Offset < 0 {
			return nil, fmt.Errorf("lexicon: relative day %q=%d: %w", k.Phrase, k.Offset, ErrInvalid)
		}
		t.RelativeDays = append(t.RelativeDays, Keyword{Phrase: phrase, Offset: k.Offset})
	}

	for _, k := range doc.Weekdays {
		phrase := normalizePhrase(k.Phrase)
		if phrase == "" || k.Offset < 0 || k.Offset >= daysPerWeek {
			return nil, fmt.Errorf("lexicon: weekday %q=%d: %w", k.Phrase, k.Offset, ErrInvalid)
		}
		t.Weekdays = append(t.Weekdays, Keyword{Phrase: phrase, Offset: k.Offset})
	}

	for _, p := range doc.DayParts {
		word := normalizePhrase(p.Word)
		mer := Meridiem(strings.ToLower(string(p.Meridiem)))
		if word == "" || (mer != AM && mer != PM) {
			return nil, fmt.Errorf("lexicon: day part %q=%q: %w", p.Word, p.Meridiem, ErrInvalid)
		}
		t.DayParts = append(t.DayParts, DayPart{Word: word, Meridiem: mer, NeedsAt: p.NeedsAt})
	}

	for _, p := range doc.Prepositions {
		if w := normalizePhrase(p); w != "" {
			t.Prepositions = append(t.Prepositions, w)
		}
	}

	return t, nil
}

// Marshal encodes t as a YAML document that Parse accepts. Phrases come
// out in their normalized lower-case form.
func (t *Tables) Marshal() ([]byte, error) {
	doc := map[string]any{
		"activities":    entryMaps(t.Activities.Entries()),
		"venues":        entryMaps(t.Venues.Entries()),
		"months":        mapEach(t.Months, monthMap),
		"relative_days": mapEach(t.RelativeDays, keywordMap),
		"weekdays":      mapEach(t.Weekdays, keywordMap),
		"day_parts":     mapEach(t.DayParts, dayPartMap),
		"prepositions":  slices.Clone(t.Prepositions),
	}
	b, err := yaml.Parser().Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("lexicon: encoding yaml: %w", err)
	}
	return b, nil
}

func entryMaps(entries []Entry) []map[string]any {
	return mapEach(entries, func(e Entry) map[string]any {
		return map[string]any{"name": e.Name, "variants": e.Variants}
	})
}

func monthMap(m Month) map[string]any {
	return map[string]any{"word": m.Word, "number": m.Number}
}

func keywordMap(k Keyword) map[string]any {
	return map[string]any{"phrase": k.Phrase, "offset": k.Offset}
}

func dayPartMap(p DayPart) map[string]any {
	m := map[string]any{"word": p.Word, "meridiem": string(p.Meridiem)}
	if p.NeedsAt {
		m["needs_at"] = true
	}
	return m
}

func mapEach[T any](in []T, f func(T) map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

// MonthNumber returns the month for a lower-cased month word.
func (t *Tables) MonthNumber(word string) (time.Month, bool) {
	for _, m := range t.Months {
		if m.Word == word {
			return time.Month(m.Number), true
		}
	}
	return 0, false
}

// DayPart returns the day-part entry for a lower-cased word.
func (t *Tables) DayPart(word string) (DayPart, bool) {
	for _, p := range t.DayParts {
		if p.Word == word {
			return p, true
		}
	}
	return DayPart{}, false
}

// IsPreposition reports whether word introduces a place.
func (t *Tables) IsPreposition(word string) bool {
	for _, p := range t.Prepositions {
		if p == word {
			return true
		}
	}
	return false
}

// normalizePhrase lower-cases a phrase and collapses inner whitespace.
func normalizePhrase(s string) string {
	return rucase.Lower(strings.Join(strings.Fields(s), " "))
}
