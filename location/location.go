// Package location finds the place an event happens in: a known venue, a
// street, an address or, failing those, the words after a place
// preposition ("в клубе").
package location

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Kostroma329/Calendar-bot/internal/rucase"
	"github.com/Kostroma329/Calendar-bot/lexicon"
)

// Rule tells which rule produced a candidate.
type Rule int

const (
	RuleVenue       Rule = iota // known venue surface form
	RuleStreet                  // "улица Попова", "ул. Попова"
	RuleAddress                 // "адрес: Попова 25"
	RulePreposition             // words after "в", "на", "у"
)

var ruleNames = [...]string{
	RuleVenue:       "Venue",
	RuleStreet:      "Street",
	RuleAddress:     "Address",
	RulePreposition: "Preposition",
}

func (r Rule) String() string {
	if int(r) >= 0 && int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Candidate is one possible location, already in display form.
type Candidate struct {
	Rule Rule
	Text string
}

const (
	streetPrefix  = "улица "
	addressPrefix = "адрес: "

	// maxPlaceWords is how many words after a preposition form a place.
	maxPlaceWords = 2
	// minPlaceRunes drops fragments such as "им" or "мы".
	minPlaceRunes = 3
)

// wordStart stands in for a leading \b, which Go only supports for ASCII.
const wordStart = `(?:^|[^\p{L}\p{N}_])`

var (
	streetPatterns = []*regexp.Regexp{
		regexp.MustCompile(wordStart + `улица\s+([^\s,.!?]+)`),
		regexp.MustCompile(wordStart + `ул\.\s*([^\s,.!?]+)`),
		regexp.MustCompile(wordStart + `ул\s+([^\s,.!?]+)`),
	}
	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(wordStart + `адрес:\s*([^.!?\n]+)`),
		regexp.MustCompile(wordStart + `адрес\s+([^.!?\n]+)`),
	}

	reTimeLike     = regexp.MustCompile(`^\d{1,2}[:ч]`)
	reTrailingPunc = regexp.MustCompile(`[.,!?;:]+$`)
)

// Extractor finds locations using one set of tables. It is immutable and
// safe for concurrent use.
type Extractor struct {
	tables *lexicon.Tables
}

// New returns an Extractor. A nil tables value selects lexicon.Default.
func New(tables *lexicon.Tables) *Extractor {
	if tables == nil {
		tables = lexicon.Default()
	}
	return &Extractor{tables: tables}
}

// Extract returns the best location in text. Known venues win over every
// other rule; otherwise the longest candidate wins and the earliest
// candidate breaks ties.
func (e *Extractor) Extract(text string) (string, bool) {
	var best Candidate
	found := false
	for _, c := range e.Candidates(text) {
		switch {
		case !found:
			best, found = c, true
		case best.Rule == RuleVenue && c.Rule != RuleVenue:
			// a venue is never displaced by a street or address
		case c.Rule == RuleVenue && best.Rule != RuleVenue:
			best = c
		case utf8.RuneCountInString(c.Text) > utf8.RuneCountInString(best.Text):
			best = c
		}
	}
	return best.Text, found
}

// Candidates returns every canonicalized candidate in rule order. The
// preposition rule runs only when the other rules found nothing.
func (e *Extractor) Candidates(text string) []Candidate {
	lower := rucase.Lower(text)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	var raw []Candidate
	raw = e.appendVenues(raw, lower)
	raw = appendFirstMatch(raw, lower, RuleStreet, streetPatterns, streetPrefix)
	raw = appendFirstMatch(raw, lower, RuleAddress, addressPatterns, addressPrefix)
	if len(raw) == 0 {
		raw = e.appendPrepositional(raw, lower)
	}

	for i := range raw {
		raw[i].Text = e.canonicalize(raw[i])
	}
	return raw
}

// appendVenues adds each venue with a surface form in lower, once.
func (e *Extractor) appendVenues(out []Candidate, lower string) []Candidate {
	venues := e.tables.Venues
	for _, name := range venues.Names() {
		for _, v := range venues.Variants(name) {
			if rucase.IndexWord(lower, v) >= 0 {
				out = append(out, Candidate{Rule: RuleVenue, Text: name})
				break
			}
		}
	}
	return out
}

// appendFirstMatch adds prefix+capture for the first pattern that matches.
func appendFirstMatch(out []Candidate, lower string, rule Rule, patterns []*regexp.Regexp, prefix string) []Candidate {
	for _, re := range patterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return append(out, Candidate{Rule: rule, Text: prefix + v})
		}
	}
	return out
}

// appendPrepositional takes up to two words after each place preposition,
// stopping at a clock ("19:00", "7ч") or another preposition.
func (e *Extractor) appendPrepositional(out []Candidate, lower string) []Candidate {
	words := strings.Fields(lower)
	for i, w := range words {
		if !e.tables.IsPreposition(stripNonWord(w)) {
			continue
		}
		var place []string
		for j := i + 1; j < len(words) && j <= i+maxPlaceWords; j++ {
			next := words[j]
			if reTimeLike.MatchString(next) || e.tables.IsPreposition(stripNonWord(next)) {
				break
			}
			place = append(place, next)
		}
		if len(place) == 0 {
			continue
		}
		loc := reTrailingPunc.ReplaceAllString(strings.Join(place, " "), "")
		if utf8.RuneCountInString(loc) >= minPlaceRunes {
			out = append(out, Candidate{Rule: RulePreposition, Text: loc})
		}
	}
	return out
}

// canonicalize turns a lower-cased candidate into display form.
func (e *Extractor) canonicalize(c Candidate) string {
	switch {
	case c.Rule == RuleVenue:
		return c.Text
	case strings.HasPrefix(c.Text, streetPrefix):
		return "Улица " + rucase.Capitalize(strings.TrimPrefix(c.Text, streetPrefix))
	case strings.HasPrefix(c.Text, addressPrefix):
		return "Адрес: " + rucase.Capitalize(strings.TrimPrefix(c.Text, addressPrefix))
	}
	if name, ok := e.tables.Venues.Canonical(c.Text); ok {
		return name
	}
	return rucase.Capitalize(c.Text)
}

// stripNonWord drops every rune that cannot be part of a word: "в," -> "в".
func stripNonWord(s string) string {
	return strings.Map(func(r rune) rune {
		if rucase.IsWordRune(r) {
			return r
		}
		return -1
	}, s)
}
