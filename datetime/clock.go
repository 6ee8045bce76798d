package datetime

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Kostroma329/Calendar-bot/internal/rucase"
	"github.com/Kostroma329/Calendar-bot/lexicon"
	"github.com/Kostroma329/Calendar-bot/numtext"
	"github.com/Kostroma329/Calendar-bot/tokenizer"
)

// spanWord introduces a duration, so the number after it is no clock.
const spanWord = "через"

// dayPartLookahead bounds how far past an hour a day-part word is sought.
const dayPartLookahead = 64

// clockStrategy finds a clock time in lower-cased text.
type clockStrategy func(p *Parser, lower string) (ClockSignal, bool)

// clockStrategies run in order. A strategy whose first acceptable match
// is out of range yields nothing, and the next one is tried.
var clockStrategies = []clockStrategy{
	(*Parser).colonClock,
	(*Parser).dotClock,
	(*Parser).hourMinuteClock,
	(*Parser).shortHourClock,
	(*Parser).hourWordClock,
	(*Parser).dayPartClock,
	(*Parser).spelledClock,
}

func (p *Parser) colonClock(lower string) (ClockSignal, bool) {
	return p.matchClock(lower, reColon, true, func(rest string) bool {
		return !startsWith(rest, unicode.IsDigit)
	})
}

func (p *Parser) dotClock(lower string) (ClockSignal, bool) {
	return p.matchClock(lower, reDotClock, true, func(rest string) bool {
		if startsWith(rest, unicode.IsDigit) {
			return false
		}
		// "в 20.11.2024" is a date, not 20:11.
		return !(len(rest) > 1 && rest[0] == '.' && startsWith(rest[1:], unicode.IsDigit))
	})
}

func (p *Parser) hourMinuteClock(lower string) (ClockSignal, bool) {
	return p.matchClock(lower, reHourMin, true, nil)
}

func (p *Parser) shortHourClock(lower string) (ClockSignal, bool) {
	return p.matchClock(lower, reHourShort, false, func(rest string) bool {
		return !startsWith(rest, unicode.IsLetter)
	})
}

func (p *Parser) hourWordClock(lower string) (ClockSignal, bool) {
	return p.matchClock(lower, reHourWord, false, wordEnds)
}

// dayPartClock reads "7 вечера", "2 ночи", "7 pm". "через 2 дня" is a
// span and never a clock; a NeedsAt word ("в 3 дня") needs the "в".
func (p *Parser) dayPartClock(lower string) (ClockSignal, bool) {
	for _, m := range p.reDayPart.FindAllStringSubmatchIndex(lower, -1) {
		if !wordEnds(lower[m[1]:]) {
			continue
		}
		hour, err := strconv.Atoi(lower[m[2]:m[3]])
		if err != nil {
			continue
		}
		part, _ := p.dayPart(lower[m[4]:m[5]])
		switch prev := wordBefore(lower[:m[2]]); {
		case prev == spanWord:
			continue
		case part.NeedsAt && prev != "в":
			continue
		}
		c := ClockSignal{Text: lower[m[2]:m[1]], Hour: applyDayPart(part, hour)}
		if !c.valid() {
			return ClockSignal{}, false
		}
		return c, true
	}
	return ClockSignal{}, false
}

// spelledClock reads an hour written as words after "в":
// "в семь вечера", "в двадцать один час".
func (p *Parser) spelledClock(lower string) (ClockSignal, bool) {
	var words []tokenizer.Token
	for _, t := range tokenizer.Tokens(lower) {
		if t.Type == tokenizer.Word || t.Type == tokenizer.Number {
			words = append(words, t)
		}
	}
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}

	for i := 0; i+2 < len(words); i++ {
		if texts[i] != "в" {
			continue
		}
		hour, n := numtext.ParseWords(texts[i+1:])
		if n == 0 || i+1+n >= len(words) {
			continue
		}
		next := words[i+1+n]

		var part lexicon.DayPart
		switch {
		case slices.Contains(hourWords, next.Text):
			part, _ = p.dayPartAfter(lower[next.End:])
		default:
			var ok bool
			if part, ok = p.dayPart(next.Text); !ok {
				continue
			}
		}

		c := ClockSignal{
			Text: lower[words[i+1].Start:next.End],
			Hour: applyDayPart(part, hour),
		}
		if c.valid() {
			return c, true
		}
	}
	return ClockSignal{}, false
}

// matchClock returns the first match of re whose trailing text passes
// accept. Group 1 is the hour; group 2, when withMinute is set, the
// minute. A day-part word right after the match shifts the hour. A number
// after "через" is a span ("через 3 часа"), not a clock.
func (p *Parser) matchClock(lower string, re *regexp.Regexp, withMinute bool, accept func(rest string) bool) (ClockSignal, bool) {
	for _, m := range re.FindAllStringSubmatchIndex(lower, -1) {
		rest := lower[m[1]:]
		if accept != nil && !accept(rest) {
			continue
		}
		if wordBefore(lower[:m[2]]) == spanWord {
			continue
		}
		hour, err := strconv.Atoi(lower[m[2]:m[3]])
		if err != nil {
			continue
		}
		minute := 0
		if withMinute {
			if minute, err = strconv.Atoi(lower[m[4]:m[5]]); err != nil {
				continue
			}
		}

		part, _ := p.dayPartAfter(rest)
		c := ClockSignal{
			Text:   lower[m[2]:m[1]],
			Hour:   applyDayPart(part, hour),
			Minute: minute,
		}
		if !c.valid() {
			return ClockSignal{}, false
		}
		return c, true
	}
	return ClockSignal{}, false
}

// dayPartAfter looks for a day-part word following an hour, optionally
// after an hour word: " вечера", " часов вечера".
func (p *Parser) dayPartAfter(rest string) (lexicon.DayPart, bool) {
	if len(rest) > dayPartLookahead {
		rest = rest[:dayPartLookahead]
	}
	skippedHourWord := false
	for _, t := range tokenizer.Tokens(rest) {
		switch {
		case t.Type == tokenizer.Space:
			continue
		case t.Type != tokenizer.Word:
			return lexicon.DayPart{}, false
		}
		if part, ok := p.dayPart(t.Text); ok {
			return part, true
		}
		if !skippedHourWord && slices.Contains(hourWords, t.Text) {
			skippedHourWord = true
			continue
		}
		return lexicon.DayPart{}, false
	}
	return lexicon.DayPart{}, false
}

// dayPart resolves a table day-part word or a Latin am/pm marker.
func (p *Parser) dayPart(word string) (lexicon.DayPart, bool) {
	switch m := lexicon.Meridiem(word); m {
	case lexicon.AM, lexicon.PM:
		return lexicon.DayPart{Word: word, Meridiem: m}, true
	}
	return p.tables.DayPart(word)
}

// applyDayPart shifts a 12-hour clock hour. Hours past noon ("19 вечера")
// and the zero DayPart leave the hour unchanged.
func applyDayPart(part lexicon.DayPart, hour int) int {
	if part.Meridiem == "" || hour > 12 {
		return hour
	}
	return part.Apply(hour)
}

// startsWith reports whether the first rune of s satisfies pred.
func startsWith(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return pred(r)
}

// wordBefore returns the last word of s, ignoring trailing space.
func wordBefore(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	i := strings.LastIndexFunc(s, func(r rune) bool { return !rucase.IsWordRune(r) })
	if i < 0 {
		return s
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i+size:]
}

// wordEnds reports whether rest does not continue the preceding word.
func wordEnds(rest string) bool {
	return !startsWith(rest, rucase.IsWordRune)
}
