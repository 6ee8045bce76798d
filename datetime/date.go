package datetime

import (
	"strconv"
	"time"

	"github.com/Kostroma329/Calendar-bot/internal/rucase"
)

// dateStrategy finds a date in lower-cased text.
type dateStrategy func(p *Parser, lower string, ref time.Time) (DateSignal, bool)

// dateStrategies run in order; the first hit wins.
var dateStrategies = []dateStrategy{
	(*Parser).absoluteDate,
	(*Parser).relativeDate,
	(*Parser).weekdayDate,
}

// absoluteDate reads "<day> <month>". The year is the reference year
// unless that day has already passed, in which case it is next year. An
// impossible date ("31 февраля") ends the strategy without a result.
func (p *Parser) absoluteDate(lower string, ref time.Time) (DateSignal, bool) {
	if p.reDate == nil {
		return DateSignal{}, false
	}
	for _, m := range p.reDate.FindAllStringSubmatchIndex(lower, -1) {
		if !rucase.HasWordBoundary(lower, m[4], m[5]) {
			continue // month word runs on into a longer word
		}
		day, err := strconv.Atoi(lower[m[2]:m[3]])
		if err != nil {
			continue
		}
		month, ok := p.tables.MonthNumber(lower[m[4]:m[5]])
		if !ok {
			continue
		}

		year := ref.Year()
		if month < ref.Month() || (month == ref.Month() && day < ref.Day()) {
			year++
		}
		t, ok := calendarDate(year, month, day, ref.Location())
		if !ok {
			return DateSignal{}, false
		}
		return DateSignal{
			Text:   lower[m[2]:m[5]],
			Source: SourceAbsolute,
			Time:   t,
		}, true
	}
	return DateSignal{}, false
}

// relativeDate looks for "сегодня", "завтра", "послезавтра" in table
// order. The result keeps the reference clock.
func (p *Parser) relativeDate(lower string, ref time.Time) (DateSignal, bool) {
	for _, k := range p.tables.RelativeDays {
		if rucase.IndexWord(lower, k.Phrase) < 0 {
			continue
		}
		return DateSignal{
			Text:     k.Phrase,
			Source:   SourceRelative,
			Time:     ref.AddDate(0, 0, k.Offset),
			HasClock: true,
		}, true
	}
	return DateSignal{}, false
}

// weekdayDate looks for "в понедельник" … "в воскресенье" in table order
// and resolves to the next such day strictly after today.
func (p *Parser) weekdayDate(lower string, ref time.Time) (DateSignal, bool) {
	for _, k := range p.tables.Weekdays {
		if rucase.IndexWord(lower, k.Phrase) < 0 {
			continue
		}
		return DateSignal{
			Text:     k.Phrase,
			Source:   SourceWeekday,
			Time:     nextWeekday(ref, k.Offset),
			HasClock: true,
		}, true
	}
	return DateSignal{}, false
}

// nextWeekday returns the first day after ref whose Monday-based index is
// target. The same weekday as ref resolves to a week later.
func nextWeekday(ref time.Time, target int) time.Time {
	current := (int(ref.Weekday()) + daysPerWeek - 1) % daysPerWeek
	ahead := target - current
	if ahead <= 0 {
		ahead += daysPerWeek
	}
	return ref.AddDate(0, 0, ahead)
}

// calendarDate returns midnight of the given day, rejecting dates that
// time.Date would normalize (Feb 30 -> Mar 1/2).
func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if day < 1 || day > maxDay {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
