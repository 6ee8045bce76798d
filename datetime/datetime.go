// Package datetime finds event dates and clock times in short Russian
// messages and combines them into a single instant.
//
// Extraction runs as ordered strategy lists. The first strategy that
// yields a valid value wins; a strategy whose capture is out of range
// ("31 февраля", "27:00") is skipped and the next one is tried:
//
//   - Date tries an absolute "<day> <month>" date, then relative keywords
//     ("сегодня", "завтра", "послезавтра"), then weekday phrases
//     ("в пятницу").
//   - Clock tries "19:00", "19 ч 30 мин", "19 ч", "19 часов",
//     "7 вечера" and finally spelled-out hours ("в семь вечера").
//
// Combine applies the default-time and default-date policies, and
// Fallback delegates text the strategies cannot read to general-purpose
// date parsers.
//
// All values are resolved against a caller-supplied reference instant in
// that instant's location. A Parser is immutable and safe for concurrent
// use by multiple goroutines.
package datetime

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/Kostroma329/Calendar-bot/internal/rucase"
	"github.com/Kostroma329/Calendar-bot/lexicon"
)

// maxInputBytes bounds the text the strategies scan.
const maxInputBytes = 1 << 20 // 1 MiB

// Source tells which strategy produced a date.
type Source int

const (
	SourceAbsolute Source = iota // "20 ноября"
	SourceRelative               // "завтра"
	SourceWeekday                // "в понедельник"
)

var sourceNames = [...]string{
	SourceAbsolute: "Absolute",
	SourceRelative: "Relative",
	SourceWeekday:  "Weekday",
}

// String returns the name of the source.
func (s Source) String() string {
	if int(s) >= 0 && int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// MarshalJSON encodes the source as a JSON string (e.g. "Relative").
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// DateSignal is a calendar date found in text.
type DateSignal struct {
	Text   string    `json:"text"` // matched phrase, lower-cased
	Source Source    `json:"source"`
	Time   time.Time `json:"time"`
	// HasClock is set when Time carries a meaningful clock. Relative and
	// weekday dates keep the reference clock, so "завтра" alone means
	// "tomorrow at this time".
	HasClock bool `json:"has_clock"`
}

// String returns a debug representation, e.g. Relative("завтра")2024-03-11.
func (d DateSignal) String() string {
	return fmt.Sprintf("%s(%q)%s", d.Source, d.Text, d.Time.Format(time.DateOnly))
}

// ClockSignal is a time of day found in text.
type ClockSignal struct {
	Text   string `json:"text"` // matched phrase, lower-cased
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// String returns a debug representation, e.g. Clock("19:00")19:00.
func (c ClockSignal) String() string {
	return fmt.Sprintf("Clock(%q)%02d:%02d", c.Text, c.Hour, c.Minute)
}

// valid reports whether the clock is a real 24-hour time.
func (c ClockSignal) valid() bool {
	return c.Hour >= 0 && c.Hour <= maxHour && c.Minute >= 0 && c.Minute <= maxMinute
}

// Parser runs the date and clock strategies against one set of tables.
type Parser struct {
	tables    *lexicon.Tables
	reDate    *regexp.Regexp // "<day> <month>", nil without months
	reDayPart *regexp.Regexp // "<hour> <day part>"
}

// NewParser compiles the table-dependent patterns. A nil tables value
// selects lexicon.Default.
func NewParser(tables *lexicon.Tables) *Parser {
	if tables == nil {
		tables = lexicon.Default()
	}
	return &Parser{
		tables:    tables,
		reDate:    compileMonthDate(tables.Months),
		reDayPart: compileDayPart(tables.DayParts),
	}
}

// Tables returns the tables the parser was built with.
func (p *Parser) Tables() *lexicon.Tables {
	return p.tables
}

// Date returns the first date found in s, resolved against ref.
func (p *Parser) Date(s string, ref time.Time) (DateSignal, bool) {
	if s == "" || len(s) > maxInputBytes {
		return DateSignal{}, false
	}
	lower := rucase.Lower(s)
	for _, strategy := range dateStrategies {
		if d, ok := strategy(p, lower, ref); ok {
			return d, true
		}
	}
	return DateSignal{}, false
}

// Clock returns the first valid clock time found in s.
func (p *Parser) Clock(s string) (ClockSignal, bool) {
	if s == "" || len(s) > maxInputBytes {
		return ClockSignal{}, false
	}
	lower := rucase.Lower(s)
	for _, strategy := range clockStrategies {
		if c, ok := strategy(p, lower); ok {
			return c, true
		}
	}
	return ClockSignal{}, false
}

// Resolve runs Date and Clock over s and combines the results.
func (p *Parser) Resolve(s string, ref time.Time) (time.Time, bool) {
	var (
		date  *DateSignal
		clock *ClockSignal
	)
	if d, ok := p.Date(s, ref); ok {
		date = &d
	}
	if c, ok := p.Clock(s); ok {
		clock = &c
	}
	return Combine(date, clock, ref)
}
