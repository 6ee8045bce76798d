package datetime

import (
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/ru"
	"go.uber.org/zap"
)

// ErrNoMatch is returned by a FallbackStrategy that found nothing.
var ErrNoMatch = errors.New("datetime: no date found")

// FallbackStrategy is one general-purpose date parser.
type FallbackStrategy struct {
	Name  string
	Parse func(text string, ref time.Time) (time.Time, error)
}

// Fallback runs general-purpose parsers over text the ordered strategies
// could not read. Parser errors and panics count as "nothing found".
type Fallback struct {
	strategies []FallbackStrategy
	log        *zap.Logger
}

// NewFallback returns a Fallback with the given strategies, or with
// NumericStrategy and WhenStrategy when none are given. The numeric
// strategy goes first: when's hour rules read "2024-11-20" as 11:20. A nil logger
// disables logging.
func NewFallback(log *zap.Logger, strategies ...FallbackStrategy) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	if len(strategies) == 0 {
		strategies = []FallbackStrategy{NumericStrategy(), WhenStrategy()}
	}
	return &Fallback{strategies: strategies, log: log}
}

// Parse returns the first instant a strategy finds, in ref's location and
// truncated to the minute. An instant that is not after ref is moved one
// day forward: a bare clock the parsers placed on today is meant for the
// next occurrence.
func (f *Fallback) Parse(text string, ref time.Time) (time.Time, bool) {
	if text == "" || len(text) > maxInputBytes {
		return time.Time{}, false
	}
	for _, s := range f.strategies {
		t, err := f.run(s, text, ref)
		if err != nil {
			if !errors.Is(err, ErrNoMatch) {
				f.log.Debug("fallback parser failed",
					zap.String("parser", s.Name),
					zap.Error(err),
				)
			}
			continue
		}
		t = t.In(ref.Location())
		if !t.After(ref) {
			t = t.AddDate(0, 0, 1)
		}
		f.log.Debug("fallback parser matched",
			zap.String("parser", s.Name),
			zap.Time("time", t),
		)
		return t.Truncate(time.Minute), true
	}
	return time.Time{}, false
}

func (f *Fallback) run(s FallbackStrategy, text string, ref time.Time) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("datetime: %s panicked: %v", s.Name, r)
		}
	}()
	return s.Parse(text, ref)
}

// WhenStrategy parses free text with github.com/olebedev/when using the
// Russian and the common day-first numeric rules.
func WhenStrategy() FallbackStrategy {
	w := when.New(nil)
	w.Add(ru.All...)
	w.Add(common.All...)

	return FallbackStrategy{
		Name: "when",
		Parse: func(text string, ref time.Time) (time.Time, error) {
			r, err := w.Parse(text, ref)
			if err != nil {
				return time.Time{}, err
			}
			if r == nil {
				return time.Time{}, ErrNoMatch
			}
			return r.Time, nil
		},
	}
}

// isoLayouts cover the ISO forms without seconds. Anything longer
// (seconds, fractions, compact zones) is left to dateparse.
var isoLayouts = []string{
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// dottedLayouts are day-first.
var dottedLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2.1.06",
	"2/1/06",
}

// NumericStrategy parses the first numeric date-looking substring.
// ISO dates ("2024-11-20", "2024-11-20T19:00:00+03:00") go through fixed
// layouts, then github.com/araddon/dateparse, which honors an explicit
// offset. Dotted and slashed dates ("20.11.2024") are read day-first by
// layout only, since dateparse reads them month-first.
func NumericStrategy() FallbackStrategy {
	return FallbackStrategy{
		Name: "numeric",
		Parse: func(text string, ref time.Time) (time.Time, error) {
			loc := ref.Location()
			var lastErr error = ErrNoMatch
			for _, c := range reISODate.FindAllString(text, -1) {
				if t, ok := parseLayouts(isoLayouts, c, loc); ok {
					return t, nil
				}
				t, err := dateparse.ParseIn(c, loc)
				if err == nil {
					return t, nil
				}
				lastErr = err
			}
			for _, c := range reNumericDate.FindAllString(text, -1) {
				if t, ok := parseLayouts(dottedLayouts, c, loc); ok {
					return t, nil
				}
				lastErr = fmt.Errorf("datetime: %q is not a day-first date: %w", c, ErrNoMatch)
			}
			return time.Time{}, lastErr
		},
	}
}

func parseLayouts(layouts []string, s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
