// Package extract turns a short Russian message about a dance event into
// structured facts: when it starts, where it happens and which dances are
// on the programme.
//
// An Engine is a pure function of its input text, its knowledge tables
// and the reference instant. It holds no per-call state and is safe for
// concurrent use by multiple goroutines.
package extract

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kostroma329/Calendar-bot/activity"
	"github.com/Kostroma329/Calendar-bot/datetime"
	"github.com/Kostroma329/Calendar-bot/internal/rucase"
	"github.com/Kostroma329/Calendar-bot/lexicon"
	"github.com/Kostroma329/Calendar-bot/location"
)

// maxInputBytes bounds the message size; longer input yields an empty Result.
const maxInputBytes = 1 << 20 // 1 MiB

// Fallback reads a date the built-in strategies could not. It reports
// false when nothing was found.
type Fallback interface {
	Parse(text string, ref time.Time) (time.Time, bool)
}

// Engine extracts event facts from text.
type Engine struct {
	tables   *lexicon.Tables
	dates    *datetime.Parser
	places   *location.Extractor
	dances   *activity.Extractor
	fallback Fallback
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
}

type options struct {
	tables      *lexicon.Tables
	loc         *time.Location
	now         func() time.Time
	fallback    Fallback
	fallbackSet bool
	log         *zap.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithTables replaces the built-in Russian tables.
func WithTables(t *lexicon.Tables) Option {
	return func(o *options) { o.tables = t }
}

// WithLocation sets the time zone events are resolved in. The default is
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithClock sets the source of the reference instant used by Extract.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithFallback replaces the general-purpose date parser. A nil Fallback
// disables it.
func WithFallback(f Fallback) Option {
	return func(o *options) {
		o.fallback = f
		o.fallbackSet = true
	}
}

// WithLogger sets the logger. Engines only log at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New builds an Engine.
func New(opts ...Option) (*Engine, error) {
	o := options{
		loc: time.Local,
		now: time.Now,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loc == nil {
		return nil, errors.New("extract: nil location")
	}
	if o.now == nil {
		return nil, errors.New("extract: nil clock")
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.tables == nil {
		o.tables = lexicon.Default()
	}
	if !o.fallbackSet {
		o.fallback = datetime.NewFallback(o.log.Named("fallback"))
	}

	return &Engine{
		tables:   o.tables,
		dates:    datetime.NewParser(o.tables),
		places:   location.New(o.tables),
		dances:   activity.New(o.tables.Activities),
		fallback: o.fallback,
		loc:      o.loc,
		now:      o.now,
		log:      o.log,
	}, nil
}

// Tables returns the knowledge tables the engine uses.
func (e *Engine) Tables() *lexicon.Tables {
	return e.tables
}

// Location returns the engine's time zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Extract runs ExtractAt with the engine clock's current instant.
func (e *Engine) Extract(text string) Result {
	return e.ExtractAt(text, e.now())
}

// ExtractAt extracts facts from text, resolving relative expressions
// against ref. The returned time, if any, is strictly after ref.
func (e *Engine) ExtractAt(text string, ref time.Time) Result {
	res := Result{Activities: []string{}}
	if len(text) > maxInputBytes || strings.TrimSpace(text) == "" {
		return res
	}
	text = rucase.Compose(text)
	ref = ref.In(e.loc)

	if place, ok := e.places.Extract(text); ok {
		res.Location = place
	}
	res.Activities = e.dances.Extract(text)

	t, ok := e.dates.Resolve(text, ref)
	if !ok && e.fallback != nil {
		t, ok = e.fallback.Parse(text, ref)
	}
	switch {
	case !ok:
	case t.After(ref):
		res.Time = &t
	default:
		e.log.Debug("discarding time that is not in the future",
			zap.Time("time", t),
			zap.Time("ref", ref),
		)
	}
	return res
}
