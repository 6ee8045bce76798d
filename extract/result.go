package extract

import (
	"encoding/json"
	"strings"
	"time"
)

// SummaryLayout is the date format used by Summary.
const SummaryLayout = "02.01.2006 15:04"

// Placeholders shown by Summary for missing fields.
const (
	NoTime       = "не указано"
	NoLocation   = "не указано"
	NoActivities = "не распознаны"
)

// Result holds the facts found in one message.
type Result struct {
	// Time is the event start, strictly after the reference instant and
	// truncated to the minute. Nil when no time was found.
	Time *time.Time
	// Location is a canonical venue name, "Улица …", "Адрес: …" or a
	// capitalized phrase. Empty when no place was found.
	Location string
	// Activities holds canonical dance names, sorted. Never nil.
	Activities []string
}

// HasTime reports whether a time was found.
func (r Result) HasTime() bool {
	return r.Time != nil
}

// Empty reports whether nothing was found.
func (r Result) Empty() bool {
	return r.Time == nil && r.Location == "" && len(r.Activities) == 0
}

// Summary renders the result the way the calendar bot confirms an event:
//
//	📅 11.03.2024 19:00
//	📍 Троицкий
//	💃 Вальс
func (r Result) Summary() string {
	when := NoTime
	if r.Time != nil {
		when = r.Time.Format(SummaryLayout)
	}
	where := r.Location
	if where == "" {
		where = NoLocation
	}
	what := NoActivities
	if len(r.Activities) > 0 {
		what = strings.Join(r.Activities, ", ")
	}
	return "📅 " + when + "\n📍 " + where + "\n💃 " + what
}

// String returns a one-line debug representation.
func (r Result) String() string {
	return strings.ReplaceAll(r.Summary(), "\n", " ")
}

// wireResult is the JSON form: absent values are null, activities are
// always an array.
type wireResult struct {
	Time       *time.Time `json:"datetime"`
	Location   *string    `json:"location"`
	Activities []string   `json:"activities"`
}

// MarshalJSON encodes {"datetime": RFC3339|null, "location": string|null,
// "activities": [...]}.
func (r Result) MarshalJSON() ([]byte, error) {
	w := wireResult{Time: r.Time, Activities: r.Activities}
	if r.Location != "" {
		w.Location = &r.Location
	}
	if w.Activities == nil {
		w.Activities = []string{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Result{Time: w.Time, Activities: w.Activities}
	if w.Location != nil {
		r.Location = *w.Location
	}
	if r.Activities == nil {
		r.Activities = []string{}
	}
	return nil
}
