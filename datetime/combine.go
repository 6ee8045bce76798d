package datetime

import "time"

// Combine merges an optional date and an optional clock into one instant
// in ref's location, truncated to the minute:
//
//   - date and clock: the date's day at the clock time.
//   - date alone: its own clock when it has one, otherwise 13:00. A
//     carried clock at midnight counts as none.
//   - clock alone: today when that moment is still ahead of ref,
//     otherwise tomorrow.
//   - neither: no result.
func Combine(date *DateSignal, clock *ClockSignal, ref time.Time) (time.Time, bool) {
	loc := ref.Location()

	switch {
	case date != nil && clock != nil:
		d := date.Time.In(loc)
		return atClock(d, clock.Hour, clock.Minute), true

	case date != nil:
		d := date.Time.In(loc).Truncate(time.Minute)
		if date.HasClock && (d.Hour() != 0 || d.Minute() != 0) {
			return d, true
		}
		return atClock(d, defaultHour, 0), true

	case clock != nil:
		today := atClock(ref, clock.Hour, clock.Minute)
		if today.After(ref) {
			return today, true
		}
		return today.AddDate(0, 0, 1), true

	default:
		return time.Time{}, false
	}
}

// atClock returns d's calendar day at hour:minute.
func atClock(d time.Time, hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}
