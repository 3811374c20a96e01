package scheduling

import (
	"fmt"
	"time"
)

// SuggestionStep is the grid the suggestion scan walks on. Candidate
// start times are aligned up to the next step boundary.
const SuggestionStep = 5 * time.Minute

// TimeWindow is a half-open interval [Start, End). All overlap math in
// the scheduler runs on this type.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether the window has positive length.
func (w TimeWindow) Valid() bool {
	return w.Start.Before(w.End)
}

// Overlaps implements the half-open overlap predicate. Touching
// endpoints (w.End == o.Start) are not overlaps.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// Contains reports whether o lies fully inside w.
func (w TimeWindow) Contains(o TimeWindow) bool {
	return !o.Start.Before(w.Start) && !o.End.After(w.End)
}

// Duration returns the window length.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Intersect clips w to o. The result may be invalid (start >= end) when
// the windows do not overlap; callers filter with Valid.
func (w TimeWindow) Intersect(o TimeWindow) TimeWindow {
	out := w
	if o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	return out
}

// ceilToStep rounds t up to the next step boundary. A time already on
// the boundary is returned unchanged.
func ceilToStep(t time.Time, step time.Duration) time.Time {
	aligned := t.Truncate(step)
	if aligned.Before(t) {
		aligned = aligned.Add(step)
	}
	return aligned
}

// atClock anchors a "HH:MM" clock value on the given date, in the
// date's location.
func atClock(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}

// startOfDay returns midnight of t's calendar date in t's location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDate reports whether both instants fall on one calendar date.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days yields one midnight-anchored time per date in the range. Day
// bounds are [00:00, 24:00) half-open; there is no inclusive-end
// padding anywhere in the interval model.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := startOfDay(r.From); !d.After(startOfDay(r.To)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// daySegment clips the span [start, end) to the calendar day beginning
// at midnight day. Returns an invalid window when the span does not
// touch that day.
func daySegment(day, start, end time.Time) TimeWindow {
	bounds := TimeWindow{Start: day, End: day.AddDate(0, 0, 1)}
	return bounds.Intersect(TimeWindow{Start: start, End: end})
}
