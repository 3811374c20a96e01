package scheduling

import (
	"time"
)

// DefaultMaxDays bounds the forward scan horizon.
const DefaultMaxDays = 31

// SuggestionEngine forward-scans candidate start times for the
// earliest free slots of a doctor. The scan is read-only and runs
// against the current committed state; its output is advisory and is
// re-validated at commit time.
type SuggestionEngine struct {
	Store Store
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (e *SuggestionEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Suggest returns up to limit slots of the given duration for the
// doctor, earliest first, scanning at most maxDays days from
// startDate. Candidates advance on a fixed 5-minute grid; every
// candidate passes the full availability and conflict checks before it
// is emitted. Re-running against unchanged state yields identical
// output. An empty result is not an error.
func (e *SuggestionEngine) Suggest(doctorID uint, duration time.Duration, startDate time.Time, limit, maxDays int) ([]TimeWindow, error) {
	if limit <= 0 || duration <= 0 {
		return nil, nil
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}

	now := e.now().In(startDate.Location())
	var out []TimeWindow

	day := startOfDay(startDate)
	for i := 0; i < maxDays && len(out) < limit; i++ {
		if err := e.scanDay(doctorID, day, duration, now, &out, limit); err != nil {
			return nil, err
		}
		day = day.AddDate(0, 0, 1)
	}
	return out, nil
}

// scanDay walks the day's resolved windows and appends at most one
// suggestion per window.
func (e *SuggestionEngine) scanDay(doctorID uint, day time.Time, duration time.Duration, now time.Time, out *[]TimeWindow, limit int) error {
	absences, err := e.Store.AbsencesOverlapping(doctorID, day, day)
	if err != nil {
		return err
	}
	if len(absences) > 0 {
		return nil
	}

	windows, err := dayWindowsFor(e.Store, doctorID, day)
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		return nil
	}

	breaks, err := e.Store.BreaksOn(day, doctorID)
	if err != nil {
		return err
	}
	var breakWindows []TimeWindow
	for _, br := range breaks {
		bw, err := ruleWindow(day, br.StartTime, br.EndTime)
		if err != nil {
			continue
		}
		breakWindows = append(breakWindows, bw)
	}

	for _, w := range windows {
		if len(*out) >= limit {
			break
		}
		first := w.Start
		if sameDate(day, now) && now.After(first) {
			first = now
		}
		candidate := ceilToStep(first, SuggestionStep)

		for !candidate.Add(duration).After(w.End) {
			slot := TimeWindow{Start: candidate, End: candidate.Add(duration)}
			ok, err := e.slotFree(doctorID, slot, breakWindows)
			if err != nil {
				return err
			}
			if ok && e.strictlyLater(*out, slot) {
				*out = append(*out, slot)
				break // one suggestion per window, continue with the next
			}
			candidate = candidate.Add(SuggestionStep)
		}
	}
	return nil
}

// slotFree re-checks breaks and booking conflicts for one candidate.
// Working-hours containment and absences are already implied by the
// window construction and the per-day absence gate.
func (e *SuggestionEngine) slotFree(doctorID uint, slot TimeWindow, breakWindows []TimeWindow) (bool, error) {
	for _, bw := range breakWindows {
		if bw.Overlaps(slot) {
			return false, nil
		}
	}
	appt, err := e.Store.DoctorAppointmentOverlap(doctorID, slot.Start, slot.End, 0)
	if err != nil {
		return false, err
	}
	return appt == nil, nil
}

// strictlyLater keeps the output strictly increasing by start time,
// which also deduplicates slots produced by two intersecting windows.
func (e *SuggestionEngine) strictlyLater(out []TimeWindow, slot TimeWindow) bool {
	if len(out) == 0 {
		return true
	}
	return slot.Start.After(out[len(out)-1].Start)
}
