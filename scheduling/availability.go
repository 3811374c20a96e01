package scheduling

import (
	"log"
	"time"

	"github.com/praxismed/praxis-scheduler/models"
)

// AvailabilityChecker decides whether a doctor can take a booking in a
// given span: working-hours containment, absences and breaks. On
// failure it attaches alternative slots from the other active doctors.
type AvailabilityChecker struct {
	Store       Store
	Suggestions *SuggestionEngine
}

// Check validates an appointment span for the doctor. Appointments are
// single-day; the span's time-of-day part must fit one resolved
// working-hours window, and no absence or break may touch it.
func (c *AvailabilityChecker) Check(doctor *models.User, start, end time.Time) error {
	if err := c.checkWorkingHours(doctor.ID, start, end); err != nil {
		return c.withAlternatives(doctor, start, end, err)
	}
	if err := c.CheckAbsencesAndBreaks(doctor.ID, start, end); err != nil {
		return c.withAlternatives(doctor, start, end, err)
	}
	return nil
}

// CheckAbsencesAndBreaks validates only the absence and break
// calendars, walking the span day by day. Operations use this variant:
// they may span several dates and are not bound to working-hours
// containment.
func (c *AvailabilityChecker) CheckAbsencesAndBreaks(doctorID uint, start, end time.Time) error {
	absences, err := c.Store.AbsencesOverlapping(doctorID, startOfDay(start), startOfDay(end))
	if err != nil {
		return err
	}
	if len(absences) > 0 {
		return &UnavailableError{
			Kind:     KindDoctorAbsent,
			DoctorID: doctorID,
			Detail:   "Doctor unavailable.",
		}
	}

	for _, day := range (DateRange{From: start, To: end}).Days() {
		seg := daySegment(day, start, end)
		if !seg.Valid() {
			continue
		}
		breaks, err := c.Store.BreaksOn(day, doctorID)
		if err != nil {
			return err
		}
		for _, br := range breaks {
			bw, err := ruleWindow(day, br.StartTime, br.EndTime)
			if err != nil {
				log.Printf("skipping break %d: %v", br.ID, err)
				continue
			}
			if bw.Overlaps(seg) {
				return &UnavailableError{
					Kind:     KindDoctorBreak,
					DoctorID: doctorID,
					Detail:   "Doctor unavailable.",
				}
			}
		}
	}
	return nil
}

// checkWorkingHours requires [start, end) to be contained in one
// resolved practice-and-doctor window on the start date.
func (c *AvailabilityChecker) checkWorkingHours(doctorID uint, start, end time.Time) error {
	windows, err := dayWindowsFor(c.Store, doctorID, start)
	if err != nil {
		return err
	}
	span := TimeWindow{Start: start, End: end}
	for _, w := range windows {
		if w.Contains(span) {
			return nil
		}
	}
	return &UnavailableError{
		Kind:     KindWorkingHours,
		DoctorID: doctorID,
		Detail:   "Doctor unavailable.",
	}
}

// withAlternatives decorates an UnavailableError with the earliest
// equal-duration slot of every other active doctor. Failures while
// computing alternatives degrade to a shorter (possibly empty) list;
// they never mask the primary error.
func (c *AvailabilityChecker) withAlternatives(doctor *models.User, start, end time.Time, err error) error {
	unavailable, ok := err.(*UnavailableError)
	if !ok {
		return err
	}
	unavailable.Alternatives = c.alternatives(doctor.ID, start, end)
	return unavailable
}

func (c *AvailabilityChecker) alternatives(excludeDoctorID uint, start, end time.Time) []Alternative {
	alts := []Alternative{}
	if c.Suggestions == nil {
		return alts
	}
	doctors, err := c.Store.ActiveDoctors(excludeDoctorID)
	if err != nil {
		log.Printf("alternatives lookup failed: %v", err)
		return alts
	}
	duration := end.Sub(start)
	for _, d := range doctors {
		slots, err := c.Suggestions.Suggest(d.ID, duration, startOfDay(start), 1, DefaultMaxDays)
		if err != nil {
			log.Printf("suggestion scan for doctor %d failed: %v", d.ID, err)
			continue
		}
		if len(slots) == 0 {
			continue
		}
		alts = append(alts, Alternative{
			DoctorID:      d.ID,
			DoctorName:    d.DisplayName(),
			NextAvailable: slots[0].Start,
		})
	}
	return alts
}

// validateSpan is the shared input-shape check for booking spans.
func validateSpan(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return invalidData("start_time and end_time are required")
	}
	if !start.Before(end) {
		return invalidData("end_time must be after start_time")
	}
	return nil
}
