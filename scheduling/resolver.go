package scheduling

import (
	"log"
	"sort"
	"time"

	"github.com/praxismed/praxis-scheduler/models"
)

// ResolveDayWindows intersects every practice window with every doctor
// window for the date's weekday and returns the concrete spans where
// both are open, sorted by start. An empty result is the normal
// "closed day" signal, never an error.
func ResolveDayWindows(date time.Time, practice []models.PracticeHours, doctor []models.DoctorHours) []TimeWindow {
	if len(practice) == 0 || len(doctor) == 0 {
		return nil
	}

	var windows []TimeWindow
	for _, p := range practice {
		pw, err := ruleWindow(date, p.StartTime, p.EndTime)
		if err != nil {
			log.Printf("skipping practice hours rule %d: %v", p.ID, err)
			continue
		}
		for _, d := range doctor {
			dw, err := ruleWindow(date, d.StartTime, d.EndTime)
			if err != nil {
				log.Printf("skipping doctor hours rule %d: %v", d.ID, err)
				continue
			}
			if w := pw.Intersect(dw); w.Valid() {
				windows = append(windows, w)
			}
		}
	}

	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Start.Equal(windows[j].Start) {
			return windows[i].End.Before(windows[j].End)
		}
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}

// ruleWindow anchors a rule's clock values on the date. Rules with
// start >= end are treated as misconfigured and dropped.
func ruleWindow(date time.Time, startClock, endClock string) (TimeWindow, error) {
	start, err := atClock(date, startClock)
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := atClock(date, endClock)
	if err != nil {
		return TimeWindow{}, err
	}
	w := TimeWindow{Start: start, End: end}
	if !w.Valid() {
		return TimeWindow{}, errWindowOrder
	}
	return w, nil
}

var errWindowOrder = invalidData("start_time must be before end_time")

// dayWindowsFor loads the active rules for the doctor and resolves the
// date's windows in one step.
func dayWindowsFor(store Store, doctorID uint, date time.Time) ([]TimeWindow, error) {
	practice, err := store.PracticeHoursFor(date.Weekday())
	if err != nil {
		return nil, err
	}
	doctor, err := store.DoctorHoursFor(doctorID, date.Weekday())
	if err != nil {
		return nil, err
	}
	return ResolveDayWindows(date, practice, doctor), nil
}
