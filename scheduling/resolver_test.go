package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praxismed/praxis-scheduler/models"
)

func TestResolveDayWindowsIntersects(t *testing.T) {
	practice := []models.PracticeHours{
		{Weekday: models.Monday, StartTime: "08:00", EndTime: "18:00", Active: true},
	}
	doctor := []models.DoctorHours{
		{Weekday: models.Monday, StartTime: "09:00", EndTime: "17:00", Active: true},
	}

	windows := ResolveDayWindows(monday, practice, doctor)
	assert.Len(t, windows, 1)
	assert.Equal(t, at(monday, 9, 0), windows[0].Start)
	assert.Equal(t, at(monday, 17, 0), windows[0].End)
}

func TestResolveDayWindowsClosedDay(t *testing.T) {
	doctor := []models.DoctorHours{
		{Weekday: models.Monday, StartTime: "09:00", EndTime: "17:00", Active: true},
	}

	// No practice hours at all means the practice is closed.
	assert.Empty(t, ResolveDayWindows(monday, nil, doctor))

	// Practice open but the doctor has no rules either.
	practice := []models.PracticeHours{
		{Weekday: models.Monday, StartTime: "08:00", EndTime: "18:00", Active: true},
	}
	assert.Empty(t, ResolveDayWindows(monday, practice, nil))

	// Rules that never intersect also leave the day closed.
	late := []models.DoctorHours{
		{Weekday: models.Monday, StartTime: "19:00", EndTime: "22:00", Active: true},
	}
	assert.Empty(t, ResolveDayWindows(monday, practice, late))
}

func TestResolveDayWindowsSplitShifts(t *testing.T) {
	practice := []models.PracticeHours{
		{Weekday: models.Monday, StartTime: "08:00", EndTime: "12:00", Active: true},
		{Weekday: models.Monday, StartTime: "14:00", EndTime: "18:00", Active: true},
	}
	doctor := []models.DoctorHours{
		{Weekday: models.Monday, StartTime: "09:00", EndTime: "16:00", Active: true},
	}

	windows := ResolveDayWindows(monday, practice, doctor)
	assert.Len(t, windows, 2)
	assert.Equal(t, at(monday, 9, 0), windows[0].Start)
	assert.Equal(t, at(monday, 12, 0), windows[0].End)
	assert.Equal(t, at(monday, 14, 0), windows[1].Start)
	assert.Equal(t, at(monday, 16, 0), windows[1].End)
}

func TestResolveDayWindowsSkipsMisconfiguredRules(t *testing.T) {
	practice := []models.PracticeHours{
		{Weekday: models.Monday, StartTime: "18:00", EndTime: "08:00", Active: true}, // inverted
		{Weekday: models.Monday, StartTime: "08:00", EndTime: "12:00", Active: true},
	}
	doctor := []models.DoctorHours{
		{Weekday: models.Monday, StartTime: "09:00", EndTime: "17:00", Active: true},
	}

	windows := ResolveDayWindows(monday, practice, doctor)
	assert.Len(t, windows, 1)
	assert.Equal(t, at(monday, 9, 0), windows[0].Start)
	assert.Equal(t, at(monday, 12, 0), windows[0].End)
}
