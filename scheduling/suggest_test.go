package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxismed/praxis-scheduler/models"
)

func newSuggester(s *fakeStore, now time.Time) *SuggestionEngine {
	return &SuggestionEngine{Store: s, Now: func() time.Time { return now }}
}

func TestSuggestSkipsBookedSlot(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)
	s.addAppointment(50, 10, 1, at(monday, 9, 0), at(monday, 9, 30), models.StatusConfirmed)

	slots, err := newSuggester(s, at(monday, 8, 0)).Suggest(1, 30*time.Minute, monday, 1, DefaultMaxDays)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 9, 30), slots[0].Start)
	assert.Equal(t, at(monday, 10, 0), slots[0].End)
}

func TestSuggestClampsToNowOnToday(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)

	// 10:12 is mid-morning; the first candidate is the next 5-minute
	// boundary, not the window start.
	slots, err := newSuggester(s, at(monday, 10, 12)).Suggest(1, 30*time.Minute, monday, 1, DefaultMaxDays)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 10, 15), slots[0].Start)
}

func TestSuggestSpansDaysAndSkipsAbsence(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)
	// Monday fully absent; first free slot is Tuesday 09:00.
	s.absences = append(s.absences, models.DoctorAbsence{
		DoctorID: 1, StartDate: monday, EndDate: monday, Active: true,
	})

	slots, err := newSuggester(s, at(monday, 8, 0)).Suggest(1, 30*time.Minute, monday, 1, DefaultMaxDays)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(monday.AddDate(0, 0, 1), 9, 0), slots[0].Start)
}

func TestSuggestAvoidsBreaks(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)
	s.breaks = append(s.breaks, models.DoctorBreak{
		Date: monday, StartTime: "09:00", EndTime: "12:00", Active: true,
	})

	slots, err := newSuggester(s, at(monday, 8, 0)).Suggest(1, 30*time.Minute, monday, 1, DefaultMaxDays)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 12, 0), slots[0].Start)
}

func TestSuggestMultipleSlotsStrictlyIncreasing(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)

	slots, err := newSuggester(s, at(monday, 8, 0)).Suggest(1, 30*time.Minute, monday, 3, DefaultMaxDays)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.After(slots[i-1].Start))
	}
	// One slot per window per day: three weekdays.
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
	assert.Equal(t, at(monday.AddDate(0, 0, 1), 9, 0), slots[1].Start)
	assert.Equal(t, at(monday.AddDate(0, 0, 2), 9, 0), slots[2].Start)
}

func TestSuggestDeterministic(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)
	s.addAppointment(50, 10, 1, at(monday, 9, 0), at(monday, 10, 0), models.StatusConfirmed)

	e := newSuggester(s, at(monday, 8, 0))
	first, err := e.Suggest(1, 20*time.Minute, monday, 2, DefaultMaxDays)
	require.NoError(t, err)
	second, err := e.Suggest(1, 20*time.Minute, monday, 2, DefaultMaxDays)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSuggestHorizonExhausted(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)
	s.absences = append(s.absences, models.DoctorAbsence{
		DoctorID: 1, StartDate: monday, EndDate: monday.AddDate(0, 0, 60), Active: true,
	})

	slots, err := newSuggester(s, at(monday, 8, 0)).Suggest(1, 30*time.Minute, monday, 1, DefaultMaxDays)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSuggestSlotMustFitWindow(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	// Practice and doctor both 09:00-10:00: a 90-minute slot never fits.
	s.practiceHours = append(s.practiceHours, models.PracticeHours{
		Weekday: models.Monday, StartTime: "09:00", EndTime: "10:00", Active: true,
	})
	s.doctorHours = append(s.doctorHours, models.DoctorHours{
		DoctorID: 1, Weekday: models.Monday, StartTime: "09:00", EndTime: "10:00", Active: true,
	})

	slots, err := newSuggester(s, at(monday, 8, 0)).Suggest(1, 90*time.Minute, monday, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// A 60-minute slot exactly fills the window.
	slots, err = newSuggester(s, at(monday, 8, 0)).Suggest(1, 60*time.Minute, monday, 1, 1)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
	assert.Equal(t, at(monday, 10, 0), slots[0].End)
}
