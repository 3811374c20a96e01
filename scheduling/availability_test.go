package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxismed/praxis-scheduler/models"
)

func newChecker(s *fakeStore) *AvailabilityChecker {
	suggestions := &SuggestionEngine{
		Store: s,
		Now:   func() time.Time { return at(monday, 8, 0) },
	}
	return &AvailabilityChecker{Store: s, Suggestions: suggestions}
}

func TestCheckWithinWorkingHours(t *testing.T) {
	s := newFakeStore()
	doctor := s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)

	err := newChecker(s).Check(doctor, at(monday, 10, 0), at(monday, 10, 30))
	assert.NoError(t, err)

	// Exactly filling the resolved window is still inside it.
	err = newChecker(s).Check(doctor, at(monday, 9, 0), at(monday, 17, 0))
	assert.NoError(t, err)
}

func TestCheckOutsideWorkingHours(t *testing.T) {
	s := newFakeStore()
	doctor := s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)

	err := newChecker(s).Check(doctor, at(monday, 8, 30), at(monday, 9, 30))
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, KindWorkingHours, unavailable.Kind)
	assert.Equal(t, "Doctor unavailable.", unavailable.Detail)
}

func TestCheckDoctorAbsent(t *testing.T) {
	s := newFakeStore()
	doctor := s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)
	s.absences = append(s.absences, models.DoctorAbsence{
		DoctorID: 1, StartDate: monday, EndDate: monday.AddDate(0, 0, 4), Active: true,
	})

	err := newChecker(s).Check(doctor, at(monday, 10, 0), at(monday, 10, 30))
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, KindDoctorAbsent, unavailable.Kind)
}

func TestCheckBreakBlocks(t *testing.T) {
	s := newFakeStore()
	doctor := s.addDoctor(1, "Anna", "Weber")
	withWeekHours(s, 1)
	s.breaks = append(s.breaks, models.DoctorBreak{
		Date: monday, StartTime: "12:00", EndTime: "13:00", Active: true, // practice-wide
	})

	err := newChecker(s).Check(doctor, at(monday, 12, 30), at(monday, 13, 30))
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, KindDoctorBreak, unavailable.Kind)

	// Touching the break's end is fine.
	assert.NoError(t, newChecker(s).Check(doctor, at(monday, 13, 0), at(monday, 13, 30)))
}

func TestCheckAttachesAlternatives(t *testing.T) {
	s := newFakeStore()
	doctor := s.addDoctor(1, "Anna", "Weber")
	s.addDoctor(2, "Ben", "Koch")
	withWeekHours(s, 1)
	withWeekHours(s, 2)
	s.absences = append(s.absences, models.DoctorAbsence{
		DoctorID: 1, StartDate: monday, EndDate: monday, Active: true,
	})

	err := newChecker(s).Check(doctor, at(monday, 10, 0), at(monday, 10, 30))
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Len(t, unavailable.Alternatives, 1)
	alt := unavailable.Alternatives[0]
	assert.Equal(t, uint(2), alt.DoctorID)
	assert.Equal(t, "Ben Koch", alt.DoctorName)
	assert.Equal(t, at(monday, 9, 0), alt.NextAvailable)
}

func TestAlternativesSkipAbsentColleagues(t *testing.T) {
	s := newFakeStore()
	doctor := s.addDoctor(1, "Anna", "Weber")
	s.addDoctor(2, "Ben", "Koch")
	withWeekHours(s, 1)
	withWeekHours(s, 2)
	// Both doctors out for the whole scan horizon.
	for _, id := range []uint{1, 2} {
		s.absences = append(s.absences, models.DoctorAbsence{
			DoctorID: id, StartDate: monday, EndDate: monday.AddDate(0, 0, DefaultMaxDays), Active: true,
		})
	}

	err := newChecker(s).Check(doctor, at(monday, 10, 0), at(monday, 10, 30))
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Empty(t, unavailable.Alternatives)
}

func TestCheckAbsencesAndBreaksMultiDay(t *testing.T) {
	s := newFakeStore()
	s.addDoctor(1, "Anna", "Weber")
	tuesday := monday.AddDate(0, 0, 1)
	s.breaks = append(s.breaks, models.DoctorBreak{
		Date: tuesday, StartTime: "08:00", EndTime: "09:00", Active: true,
	})

	checker := newChecker(s)
	// Overnight span ending before the break starts.
	assert.NoError(t, checker.CheckAbsencesAndBreaks(1, at(monday, 20, 0), at(tuesday, 8, 0)))
	// Extending into the break fails.
	err := checker.CheckAbsencesAndBreaks(1, at(monday, 20, 0), at(tuesday, 8, 30))
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, KindDoctorBreak, unavailable.Kind)
}

func TestValidateSpan(t *testing.T) {
	assert.Error(t, validateSpan(time.Time{}, at(monday, 10, 0)))
	assert.Error(t, validateSpan(at(monday, 10, 0), at(monday, 10, 0)))
	assert.Error(t, validateSpan(at(monday, 11, 0), at(monday, 10, 0)))
	assert.NoError(t, validateSpan(at(monday, 10, 0), at(monday, 10, 1)))
}
