package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsHalfOpen(t *testing.T) {
	a := TimeWindow{Start: at(monday, 9, 0), End: at(monday, 10, 0)}
	b := TimeWindow{Start: at(monday, 9, 30), End: at(monday, 10, 30)}
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))

	// Touching endpoints are not an overlap.
	c := TimeWindow{Start: at(monday, 10, 0), End: at(monday, 11, 0)}
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))

	// Containment overlaps both ways.
	d := TimeWindow{Start: at(monday, 9, 15), End: at(monday, 9, 45)}
	assert.True(t, a.Overlaps(d))
	assert.True(t, d.Overlaps(a))
}

func TestContains(t *testing.T) {
	w := TimeWindow{Start: at(monday, 9, 0), End: at(monday, 12, 0)}
	assert.True(t, w.Contains(TimeWindow{Start: at(monday, 9, 0), End: at(monday, 12, 0)}))
	assert.True(t, w.Contains(TimeWindow{Start: at(monday, 10, 0), End: at(monday, 11, 0)}))
	assert.False(t, w.Contains(TimeWindow{Start: at(monday, 8, 59), End: at(monday, 10, 0)}))
	assert.False(t, w.Contains(TimeWindow{Start: at(monday, 11, 0), End: at(monday, 12, 1)}))
}

func TestIntersect(t *testing.T) {
	a := TimeWindow{Start: at(monday, 8, 0), End: at(monday, 12, 0)}
	b := TimeWindow{Start: at(monday, 9, 0), End: at(monday, 17, 0)}
	got := a.Intersect(b)
	assert.Equal(t, at(monday, 9, 0), got.Start)
	assert.Equal(t, at(monday, 12, 0), got.End)

	disjoint := a.Intersect(TimeWindow{Start: at(monday, 13, 0), End: at(monday, 14, 0)})
	assert.False(t, disjoint.Valid())
}

func TestCeilToStep(t *testing.T) {
	assert.Equal(t, at(monday, 9, 0), ceilToStep(at(monday, 9, 0), SuggestionStep))
	assert.Equal(t, at(monday, 9, 5), ceilToStep(at(monday, 9, 1), SuggestionStep))
	assert.Equal(t, at(monday, 9, 5), ceilToStep(at(monday, 9, 4), SuggestionStep))
	withSeconds := at(monday, 9, 0).Add(30 * time.Second)
	assert.Equal(t, at(monday, 9, 5), ceilToStep(withSeconds, SuggestionStep))
}

func TestAtClock(t *testing.T) {
	got, err := atClock(monday, "09:30")
	assert.NoError(t, err)
	assert.Equal(t, at(monday, 9, 30), got)

	_, err = atClock(monday, "9:30am")
	assert.Error(t, err)
}

func TestDateRangeDays(t *testing.T) {
	r := DateRange{From: at(monday, 23, 0), To: at(monday.AddDate(0, 0, 2), 1, 0)}
	days := r.Days()
	assert.Len(t, days, 3)
	assert.Equal(t, monday, days[0])
	assert.Equal(t, monday.AddDate(0, 0, 2), days[2])

	single := DateRange{From: at(monday, 9, 0), To: at(monday, 10, 0)}
	assert.Len(t, single.Days(), 1)
}

func TestDaySegmentClipsToDay(t *testing.T) {
	start := at(monday, 22, 0)
	end := at(monday.AddDate(0, 0, 1), 2, 0)

	first := daySegment(monday, start, end)
	assert.Equal(t, at(monday, 22, 0), first.Start)
	assert.Equal(t, monday.AddDate(0, 0, 1), first.End)

	second := daySegment(monday.AddDate(0, 0, 1), start, end)
	assert.Equal(t, monday.AddDate(0, 0, 1), second.Start)
	assert.Equal(t, at(monday.AddDate(0, 0, 1), 2, 0), second.End)

	// A day the span never touches yields an invalid segment.
	assert.False(t, daySegment(monday.AddDate(0, 0, 2), start, end).Valid())
}
