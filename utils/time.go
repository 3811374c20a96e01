package utils

import (
	"os"
	"time"
)

// PracticeLocation returns the practice's configured timezone. Working
// hours and breaks are clock values interpreted in this zone.
func PracticeLocation() *time.Location {
	name := os.Getenv("PRACTICE_TIMEZONE")
	if name == "" {
		name = "Europe/Berlin"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC // Fallback if the zone database misses the name
	}
	return loc
}

// ToPracticeTime converts an instant into practice-local time.
func ToPracticeTime(t time.Time) time.Time {
	return t.In(PracticeLocation())
}
