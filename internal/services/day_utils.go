package services

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// ParseDay reads a YYYY-MM-DD calendar date in location.
func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(dayLayout, strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return parsed, nil
}

func FormatDay(value time.Time) string {
	return value.Format(dayLayout)
}

// daysBetween counts calendar days from a to b, ignoring time of day and DST
// shifts.
func daysBetween(a time.Time, b time.Time) int {
	aUTC := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bUTC := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bUTC.Sub(aUTC).Hours() / 24)
}
