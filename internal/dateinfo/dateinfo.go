// Package dateinfo answers calendar questions relative to today so that
// clients can resolve phrases like "next Saturday" before querying the API.
package dateinfo

import (
	"fmt"
	"time"
)

const (
	layout        = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// Current describes today.
type Current struct {
	CurrentDate      string `json:"current_date"`
	DayOfWeek        string `json:"day_of_week"`
	WeekNumber       int    `json:"week_number"`
	DaysUntilWeekend int    `json:"days_until_weekend"`
	IsWeekend        bool   `json:"is_weekend"`
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	Day              int    `json:"day"`
}

// Info describes a given date relative to today.
type Info struct {
	Date          string `json:"date"`
	DayOfWeek     string `json:"day_of_week"`
	DaysFromToday int    `json:"days_from_today"`
	IsWeekend     bool   `json:"is_weekend"`
	WeekNumber    int    `json:"week_number"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Day           int    `json:"day"`
	IsPast        bool   `json:"is_past"`
	IsFuture      bool   `json:"is_future"`
	IsToday       bool   `json:"is_today"`
}

// Invalid is returned in place of Info when the input cannot be parsed.
type Invalid struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// InvalidDate builds the answer for a date Calculate rejected.
func InvalidDate(date string, err error) Invalid {
	return Invalid{
		Error:   true,
		Message: fmt.Sprintf("Invalid date format. Expected YYYY-MM-DD, got: %s. Error: %v", date, err),
	}
}

// Today describes the calendar date of now.
func Today(now time.Time) Current {
	return Current{
		CurrentDate:      now.Format(layout),
		DayOfWeek:        now.Weekday().String(),
		WeekNumber:       WeekNumber(now),
		DaysUntilWeekend: (int(time.Saturday) - int(now.Weekday()) + 7) % 7,
		IsWeekend:        isWeekend(now),
		Year:             now.Year(),
		Month:            int(now.Month()),
		Day:              now.Day(),
	}
}

// Calculate describes date (YYYY-MM-DD) relative to the calendar date of now.
func Calculate(date string, now time.Time) (Info, error) {
	target, err := time.Parse(layout, date)
	if err != nil {
		return Info{}, fmt.Errorf("parse date %q: %w", date, err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// Duration saturates near ±292 years, so count whole seconds.
	diff := int((target.Unix() - today.Unix()) / secondsPerDay)

	return Info{
		Date:          date,
		DayOfWeek:     target.Weekday().String(),
		DaysFromToday: diff,
		IsWeekend:     isWeekend(target),
		WeekNumber:    WeekNumber(target),
		Year:          target.Year(),
		Month:         int(target.Month()),
		Day:           target.Day(),
		IsPast:        diff < 0,
		IsFuture:      diff > 0,
		IsToday:       diff == 0,
	}, nil
}

// WeekNumber counts Monday-started weeks; days before the year's first
// Monday are week 0.
func WeekNumber(t time.Time) int {
	yday := t.YearDay() - 1
	mondayBased := (int(t.Weekday()) + 6) % 7
	return (yday + 7 - mondayBased) / 7
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
