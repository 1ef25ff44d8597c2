package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ===============================
// Time Grid
// ===============================

// ParseError indicates a malformed HH:MM string. It is raised at the
// boundary; the engine itself only sees minute offsets.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q, expected HH:MM", e.Input)
}

// ToMinutes converts "HH:MM" into a minute offset from midnight.
func ToMinutes(hm string) (int, error) {
	parts := strings.Split(hm, ":")
	if len(parts) != 2 {
		return 0, &ParseError{Input: hm}
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &ParseError{Input: hm}
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &ParseError{Input: hm}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, &ParseError{Input: hm}
	}

	return hour*60 + minute, nil
}

// ToTimeString is the inverse of ToMinutes, zero-padded. Out-of-range
// values print whatever the arithmetic yields; it never panics.
func ToTimeString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ===============================
// Weekday
// ===============================

type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// AllWeekdays lists the accepted day names, Sunday first.
var AllWeekdays = []Weekday{
	Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday,
}

// WeekdayName maps a calendar date to its lowercase english weekday.
// Only the wall-clock Y/M/D of t matters; the date is never shifted
// into another timezone.
func WeekdayName(t time.Time) Weekday {
	return Weekday(strings.ToLower(t.Weekday().String()))
}

// IsValidWeekday reports whether name is one of the seven day names.
func IsValidWeekday(name Weekday) bool {
	for _, d := range AllWeekdays {
		if d == name {
			return true
		}
	}
	return false
}
