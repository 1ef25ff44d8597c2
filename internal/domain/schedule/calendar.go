package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// ===============================
// Working Calendar
// ===============================

// WorkingCalendar is the static weekly schedule of one barber: which
// days they work, their opening hours and the base slot granularity.
// It is built once per query from the barber row and never mutated;
// the profile-update handlers validate the fields at write time, so
// the engine assumes them well-formed.
type WorkingCalendar struct {
	days map[Weekday]struct{}

	StartMinutes    int
	EndMinutes      int
	BaseSlotMinutes int
}

func NewWorkingCalendar(days []Weekday, startMinutes, endMinutes, baseSlotMinutes int) WorkingCalendar {
	set := make(map[Weekday]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return WorkingCalendar{
		days:            set,
		StartMinutes:    startMinutes,
		EndMinutes:      endMinutes,
		BaseSlotMinutes: baseSlotMinutes,
	}
}

// IsWorkingDay reports whether the weekday of date is part of the
// barber's working days.
func (c WorkingCalendar) IsWorkingDay(date time.Time) bool {
	_, ok := c.days[WeekdayName(date)]
	return ok
}

// WorkingDays returns the configured days in week order, Sunday first.
func (c WorkingCalendar) WorkingDays() []Weekday {
	var out []Weekday
	for _, d := range AllWeekdays {
		if _, ok := c.days[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// ParseWorkingDays decodes the JSON-serialized day-name array stored on
// the barber row (`["monday","tuesday"]`). Unknown names are an error;
// the decode happens exactly once here, the engine never parses raw
// strings.
func ParseWorkingDays(raw string) ([]Weekday, error) {
	if raw == "" {
		return nil, nil
	}

	var names []Weekday
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("working days: %w", err)
	}

	for _, d := range names {
		if !IsValidWeekday(d) {
			return nil, fmt.Errorf("working days: unknown day %q", d)
		}
	}

	return names, nil
}

// EncodeWorkingDays is the write-side inverse of ParseWorkingDays.
func EncodeWorkingDays(days []Weekday) string {
	b, _ := json.Marshal(days)
	return string(b)
}
