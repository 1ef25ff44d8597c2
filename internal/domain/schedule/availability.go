package schedule

import "time"

// ===============================
// Bookings
// ===============================

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusPending   BookingStatus = "pending"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Occupies reports whether a booking in this status blocks calendar
// time. Cancelled and completed bookings are inert.
func (s BookingStatus) Occupies() bool {
	return s == StatusConfirmed || s == StatusPending
}

// Booking is one existing appointment on the queried date, reduced to
// what the engine needs. Start times are assumed base-aligned.
type Booking struct {
	StartMinutes    int
	DurationMinutes int
	Status          BookingStatus
}

// ===============================
// Slots
// ===============================

// Slot is one open start time in the availability result.
type Slot struct {
	StartMinutes int
}

func (s Slot) Time() string {
	return ToTimeString(s.StartMinutes)
}

// Times renders a slot list as HH:MM strings, preserving order.
func Times(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Time()
	}
	return out
}

// ===============================
// Availability Engine
// ===============================

// blocksFor rounds a duration up to whole base blocks. Zero or negative
// durations still consume one block.
func blocksFor(durationMinutes, slotSize int) int {
	if durationMinutes <= 0 {
		return 1
	}
	return (durationMinutes + slotSize - 1) / slotSize
}

// ComputeAvailability enumerates the open start times for one barber on
// one date, for a service needing requiredDurationMinutes. It is a pure
// function of its inputs: no caching, no hidden state, recomputed fresh
// on every call.
//
// Each existing confirmed or pending booking occupies a contiguous run
// of base-size blocks from its start; a booking with no recorded
// duration occupies one block. A candidate start is open when the whole
// required run is free and ends at or before closing time. The result
// is in ascending order.
func ComputeAvailability(
	cal WorkingCalendar,
	date time.Time,
	bookings []Booking,
	requiredDurationMinutes int,
) []Slot {

	if !cal.IsWorkingDay(date) {
		return nil
	}

	slotSize := cal.BaseSlotMinutes
	requiredBlocks := blocksFor(requiredDurationMinutes, slotSize)
	effectiveDuration := requiredBlocks * slotSize

	occupied := make(map[int]struct{})
	for _, b := range bookings {
		if !b.Status.Occupies() {
			continue
		}

		duration := b.DurationMinutes
		if duration <= 0 {
			duration = slotSize
		}

		for k := 0; k < blocksFor(duration, slotSize); k++ {
			occupied[b.StartMinutes+k*slotSize] = struct{}{}
		}
	}

	var slots []Slot
	for m := cal.StartMinutes; m+slotSize <= cal.EndMinutes; m += slotSize {
		if m+effectiveDuration > cal.EndMinutes {
			continue
		}

		free := true
		for k := 0; k < requiredBlocks; k++ {
			if _, busy := occupied[m+k*slotSize]; busy {
				free = false
				break
			}
		}

		if free {
			slots = append(slots, Slot{StartMinutes: m})
		}
	}

	return slots
}

// IsSlotAvailable checks one requested start against the same
// enumeration the availability query uses. It is deliberately a
// membership test over ComputeAvailability rather than an ad-hoc
// overlap check, so the validator and the enumerator can never
// disagree about rules like duration rounding.
func IsSlotAvailable(
	cal WorkingCalendar,
	date time.Time,
	bookings []Booking,
	requestedStartMinutes int,
	requiredDurationMinutes int,
) bool {

	for _, s := range ComputeAvailability(cal, date, bookings, requiredDurationMinutes) {
		if s.StartMinutes == requestedStartMinutes {
			return true
		}
	}
	return false
}
