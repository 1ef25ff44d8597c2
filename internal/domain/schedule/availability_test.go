package schedule

import (
	"reflect"
	"testing"
	"time"
)

// Mon-Fri, 09:00-18:00, 30-minute base slots.
func weekdayCalendar() WorkingCalendar {
	return NewWorkingCalendar(
		[]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday},
		540, 1080, 30,
	)
}

var (
	monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
)

func TestComputeAvailabilityEmptyDay(t *testing.T) {
	slots := ComputeAvailability(weekdayCalendar(), monday, nil, 30)

	if len(slots) != 18 {
		t.Fatalf("got %d slots, want 18", len(slots))
	}
	if slots[0].Time() != "09:00" {
		t.Errorf("first slot = %s, want 09:00", slots[0].Time())
	}
	if slots[len(slots)-1].Time() != "17:30" {
		t.Errorf("last slot = %s, want 17:30", slots[len(slots)-1].Time())
	}
}

func TestComputeAvailabilityNonWorkingDay(t *testing.T) {
	bookings := []Booking{
		{StartMinutes: 600, DurationMinutes: 60, Status: StatusConfirmed},
	}

	if slots := ComputeAvailability(weekdayCalendar(), sunday, bookings, 30); len(slots) != 0 {
		t.Errorf("sunday availability = %v, want empty", Times(slots))
	}
}

func TestComputeAvailabilityExcludesBookedBlocks(t *testing.T) {
	// One confirmed 60-minute booking at 10:00 occupies 10:00 and 10:30.
	bookings := []Booking{
		{StartMinutes: 600, DurationMinutes: 60, Status: StatusConfirmed},
	}

	slots := Times(ComputeAvailability(weekdayCalendar(), monday, bookings, 30))

	for _, taken := range []string{"10:00", "10:30"} {
		if contains(slots, taken) {
			t.Errorf("slot %s should be occupied", taken)
		}
	}
	if !contains(slots, "09:30") {
		t.Error("slot 09:30 should be free")
	}
	if !contains(slots, "11:00") {
		t.Error("slot 11:00 should be free")
	}
}

func TestComputeAvailabilityLongerServiceNeedsRun(t *testing.T) {
	bookings := []Booking{
		{StartMinutes: 600, DurationMinutes: 60, Status: StatusConfirmed},
	}

	slots := Times(ComputeAvailability(weekdayCalendar(), monday, bookings, 60))

	// 09:30 would run into the 10:00 booking.
	if contains(slots, "09:30") {
		t.Error("09:30 should not fit a 60-minute service")
	}
	if !contains(slots, "09:00") {
		t.Error("09:00 should fit a 60-minute service")
	}
	if !contains(slots, "11:00") {
		t.Error("11:00 should fit a 60-minute service")
	}
}

func TestComputeAvailabilityClosingTimeContainment(t *testing.T) {
	cal := weekdayCalendar()

	for _, duration := range []int{30, 45, 60, 90, 120} {
		requiredBlocks := (duration + cal.BaseSlotMinutes - 1) / cal.BaseSlotMinutes
		effective := requiredBlocks * cal.BaseSlotMinutes

		for _, s := range ComputeAvailability(cal, monday, nil, duration) {
			if s.StartMinutes+effective > cal.EndMinutes {
				t.Errorf("duration %d: slot %s overruns closing time", duration, s.Time())
			}
		}
	}
}

func TestComputeAvailabilityDurationRounding(t *testing.T) {
	cal := weekdayCalendar()

	// 31 minutes rounds up to two blocks, so the last start is 17:00.
	slots := Times(ComputeAvailability(cal, monday, nil, 31))
	if len(slots) != 17 {
		t.Fatalf("got %d slots, want 17", len(slots))
	}
	if last := slots[len(slots)-1]; last != "17:00" {
		t.Errorf("last slot = %s, want 17:00", last)
	}
}

func TestComputeAvailabilityZeroDurationTakesOneBlock(t *testing.T) {
	slots := ComputeAvailability(weekdayCalendar(), monday, nil, 0)
	if len(slots) != 18 {
		t.Errorf("zero duration: got %d slots, want 18", len(slots))
	}
}

func TestComputeAvailabilityBookingWithoutDuration(t *testing.T) {
	// A booking with no recorded duration occupies exactly one block.
	bookings := []Booking{
		{StartMinutes: 600, DurationMinutes: 0, Status: StatusConfirmed},
	}

	slots := Times(ComputeAvailability(weekdayCalendar(), monday, bookings, 30))

	if contains(slots, "10:00") {
		t.Error("10:00 should be occupied")
	}
	if !contains(slots, "10:30") {
		t.Error("10:30 should be free")
	}
}

func TestComputeAvailabilityStatusFiltering(t *testing.T) {
	bookings := []Booking{
		{StartMinutes: 540, DurationMinutes: 30, Status: StatusConfirmed},
		{StartMinutes: 570, DurationMinutes: 30, Status: StatusPending},
		{StartMinutes: 600, DurationMinutes: 30, Status: StatusCancelled},
		{StartMinutes: 630, DurationMinutes: 30, Status: StatusCompleted},
	}

	slots := Times(ComputeAvailability(weekdayCalendar(), monday, bookings, 30))

	if contains(slots, "09:00") {
		t.Error("confirmed booking should occupy 09:00")
	}
	if contains(slots, "09:30") {
		t.Error("pending booking should occupy 09:30")
	}
	if !contains(slots, "10:00") {
		t.Error("cancelled booking should not occupy 10:00")
	}
	if !contains(slots, "10:30") {
		t.Error("completed booking should not occupy 10:30")
	}
}

func TestComputeAvailabilityUnsortedBookings(t *testing.T) {
	shuffled := []Booking{
		{StartMinutes: 990, DurationMinutes: 30, Status: StatusConfirmed},
		{StartMinutes: 540, DurationMinutes: 30, Status: StatusConfirmed},
		{StartMinutes: 720, DurationMinutes: 60, Status: StatusPending},
	}
	sorted := []Booking{shuffled[1], shuffled[2], shuffled[0]}

	a := ComputeAvailability(weekdayCalendar(), monday, shuffled, 30)
	b := ComputeAvailability(weekdayCalendar(), monday, sorted, 30)
	if !reflect.DeepEqual(a, b) {
		t.Error("booking order changed the result")
	}
}

func TestComputeAvailabilityIdempotent(t *testing.T) {
	bookings := []Booking{
		{StartMinutes: 600, DurationMinutes: 90, Status: StatusConfirmed},
	}

	first := ComputeAvailability(weekdayCalendar(), monday, bookings, 60)
	second := ComputeAvailability(weekdayCalendar(), monday, bookings, 60)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated calls with identical inputs differ")
	}
}

func TestComputeAvailabilityAscendingOrder(t *testing.T) {
	bookings := []Booking{
		{StartMinutes: 660, DurationMinutes: 30, Status: StatusConfirmed},
		{StartMinutes: 570, DurationMinutes: 30, Status: StatusConfirmed},
	}

	slots := ComputeAvailability(weekdayCalendar(), monday, bookings, 30)
	for i := 1; i < len(slots); i++ {
		if slots[i].StartMinutes <= slots[i-1].StartMinutes {
			t.Fatalf("slots out of order at %d: %v", i, Times(slots))
		}
	}
}

func TestIsSlotAvailableMatchesEnumeration(t *testing.T) {
	cal := weekdayCalendar()
	bookings := []Booking{
		{StartMinutes: 600, DurationMinutes: 60, Status: StatusConfirmed},
		{StartMinutes: 840, DurationMinutes: 30, Status: StatusPending},
	}

	for _, duration := range []int{30, 60, 90} {
		listed := make(map[int]bool)
		for _, s := range ComputeAvailability(cal, monday, bookings, duration) {
			listed[s.StartMinutes] = true
		}

		for m := cal.StartMinutes - 30; m <= cal.EndMinutes+30; m += 30 {
			got := IsSlotAvailable(cal, monday, bookings, m, duration)
			if got != listed[m] {
				t.Errorf("duration %d: IsSlotAvailable(%s) = %v, enumeration says %v",
					duration, ToTimeString(m), got, listed[m])
			}
		}
	}
}

func TestIsSlotAvailableBlockedRun(t *testing.T) {
	// Only 10:00 and 10:30 free before a booking at 11:00: a 90-minute
	// request starting 10:00 cannot fit.
	var bookings []Booking
	for m := 540; m < 1080; m += 30 {
		if m == 600 || m == 630 {
			continue
		}
		bookings = append(bookings, Booking{
			StartMinutes:    m,
			DurationMinutes: 30,
			Status:          StatusConfirmed,
		})
	}

	cal := weekdayCalendar()

	if IsSlotAvailable(cal, monday, bookings, 600, 90) {
		t.Error("10:00 should not fit 90 minutes with 11:00 booked")
	}
	if slots := Times(ComputeAvailability(cal, monday, bookings, 90)); contains(slots, "10:00") {
		t.Errorf("90-minute availability should exclude 10:00, got %v", slots)
	}
	if !IsSlotAvailable(cal, monday, bookings, 600, 60) {
		t.Error("10:00 should fit 60 minutes")
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
