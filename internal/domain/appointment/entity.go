package appointment

import (
	"time"

	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(schedule.BookingStatus(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(schedule.StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(schedule.BookingStatus(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(schedule.StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// Move rebooks an existing appointment onto a new date and start time.
// The reminder flag is reset so the sweep re-evaluates the new time.
func Move(ap *models.Appointment, date time.Time, startTime string) error {
	if err := CanReschedule(schedule.BookingStatus(ap.Status)); err != nil {
		return err
	}

	ap.Date = date
	ap.StartTime = startTime
	ap.ReminderSent = false
	return nil
}

// CalendarOf builds the engine's working calendar from a barber row.
// This is the single place the serialized day list gets decoded.
func CalendarOf(b *models.Barber) (schedule.WorkingCalendar, error) {
	days, err := schedule.ParseWorkingDays(b.WorkingDays)
	if err != nil {
		return schedule.WorkingCalendar{}, err
	}

	start, err := schedule.ToMinutes(b.StartTime)
	if err != nil {
		return schedule.WorkingCalendar{}, err
	}

	end, err := schedule.ToMinutes(b.EndTime)
	if err != nil {
		return schedule.WorkingCalendar{}, err
	}

	return schedule.NewWorkingCalendar(days, start, end, b.SlotMinutes), nil
}

// BookingsOf reduces the day's appointment rows to engine bookings.
// A row whose service has no recorded duration keeps duration zero and
// lets the engine apply the one-block default.
func BookingsOf(rows []models.Appointment) []schedule.Booking {
	bookings := make([]schedule.Booking, 0, len(rows))
	for _, row := range rows {
		start, err := schedule.ToMinutes(row.StartTime)
		if err != nil {
			// Rows are validated at write time; skip anything unreadable
			// rather than blocking the whole day.
			continue
		}

		bookings = append(bookings, schedule.Booking{
			StartMinutes:    start,
			DurationMinutes: row.Service.DurationMin,
			Status:          schedule.BookingStatus(row.Status),
		})
	}
	return bookings
}
