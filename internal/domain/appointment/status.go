package appointment

import (
	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
)

// ===============================
// Status transitions
// ===============================

// InitialStatus is the status a freshly booked appointment gets.
func InitialStatus() schedule.BookingStatus {
	return schedule.StatusConfirmed
}

// CanCancel defines whether an appointment may be cancelled.
func CanCancel(current schedule.BookingStatus) error {
	if !current.Occupies() {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

// CanComplete defines whether an appointment may be marked completed.
func CanComplete(current schedule.BookingStatus) error {
	if current != schedule.StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

// CanReschedule defines whether an appointment may be moved to another
// date or time. Only appointments still occupying the calendar can move.
func CanReschedule(current schedule.BookingStatus) error {
	if !current.Occupies() {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}
