package appointment

import (
	"context"
	"time"

	"github.com/navarro-barbers/agenda-api/internal/models"
)

type Repository interface {
	// -------- Barber --------
	GetBarberByID(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	// -------- Service --------
	GetServiceByID(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Appointments (read) --------
	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	// ListAppointmentsForDay returns the barber's appointments on one
	// calendar date, service preloaded, ordered by start time. IDs in
	// exclude are left out (used when rescheduling that appointment).
	ListAppointmentsForDay(
		ctx context.Context,
		barberID uint,
		date time.Time,
		exclude ...uint,
	) ([]models.Appointment, error)

	ListAppointmentsForBarber(
		ctx context.Context,
		barberID uint,
	) ([]models.Appointment, error)

	ListAppointments(
		ctx context.Context,
	) ([]models.Appointment, error)

	// -------- Appointments (write) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Serialization --------
	// WithBarberLock runs fn inside a transaction holding a row lock on
	// the barber, so check-then-create sequences for one barber cannot
	// interleave. fn receives a Repository bound to the transaction.
	WithBarberLock(
		ctx context.Context,
		barberID uint,
		fn func(tx Repository) error,
	) error

	// -------- Reminders --------
	ListPendingReminders(
		ctx context.Context,
		date time.Time,
	) ([]models.Appointment, error)

	MarkReminderSent(
		ctx context.Context,
		appointmentID uint,
	) error
}
