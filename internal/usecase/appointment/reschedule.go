package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/audit"
	"github.com/navarro-barbers/agenda-api/internal/cache"
	domain "github.com/navarro-barbers/agenda-api/internal/domain/appointment"
	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/models"
)

type RescheduleInput struct {
	AppointmentID uint

	Date string // YYYY-MM-DD
	Time string // HH:MM
}

type RescheduleOutput struct {
	Appointment  *models.Appointment
	Rejected     bool
	Availability []string
}

type Reschedule struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
}

func NewReschedule(
	repo domain.Repository,
	c *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
) *Reschedule {
	return &Reschedule{
		repo:  repo,
		cache: c,
		audit: auditDispatcher,
	}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*RescheduleOutput, error) {

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	startMinutes, err := schedule.ToMinutes(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTime)
	}

	ap, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
		}
		return nil, err
	}

	if err := domain.CanReschedule(schedule.BookingStatus(ap.Status)); err != nil {
		return nil, err
	}

	cal, err := domain.CalendarOf(&ap.Barber)
	if err != nil {
		return nil, err
	}

	oldDate := ap.Date.Format("2006-01-02")

	var out *RescheduleOutput
	for attempt := 0; attempt < 2; attempt++ {
		out, err = uc.attempt(ctx, ap, cal, date, startMinutes, in.Time)
		if httperr.IsBusiness(err, httperr.CodeCommitConflict) {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	if out.Rejected {
		return out, nil
	}

	uc.cache.Invalidate(ctx, ap.BarberID, oldDate)
	uc.cache.Invalidate(ctx, ap.BarberID, in.Date)

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return out, nil
}

func (uc *Reschedule) attempt(
	ctx context.Context,
	ap *models.Appointment,
	cal schedule.WorkingCalendar,
	date time.Time,
	startMinutes int,
	timeStr string,
) (*RescheduleOutput, error) {

	out := &RescheduleOutput{}

	err := uc.repo.WithBarberLock(ctx, ap.BarberID, func(tx domain.Repository) error {
		// The moved appointment itself must not block its new slot.
		rows, err := tx.ListAppointmentsForDay(ctx, ap.BarberID, date, ap.ID)
		if err != nil {
			return err
		}

		bookings := domain.BookingsOf(rows)

		if !schedule.IsSlotAvailable(cal, date, bookings, startMinutes, ap.Service.DurationMin) {
			out.Rejected = true
			out.Availability = schedule.Times(
				schedule.ComputeAvailability(cal, date, bookings, ap.Service.DurationMin),
			)
			return nil
		}

		if err := domain.Move(ap, date, timeStr); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return httperr.ErrBusiness(httperr.CodeCommitConflict)
			}
			return err
		}

		out.Appointment = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
