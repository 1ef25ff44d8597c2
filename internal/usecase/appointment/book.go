package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/audit"
	"github.com/navarro-barbers/agenda-api/internal/cache"
	domain "github.com/navarro-barbers/agenda-api/internal/domain/appointment"
	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/models"
	"github.com/navarro-barbers/agenda-api/internal/notify"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookInput struct {
	BarberID  uint
	ServiceID uint

	ClientName  string
	ClientPhone string

	Date  string // YYYY-MM-DD
	Time  string // HH:MM
	Notes string
}

// BookOutput is the terminal state of one booking attempt. Rejected
// carries the refreshed slot list so the caller can offer alternatives;
// Notification reports the confirmation delivery without ever failing
// the booking itself.
type BookOutput struct {
	Appointment *models.Appointment
	Rejected    bool
	Availability []string

	Notification notify.Result
}

// ======================================================
// USE CASE
// ======================================================

type Book struct {
	repo     domain.Repository
	cache    *cache.AvailabilityCache
	notifier notify.Sender
	audit    *audit.Dispatcher
}

func NewBook(
	repo domain.Repository,
	c *cache.AvailabilityCache,
	notifier notify.Sender,
	auditDispatcher *audit.Dispatcher,
) *Book {
	return &Book{
		repo:     repo,
		cache:    c,
		notifier: notifier,
		audit:    auditDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Book) Execute(ctx context.Context, in BookInput) (*BookOutput, error) {

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	startMinutes, err := schedule.ToMinutes(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTime)
	}

	barber, err := uc.repo.GetBarberByID(ctx, in.BarberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBarberNotFound)
		}
		return nil, err
	}

	service, err := uc.repo.GetServiceByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
		}
		return nil, err
	}

	cal, err := domain.CalendarOf(barber)
	if err != nil {
		return nil, err
	}

	// Check-then-create runs under the barber lock. A commit conflict
	// means another request won the race after our transaction started;
	// that is the one condition worth one automatic retry, and the
	// re-run sees the winner's booking and turns into a rejection.
	var out *BookOutput
	for attempt := 0; attempt < 2; attempt++ {
		out, err = uc.attempt(ctx, in, barber, service, cal, date, startMinutes)
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

	uc.cache.Invalidate(ctx, barber.ID, in.Date)

	message := fmt.Sprintf(
		"Hi %s! Your appointment with %s for %s is confirmed on %s at %s.",
		in.ClientName, barber.Name, service.Name, in.Date, in.Time,
	)
	out.Notification = uc.notifier.Send(ctx, in.ClientPhone, message)

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &out.Appointment.ID,
	})

	return out, nil
}

func (uc *Book) attempt(
	ctx context.Context,
	in BookInput,
	barber *models.Barber,
	service *models.Service,
	cal schedule.WorkingCalendar,
	date time.Time,
	startMinutes int,
) (*BookOutput, error) {

	out := &BookOutput{}

	err := uc.repo.WithBarberLock(ctx, barber.ID, func(tx domain.Repository) error {
		rows, err := tx.ListAppointmentsForDay(ctx, barber.ID, date)
		if err != nil {
			return err
		}

		bookings := domain.BookingsOf(rows)

		if !schedule.IsSlotAvailable(cal, date, bookings, startMinutes, service.DurationMin) {
			out.Rejected = true
			out.Availability = schedule.Times(
				schedule.ComputeAvailability(cal, date, bookings, service.DurationMin),
			)
			return nil
		}

		ap := &models.Appointment{
			Reference:   uuid.NewString(),
			BarberID:    barber.ID,
			ServiceID:   service.ID,
			ClientName:  in.ClientName,
			ClientPhone: in.ClientPhone,
			Date:        date,
			StartTime:   in.Time,
			Status:      string(domain.InitialStatus()),
			Notes:       in.Notes,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return httperr.ErrBusiness(httperr.CodeCommitConflict)
			}
			return err
		}

		ap.Barber = *barber
		ap.Service = *service
		out.Appointment = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
