package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/audit"
	"github.com/navarro-barbers/agenda-api/internal/cache"
	domain "github.com/navarro-barbers/agenda-api/internal/domain/appointment"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/models"
)

type Cancel struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
}

func NewCancel(
	repo domain.Repository,
	c *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
) *Cancel {
	return &Cancel{
		repo:  repo,
		cache: c,
		audit: auditDispatcher,
	}
}

func (uc *Cancel) Execute(
	ctx context.Context,
	appointmentID uint,
	userID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
		}
		return nil, err
	}

	if err := domain.Cancel(ap, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.BarberID, ap.Date.Format("2006-01-02"))

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
