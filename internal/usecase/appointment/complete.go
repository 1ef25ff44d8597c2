package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/audit"
	domain "github.com/navarro-barbers/agenda-api/internal/domain/appointment"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/models"
)

type Complete struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewComplete(repo domain.Repository, auditDispatcher *audit.Dispatcher) *Complete {
	return &Complete{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *Complete) Execute(
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

	if err := domain.Complete(ap, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
