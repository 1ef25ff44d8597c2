package appointment

import (
	"context"

	domain "github.com/navarro-barbers/agenda-api/internal/domain/appointment"
	"github.com/navarro-barbers/agenda-api/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute lists appointments ordered by date and start time, optionally
// narrowed to one barber.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	barberID *uint,
) ([]models.Appointment, error) {

	if barberID != nil {
		return uc.repo.ListAppointmentsForBarber(ctx, *barberID)
	}
	return uc.repo.ListAppointments(ctx)
}
