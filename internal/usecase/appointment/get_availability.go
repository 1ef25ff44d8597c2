package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/cache"
	domain "github.com/navarro-barbers/agenda-api/internal/domain/appointment"
	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
)

type AvailabilityInput struct {
	BarberID uint
	Date     time.Time

	// ServiceID selects the duration to fit. Zero means no service was
	// chosen and the barber's base slot duration applies (the documented
	// default, not an implicit fallback).
	ServiceID uint
}

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
}

func NewGetAvailability(repo domain.Repository, c *cache.AvailabilityCache) *GetAvailability {
	return &GetAvailability{repo: repo, cache: c}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]string, error) {

	barber, err := uc.repo.GetBarberByID(ctx, in.BarberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBarberNotFound)
		}
		return nil, err
	}

	cal, err := domain.CalendarOf(barber)
	if err != nil {
		return nil, err
	}

	duration := barber.SlotMinutes
	if in.ServiceID != 0 {
		service, err := uc.repo.GetServiceByID(ctx, in.ServiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
			}
			return nil, err
		}
		duration = service.DurationMin
	}

	// Only the base-duration calendar view is cached; service-specific
	// queries always recompute.
	dateKey := in.Date.Format("2006-01-02")
	useCache := in.ServiceID == 0
	if useCache {
		if slots, ok := uc.cache.Get(ctx, barber.ID, dateKey); ok {
			return slots, nil
		}
	}

	rows, err := uc.repo.ListAppointmentsForDay(ctx, barber.ID, in.Date)
	if err != nil {
		return nil, err
	}

	slots := schedule.Times(schedule.ComputeAvailability(
		cal,
		in.Date,
		domain.BookingsOf(rows),
		duration,
	))

	if useCache {
		uc.cache.Set(ctx, barber.ID, dateKey, slots)
	}

	return slots, nil
}
