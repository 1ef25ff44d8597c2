package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/models"
)

type BarberHandler struct {
	db *gorm.DB
}

func NewBarberHandler(db *gorm.DB) *BarberHandler {
	return &BarberHandler{db: db}
}

type BarberView struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	StartTime   string             `json:"start_time"`
	EndTime     string             `json:"end_time"`
	SlotMinutes int                `json:"slot_minutes"`
	WorkingDays []schedule.Weekday `json:"working_days"`
}

// List is the public barber directory the booking page builds its
// calendar from, with the day list decoded for the client.
func (h *BarberHandler) List(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.Order("name ASC").Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Could not list barbers.")
		return
	}

	out := make([]BarberView, 0, len(barbers))
	for _, b := range barbers {
		days, err := schedule.ParseWorkingDays(b.WorkingDays)
		if err != nil {
			days = nil
		}
		out = append(out, BarberView{
			ID:          b.ID,
			Name:        b.Name,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			SlotMinutes: b.SlotMinutes,
			WorkingDays: days,
		})
	}

	c.JSON(http.StatusOK, out)
}
