package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/navarro-barbers/agenda-api/internal/httperr"
	ucAppointment "github.com/navarro-barbers/agenda-api/internal/usecase/appointment"
	"github.com/navarro-barbers/agenda-api/internal/validators"
)

type AvailabilityHandler struct {
	getAvailability *ucAppointment.GetAvailability
}

func NewAvailabilityHandler(uc *ucAppointment.GetAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{getAvailability: uc}
}

// Get returns the open slots of one barber on one date, optionally
// sized for a chosen service.
func (h *AvailabilityHandler) Get(c *gin.Context) {
	barberID, err := strconv.ParseUint(c.Param("barberId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barber id must be numeric.")
		return
	}

	dateStr := c.Query("date")
	if !validators.IsDateValid(dateStr) {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Date is required as YYYY-MM-DD.")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Date is required as YYYY-MM-DD.")
		return
	}

	var serviceID uint
	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "Service id must be numeric.")
			return
		}
		serviceID = uint(id)
	}

	slots, err := h.getAvailability.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		BarberID:  uint(barberID),
		Date:      date,
		ServiceID: serviceID,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barber_id":    barberID,
		"date":         dateStr,
		"availability": slots,
	})
}
