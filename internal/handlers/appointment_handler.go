package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/middleware"
	ucAppointment "github.com/navarro-barbers/agenda-api/internal/usecase/appointment"
	"github.com/navarro-barbers/agenda-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book       *ucAppointment.Book
	reschedule *ucAppointment.Reschedule
	cancel     *ucAppointment.Cancel
	complete   *ucAppointment.Complete
	list       *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	book *ucAppointment.Book,
	reschedule *ucAppointment.Reschedule,
	cancel *ucAppointment.Cancel,
	complete *ucAppointment.Complete,
	list *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:       book,
		reschedule: reschedule,
		cancel:     cancel,
		complete:   complete,
		list:       list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID    uint   `json:"barber_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking payload.")
		return
	}

	if !validators.IsDateValid(req.Date) {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Date must have format YYYY-MM-DD.")
		return
	}
	if !validators.IsTimeValid(req.Time) {
		httperr.BadRequest(c, httperr.CodeInvalidTime, "Time must have format HH:MM.")
		return
	}
	if !validators.IsPhoneValid(req.ClientPhone) {
		httperr.BadRequest(c, "invalid_phone", "Phone number is not valid.")
		return
	}

	out, err := h.book.Execute(c.Request.Context(), ucAppointment.BookInput{
		BarberID:    req.BarberID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	// A full slot is not an error: the client gets the refreshed list
	// to pick another time from.
	if out.Rejected {
		c.JSON(http.StatusConflict, gin.H{
			"error_code":   "slot_unavailable",
			"message":      "The requested slot is not available.",
			"availability": out.Availability,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment":  out.Appointment,
		"notification": out.Notification,
	})
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	apps, err := h.list.Execute(c.Request.Context(), nil)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *AppointmentHandler) ListByBarber(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("barberId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barber id must be numeric.")
		return
	}

	barberID := uint(id)
	apps, err := h.list.Execute(c.Request.Context(), &barberID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, apps)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Appointment id must be numeric.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	// Moving an appointment always takes both halves of the new slot.
	if req.Date == "" || req.Time == "" {
		httperr.BadRequest(c, "missing_fields", "Date and time must be sent together to reschedule.")
		return
	}
	if !validators.IsDateValid(req.Date) {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Date must have format YYYY-MM-DD.")
		return
	}
	if !validators.IsTimeValid(req.Time) {
		httperr.BadRequest(c, httperr.CodeInvalidTime, "Time must have format HH:MM.")
		return
	}

	out, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		AppointmentID: uint(id),
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	if out.Rejected {
		c.JSON(http.StatusConflict, gin.H{
			"error_code":   "slot_unavailable",
			"message":      "The requested slot is not available.",
			"availability": out.Availability,
		})
		return
	}

	c.JSON(http.StatusOK, out.Appointment)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Appointment id must be numeric.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), uint(id), currentUserID(c))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Appointment id must be numeric.")
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), uint(id), currentUserID(c))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func currentUserID(c *gin.Context) *uint {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}
