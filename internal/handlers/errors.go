package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/navarro-barbers/agenda-api/internal/httperr"
)

// writeBusinessError maps usecase error codes onto HTTP statuses so the
// handlers never switch on codes themselves.
func writeBusinessError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	switch be.Code {
	case httperr.CodeBarberNotFound:
		httperr.NotFound(c, be.Code, "Barber not found.")
	case httperr.CodeServiceNotFound:
		httperr.NotFound(c, be.Code, "Service not found.")
	case httperr.CodeAppointmentNotFound:
		httperr.NotFound(c, be.Code, "Appointment not found.")
	case httperr.CodeInvalidDate:
		httperr.BadRequest(c, be.Code, "Date must have format YYYY-MM-DD.")
	case httperr.CodeInvalidTime:
		httperr.BadRequest(c, be.Code, "Time must have format HH:MM.")
	case httperr.CodeInvalidState:
		httperr.Conflict(c, be.Code, "The appointment is not in a state that allows this.")
	case httperr.CodeCommitConflict:
		httperr.Conflict(c, be.Code, "The slot was taken while booking. Try again.")
	default:
		httperr.BadRequest(c, be.Code, "Request rejected.")
	}
}
