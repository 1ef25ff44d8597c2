package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Stable codes shared between usecases and handlers.
const (
	CodeBarberNotFound      = "barber_not_found"
	CodeServiceNotFound     = "service_not_found"
	CodeAppointmentNotFound = "appointment_not_found"
	CodeCommitConflict      = "commit_conflict"
	CodeInvalidState        = "invalid_state"
	CodeInvalidDate         = "invalid_date"
	CodeInvalidTime         = "invalid_time"
)
