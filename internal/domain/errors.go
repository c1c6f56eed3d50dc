package domain

import (
	"errors"
	"net/http"
)

// Error is a business-rule failure carrying the HTTP status class it maps to
// at the front door.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrBookingNotFound          = &Error{Code: http.StatusNotFound, Message: "booking not found"}
	ErrInvalidSeatCount         = &Error{Code: http.StatusBadRequest, Message: "number of seats must be positive"}
	ErrInsufficientSeats        = &Error{Code: http.StatusBadRequest, Message: "not enough seats available"}
	ErrAmountMismatch           = &Error{Code: http.StatusBadRequest, Message: "amount does not match the booking total"}
	ErrOwnershipMismatch        = &Error{Code: http.StatusBadRequest, Message: "booking belongs to a different user"}
	ErrBookingExpired           = &Error{Code: http.StatusBadRequest, Message: "booking has expired"}
	ErrFlightServiceUnavailable = &Error{Code: http.StatusBadGateway, Message: "flight service unavailable"}
)

// StatusCode extracts the HTTP status class from err, defaulting to 500 for
// anything outside the taxonomy.
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
