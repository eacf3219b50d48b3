package contract

import "errors"

var (
	// ErrDuplicateBooking is returned when the email already holds a booking.
	ErrDuplicateBooking = errors.New("an interview is already booked for this email")
	ErrBookingNotFound  = errors.New("booking not found")
)
