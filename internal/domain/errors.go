package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrLockUnavailable  = errors.New("could not acquire reservation lock, try again")
	ErrHoldExpired      = errors.New("hold not found or has expired")
	ErrHoldNotOwned     = errors.New("hold does not belong to the current session")
	ErrAlreadyBooked    = errors.New("seat(s) are already booked")
	ErrShowtimeNotFound = errors.New("showtime not found")
)

// SeatConflictError reports the exact seats that are already held or booked.
// Callers surface the IDs so the client can re-render the seat map.
type SeatConflictError struct {
	SeatIDs []int
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already held or booked: %v", e.SeatIDs)
}

func NewSeatConflictError(seatIDs []int) *SeatConflictError {
	return &SeatConflictError{SeatIDs: seatIDs}
}
