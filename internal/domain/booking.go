package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	// SeatStatusPending marks a seat reserved by a booking that still awaits
	// the payment gateway's confirmation. Durable but not final.
	SeatStatusPending SeatStatus = "pending"
	// SeatStatusBooked is the terminal reserved state.
	SeatStatusBooked SeatStatus = "booked"
	// SeatStatusCancelled frees the seat again; cancelled rows do not count
	// against the uniqueness constraint.
	SeatStatusCancelled SeatStatus = "cancelled"
)

type Customer struct {
	ID    int
	Name  string
	Phone string
	Email string
}

type Ticket struct {
	ID         int
	ShowtimeID int
	CustomerID int
	Seats      []Seat
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// Booking is the unit written atomically by the confirmation step: a ticket,
// its seats, the payment row, and one seat-status row per seat.
type Booking struct {
	Ticket     Ticket
	Customer   Customer
	Payment    Payment
	SeatStatus SeatStatus
}

type ShowtimeSeatStatus struct {
	ShowtimeID int
	SeatID     int
	TicketID   int
	Status     SeatStatus
}

type BookingRepository interface {
	// Create persists the whole booking in a single transaction. The customer
	// is resolved by phone number (find-or-create). A violation of the
	// (showtime, seat) uniqueness constraint is reported as ErrAlreadyBooked.
	Create(ctx context.Context, booking *Booking) error

	// GetReservedSeatIDs returns the seat IDs of every pending or booked
	// seat-status row for the showtime.
	GetReservedSeatIDs(ctx context.Context, showtimeID int) ([]int, error)

	// GetReservedSeatIDsIn behaves like GetReservedSeatIDs restricted to the
	// given candidate seats.
	GetReservedSeatIDsIn(ctx context.Context, showtimeID int, seatIDs []int) ([]int, error)

	// CompleteBySessionID transitions a pending booking to booked after the
	// gateway reports a successful payment for the checkout session.
	CompleteBySessionID(ctx context.Context, checkoutSessionID string) error

	// CancelBySessionID voids a pending booking whose checkout failed or
	// expired, freeing its seats.
	CancelBySessionID(ctx context.Context, checkoutSessionID string, reason string) error
}
