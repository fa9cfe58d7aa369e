package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SeatType string

const (
	SeatTypeStandard SeatType = "Standard"
	SeatTypeVIP      SeatType = "VIP"
	SeatTypeCouple   SeatType = "Couple"
)

type Seat struct {
	ID        int
	HallID    int
	Row       int
	Col       int
	Type      SeatType
	Price     decimal.Decimal
	Available bool
}

// ShowtimeSeats is the seat inventory of a showtime's hall together with the
// showtime context needed to render a seat map or price a hold.
type ShowtimeSeats struct {
	ShowtimeID int
	MovieTitle string
	HallID     int
	HallName   string
	StartsAt   time.Time
	Seats      []Seat
}

// TotalPrice sums the unit prices of the given seats. Seat types are
// heterogeneous, every seat contributes its own price.
func (s *ShowtimeSeats) TotalPrice() decimal.Decimal {
	total := decimal.Zero

	for _, seat := range s.Seats {
		total = total.Add(seat.Price)
	}

	return total
}

type SeatRepository interface {
	GetSeatsByShowtime(ctx context.Context, showtimeID int) (*ShowtimeSeats, error)
	GetSeatsByShowtimeAndSeatIds(ctx context.Context, showtimeID int, seatIDs []int) (*ShowtimeSeats, error)
}
