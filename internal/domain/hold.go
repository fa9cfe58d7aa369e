package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hold is a time-bounded, non-durable claim on a set of seats for one
// showtime. It lives in Redis under its own TTL and disappears on expiry
// without any explicit transition.
type Hold struct {
	ID         string          `json:"id"`
	ShowtimeID int             `json:"showtimeId"`
	SeatIDs    []int           `json:"seatIds"`
	HolderID   string          `json:"holderId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
	ExpiresAt  time.Time       `json:"expiresAt"`
}

func NewHold(showtimeID int, seatIDs []int, holderID string, totalPrice decimal.Decimal, ttl time.Duration) Hold {
	now := time.Now().UTC()

	return Hold{
		ID:         uuid.New().String(),
		ShowtimeID: showtimeID,
		SeatIDs:    seatIDs,
		HolderID:   holderID,
		TotalPrice: totalPrice,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// IsLive reports whether the hold is still within its TTL window. The check
// guards against clock skew between the store and the application; the
// store's native expiry remains the primary mechanism.
func (h Hold) IsLive(now time.Time) bool {
	return now.Before(h.ExpiresAt)
}
