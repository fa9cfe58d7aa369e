// Package api defines the JSON types exchanged with clients.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// SeatConflictResponse names the exact seats that could not be held so that
// clients can re-render the seat map without a full reload.
type SeatConflictResponse struct {
	Message         string    `json:"message"`
	ConflictSeatIds []int     `json:"conflictSeatIds"`
	RequestId       string    `json:"requestId"`
	Timestamp       time.Time `json:"timestamp"`
}

type CreateHoldRequest struct {
	SeatIdList []int `json:"seatIdList" validate:"required,min=1,max=8,unique,dive,gt=0"`
}

type HoldSeat struct {
	Id     int             `json:"id"`
	Row    int             `json:"row"`
	Column int             `json:"column"`
	Type   SeatType        `json:"type"`
	Price  decimal.Decimal `json:"price"`
}

type HoldResponse struct {
	HoldId     string          `json:"holdId"`
	ShowtimeId int             `json:"showtimeId"`
	Seats      []HoldSeat      `json:"seats"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	HoldTime   int             `json:"holdTime"`
	ExpiresAt  time.Time       `json:"expiresAt"`
}

type SeatType string

const (
	Standard SeatType = "Standard"
	VIP      SeatType = "VIP"
	Couple   SeatType = "Couple"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type CustomerInfo struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"required,phone"`
	Email string `json:"email" validate:"required,email"`
}

type ConfirmHoldRequest struct {
	Customer      CustomerInfo  `json:"customer" validate:"required"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,payment_method"`
}

type BookingResponse struct {
	TicketId      int             `json:"ticketId"`
	ShowtimeId    int             `json:"showtimeId"`
	Seats         []HoldSeat      `json:"seats"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentStatus string          `json:"paymentStatus"`
	SeatStatus    string          `json:"seatStatus"`
	// RedirectUrl is only set for online payments and points at the
	// provider's checkout page.
	RedirectUrl string    `json:"redirectUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Seat struct {
	Id        int             `json:"id"`
	Row       int             `json:"row"`
	Column    int             `json:"column"`
	Type      SeatType        `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

type SeatRow struct {
	Row   int    `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId int       `json:"showtimeId"`
	HallId     int       `json:"hallId"`
	HallName   string    `json:"hallName"`
	MovieTitle string    `json:"movieTitle"`
	StartsAt   time.Time `json:"startsAt"`
	SeatRows   []SeatRow `json:"seatRows"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
