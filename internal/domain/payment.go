package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type Payment struct {
	ID                int
	TicketID          int
	Amount            decimal.Decimal
	Currency          string
	Method            PaymentMethod
	Status            PaymentStatus
	CheckoutSessionID *string
	ErrorMsg          *string
	PaymentDate       *time.Time
	CreatedAt         time.Time
}

// PaymentProvider creates the external checkout session for online payments.
// Status transitions are driven by the provider's webhook, not by the
// reservation engine directly.
type PaymentProvider interface {
	CreateCheckoutSession(customer Customer, ticket Ticket, showtime *ShowtimeSeats) (*stripe.CheckoutSession, error)
}
