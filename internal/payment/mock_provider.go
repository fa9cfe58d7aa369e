package payment

import (
	"fmt"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
)

// MockPaymentProvider stands in for Stripe in tests. Every call yields a
// fresh session ID so parallel checkouts never collide on the payments
// table's session index.
type MockPaymentProvider struct{}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	customer domain.Customer,
	ticket domain.Ticket,
	showtime *domain.ShowtimeSeats) (*stripe.CheckoutSession, error) {

	id := "cs_test_" + uuid.New().String()

	return &stripe.CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("https://checkout.stripe.test/pay/%s", id),
	}, nil
}
