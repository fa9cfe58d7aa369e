package mocks

import (
	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateCheckoutSession(customer domain.Customer, ticket domain.Ticket, showtime *domain.ShowtimeSeats) (*stripe.CheckoutSession, error) {
	args := m.Called(customer, ticket, showtime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}
