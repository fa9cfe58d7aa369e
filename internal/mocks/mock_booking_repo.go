package mocks

import (
	"context"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepo) GetReservedSeatIDs(ctx context.Context, showtimeID int) ([]int, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockBookingRepo) GetReservedSeatIDsIn(ctx context.Context, showtimeID int, seatIDs []int) ([]int, error) {
	args := m.Called(ctx, showtimeID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockBookingRepo) CompleteBySessionID(ctx context.Context, checkoutSessionID string) error {
	args := m.Called(ctx, checkoutSessionID)
	return args.Error(0)
}

func (m *MockBookingRepo) CancelBySessionID(ctx context.Context, checkoutSessionID string, reason string) error {
	args := m.Called(ctx, checkoutSessionID, reason)
	return args.Error(0)
}
