package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/cinetix/cinema-booking/internal/domain"
)

// ConfirmInput carries the customer identity and the payment method chosen
// at checkout. Cash/staff confirmations are final immediately; card payments
// stay pending until the gateway's webhook reports the outcome.
type ConfirmInput struct {
	Customer domain.Customer
	Method   domain.PaymentMethod
}

type BookingResult struct {
	Booking     domain.Booking
	Showtime    *domain.ShowtimeSeats
	RedirectURL string
}

// Confirm converts a valid, unexpired hold into a permanent ticket, payment
// and seat-status record, then deletes the hold and its markers. It runs
// without the distributed lock: possession of a live hold ID is itself the
// exclusivity proof. Two confirmations racing on the same hold are resolved
// by the durable store's uniqueness constraint, the loser gets
// domain.ErrAlreadyBooked instead of a double booking.
func (s *Service) Confirm(ctx context.Context, holdID, holderID string, input ConfirmInput) (*BookingResult, error) {
	hold, err := s.getLiveHold(ctx, holdID)
	if err != nil {
		return nil, err
	}

	if holderID != "" && hold.HolderID != holderID {
		return nil, domain.ErrHoldNotOwned
	}

	// Defends against administrative or out-of-band seat mutation since the
	// hold was created.
	reserved, err := s.bookingRepo.GetReservedSeatIDsIn(ctx, hold.ShowtimeID, hold.SeatIDs)
	if err != nil {
		return nil, err
	}

	if len(reserved) > 0 {
		return nil, domain.NewSeatConflictError(reserved)
	}

	showtimeSeats, err := s.seatRepo.GetSeatsByShowtimeAndSeatIds(ctx, hold.ShowtimeID, hold.SeatIDs)
	if err != nil {
		return nil, err
	}

	if len(showtimeSeats.Seats) != len(hold.SeatIDs) {
		return nil, domain.ErrRecordNotFound
	}

	totalPrice := showtimeSeats.TotalPrice()

	booking := domain.Booking{
		Ticket: domain.Ticket{
			ShowtimeID: hold.ShowtimeID,
			Seats:      showtimeSeats.Seats,
			TotalPrice: totalPrice,
		},
		Customer: input.Customer,
	}

	var redirectURL string

	switch input.Method {
	case domain.PaymentMethodCash:
		now := time.Now().UTC()
		booking.SeatStatus = domain.SeatStatusBooked
		booking.Payment = domain.Payment{
			Amount:      totalPrice,
			Currency:    "USD",
			Method:      domain.PaymentMethodCash,
			Status:      domain.PaymentStatusPaid,
			PaymentDate: &now,
		}
	case domain.PaymentMethodCard:
		checkoutSession, err := s.paymentProvider.CreateCheckoutSession(input.Customer, booking.Ticket, showtimeSeats)
		if err != nil {
			return nil, fmt.Errorf("failed to create checkout session: %w", err)
		}

		booking.SeatStatus = domain.SeatStatusPending
		booking.Payment = domain.Payment{
			Amount:            totalPrice,
			Currency:          "USD",
			Method:            domain.PaymentMethodCard,
			Status:            domain.PaymentStatusUnpaid,
			CheckoutSessionID: &checkoutSession.ID,
		}
		redirectURL = checkoutSession.URL
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", input.Method)
	}

	// A failure here leaves the hold intact: the caller can retry the same
	// confirmation until the hold's TTL lapses.
	err = s.bookingRepo.Create(ctx, &booking)
	if err != nil {
		return nil, err
	}

	err = s.deleteHold(ctx, *hold)
	if err != nil {
		// Not fatal: the markers still expire on their own TTL, the booking
		// is already durable.
		s.logger.Error("failed to delete hold after confirmation", "hold_id", hold.ID, "error", err)
	}

	return &BookingResult{
		Booking:     booking,
		Showtime:    showtimeSeats,
		RedirectURL: redirectURL,
	}, nil
}
