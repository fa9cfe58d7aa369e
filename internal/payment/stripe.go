package payment

import (
	"fmt"
	"strconv"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	failureUrl string
	successUrl string
}

func NewStripePaymentProvider(failureUrl, successUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		failureUrl: failureUrl,
		successUrl: successUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	customer domain.Customer,
	ticket domain.Ticket,
	showtime *domain.ShowtimeSeats) (*stripe.CheckoutSession, error) {

	var lineItems []*stripe.CheckoutSessionLineItemParams

	for _, seat := range ticket.Seats {
		seatLabel := fmt.Sprintf("Row %d Seat %d", seat.Row, seat.Col)
		priceCents := seat.Price.Mul(decimal.NewFromInt(100)).IntPart()

		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(priceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("🎬 %s - %s", showtime.MovieTitle, seatLabel)),
					Description: stripe.String(fmt.Sprintf(
						"Hall: %s • Showtime: %s • Seat Type: %s",
						showtime.HallName,
						showtime.StartsAt.Format("Jan 2, 2006 15:04"),
						seat.Type,
					)),
				},
			},
			Quantity: stripe.Int64(1),
		}

		lineItems = append(lineItems, lineItem)
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"showtime_id":    strconv.Itoa(ticket.ShowtimeID),
			"customer_phone": customer.Phone,
		},
		CustomerEmail: &customer.Email,
	}

	return session.New(params)
}
