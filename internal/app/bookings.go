package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cinetix/cinema-booking/api"
	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/cinetix/cinema-booking/internal/reservation"
)

const ticketConfirmationTemplate = "ticket_confirmation.tmpl"

func (app *Application) ConfirmHoldHandler(w http.ResponseWriter, r *http.Request, holdID string) {
	logger := app.contextGetLogger(r)

	if holdID == "" {
		app.badRequestResponse(w, r, fmt.Errorf("hold ID must not be empty"))
		return
	}

	var input api.ConfirmHoldRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	sessionID := app.sessionManager.Token(r.Context())

	confirmInput := reservation.ConfirmInput{
		Customer: domain.Customer{
			Name:  input.Customer.Name,
			Phone: input.Customer.Phone,
			Email: input.Customer.Email,
		},
		Method: domain.PaymentMethod(input.PaymentMethod),
	}

	result, err := app.reservations.Confirm(r.Context(), holdID, sessionID, confirmInput)
	if err != nil {
		var conflictErr *domain.SeatConflictError

		switch {
		case errors.Is(err, domain.ErrHoldExpired):
			logger.Warn("confirmation attempt for a missing or expired hold", "hold_id", holdID)
			app.errorResponse(w, r, http.StatusGone, ErrHoldExpired)
		case errors.Is(err, domain.ErrHoldNotOwned):
			logger.Warn("confirmation attempt by a session that does not own the hold", "hold_id", holdID)
			app.errorResponse(w, r, http.StatusForbidden, ErrHoldNotOwned)
		case errors.Is(err, domain.ErrAlreadyBooked):
			logger.Warn("confirmation lost the race against another booking", "hold_id", holdID)
			app.errorResponse(w, r, http.StatusConflict, ErrAlreadyBooked)
		case errors.As(err, &conflictErr):
			logger.Warn("confirmation conflict with reserved seats", "hold_id", holdID, "conflict_seats", conflictErr.SeatIDs)
			app.seatConflictResponse(w, r, conflictErr)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if result.Booking.SeatStatus == domain.SeatStatusBooked {
		app.sendTicketConfirmationEmail(logger, result)
	}

	resp := toBookingResponse(result)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// sendTicketConfirmationEmail is fire-and-forget: a failed email never fails
// the booking.
func (app *Application) sendTicketConfirmationEmail(logger *slog.Logger, result *reservation.BookingResult) {
	booking := result.Booking

	data := map[string]any{
		"CustomerName": booking.Customer.Name,
		"TicketID":     booking.Ticket.ID,
		"MovieTitle":   result.Showtime.MovieTitle,
		"HallName":     result.Showtime.HallName,
		"ShowtimeDate": result.Showtime.StartsAt.Format(time.RFC1123),
		"Seats":        result.Showtime.Seats,
		"TotalPrice":   booking.Ticket.TotalPrice,
	}

	go func() {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic while sending confirmation email", "error", err)
			}
		}()

		err := app.mailer.Send(booking.Customer.Email, ticketConfirmationTemplate, data)
		if err != nil {
			logger.Error("failed to send ticket confirmation email", "ticket_id", booking.Ticket.ID, "error", err)
		}
	}()
}

func toBookingResponse(result *reservation.BookingResult) api.BookingResponse {
	booking := result.Booking

	return api.BookingResponse{
		TicketId:      booking.Ticket.ID,
		ShowtimeId:    booking.Ticket.ShowtimeID,
		Seats:         toHoldSeats(result.Showtime.Seats),
		TotalPrice:    booking.Ticket.TotalPrice,
		PaymentStatus: string(booking.Payment.Status),
		SeatStatus:    string(booking.SeatStatus),
		RedirectUrl:   result.RedirectURL,
		CreatedAt:     booking.Ticket.CreatedAt,
	}
}
