package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinetix/cinema-booking/api"
	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/cinetix/cinema-booking/internal/reservation"
)

func (app *Application) CreateHoldHandler(w http.ResponseWriter, r *http.Request, showtimeID int) {
	logger := app.contextGetLogger(r)

	if showtimeID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("showtime ID must be greater than zero"))
		return
	}

	var input api.CreateHoldRequest

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

	hold, err := app.reservations.RequestHold(r.Context(), showtimeID, input.SeatIdList, sessionID)
	if err != nil {
		var conflictErr *domain.SeatConflictError

		switch {
		case errors.As(err, &conflictErr):
			logger.Warn("hold request conflict", "showtime_id", showtimeID, "conflict_seats", conflictErr.SeatIDs)
			app.seatConflictResponse(w, r, conflictErr)
		case errors.Is(err, domain.ErrLockUnavailable):
			logger.Warn("hold request could not acquire reservation lock", "showtime_id", showtimeID)
			app.lockUnavailableResponse(w, r)
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("hold request for seats that do not exist", "showtime_id", showtimeID, "requested_seats", input.SeatIdList)
			app.notFoundResponse(w, r)
		case errors.Is(err, reservation.ErrEmptySeatList):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	showtimeSeats, err := app.seatRepo.GetSeatsByShowtimeAndSeatIds(r.Context(), showtimeID, hold.SeatIDs)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toHoldResponse(hold, showtimeSeats.Seats, app.reservations.HoldTTL())

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHoldHandler(w http.ResponseWriter, r *http.Request, holdID string) {
	logger := app.contextGetLogger(r)

	if holdID == "" {
		app.badRequestResponse(w, r, fmt.Errorf("hold ID must not be empty"))
		return
	}

	sessionID := app.sessionManager.Token(r.Context())

	err := app.reservations.ReleaseHold(r.Context(), holdID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHoldExpired):
			logger.Warn("release attempt for a missing or expired hold", "hold_id", holdID)
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrHoldNotOwned):
			logger.Warn("release attempt by a session that does not own the hold", "hold_id", holdID)
			app.errorResponse(w, r, http.StatusForbidden, ErrHoldNotOwned)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toHoldResponse(hold *domain.Hold, seats []domain.Seat, ttl time.Duration) api.HoldResponse {
	return api.HoldResponse{
		HoldId:     hold.ID,
		ShowtimeId: hold.ShowtimeID,
		Seats:      toHoldSeats(seats),
		TotalPrice: hold.TotalPrice,
		HoldTime:   int(ttl.Seconds()),
		ExpiresAt:  hold.ExpiresAt,
	}
}

func toHoldSeats(seats []domain.Seat) []api.HoldSeat {
	holdSeats := make([]api.HoldSeat, len(seats))

	for i, v := range seats {
		holdSeats[i] = api.HoldSeat{
			Id:     v.ID,
			Row:    v.Row,
			Column: v.Col,
			Type:   api.SeatType(v.Type),
			Price:  v.Price,
		}
	}

	return holdSeats
}
