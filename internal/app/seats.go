package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cinetix/cinema-booking/api"
	"github.com/cinetix/cinema-booking/internal/domain"
)

func (app *Application) GetSeatMapByShowtime(
	w http.ResponseWriter,
	r *http.Request,
	showtimeID int) {

	logger := app.contextGetLogger(r)

	if showtimeID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("showtime ID must be greater than zero"))
		return
	}

	showtimeSeats, err := app.reservations.AvailableSeats(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrShowtimeNotFound) {
			logger.Warn("seat map not found for showtime", "showtime_id", showtimeID)
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(showtimeSeats)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(showtimeSeats *domain.ShowtimeSeats) api.SeatMapResponse {
	return api.SeatMapResponse{
		ShowtimeId: showtimeSeats.ShowtimeID,
		HallId:     showtimeSeats.HallID,
		HallName:   showtimeSeats.HallName,
		MovieTitle: showtimeSeats.MovieTitle,
		StartsAt:   showtimeSeats.StartsAt,
		SeatRows:   toSeatRows(showtimeSeats.Seats),
	}
}

func toSeatRows(seats []domain.Seat) []api.SeatRow {
	// Seats are pre-sorted by Row,Column (ascending).
	// This allows us to process them in a single pass without additional sorting or mapping.

	var seatRows []api.SeatRow
	currentRow := api.SeatRow{Row: seats[0].Row}

	for _, v := range seats {
		if v.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.Row}
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			Id:        v.ID,
			Row:       v.Row,
			Column:    v.Col,
			Type:      api.SeatType(v.Type),
			Price:     v.Price,
			Available: v.Available,
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
