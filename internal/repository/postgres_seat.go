package repository

import (
	"context"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetSeatsByShowtime(ctx context.Context, showtimeID int) (*domain.ShowtimeSeats, error) {
	query := `
		SELECT
			sh.id AS showtime_id,
			m.title AS movie_title,
			h.id AS hall_id,
			h.name AS hall_name,
			sh.starts_at,
			se.id AS seat_id,
			se.seat_row,
			se.seat_col,
			se.seat_type,
			se.price
		FROM showtimes sh
		JOIN movies m
			ON sh.movie_id = m.id
		JOIN halls h
			ON sh.hall_id = h.id
		JOIN seats se
			ON se.hall_id = h.id
		WHERE sh.id = $1
		ORDER BY se.seat_row, se.seat_col
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var showtimeSeats domain.ShowtimeSeats

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&showtimeSeats.ShowtimeID,
			&showtimeSeats.MovieTitle,
			&showtimeSeats.HallID,
			&showtimeSeats.HallName,
			&showtimeSeats.StartsAt,
			&seat.ID,
			&seat.Row,
			&seat.Col,
			&seat.Type,
			&seat.Price,
		)
		if err != nil {
			return nil, err
		}

		seat.HallID = showtimeSeats.HallID
		showtimeSeats.Seats = append(showtimeSeats.Seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &showtimeSeats, nil
}

func (p *PostgresSeatRepository) GetSeatsByShowtimeAndSeatIds(
	ctx context.Context,
	showtimeID int,
	seatIDs []int) (*domain.ShowtimeSeats, error) {

	query := `
		SELECT
			sh.id AS showtime_id,
			m.title AS movie_title,
			h.id AS hall_id,
			h.name AS hall_name,
			sh.starts_at,
			se.id AS seat_id,
			se.seat_row,
			se.seat_col,
			se.seat_type,
			se.price
		FROM showtimes sh
		JOIN movies m
			ON sh.movie_id = m.id
		JOIN halls h
			ON sh.hall_id = h.id
		JOIN seats se
			ON se.hall_id = h.id AND se.id = ANY($2)
		WHERE sh.id = $1
		ORDER BY se.seat_row, se.seat_col
	`

	rows, err := p.db.Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var showtimeSeats domain.ShowtimeSeats

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&showtimeSeats.ShowtimeID,
			&showtimeSeats.MovieTitle,
			&showtimeSeats.HallID,
			&showtimeSeats.HallName,
			&showtimeSeats.StartsAt,
			&seat.ID,
			&seat.Row,
			&seat.Col,
			&seat.Type,
			&seat.Price,
		)
		if err != nil {
			return nil, err
		}

		seat.HallID = showtimeSeats.HallID
		showtimeSeats.Seats = append(showtimeSeats.Seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &showtimeSeats, nil
}
