package repository

import (
	"context"
	"errors"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create persists the whole booking in one transaction. The seat_statuses
// insert is the linchpin: its partial unique index on (showtime_id, seat_id)
// rejects a second pending/booked row per seat, so of two racing
// confirmations exactly one commits and the other gets ErrAlreadyBooked.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		customerID, err := upsertCustomer(ctx, tx, booking.Customer)
		if err != nil {
			return err
		}

		booking.Customer.ID = customerID
		booking.Ticket.CustomerID = customerID

		query := `
			INSERT INTO tickets (showtime_id, customer_id, total_price)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.Ticket.ShowtimeID,
			customerID,
			booking.Ticket.TotalPrice).Scan(&booking.Ticket.ID, &booking.Ticket.CreatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.Ticket.Seats))
		for _, seat := range booking.Ticket.Seats {
			rows = append(rows, []any{
				booking.Ticket.ID,
				booking.Ticket.ShowtimeID,
				seat.ID,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"ticket_seats"},
			[]string{"ticket_id", "showtime_id", "seat_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO payments (ticket_id, amount, currency, method, status, checkout_session_id, payment_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.Ticket.ID,
			booking.Payment.Amount,
			booking.Payment.Currency,
			booking.Payment.Method,
			booking.Payment.Status,
			booking.Payment.CheckoutSessionID,
			booking.Payment.PaymentDate).Scan(&booking.Payment.ID)

		if err != nil {
			return err
		}

		booking.Payment.TicketID = booking.Ticket.ID

		query = `
			INSERT INTO seat_statuses (showtime_id, seat_id, ticket_id, status)
			VALUES ($1, $2, $3, $4)
		`

		for _, seat := range booking.Ticket.Seats {
			_, err = tx.Exec(ctx, query, booking.Ticket.ShowtimeID, seat.ID, booking.Ticket.ID, booking.SeatStatus)
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrAlreadyBooked
		}

		return err
	}

	return nil
}

// upsertCustomer resolves the customer by phone number. Repeat customers keep
// their row; name and email follow the latest booking.
func upsertCustomer(ctx context.Context, tx pgx.Tx, customer domain.Customer) (int, error) {
	query := `
		INSERT INTO customers (name, phone, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email
		RETURNING id
	`

	var customerID int

	err := tx.QueryRow(ctx, query, customer.Name, customer.Phone, customer.Email).Scan(&customerID)
	if err != nil {
		return 0, err
	}

	return customerID, nil
}

func (p *PostgresBookingRepository) GetReservedSeatIDs(ctx context.Context, showtimeID int) ([]int, error) {
	query := `
		SELECT seat_id
		FROM seat_statuses
		WHERE showtime_id = $1 AND status IN ('pending', 'booked')
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeatIDs(rows)
}

func (p *PostgresBookingRepository) GetReservedSeatIDsIn(
	ctx context.Context,
	showtimeID int,
	seatIDs []int) ([]int, error) {

	query := `
		SELECT seat_id
		FROM seat_statuses
		WHERE showtime_id = $1 AND seat_id = ANY($2) AND status IN ('pending', 'booked')
	`

	rows, err := p.db.Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeatIDs(rows)
}

func scanSeatIDs(rows pgx.Rows) ([]int, error) {
	seatIDs := make([]int, 0)

	for rows.Next() {
		var seatID int

		err := rows.Scan(&seatID)
		if err != nil {
			return nil, err
		}

		seatIDs = append(seatIDs, seatID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seatIDs, nil
}

func (p *PostgresBookingRepository) CompleteBySessionID(ctx context.Context, checkoutSessionID string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE payments
			SET status = 'paid', payment_date = NOW(), updated_at = NOW()
			WHERE checkout_session_id = $1 AND status = 'unpaid'
			RETURNING ticket_id
		`

		var ticketID int

		err := tx.QueryRow(ctx, query, checkoutSessionID).Scan(&ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		query = `
			UPDATE seat_statuses
			SET status = 'booked'
			WHERE ticket_id = $1 AND status = 'pending'
		`

		_, err = tx.Exec(ctx, query, ticketID)

		return err
	})
}

func (p *PostgresBookingRepository) CancelBySessionID(
	ctx context.Context,
	checkoutSessionID string,
	reason string) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE payments
			SET status = 'cancelled', error_msg = $2, updated_at = NOW()
			WHERE checkout_session_id = $1 AND status = 'unpaid'
			RETURNING ticket_id
		`

		var ticketID int

		err := tx.QueryRow(ctx, query, checkoutSessionID, reason).Scan(&ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		// Cancelled rows fall out of the partial unique index, so the seats
		// become holdable again immediately.
		query = `
			UPDATE seat_statuses
			SET status = 'cancelled'
			WHERE ticket_id = $1 AND status = 'pending'
		`

		_, err = tx.Exec(ctx, query, ticketID)

		return err
	})
}
