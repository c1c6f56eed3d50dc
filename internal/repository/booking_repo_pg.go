package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skylinehq/flightbooking/internal/domain"
)

// Tx is the slice of a database transaction the lifecycle engine needs: all
// writes under it become visible together on Commit or vanish on Rollback.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type BookingRepository interface {
	Begin(ctx context.Context) (Tx, error)
	Insert(ctx context.Context, tx Tx, booking *domain.Booking) error
	GetByID(ctx context.Context, tx Tx, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, tx Tx, id int64, status domain.BookingStatus) error
	CancelOlderThan(ctx context.Context, cutoff time.Time, excluded ...domain.BookingStatus) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Begin(ctx context.Context) (Tx, error) {
	return r.db.BeginTx(ctx, pgx.TxOptions{})
}

func (r *PGBookingRepository) Insert(ctx context.Context, tx Tx, booking *domain.Booking) error {
	pgtx, err := pgTx(tx)
	if err != nil {
		return err
	}
	return pgtx.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, no_of_seats, total_cost, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.FlightID, booking.NoOfSeats, booking.TotalCost, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

// GetByID locks the row for the duration of the transaction so concurrent
// pay/cancel calls on the same booking serialize on the store.
func (r *PGBookingRepository) GetByID(ctx context.Context, tx Tx, id int64) (*domain.Booking, error) {
	pgtx, err := pgTx(tx)
	if err != nil {
		return nil, err
	}
	row := pgtx.QueryRow(ctx, `SELECT id, user_id, flight_id, no_of_seats, total_cost, status, created_at, updated_at
		FROM bookings WHERE id=$1 FOR UPDATE`, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.NoOfSeats, &b.TotalCost, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, tx Tx, id int64, status domain.BookingStatus) error {
	pgtx, err := pgTx(tx)
	if err != nil {
		return err
	}
	cmd, err := pgtx.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// CancelOlderThan cancels every booking created strictly before cutoff whose
// status is not in excluded, in a single conditional update. It runs outside
// any caller transaction.
func (r *PGBookingRepository) CancelOlderThan(ctx context.Context, cutoff time.Time, excluded ...domain.BookingStatus) ([]domain.Booking, error) {
	skip := make([]string, 0, len(excluded))
	for _, status := range excluded {
		skip = append(skip, string(status))
	}

	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE created_at < $2 AND NOT (status = ANY($3))
		RETURNING id, user_id, flight_id, no_of_seats, total_cost, status, created_at, updated_at`,
		domain.BookingStatusCancelled, cutoff, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cancelled []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.FlightID, &b.NoOfSeats, &b.TotalCost, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		cancelled = append(cancelled, b)
	}
	return cancelled, rows.Err()
}

func pgTx(tx Tx) (pgx.Tx, error) {
	pgtx, ok := tx.(pgx.Tx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", tx)
	}
	return pgtx, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
