package postgres

import (
	"context"
	"errors"

	"trip-claims/internal/domain/booking"
	"trip-claims/internal/ports"

	"github.com/jackc/pgx/v5"
)

// BookingRepo manages group bookings using pgx and plain SQL.
type BookingRepo struct{}

// NewBookingRepo constructs a new BookingRepo.
func NewBookingRepo() ports.BookingRepository {
	return &BookingRepo{}
}

// ErrBookingNotFound is returned when no booking row matches the given id.
var ErrBookingNotFound = errors.New("booking not found")

// GetByID reads a booking without locking.
func (repo *BookingRepo) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	return repo.get(ctx, id, false)
}

// GetByIDForUpdate reads the booking row with a write lock, serializing
// concurrent start-review calls on the same booking.
func (repo *BookingRepo) GetByIDForUpdate(ctx context.Context, id string) (*booking.Booking, error) {
	return repo.get(ctx, id, true)
}

func (repo *BookingRepo) get(ctx context.Context, id string, forUpdate bool) (*booking.Booking, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, created_at, updated_at, customer_id, region, status
		FROM bookings
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		b          booking.Booking
		statusText string
	)
	err = tx.QueryRow(ctx, query, id).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt, &b.CustomerID, &b.Region, &statusText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if b.Status, err = booking.ParseStatus(statusText); err != nil {
		return nil, err
	}

	return &b, nil
}

// MarkReviewing transitions PENDING -> REVIEWING. A booking already past
// PENDING is left untouched and reported as not-changed; that keeps the
// operation idempotent.
func (repo *BookingRepo) MarkReviewing(ctx context.Context, id string) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = 'REVIEWING',
		    updated_at = now()
		WHERE id = $1
		  AND status = 'PENDING'
	`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
