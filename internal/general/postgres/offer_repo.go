package postgres

import (
	"context"
	"errors"

	"trip-claims/internal/domain/offer"
	"trip-claims/internal/ports"

	"github.com/jackc/pgx/v5"
)

// OfferRepo manages offers using pgx and plain SQL.
type OfferRepo struct{}

// NewOfferRepo constructs a new OfferRepo.
func NewOfferRepo() ports.OfferRepository {
	return &OfferRepo{}
}

// ErrOfferNotFound is returned when no offer row matches the given id.
var ErrOfferNotFound = errors.New("offer not found")

// GetByID reads one offer.
func (repo *OfferRepo) GetByID(ctx context.Context, id string) (*offer.Offer, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT id, created_at, updated_at, booking_id, owner_id, total, currency, status, decided_at, decided_by
		FROM offers
		WHERE id = $1
	`, id)

	o, err := scanOffer(row)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListForBooking returns every offer on a booking, oldest first. The stable
// order keeps repeated shortlist computations reproducible.
func (repo *OfferRepo) ListForBooking(ctx context.Context, bookingID string) ([]offer.Offer, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, created_at, updated_at, booking_id, owner_id, total, currency, status, decided_at, decided_by
		FROM offers
		WHERE booking_id = $1
		ORDER BY created_at ASC, id ASC
	`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []offer.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}

	return offers, rows.Err()
}

// MarkReviewing bulk-transitions the booking's PENDING offers to REVIEWING.
// Calling it when no PENDING offers remain transitions zero rows; that is a
// success, which is what makes start-review idempotent.
func (repo *OfferRepo) MarkReviewing(ctx context.Context, bookingID string) (int64, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE offers
		SET status = 'REVIEWING',
		    updated_at = now()
		WHERE booking_id = $1
		  AND status = 'PENDING'
	`, bookingID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// UpdateDecision persists an offer's status plus the decision stamps.
func (repo *OfferRepo) UpdateDecision(ctx context.Context, o *offer.Offer) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE offers
		SET status = $1,
		    decided_at = $2,
		    decided_by = $3,
		    updated_at = now()
		WHERE id = $4
	`, o.Status.String(), o.DecidedAt, o.DecidedBy, o.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOfferNotFound
	}

	return nil
}

// scanOffer maps one offers row onto the domain entity.
func scanOffer(row pgx.Row) (*offer.Offer, error) {
	var (
		o          offer.Offer
		statusText string
	)

	err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt, &o.BookingID, &o.OwnerID, &o.Total, &o.Currency, &statusText, &o.DecidedAt, &o.DecidedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	if o.Status, err = offer.ParseStatus(statusText); err != nil {
		return nil, err
	}

	return &o, nil
}
