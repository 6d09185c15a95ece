package postgres

import (
	"context"
	"errors"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ClaimRepo manages claims using pgx and plain SQL.
type ClaimRepo struct{}

// NewClaimRepo constructs a new ClaimRepo.
func NewClaimRepo() ports.ClaimRepository {
	return &ClaimRepo{}
}

// ErrClaimNotFound is returned when no claim row matches the given id.
var ErrClaimNotFound = errors.New("claim not found")

// uniqueViolation is the Postgres error code for unique-constraint violations.
const uniqueViolation = "23505"

// Insert persists a new claim and fills ID/CreatedAt/UpdatedAt.
//
// The claims table carries UNIQUE (trip_id, driver_id); that constraint, not
// the application-level existence check, is what guarantees one claim per
// driver per trip under concurrent submissions. A violation from a lost race
// is translated into a DUPLICATE_CLAIM claim.Error here, at the store
// boundary, so callers never see a raw constraint failure.
func (repo *ClaimRepo) Insert(ctx context.Context, c *claim.Claim) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO claims (trip_id, driver_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.TripID, c.DriverID, c.Status.String()).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return claim.NewError(claim.KindDuplicateClaim, "you have already claimed this trip")
		}
		return err
	}

	return nil
}

// CountActiveForTrip counts claims holding trip capacity (PENDING+ACCEPTED).
// Run inside the same transaction as Insert so the count cannot diverge from
// what commits.
func (repo *ClaimRepo) CountActiveForTrip(ctx context.Context, tripID string) (int, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM claims
		WHERE trip_id = $1
		  AND status IN ('PENDING', 'ACCEPTED')
	`, tripID).Scan(&n)
	if err != nil {
		return 0, err
	}

	return n, nil
}

// ExistsForTripAndDriver reports whether the driver already has any claim on
// the trip, regardless of status.
func (repo *ClaimRepo) ExistsForTripAndDriver(ctx context.Context, tripID, driverID string) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM claims
			WHERE trip_id = $1 AND driver_id = $2
		)
	`, tripID, driverID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// GetByID reads one claim.
func (repo *ClaimRepo) GetByID(ctx context.Context, id string) (*claim.Claim, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT id, created_at, updated_at, trip_id, driver_id, status, decided_at, decided_by
		FROM claims
		WHERE id = $1
	`, id)

	return scanClaim(row)
}

// ListForTrip returns every claim on a trip, oldest first.
func (repo *ClaimRepo) ListForTrip(ctx context.Context, tripID string) ([]*claim.Claim, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, created_at, updated_at, trip_id, driver_id, status, decided_at, decided_by
		FROM claims
		WHERE trip_id = $1
		ORDER BY created_at ASC, id ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*claim.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}

// UpdateDecision persists a claim's status plus the decision stamps.
func (repo *ClaimRepo) UpdateDecision(ctx context.Context, c *claim.Claim) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE claims
		SET status = $1,
		    decided_at = $2,
		    decided_by = $3,
		    updated_at = now()
		WHERE id = $4
	`, c.Status.String(), c.DecidedAt, c.DecidedBy, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClaimNotFound
	}

	return nil
}

// scanClaim maps one claims row onto the domain entity.
func scanClaim(row pgx.Row) (*claim.Claim, error) {
	var (
		c          claim.Claim
		statusText string
	)

	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.TripID, &c.DriverID, &statusText, &c.DecidedAt, &c.DecidedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}

	if c.Status, err = claim.ParseStatus(statusText); err != nil {
		return nil, err
	}

	return &c, nil
}
