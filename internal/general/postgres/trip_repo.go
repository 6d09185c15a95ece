package postgres

import (
	"context"
	"errors"

	"trip-claims/internal/domain/trip"
	"trip-claims/internal/ports"

	"github.com/jackc/pgx/v5"
)

// TripRepo manages trips using pgx and plain SQL.
type TripRepo struct{}

// NewTripRepo constructs a new TripRepo.
func NewTripRepo() ports.TripRepository {
	return &TripRepo{}
}

// ErrTripNotFound is returned when no trip row matches the given id.
var ErrTripNotFound = errors.New("trip not found")

const tripColumns = `
	id, trip_number, created_at, updated_at,
	customer_id, driver_id,
	status, payment_status,
	scheduled_at, pickup_at,
	required_class, premium_only,
	origin_region, destination_region, property_region
`

// GetByID reads a trip without locking.
func (repo *TripRepo) GetByID(ctx context.Context, id string) (*trip.Trip, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = $1
	`, id)

	return scanTrip(row)
}

// GetByIDForUpdate reads the trip row with a write lock. The lock serializes
// competing claim submissions on the same trip for the remainder of the
// transaction.
func (repo *TripRepo) GetByIDForUpdate(ctx context.Context, id string) (*trip.Trip, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = $1
		FOR UPDATE
	`, id)

	return scanTrip(row)
}

// ListOpen returns unassigned PENDING_ASSIGNMENT trips with a future
// schedule, soonest pickup first.
func (repo *TripRepo) ListOpen(ctx context.Context, limit int) ([]*trip.Trip, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}

	rows, err := tx.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE status = 'PENDING_ASSIGNMENT'
		  AND driver_id IS NULL
		  AND scheduled_at > now()
		ORDER BY COALESCE(pickup_at, scheduled_at) ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*trip.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}

	return trips, rows.Err()
}

// scanTrip maps one trips row onto the domain entity, translating the
// nullable columns and the free-text enums at the storage boundary.
func scanTrip(row pgx.Row) (*trip.Trip, error) {
	var (
		t             trip.Trip
		statusText    string
		paymentText   string
		requiredClass *string
	)

	err := row.Scan(
		&t.ID, &t.TripNumber, &t.CreatedAt, &t.UpdatedAt,
		&t.CustomerID, &t.DriverID,
		&statusText, &paymentText,
		&t.ScheduledAt, &t.PickupAt,
		&requiredClass, &t.PremiumOnly,
		&t.OriginRegion, &t.DestinationRegion, &t.PropertyRegion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if t.Status, err = trip.ParseStatus(statusText); err != nil {
		return nil, err
	}
	if t.PaymentStatus, err = trip.ParsePaymentStatus(paymentText); err != nil {
		return nil, err
	}
	if requiredClass != nil && *requiredClass != "" {
		class := trip.NormalizeVehicleClass(*requiredClass)
		t.RequiredClass = &class
	}

	return &t, nil
}
