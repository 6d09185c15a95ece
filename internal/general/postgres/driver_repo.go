package postgres

import (
	"context"
	"errors"

	"trip-claims/internal/domain/driver"
	"trip-claims/internal/ports"

	"github.com/jackc/pgx/v5"
)

// DriverRepo manages driver profiles using pgx and plain SQL.
type DriverRepo struct{}

// NewDriverRepo constructs a new DriverRepo.
func NewDriverRepo() ports.DriverRepository {
	return &DriverRepo{}
}

// ErrDriverNotFound is returned when no driver row matches the given id.
var ErrDriverNotFound = errors.New("driver not found")

// GetByID reads one driver profile.
func (repo *DriverRepo) GetByID(ctx context.Context, driverID string) (*driver.Driver, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var d driver.Driver
	err = tx.QueryRow(ctx, `
		SELECT id, created_at, updated_at,
		       name, vehicle_text, premium,
		       region, operating_areas
		FROM drivers
		WHERE id = $1
	`, driverID).Scan(
		&d.ID, &d.CreatedAt, &d.UpdatedAt,
		&d.Name, &d.VehicleText, &d.Premium,
		&d.Region, &d.OperatingAreas,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	return &d, nil
}
