package postgres

import (
	"context"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/ports"
)

// ClaimEventRepo persists audit events using pgx and plain SQL.
type ClaimEventRepo struct{}

// NewClaimEventRepo constructs a new ClaimEventRepo.
func NewClaimEventRepo() ports.ClaimEventRepository {
	return &ClaimEventRepo{}
}

// Append inserts a new claim_events row.
func (repo *ClaimEventRepo) Append(ctx context.Context, event *claim.Event) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// validate event before inserting
	if err := event.Validate(); err != nil {
		return err
	}

	// serialize event data to JSON
	data, err := event.DataJSON()
	if err != nil {
		return err
	}

	// insert claim event record
	err = tx.QueryRow(ctx, `
		INSERT INTO claim_events (subject_id, event_type, event_data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id, created_at
	`,
		event.SubjectID,
		event.Type.String(),
		string(data),
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}
