package claim

import (
	"errors"
	"strings"
	"time"
)

// Claim is the domain entity corresponding to the `claims` table: one
// driver's bid on one trip. Claims are never deleted, only
// status-transitioned, so the table doubles as an audit trail.
type Claim struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	TripID   string
	DriverID string
	Status   Status

	// Stamped when the claim leaves PENDING; cleared when it re-enters it.
	DecidedAt *time.Time
	DecidedBy *string
}

var (
	ErrTripRequired   = errors.New("trip id is required")
	ErrDriverRequired = errors.New("driver id is required")
)

// NewClaim creates a new claim in PENDING state.
func NewClaim(tripID, driverID string) (*Claim, error) {
	if tripID = strings.TrimSpace(tripID); tripID == "" {
		return nil, ErrTripRequired
	}
	if driverID = strings.TrimSpace(driverID); driverID == "" {
		return nil, ErrDriverRequired
	}

	now := time.Now().UTC()
	return &Claim{
		CreatedAt: now,
		UpdatedAt: now,
		TripID:    tripID,
		DriverID:  driverID,
		Status:    StatusPending,
	}, nil
}

// Decide transitions the claim to next, stamping or clearing the decision
// fields. Leaving PENDING records who decided and when; returning to PENDING
// clears both, since the claim is back in the undecided pool.
func (claim *Claim) Decide(next Status, decidedBy string, at time.Time) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}

	claim.Status = next
	claim.UpdatedAt = at.UTC()

	if next == StatusPending {
		claim.DecidedAt = nil
		claim.DecidedBy = nil
		return nil
	}

	t := at.UTC()
	claim.DecidedAt = &t
	if by := strings.TrimSpace(decidedBy); by != "" {
		claim.DecidedBy = &by
	}
	return nil
}
