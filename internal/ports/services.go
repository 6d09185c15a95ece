package ports

import (
	"context"
	"time"
)

// ----- DTOs for Claim Service -----

// OpenTripView is one row of the driver-facing open-trip listing. The
// can-claim annotation is advisory: the same checks are re-run inside the
// submit transaction, because this view can be stale by the time the driver
// acts on it.
type OpenTripView struct {
	TripID            string     `json:"trip_id"`
	TripNumber        string     `json:"trip_number"`
	ScheduledAt       time.Time  `json:"scheduled_at"`
	PickupAt          *time.Time `json:"pickup_at,omitempty"`
	OriginRegion      string     `json:"origin_region"`
	DestinationRegion string     `json:"destination_region"`
	RequiredClass     string     `json:"required_class,omitempty"`
	PremiumOnly       bool       `json:"premium_only"`

	CanClaim          bool   `json:"can_claim"`
	Reason            string `json:"reason,omitempty"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
}

// SubmitClaimInput is the validated input required to submit a claim.
type SubmitClaimInput struct {
	TripID   string
	DriverID string
}

// SubmitClaimResult is returned by ClaimService.SubmitClaim().
type SubmitClaimResult struct {
	ClaimID     string    `json:"claim_id"`
	TripID      string    `json:"trip_id"`
	TripNumber  string    `json:"trip_number"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	Message     string    `json:"message"`
}

// ----- Claim Service Interface -----

// ClaimService exposes the boundary for the driver-facing claim service.
type ClaimService interface {
	ListOpenTrips(ctx context.Context, driverID string) ([]OpenTripView, error)
	SubmitClaim(ctx context.Context, in SubmitClaimInput) (SubmitClaimResult, error)
	// StartBackgroundConsumer launches the MQ consumer applying claim status
	// decisions announced by the auto-dispatch process.
	StartBackgroundConsumer(ctx context.Context, prefetch int)
}

// ---------------------------------------------------------------------------------------------------------------

// ----- DTOs for Review Service -----

// ShortlistEntry is one shortlisted offer as rendered to the reviewer.
type ShortlistEntry struct {
	OfferID   string    `json:"offer_id"`
	OwnerID   string    `json:"owner_id"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ShortlistResult is returned by ReviewService.Shortlist(). Empty is true
// when the booking has no shortlistable offers; that is a valid outcome,
// not an error.
type ShortlistResult struct {
	BookingID     string          `json:"booking_id"`
	Empty         bool            `json:"empty"`
	High          *ShortlistEntry `json:"high,omitempty"`
	Mid           *ShortlistEntry `json:"mid,omitempty"`
	Low           *ShortlistEntry `json:"low,omitempty"`
	Target        float64         `json:"target,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	EligibleCount int             `json:"eligible_count"`
}

// StartReviewResult is returned by ReviewService.StartReview().
type StartReviewResult struct {
	BookingID     string `json:"booking_id"`
	BookingStatus string `json:"booking_status"`
	Transitioned  int64  `json:"transitioned"`
}

// RecordDecisionInput is the validated input for a single-offer decision.
type RecordDecisionInput struct {
	OfferID   string
	Status    string
	DecidedBy string
}

// RecordDecisionResult is returned by ReviewService.RecordDecision().
type RecordDecisionResult struct {
	OfferID   string     `json:"offer_id"`
	Status    string     `json:"status"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	DecidedBy string     `json:"decided_by,omitempty"`
}

// ----- Review Service Interface -----

// ReviewService exposes the boundary for the admin-facing review service.
type ReviewService interface {
	Shortlist(ctx context.Context, bookingID string) (ShortlistResult, error)
	StartReview(ctx context.Context, bookingID string) (StartReviewResult, error)
	RecordDecision(ctx context.Context, in RecordDecisionInput) (RecordDecisionResult, error)
}
