package contracts

import "time"

// ClaimSubmittedMessage is published by Claim Service after a claim commits.
// Routing key: "claim.submitted.{trip_id}" on ExchangeClaimTopic.
type ClaimSubmittedMessage struct {
	ClaimID     string    `json:"claim_id"`
	TripID      string    `json:"trip_id"`
	TripNumber  string    `json:"trip_number,omitempty"`
	DriverID    string    `json:"driver_id"`
	Status      string    `json:"status"` // always PENDING at submission
	SubmittedAt time.Time `json:"submitted_at"`
	Envelope
}

// ClaimStatusMessage announces a claim or offer status transition.
// Routing key: "claim.status.{status}" on ExchangeClaimTopic.
type ClaimStatusMessage struct {
	ClaimID   string    `json:"claim_id"`
	TripID    string    `json:"trip_id,omitempty"`
	Status    string    `json:"status"` // PENDING|REVIEWING|ACCEPTED|REJECTED|WITHDRAWN
	DecidedBy string    `json:"decided_by,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Envelope
}

// OfferDecisionMessage is published by Review Service when an offer decision
// is recorded. Routing key: "review.decision.{booking_id}" on
// ExchangeReviewTopic.
type OfferDecisionMessage struct {
	OfferID   string    `json:"offer_id"`
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
	DecidedBy string    `json:"decided_by,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Envelope
}
