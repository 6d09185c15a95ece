package contracts

import "time"

// WSDriverClaimUpdate mirrors messages sent over the driver WebSocket when
// one of the driver's own claims is created or transitions status.
type WSDriverClaimUpdate struct {
	Type       string    `json:"type"` // "claim_update"
	ClaimID    string    `json:"claim_id"`
	TripID     string    `json:"trip_id"`
	TripNumber string    `json:"trip_number,omitempty"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Envelope
}
