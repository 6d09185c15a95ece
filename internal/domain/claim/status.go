package claim

import (
	"errors"
	"strings"
)

// Status is a claim status as stored in the `claim_status` table.
// There is no enforced state machine between the five values beyond
// validity: human reviewers may reverse decisions, so any status may follow
// any other.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReviewing Status = "REVIEWING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

var ErrInvalidStatus = errors.New("invalid claim status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed claim status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusPending, StatusReviewing, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// Active reports whether the claim counts toward a trip's claim capacity.
func (status Status) Active() bool {
	return status == StatusPending || status == StatusAccepted
}
