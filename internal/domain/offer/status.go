package offer

import (
	"errors"
	"strings"
)

// Status is an offer status as stored in the `offer_status` table.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReviewing Status = "REVIEWING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

var ErrInvalidStatus = errors.New("invalid offer status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed offer status constants.
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

// Shortlistable reports whether the offer may appear in a shortlist.
func (status Status) Shortlistable() bool {
	return status == StatusPending || status == StatusReviewing
}
