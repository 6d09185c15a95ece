package booking

import (
	"errors"
	"strings"
	"time"
)

// Booking is the domain entity corresponding to the `bookings` table: the
// parent resource owners submit competing offers on. The claim engine only
// transitions its status; creation belongs to the upstream booking flow.
type Booking struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	CustomerID string
	Region     string
	Status     Status
}

var ErrBookingIDRequired = errors.New("booking id is required")

// NewBooking constructs a booking in PENDING state. Caller provides ID.
func NewBooking(id, customerID, region string) (*Booking, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, ErrBookingIDRequired
	}

	now := time.Now().UTC()
	return &Booking{
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		CustomerID: strings.TrimSpace(customerID),
		Region:     strings.TrimSpace(region),
		Status:     StatusPending,
	}, nil
}
