package trip

import (
	"errors"
	"strings"
	"time"
)

// Trip is the domain entity corresponding to the `trips` table.
type Trip struct {
	// Identity & audit
	ID         string
	TripNumber string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Actors
	CustomerID string
	DriverID   *string // nil until assigned

	// Core state
	Status        Status
	PaymentStatus PaymentStatus

	// Scheduling
	ScheduledAt time.Time
	PickupAt    *time.Time // nil when pickup equals the scheduled time

	// Eligibility attributes
	RequiredClass     *VehicleClass // nil when any class may claim
	PremiumOnly       bool
	OriginRegion      string
	DestinationRegion string
	PropertyRegion    string // region of the linked property, if any
}

var (
	ErrCustomerRequired   = errors.New("customer id is required")
	ErrTripNumberRequired = errors.New("trip number is required")
	ErrScheduleRequired   = errors.New("scheduled time is required")
)

// NewTrip creates a new trip in PENDING_ASSIGNMENT state.
func NewTrip(tripNumber, customerID string, scheduledAt time.Time, originRegion, destinationRegion string) (*Trip, error) {
	if tripNumber = strings.TrimSpace(tripNumber); tripNumber == "" {
		return nil, ErrTripNumberRequired
	}
	if customerID = strings.TrimSpace(customerID); customerID == "" {
		return nil, ErrCustomerRequired
	}
	if scheduledAt.IsZero() {
		return nil, ErrScheduleRequired
	}

	now := time.Now().UTC()
	return &Trip{
		TripNumber:        tripNumber,
		CreatedAt:         now,
		UpdatedAt:         now,
		CustomerID:        customerID,
		Status:            StatusPendingAssignment,
		PaymentStatus:     PaymentUnpaid,
		ScheduledAt:       scheduledAt.UTC(),
		OriginRegion:      strings.TrimSpace(originRegion),
		DestinationRegion: strings.TrimSpace(destinationRegion),
	}, nil
}

// Assignment returns the explicit assignment variant for this trip.
func (trip *Trip) Assignment() Assignment {
	return AssignmentOf(trip.Status, trip.DriverID)
}

// PickupTime returns the effective pickup instant: PickupAt when set,
// otherwise ScheduledAt.
func (trip *Trip) PickupTime() time.Time {
	if trip.PickupAt != nil && !trip.PickupAt.IsZero() {
		return *trip.PickupAt
	}
	return trip.ScheduledAt
}

// Regions returns the trip's region labels relevant to the area check.
// Empty labels are dropped.
func (trip *Trip) Regions() []string {
	var out []string
	for _, r := range []string{trip.OriginRegion, trip.DestinationRegion, trip.PropertyRegion} {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}
	return out
}
