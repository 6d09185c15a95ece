package ports

import (
	"context"

	"trip-claims/internal/domain/booking"
	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/driver"
	"trip-claims/internal/domain/offer"
	"trip-claims/internal/domain/trip"
)

// UnitOfWork interface is used to manage transactions across multiple repository operations.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TripRepository defines the methods for managing trip data.
type TripRepository interface {
	// GetByID reads a trip without locking; used on the advisory read path.
	GetByID(ctx context.Context, id string) (*trip.Trip, error)
	// GetByIDForUpdate reads the trip row with a write lock. Must be called
	// within a UnitOfWork transaction; the lock serializes competing claim
	// submissions on the same trip.
	GetByIDForUpdate(ctx context.Context, id string) (*trip.Trip, error)
	// ListOpen returns unassigned PENDING_ASSIGNMENT trips scheduled in the
	// future, oldest pickup first.
	ListOpen(ctx context.Context, limit int) ([]*trip.Trip, error)
}

// DriverRepository defines the methods for managing driver profile data.
type DriverRepository interface {
	GetByID(ctx context.Context, driverID string) (*driver.Driver, error)
}

// ClaimRepository defines the methods for managing claim data.
type ClaimRepository interface {
	// Insert persists a new claim and fills ID/CreatedAt. A unique-constraint
	// violation on (trip_id, driver_id) is translated into a DUPLICATE_CLAIM
	// claim.Error, never surfaced as a raw store error.
	Insert(ctx context.Context, c *claim.Claim) error
	// CountActiveForTrip counts PENDING+ACCEPTED claims on a trip. Must run
	// in the same transaction as Insert to be meaningful.
	CountActiveForTrip(ctx context.Context, tripID string) (int, error)
	// ExistsForTripAndDriver reports whether the driver already claimed the trip.
	ExistsForTripAndDriver(ctx context.Context, tripID, driverID string) (bool, error)
	GetByID(ctx context.Context, id string) (*claim.Claim, error)
	ListForTrip(ctx context.Context, tripID string) ([]*claim.Claim, error)
	// UpdateDecision persists a claim's status plus decided_at/decided_by.
	UpdateDecision(ctx context.Context, c *claim.Claim) error
}

// OfferRepository defines the methods for managing offer data.
type OfferRepository interface {
	GetByID(ctx context.Context, id string) (*offer.Offer, error)
	// ListForBooking returns every offer on a booking, oldest first.
	ListForBooking(ctx context.Context, bookingID string) ([]offer.Offer, error)
	// MarkReviewing bulk-transitions the booking's PENDING offers to
	// REVIEWING and returns the number of transitioned rows.
	MarkReviewing(ctx context.Context, bookingID string) (int64, error)
	// UpdateDecision persists an offer's status plus decided_at/decided_by.
	UpdateDecision(ctx context.Context, o *offer.Offer) error
}

// BookingRepository defines the methods for managing group booking data.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
	// GetByIDForUpdate reads the booking row with a write lock within a
	// UnitOfWork transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*booking.Booking, error)
	// MarkReviewing transitions PENDING -> REVIEWING and reports whether the
	// row changed. A booking already past PENDING is a successful no-op.
	MarkReviewing(ctx context.Context, id string) (bool, error)
}

// ClaimEventRepository defines the methods for appending audit events.
type ClaimEventRepository interface {
	Append(ctx context.Context, e *claim.Event) error
}
