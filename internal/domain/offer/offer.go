package offer

import (
	"errors"
	"strings"
	"time"
)

// Offer is the domain entity corresponding to the `offers` table: one
// owner's priced claim on a group booking. Offers are never deleted, only
// status-transitioned.
type Offer struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	BookingID string
	OwnerID   string

	Total    float64
	Currency string

	Status Status

	// Stamped when the offer leaves PENDING; cleared when it re-enters it.
	DecidedAt *time.Time
	DecidedBy *string
}

var (
	ErrBookingRequired  = errors.New("booking id is required")
	ErrOwnerRequired    = errors.New("owner id is required")
	ErrCurrencyRequired = errors.New("currency is required")
)

// NewOffer creates a new offer in PENDING state.
func NewOffer(bookingID, ownerID string, total float64, currency string) (*Offer, error) {
	if bookingID = strings.TrimSpace(bookingID); bookingID == "" {
		return nil, ErrBookingRequired
	}
	if ownerID = strings.TrimSpace(ownerID); ownerID == "" {
		return nil, ErrOwnerRequired
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, ErrCurrencyRequired
	}

	now := time.Now().UTC()
	return &Offer{
		CreatedAt: now,
		UpdatedAt: now,
		BookingID: bookingID,
		OwnerID:   ownerID,
		Total:     total,
		Currency:  currency,
		Status:    StatusPending,
	}, nil
}

// Decide transitions the offer to next, stamping or clearing the decision
// fields the same way claims do.
func (offer *Offer) Decide(next Status, decidedBy string, at time.Time) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}

	offer.Status = next
	offer.UpdatedAt = at.UTC()

	if next == StatusPending {
		offer.DecidedAt = nil
		offer.DecidedBy = nil
		return nil
	}

	t := at.UTC()
	offer.DecidedAt = &t
	if by := strings.TrimSpace(decidedBy); by != "" {
		offer.DecidedBy = &by
	}
	return nil
}
