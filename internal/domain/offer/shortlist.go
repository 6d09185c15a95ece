package offer

import (
	"errors"
	"math"
)

// Shortlist is the deterministic three-way reduction of a booking's offer
// set: the best and worst totals plus the offer nearest the midpoint, so a
// reviewer sees three representative price points instead of every offer.
// With a single eligible offer High == Low and Mid is nil.
type Shortlist struct {
	High     *Offer
	Mid      *Offer
	Low      *Offer
	Target   float64 // (High.Total + Low.Total) / 2
	Currency string
}

// ErrMixedCurrency is returned when eligible offers span more than one
// currency; amounts are never compared across currencies.
var ErrMixedCurrency = errors.New("offers span more than one currency")

// SelectShortlist reduces offers to a Shortlist. Only PENDING or REVIEWING
// offers with a finite total are considered. An empty eligible set yields
// (nil, nil): no shortlist, not an error. The selection is pure and
// deterministic: repeated calls and input reorderings produce the same
// result, with ties broken by earliest creation time, then lowest ID.
func SelectShortlist(offers []Offer) (*Shortlist, error) {
	eligible := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if o.Status.Shortlistable() && isFinite(o.Total) {
			eligible = append(eligible, o)
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	currency := eligible[0].Currency
	for _, o := range eligible[1:] {
		if o.Currency != currency {
			return nil, ErrMixedCurrency
		}
	}

	high := pick(eligible, func(a, b *Offer) bool { return a.Total > b.Total })
	low := pick(eligible, func(a, b *Offer) bool { return a.Total < b.Total })
	target := (high.Total + low.Total) / 2

	// mid excludes high and low by identity, not by value: an offer tying
	// high's total but with a different ID stays a candidate.
	var mid *Offer
	for i := range eligible {
		o := &eligible[i]
		if o.ID == high.ID || o.ID == low.ID {
			continue
		}
		if mid == nil || closerToTarget(o, mid, target) {
			mid = o
		}
	}

	return &Shortlist{High: high, Mid: mid, Low: low, Target: target, Currency: currency}, nil
}

// pick scans for the offer winning under prefer, breaking total ties by
// earliest creation time, then lowest ID.
func pick(offers []Offer, prefer func(a, b *Offer) bool) *Offer {
	best := &offers[0]
	for i := 1; i < len(offers); i++ {
		o := &offers[i]
		switch {
		case prefer(o, best):
			best = o
		case prefer(best, o):
			// keep best
		case earlierThen(o, best):
			best = o
		}
	}
	return best
}

// closerToTarget reports whether a beats b as the mid candidate.
func closerToTarget(a, b *Offer, target float64) bool {
	da, db := math.Abs(a.Total-target), math.Abs(b.Total-target)
	if da != db {
		return da < db
	}
	return earlierThen(a, b)
}

// earlierThen orders by creation time, then by ID, as the final tie-break.
func earlierThen(a, b *Offer) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
