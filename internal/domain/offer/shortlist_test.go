package offer

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func mkOffer(id string, total float64, currency string, status Status, createdAt time.Time) Offer {
	return Offer{
		ID:        id,
		CreatedAt: createdAt,
		BookingID: "b-1",
		OwnerID:   "o-" + id,
		Total:     total,
		Currency:  currency,
		Status:    status,
	}
}

func TestSelectShortlist_Arithmetic(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	offers := []Offer{
		mkOffer("of-1", 100, "TZS", StatusPending, base),
		mkOffer("of-2", 150, "TZS", StatusPending, base.Add(time.Minute)),
		mkOffer("of-3", 300, "TZS", StatusPending, base.Add(2*time.Minute)),
	}

	s, err := SelectShortlist(offers)
	if err != nil {
		t.Fatalf("SelectShortlist: %v", err)
	}
	if s.Low.ID != "of-1" || s.High.ID != "of-3" {
		t.Errorf("low=%s high=%s, want of-1/of-3", s.Low.ID, s.High.ID)
	}
	if s.Target != 200 {
		t.Errorf("Target = %v, want 200", s.Target)
	}
	if s.Mid == nil || s.Mid.ID != "of-2" {
		t.Errorf("Mid = %+v, want of-2", s.Mid)
	}
	if s.Currency != "TZS" {
		t.Errorf("Currency = %q, want TZS", s.Currency)
	}
}

func TestSelectShortlist_DeterministicUnderReorder(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	offers := []Offer{
		mkOffer("of-1", 120, "TZS", StatusPending, base),
		mkOffer("of-2", 180, "TZS", StatusReviewing, base.Add(time.Minute)),
		mkOffer("of-3", 180, "TZS", StatusPending, base.Add(2*time.Minute)),
		mkOffer("of-4", 250, "TZS", StatusPending, base.Add(3*time.Minute)),
	}
	first, err := SelectShortlist(offers)
	if err != nil {
		t.Fatalf("SelectShortlist: %v", err)
	}

	reversed := make([]Offer, 0, len(offers))
	for i := len(offers) - 1; i >= 0; i-- {
		reversed = append(reversed, offers[i])
	}
	second, err := SelectShortlist(reversed)
	if err != nil {
		t.Fatalf("SelectShortlist reversed: %v", err)
	}

	pickIDs := func(s *Shortlist) [3]string {
		var ids [3]string
		ids[0] = s.High.ID
		if s.Mid != nil {
			ids[1] = s.Mid.ID
		}
		ids[2] = s.Low.ID
		return ids
	}
	if !reflect.DeepEqual(pickIDs(first), pickIDs(second)) {
		t.Errorf("reordered input changed the selection: %v vs %v", pickIDs(first), pickIDs(second))
	}
}

func TestSelectShortlist_TieBreakByIDOnEqualTimestamps(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	offers := []Offer{
		mkOffer("of-b", 200, "TZS", StatusPending, at),
		mkOffer("of-a", 200, "TZS", StatusPending, at),
		mkOffer("of-c", 200, "TZS", StatusPending, at),
	}

	s, err := SelectShortlist(offers)
	if err != nil {
		t.Fatalf("SelectShortlist: %v", err)
	}
	// equal totals and timestamps resolve by lowest ID for both extremes
	if s.High.ID != "of-a" || s.Low.ID != "of-a" {
		t.Errorf("high=%s low=%s, want of-a for both", s.High.ID, s.Low.ID)
	}
	// mid excludes high/low by identity, so the next lowest ID wins
	if s.Mid == nil || s.Mid.ID != "of-b" {
		t.Errorf("Mid = %+v, want of-b", s.Mid)
	}
}

func TestSelectShortlist_MidExcludesByIdentityNotValue(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	// of-3 ties high's total but is a different offer, so it stays a mid candidate
	offers := []Offer{
		mkOffer("of-1", 100, "TZS", StatusPending, base),
		mkOffer("of-2", 300, "TZS", StatusPending, base.Add(time.Minute)),
		mkOffer("of-3", 300, "TZS", StatusPending, base.Add(2*time.Minute)),
	}

	s, err := SelectShortlist(offers)
	if err != nil {
		t.Fatalf("SelectShortlist: %v", err)
	}
	if s.High.ID != "of-2" {
		t.Errorf("High = %s, want of-2 (earlier of the tied pair)", s.High.ID)
	}
	if s.Mid == nil || s.Mid.ID != "of-3" {
		t.Errorf("Mid = %+v, want of-3", s.Mid)
	}
}

func TestSelectShortlist_SingleOffer(t *testing.T) {
	offers := []Offer{
		mkOffer("of-1", 500, "USD", StatusPending, time.Now()),
	}

	s, err := SelectShortlist(offers)
	if err != nil {
		t.Fatalf("SelectShortlist: %v", err)
	}
	if s.High.ID != "of-1" || s.Low.ID != "of-1" {
		t.Errorf("single offer must be both high and low, got high=%s low=%s", s.High.ID, s.Low.ID)
	}
	if s.Mid != nil {
		t.Errorf("Mid must be nil for a single offer, got %+v", s.Mid)
	}
	if s.Target != 500 {
		t.Errorf("Target = %v, want 500", s.Target)
	}
}

func TestSelectShortlist_EmptyAndIneligible(t *testing.T) {
	s, err := SelectShortlist(nil)
	if err != nil || s != nil {
		t.Errorf("empty input: got (%v, %v), want (nil, nil)", s, err)
	}

	// decided and non-finite offers are filtered out before selection
	offers := []Offer{
		mkOffer("of-1", 100, "TZS", StatusRejected, time.Now()),
		mkOffer("of-2", 200, "TZS", StatusWithdrawn, time.Now()),
		mkOffer("of-3", math.NaN(), "TZS", StatusPending, time.Now()),
		mkOffer("of-4", math.Inf(1), "TZS", StatusPending, time.Now()),
	}
	s, err = SelectShortlist(offers)
	if err != nil || s != nil {
		t.Errorf("all-ineligible input: got (%v, %v), want (nil, nil)", s, err)
	}
}

func TestSelectShortlist_MixedCurrency(t *testing.T) {
	offers := []Offer{
		mkOffer("of-1", 100, "TZS", StatusPending, time.Now()),
		mkOffer("of-2", 100, "USD", StatusPending, time.Now()),
	}

	_, err := SelectShortlist(offers)
	if !errors.Is(err, ErrMixedCurrency) {
		t.Errorf("err = %v, want ErrMixedCurrency", err)
	}
}
