package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip-claims/internal/domain/booking"
	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/offer"
	"trip-claims/internal/general/logger"
	"trip-claims/internal/general/postgres"
	"trip-claims/internal/general/rabbitmq"
	"trip-claims/internal/ports"
)

// ============================================================================
// Mock Implementations
// ============================================================================

type mockUnitOfWork struct{}

func (m *mockUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockBookingRepo struct {
	bookings map[string]*booking.Booking
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]*booking.Booking)}
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, postgres.ErrBookingNotFound
}

func (m *mockBookingRepo) GetByIDForUpdate(ctx context.Context, id string) (*booking.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m *mockBookingRepo) MarkReviewing(ctx context.Context, id string) (bool, error) {
	b, ok := m.bookings[id]
	if !ok {
		return false, postgres.ErrBookingNotFound
	}
	if b.Status != booking.StatusPending {
		return false, nil
	}
	b.Status = booking.StatusReviewing
	return true, nil
}

type mockOfferRepo struct {
	offers map[string]*offer.Offer
}

func newMockOfferRepo() *mockOfferRepo {
	return &mockOfferRepo{offers: make(map[string]*offer.Offer)}
}

func (m *mockOfferRepo) GetByID(ctx context.Context, id string) (*offer.Offer, error) {
	if o, ok := m.offers[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, postgres.ErrOfferNotFound
}

func (m *mockOfferRepo) ListForBooking(ctx context.Context, bookingID string) ([]offer.Offer, error) {
	var out []offer.Offer
	for _, o := range m.offers {
		if o.BookingID == bookingID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOfferRepo) MarkReviewing(ctx context.Context, bookingID string) (int64, error) {
	var n int64
	for _, o := range m.offers {
		if o.BookingID == bookingID && o.Status == offer.StatusPending {
			o.Status = offer.StatusReviewing
			n++
		}
	}
	return n, nil
}

func (m *mockOfferRepo) UpdateDecision(ctx context.Context, o *offer.Offer) error {
	stored, ok := m.offers[o.ID]
	if !ok {
		return postgres.ErrOfferNotFound
	}
	*stored = *o
	return nil
}

type mockEventRepo struct {
	appended []*claim.Event
}

func (m *mockEventRepo) Append(ctx context.Context, e *claim.Event) error {
	m.appended = append(m.appended, e)
	return nil
}

// ============================================================================
// Test Helpers
// ============================================================================

type reviewServiceFixture struct {
	svc      ports.ReviewService
	bookings *mockBookingRepo
	offers   *mockOfferRepo
	events   *mockEventRepo
}

func newReviewServiceFixture(t *testing.T) *reviewServiceFixture {
	t.Helper()

	log := logger.New("review-service-test")
	rmq := &rabbitmq.Client{}

	f := &reviewServiceFixture{
		bookings: newMockBookingRepo(),
		offers:   newMockOfferRepo(),
		events:   &mockEventRepo{},
	}
	f.svc = NewReviewService(log, &mockUnitOfWork{}, f.bookings, f.offers, f.events, rabbitmq.NewMQPublisher(rmq), rmq)
	return f
}

func (f *reviewServiceFixture) addBooking(t *testing.T, id string) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(id, "cust-1", "Dar es Salaam")
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	f.bookings.bookings[id] = b
	return b
}

func (f *reviewServiceFixture) addOffer(t *testing.T, id, bookingID string, total float64, currency string, at time.Time) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(bookingID, "owner-"+id, total, currency)
	if err != nil {
		t.Fatalf("NewOffer: %v", err)
	}
	o.ID = id
	o.CreatedAt = at
	f.offers.offers[id] = o
	return o
}

// ============================================================================
// Shortlist Tests
// ============================================================================

func TestShortlist_ThreeOffers(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.addBooking(t, "b-1")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.addOffer(t, "of-1", "b-1", 100, "TZS", base)
	f.addOffer(t, "of-2", "b-1", 150, "TZS", base.Add(time.Minute))
	f.addOffer(t, "of-3", "b-1", 300, "TZS", base.Add(2*time.Minute))

	res, err := f.svc.Shortlist(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("Shortlist: %v", err)
	}
	if res.Empty {
		t.Fatal("expected a non-empty shortlist")
	}
	if res.Low.OfferID != "of-1" || res.High.OfferID != "of-3" || res.Mid.OfferID != "of-2" {
		t.Errorf("selection = low:%s mid:%s high:%s", res.Low.OfferID, res.Mid.OfferID, res.High.OfferID)
	}
	if res.Target != 200 {
		t.Errorf("Target = %v, want 200", res.Target)
	}
	if res.EligibleCount != 3 {
		t.Errorf("EligibleCount = %d, want 3", res.EligibleCount)
	}
}

func TestShortlist_EmptyIsNotAnError(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.addBooking(t, "b-1")

	res, err := f.svc.Shortlist(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("Shortlist: %v", err)
	}
	if !res.Empty || res.High != nil {
		t.Errorf("expected an empty shortlist result, got %+v", res)
	}
}

func TestShortlist_MixedCurrency(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.addBooking(t, "b-1")
	f.addOffer(t, "of-1", "b-1", 100, "TZS", time.Now())
	f.addOffer(t, "of-2", "b-1", 100, "USD", time.Now())

	_, err := f.svc.Shortlist(context.Background(), "b-1")
	if !errors.Is(err, offer.ErrMixedCurrency) {
		t.Errorf("err = %v, want ErrMixedCurrency", err)
	}
}

func TestShortlist_BookingNotFound(t *testing.T) {
	f := newReviewServiceFixture(t)

	_, err := f.svc.Shortlist(context.Background(), "missing")
	ce, ok := claim.AsError(err)
	if !ok || ce.Kind != claim.KindNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

// ============================================================================
// StartReview Tests
// ============================================================================

func TestStartReview_TransitionsPendingOffers(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.addBooking(t, "b-1")
	f.addOffer(t, "of-1", "b-1", 100, "TZS", time.Now())
	f.addOffer(t, "of-2", "b-1", 200, "TZS", time.Now())
	rejected := f.addOffer(t, "of-3", "b-1", 300, "TZS", time.Now())
	rejected.Status = offer.StatusRejected

	res, err := f.svc.StartReview(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	if res.Transitioned != 2 {
		t.Errorf("Transitioned = %d, want 2", res.Transitioned)
	}
	if res.BookingStatus != booking.StatusReviewing.String() {
		t.Errorf("BookingStatus = %s, want REVIEWING", res.BookingStatus)
	}
	for _, id := range []string{"of-1", "of-2"} {
		if got := f.offers.offers[id].Status; got != offer.StatusReviewing {
			t.Errorf("offer %s status = %s, want REVIEWING", id, got)
		}
	}
	if got := f.offers.offers["of-3"].Status; got != offer.StatusRejected {
		t.Errorf("decided offer must be untouched, got %s", got)
	}
	if len(f.events.appended) != 1 || f.events.appended[0].Type != claim.EventReviewStarted {
		t.Errorf("expected one REVIEW_STARTED event, got %d", len(f.events.appended))
	}
}

func TestStartReview_Idempotent(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.addBooking(t, "b-1")
	f.addOffer(t, "of-1", "b-1", 100, "TZS", time.Now())

	if _, err := f.svc.StartReview(context.Background(), "b-1"); err != nil {
		t.Fatalf("first StartReview: %v", err)
	}

	res, err := f.svc.StartReview(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("second StartReview must succeed, got %v", err)
	}
	if res.Transitioned != 0 {
		t.Errorf("second call Transitioned = %d, want 0", res.Transitioned)
	}
	if res.BookingStatus != booking.StatusReviewing.String() {
		t.Errorf("BookingStatus = %s, want REVIEWING", res.BookingStatus)
	}
	if len(f.events.appended) != 1 {
		t.Errorf("ineffective second call must not append events, got %d", len(f.events.appended))
	}
}

func TestStartReview_ClosedBooking(t *testing.T) {
	f := newReviewServiceFixture(t)
	b := f.addBooking(t, "b-1")
	b.Status = booking.StatusCancelled

	_, err := f.svc.StartReview(context.Background(), "b-1")
	ce, ok := claim.AsError(err)
	if !ok || ce.Kind != claim.KindNotAvailable {
		t.Errorf("err = %v, want NOT_AVAILABLE", err)
	}
}

// ============================================================================
// RecordDecision Tests
// ============================================================================

func TestRecordDecision_StampsDecisionFields(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.addBooking(t, "b-1")
	f.addOffer(t, "of-1", "b-1", 100, "TZS", time.Now())

	res, err := f.svc.RecordDecision(context.Background(), ports.RecordDecisionInput{
		OfferID:   "of-1",
		Status:    "ACCEPTED",
		DecidedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("RecordDecision: %v", err)
	}
	if res.Status != offer.StatusAccepted.String() {
		t.Errorf("Status = %s, want ACCEPTED", res.Status)
	}
	if res.DecidedAt == nil || res.DecidedBy != "admin-1" {
		t.Errorf("decision fields not stamped: at=%v by=%q", res.DecidedAt, res.DecidedBy)
	}

	stored := f.offers.offers["of-1"]
	if stored.Status != offer.StatusAccepted || stored.DecidedAt == nil {
		t.Errorf("stored offer not updated: %+v", stored)
	}
	if len(f.events.appended) != 1 || f.events.appended[0].Type != claim.EventOfferDecided {
		t.Errorf("expected one OFFER_DECIDED event, got %d", len(f.events.appended))
	}
}

func TestRecordDecision_ReopenClearsDecisionFields(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.addBooking(t, "b-1")
	f.addOffer(t, "of-1", "b-1", 100, "TZS", time.Now())

	if _, err := f.svc.RecordDecision(context.Background(), ports.RecordDecisionInput{
		OfferID: "of-1", Status: "REJECTED", DecidedBy: "admin-1",
	}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	res, err := f.svc.RecordDecision(context.Background(), ports.RecordDecisionInput{
		OfferID: "of-1", Status: "PENDING", DecidedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if res.DecidedAt != nil || res.DecidedBy != "" {
		t.Errorf("re-entering PENDING must clear decision fields: at=%v by=%q", res.DecidedAt, res.DecidedBy)
	}
	if f.events.appended[len(f.events.appended)-1].Type != claim.EventOfferReopened {
		t.Error("reopen must append an OFFER_REOPENED event")
	}
}

func TestRecordDecision_UnknownStatus(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.addBooking(t, "b-1")
	f.addOffer(t, "of-1", "b-1", 100, "TZS", time.Now())

	_, err := f.svc.RecordDecision(context.Background(), ports.RecordDecisionInput{
		OfferID: "of-1", Status: "MAYBE", DecidedBy: "admin-1",
	})
	if !errors.Is(err, offer.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestRecordDecision_OfferNotFound(t *testing.T) {
	f := newReviewServiceFixture(t)

	_, err := f.svc.RecordDecision(context.Background(), ports.RecordDecisionInput{
		OfferID: "missing", Status: "ACCEPTED", DecidedBy: "admin-1",
	})
	ce, ok := claim.AsError(err)
	if !ok || ce.Kind != claim.KindNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
