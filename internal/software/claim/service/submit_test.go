package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/driver"
	"trip-claims/internal/domain/trip"
	"trip-claims/internal/general/logger"
	"trip-claims/internal/general/postgres"
	"trip-claims/internal/general/rabbitmq"
	"trip-claims/internal/general/websocket"
	"trip-claims/internal/ports"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockUnitOfWork runs the function directly; there is no real transaction.
type mockUnitOfWork struct{}

func (m *mockUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockTripRepo struct {
	trips map[string]*trip.Trip
}

func newMockTripRepo() *mockTripRepo {
	return &mockTripRepo{trips: make(map[string]*trip.Trip)}
}

func (m *mockTripRepo) GetByID(ctx context.Context, id string) (*trip.Trip, error) {
	if t, ok := m.trips[id]; ok {
		return t, nil
	}
	return nil, postgres.ErrTripNotFound
}

func (m *mockTripRepo) GetByIDForUpdate(ctx context.Context, id string) (*trip.Trip, error) {
	return m.GetByID(ctx, id)
}

func (m *mockTripRepo) ListOpen(ctx context.Context, limit int) ([]*trip.Trip, error) {
	var out []*trip.Trip
	for _, t := range m.trips {
		if t.Status == trip.StatusPendingAssignment && t.DriverID == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

type mockDriverRepo struct {
	drivers map[string]*driver.Driver
}

func newMockDriverRepo() *mockDriverRepo {
	return &mockDriverRepo{drivers: make(map[string]*driver.Driver)}
}

func (m *mockDriverRepo) GetByID(ctx context.Context, driverID string) (*driver.Driver, error) {
	if d, ok := m.drivers[driverID]; ok {
		return d, nil
	}
	return nil, postgres.ErrDriverNotFound
}

type mockClaimRepo struct {
	claims      map[string]*claim.Claim // key: tripID+"/"+driverID
	activeCount int
	insertErr   error
	nextID      int
}

func newMockClaimRepo() *mockClaimRepo {
	return &mockClaimRepo{claims: make(map[string]*claim.Claim)}
}

func (m *mockClaimRepo) Insert(ctx context.Context, c *claim.Claim) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	key := c.TripID + "/" + c.DriverID
	if _, ok := m.claims[key]; ok {
		// same translation the real repository applies on 23505
		return claim.NewError(claim.KindDuplicateClaim, "you have already claimed this trip")
	}
	m.nextID++
	c.ID = "cl-" + strconv.Itoa(m.nextID)
	m.claims[key] = c
	m.activeCount++
	return nil
}

func (m *mockClaimRepo) CountActiveForTrip(ctx context.Context, tripID string) (int, error) {
	return m.activeCount, nil
}

func (m *mockClaimRepo) ExistsForTripAndDriver(ctx context.Context, tripID, driverID string) (bool, error) {
	_, ok := m.claims[tripID+"/"+driverID]
	return ok, nil
}

func (m *mockClaimRepo) GetByID(ctx context.Context, id string) (*claim.Claim, error) {
	for _, c := range m.claims {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, postgres.ErrClaimNotFound
}

func (m *mockClaimRepo) ListForTrip(ctx context.Context, tripID string) ([]*claim.Claim, error) {
	var out []*claim.Claim
	for _, c := range m.claims {
		if c.TripID == tripID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClaimRepo) UpdateDecision(ctx context.Context, c *claim.Claim) error {
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

type claimServiceFixture struct {
	svc     ports.ClaimService
	trips   *mockTripRepo
	drivers *mockDriverRepo
	claims  *mockClaimRepo
	events  *mockEventRepo
}

// newClaimServiceFixture wires the service with mock repositories and inert
// messaging collaborators. The publisher fails against its closed client and
// the socket has no connections; both paths are best-effort and swallowed.
func newClaimServiceFixture(t *testing.T) *claimServiceFixture {
	t.Helper()

	log := logger.New("claim-service-test")
	rmq := &rabbitmq.Client{}
	ws := websocket.NewWebSocket(log, nil)

	f := &claimServiceFixture{
		trips:   newMockTripRepo(),
		drivers: newMockDriverRepo(),
		claims:  newMockClaimRepo(),
		events:  &mockEventRepo{},
	}
	f.svc = NewClaimService(
		log, &mockUnitOfWork{},
		f.trips, f.drivers, f.claims, f.events,
		rabbitmq.NewMQPublisher(rmq), rmq, ws,
		claim.DefaultPolicy(),
	)
	return f
}

func claimableTrip(t *testing.T, id string) *trip.Trip {
	t.Helper()
	tr, err := trip.NewTrip("TRIP-"+id, "cust-1", time.Now().UTC().Add(48*time.Hour), "Dar es Salaam", "Bagamoyo")
	if err != nil {
		t.Fatalf("NewTrip: %v", err)
	}
	tr.ID = id
	tr.PaymentStatus = trip.PaymentPaid
	tr.CreatedAt = time.Now().UTC().Add(-24 * time.Hour)
	return tr
}

func eligibleDriver(t *testing.T, id string) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(id, "Asha", "Boda", "Dar es Salaam", "", false)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	return d
}

func wantKind(t *testing.T, err error, kind claim.Kind) *claim.Error {
	t.Helper()
	ce, ok := claim.AsError(err)
	if !ok {
		t.Fatalf("expected a claim.Error, got %v", err)
	}
	if ce.Kind != kind {
		t.Fatalf("Kind = %s, want %s (message: %s)", ce.Kind, kind, ce.Message)
	}
	return ce
}

// ============================================================================
// SubmitClaim Tests
// ============================================================================

func TestSubmitClaim_Success(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.trips.trips["t-1"] = claimableTrip(t, "t-1")
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")

	res, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-1", DriverID: "d-1"})
	if err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}
	if res.ClaimID == "" {
		t.Error("expected claim ID to be set")
	}
	if res.Status != claim.StatusPending.String() {
		t.Errorf("Status = %s, want PENDING", res.Status)
	}
	if len(f.events.appended) != 1 || f.events.appended[0].Type != claim.EventClaimSubmitted {
		t.Errorf("expected one CLAIM_SUBMITTED audit event, got %d", len(f.events.appended))
	}
}

func TestSubmitClaim_TripNotFound(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")

	_, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "missing", DriverID: "d-1"})
	wantKind(t, err, claim.KindNotFound)
}

func TestSubmitClaim_DriverNotFound(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.trips.trips["t-1"] = claimableTrip(t, "t-1")

	_, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-1", DriverID: "ghost"})
	wantKind(t, err, claim.KindNotFound)
}

func TestSubmitClaim_NotAvailable(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")

	assigned := claimableTrip(t, "t-assigned")
	other := "d-9"
	assigned.DriverID = &other
	assigned.Status = trip.StatusConfirmed

	unpaid := claimableTrip(t, "t-unpaid")
	unpaid.PaymentStatus = trip.PaymentUnpaid

	past := claimableTrip(t, "t-past")
	past.ScheduledAt = time.Now().UTC().Add(-1 * time.Hour)

	for _, tr := range []*trip.Trip{assigned, unpaid, past} {
		f.trips.trips[tr.ID] = tr
		_, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: tr.ID, DriverID: "d-1"})
		wantKind(t, err, claim.KindNotAvailable)
	}
}

func TestSubmitClaim_NotEligible(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.trips.trips["t-1"] = claimableTrip(t, "t-1")

	d, err := driver.NewDriver("d-2", "Juma", "Boda", "Arusha", "", false)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	f.drivers.drivers["d-2"] = d

	_, submitErr := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-1", DriverID: "d-2"})
	ce := wantKind(t, submitErr, claim.KindNotEligible)
	if ce.Message == "" {
		t.Error("eligibility rejection must carry a reason message")
	}
}

func TestSubmitClaim_WindowClosed(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")

	tr := claimableTrip(t, "t-early")
	pickup := time.Now().UTC().Add(80 * time.Hour)
	tr.ScheduledAt = pickup
	f.trips.trips["t-early"] = tr

	_, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-early", DriverID: "d-1"})
	ce := wantKind(t, err, claim.KindWindowClosed)
	if ce.RetryAfter < 7*time.Hour || ce.RetryAfter > 8*time.Hour {
		t.Errorf("RetryAfter = %v, want about 8h", ce.RetryAfter)
	}
}

func TestSubmitClaim_CapacityExceeded(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.trips.trips["t-1"] = claimableTrip(t, "t-1")
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")
	f.claims.activeCount = claim.DefaultPolicy().MaxActiveClaims

	_, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-1", DriverID: "d-1"})
	wantKind(t, err, claim.KindCapacityExceeded)
}

func TestSubmitClaim_Duplicate(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.trips.trips["t-1"] = claimableTrip(t, "t-1")
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")

	if _, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-1", DriverID: "d-1"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-1", DriverID: "d-1"})
	wantKind(t, err, claim.KindDuplicateClaim)
}

func TestSubmitClaim_UniqueViolationBackstop(t *testing.T) {
	// the existence pre-check can race; the insert's constraint translation
	// must surface as the same DUPLICATE_CLAIM kind
	f := newClaimServiceFixture(t)
	f.trips.trips["t-1"] = claimableTrip(t, "t-1")
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")
	f.claims.insertErr = claim.NewError(claim.KindDuplicateClaim, "you have already claimed this trip")

	_, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-1", DriverID: "d-1"})
	wantKind(t, err, claim.KindDuplicateClaim)
}

func TestSubmitClaim_StoreErrorPassesThrough(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.trips.trips["t-1"] = claimableTrip(t, "t-1")
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")
	boom := errors.New("connection reset")
	f.claims.insertErr = boom

	_, err := f.svc.SubmitClaim(context.Background(), ports.SubmitClaimInput{TripID: "t-1", DriverID: "d-1"})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the raw store error", err)
	}
	if _, ok := claim.AsError(err); ok {
		t.Error("infrastructure failures must not be typed as claim rejections")
	}
}
