package service

import (
	"context"
	"testing"
	"time"

	"trip-claims/internal/domain/trip"
	"trip-claims/internal/ports"
)

func TestListOpenTrips_Annotations(t *testing.T) {
	f := newClaimServiceFixture(t)
	f.drivers.drivers["d-1"] = eligibleDriver(t, "d-1")

	claimable := claimableTrip(t, "t-ok")

	outside := claimableTrip(t, "t-outside")
	outside.OriginRegion = "Arusha"
	outside.DestinationRegion = "Moshi"

	early := claimableTrip(t, "t-early")
	early.ScheduledAt = time.Now().UTC().Add(80 * time.Hour)

	for _, tr := range []*trip.Trip{claimable, outside, early} {
		f.trips.trips[tr.ID] = tr
	}

	views, err := f.svc.ListOpenTrips(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("ListOpenTrips: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("got %d views, want 3", len(views))
	}

	byID := make(map[string]ports.OpenTripView, len(views))
	for _, v := range views {
		byID[v.TripID] = v
	}

	if v := byID["t-ok"]; !v.CanClaim || v.Reason != "" {
		t.Errorf("t-ok: CanClaim=%v Reason=%q, want claimable", v.CanClaim, v.Reason)
	}
	if v := byID["t-outside"]; v.CanClaim || v.Reason == "" {
		t.Errorf("t-outside: CanClaim=%v Reason=%q, want an area rejection", v.CanClaim, v.Reason)
	}
	if v := byID["t-early"]; v.CanClaim || v.RetryAfterSeconds == 0 {
		t.Errorf("t-early: CanClaim=%v RetryAfterSeconds=%d, want a window rejection with retry hint", v.CanClaim, v.RetryAfterSeconds)
	}
}

func TestListOpenTrips_UnknownDriver(t *testing.T) {
	f := newClaimServiceFixture(t)

	if _, err := f.svc.ListOpenTrips(context.Background(), "ghost"); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
