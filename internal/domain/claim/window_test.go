package claim

import (
	"strings"
	"testing"
	"time"
)

func testPolicy() Policy {
	return Policy{
		LeadTime:              72 * time.Hour,
		AutoDispatchGrace:     5 * time.Minute,
		AutoDispatchLookahead: 30 * time.Minute,
		MaxActiveClaims:       5,
	}
}

func TestComputeWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	pickup := now.Add(80 * time.Hour)
	created := now.Add(-1 * time.Hour)

	w := ComputeWindow(pickup, created, now, testPolicy())

	if want := pickup.Add(-72 * time.Hour); !w.OpensAt.Equal(want) {
		t.Errorf("OpensAt = %v, want %v", w.OpensAt, want)
	}
	if want := created.Add(5 * time.Minute); !w.AutoDispatchEndsAt.Equal(want) {
		t.Errorf("AutoDispatchEndsAt = %v, want %v", w.AutoDispatchEndsAt, want)
	}
	if w.InImmediateWindow {
		t.Error("pickup 80h out must not be in the immediate window")
	}
}

func TestCheckWindow_LeadTimeGate(t *testing.T) {
	// pickup 80h out, created 1h ago: claiming opens in 8h
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	pickup := now.Add(80 * time.Hour)
	created := now.Add(-1 * time.Hour)

	gate := CheckWindow(pickup, created, now, testPolicy())
	if gate.Open {
		t.Fatal("gate must be closed 8h before opensAt")
	}
	if want := 8 * time.Hour; gate.RetryAfter != want {
		t.Errorf("RetryAfter = %v, want %v", gate.RetryAfter, want)
	}
	if !strings.Contains(gate.Reason, "72 hours") {
		t.Errorf("reason should mention the lead time, got %q", gate.Reason)
	}
	if !strings.Contains(gate.Reason, "8h") {
		t.Errorf("reason should mention the wait, got %q", gate.Reason)
	}

	// exactly at opensAt the gate opens
	gate = CheckWindow(pickup, created, now.Add(8*time.Hour), testPolicy())
	if !gate.Open {
		t.Errorf("gate must be open at opensAt, got reason %q", gate.Reason)
	}
}

func TestCheckWindow_AutoDispatchGate(t *testing.T) {
	// pickup 10min out (inside lookahead), created 2min ago: grace has 3min left
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	pickup := now.Add(10 * time.Minute)
	created := now.Add(-2 * time.Minute)

	gate := CheckWindow(pickup, created, now, testPolicy())
	if gate.Open {
		t.Fatal("gate must be closed during the auto-dispatch grace period")
	}
	if want := 3 * time.Minute; gate.RetryAfter != want {
		t.Errorf("RetryAfter = %v, want %v", gate.RetryAfter, want)
	}
	if !strings.Contains(gate.Reason, "3 min") {
		t.Errorf("reason should mention the remaining grace, got %q", gate.Reason)
	}

	// grace elapsed: claiming opens even though pickup is imminent
	gate = CheckWindow(pickup, created, now.Add(3*time.Minute), testPolicy())
	if !gate.Open {
		t.Errorf("gate must open once grace elapses, got reason %q", gate.Reason)
	}
}

func TestCheckWindow_GraceIgnoredOutsideLookahead(t *testing.T) {
	// trip created seconds ago but pickup far out: grace does not apply
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	pickup := now.Add(48 * time.Hour)
	created := now.Add(-10 * time.Second)

	gate := CheckWindow(pickup, created, now, testPolicy())
	if !gate.Open {
		t.Errorf("gate must be open outside the lookahead horizon, got reason %q", gate.Reason)
	}
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{8 * time.Hour, "8h"},
		{7*time.Hour + 30*time.Minute, "8h"},
		{3 * time.Minute, "3 min"},
		{150 * time.Second, "3 min"},
		{10 * time.Second, "1 min"},
	}
	for _, tt := range tests {
		if got := humanDuration(tt.in); got != tt.want {
			t.Errorf("humanDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
