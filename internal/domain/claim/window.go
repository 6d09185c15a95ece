package claim

import (
	"fmt"
	"math"
	"time"
)

// Policy carries the fixed durations and the claim capacity the engine
// enforces. Values come from config; defaults match production.
type Policy struct {
	LeadTime              time.Duration // claiming opens this long before pickup
	AutoDispatchGrace     time.Duration // auto-assignment has priority this long after trip creation
	AutoDispatchLookahead time.Duration // pickups inside this horizon are auto-dispatched first
	MaxActiveClaims       int           // cap on PENDING+ACCEPTED claims per trip
}

// DefaultPolicy returns the production claiming policy.
func DefaultPolicy() Policy {
	return Policy{
		LeadTime:              72 * time.Hour,
		AutoDispatchGrace:     5 * time.Minute,
		AutoDispatchLookahead: 30 * time.Minute,
		MaxActiveClaims:       5,
	}
}

// Window holds the instants derived from a trip's timestamps. It is
// recomputed from the wall clock on every check, never cached on the trip:
// the read-path result is advisory and can be stale by the time a claim
// write arrives.
type Window struct {
	OpensAt            time.Time // pickup − lead time
	AutoDispatchEndsAt time.Time // created + grace
	InImmediateWindow  bool      // pickup < now + lookahead
}

// ComputeWindow derives the claim window from the effective pickup time and
// the trip's creation time, relative to now.
func ComputeWindow(pickupAt, createdAt, now time.Time, policy Policy) Window {
	return Window{
		OpensAt:            pickupAt.Add(-policy.LeadTime),
		AutoDispatchEndsAt: createdAt.Add(policy.AutoDispatchGrace),
		InImmediateWindow:  pickupAt.Before(now.Add(policy.AutoDispatchLookahead)),
	}
}

// Gate is the outcome of checking a Window at an instant.
type Gate struct {
	Open       bool
	Reason     string        // set when closed; safe for user display
	RetryAfter time.Duration // gap until the gate can open, when known
}

// Check reports whether claiming is permitted at now.
//   - Before OpensAt, the lead-time gate is closed and reports the wait.
//   - Inside the immediate window, the auto-dispatch process has priority
//     until AutoDispatchEndsAt; the gate reports the remaining grace.
func (window Window) Check(now time.Time, policy Policy) Gate {
	if now.Before(window.OpensAt) {
		wait := window.OpensAt.Sub(now)
		return Gate{
			Reason: fmt.Sprintf("claims open %d hours before pickup (opens in about %s)",
				int(policy.LeadTime.Hours()), humanDuration(wait)),
			RetryAfter: wait,
		}
	}

	if window.InImmediateWindow && now.Before(window.AutoDispatchEndsAt) {
		wait := window.AutoDispatchEndsAt.Sub(now)
		return Gate{
			Reason:     fmt.Sprintf("auto-allocating a driver, retry in ~%s", humanDuration(wait)),
			RetryAfter: wait,
		}
	}

	return Gate{Open: true}
}

// CheckWindow computes and checks the window in one step.
func CheckWindow(pickupAt, createdAt, now time.Time, policy Policy) Gate {
	return ComputeWindow(pickupAt, createdAt, now, policy).Check(now, policy)
}

// humanDuration renders a wait as whole hours or minutes for display.
func humanDuration(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%dh", int(math.Ceil(d.Hours())))
	}
	m := int(math.Ceil(d.Minutes()))
	if m < 1 {
		m = 1
	}
	return fmt.Sprintf("%d min", m)
}
