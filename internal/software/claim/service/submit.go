package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/trip"
	"trip-claims/internal/general/contracts"
	"trip-claims/internal/general/postgres"
	"trip-claims/internal/ports"
)

// SubmitClaim executes the claim transaction: re-validate trip state, re-check
// eligibility and window against the wall clock, enforce the capacity cap and
// the one-claim-per-driver rule, then insert the claim. Each check is a
// fail-fast exit with a typed claim.Error. The trip row is locked for the
// whole read-check-write sequence, so competing submissions on the same trip
// serialize and each sees the previous one's insert.
func (service *claimService) SubmitClaim(ctx context.Context, in ports.SubmitClaimInput) (ports.SubmitClaimResult, error) {
	var (
		out     ports.SubmitClaimResult
		created *claim.Claim
		loaded  *trip.Trip
	)
	corrID := generateCorrelationID()
	ctx = service.logger.WithTripID(service.logger.WithRequestID(ctx, corrID), in.TripID)

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		// 1. driver profile exists
		d, err := service.drivers.GetByID(ctx, in.DriverID)
		if err != nil {
			if errors.Is(err, postgres.ErrDriverNotFound) {
				return claim.NewError(claim.KindNotFound, "driver profile not found")
			}
			return err
		}

		// 1. trip exists; row lock held until commit
		t, err := service.trips.GetByIDForUpdate(ctx, in.TripID)
		if err != nil {
			if errors.Is(err, postgres.ErrTripNotFound) {
				return claim.NewError(claim.KindNotFound, "trip not found")
			}
			return err
		}
		loaded = t

		now := time.Now().UTC()

		// 2. trip is open, paid, and scheduled in the future
		if !t.Assignment().Open() {
			return claim.NewError(claim.KindNotAvailable, "trip is no longer open for claiming")
		}
		if !t.PaymentStatus.IsPaid() {
			return claim.NewError(claim.KindNotAvailable, "trip is not paid yet")
		}
		if !t.ScheduledAt.After(now) {
			return claim.NewError(claim.KindNotAvailable, "trip is in the past")
		}

		// 3. eligibility
		if result := claim.Evaluate(d, t); !result.Eligible {
			return claim.NewError(claim.KindNotEligible, result.Message)
		}

		// 4. claim window, evaluated at write time
		if gate := claim.CheckWindow(t.PickupTime(), t.CreatedAt, now, service.policy); !gate.Open {
			return claim.NewRetryableError(claim.KindWindowClosed, gate.Reason, gate.RetryAfter)
		}

		// 5. capacity cap over PENDING+ACCEPTED claims
		active, err := service.claims.CountActiveForTrip(ctx, t.ID)
		if err != nil {
			return err
		}
		if active >= service.policy.MaxActiveClaims {
			return claim.NewError(claim.KindCapacityExceeded,
				fmt.Sprintf("this trip already has %d claims", active))
		}

		// 6. one claim per driver per trip
		exists, err := service.claims.ExistsForTripAndDriver(ctx, t.ID, in.DriverID)
		if err != nil {
			return err
		}
		if exists {
			return claim.NewError(claim.KindDuplicateClaim, "you have already claimed this trip")
		}

		// 7. insert; the unique constraint on (trip_id, driver_id) backstops
		// check 6 and surfaces as DUPLICATE_CLAIM from the repository
		c, err := claim.NewClaim(t.ID, in.DriverID)
		if err != nil {
			return err
		}
		if err := service.claims.Insert(ctx, c); err != nil {
			return err
		}
		created = c

		out = ports.SubmitClaimResult{
			ClaimID:     c.ID,
			TripID:      t.ID,
			TripNumber:  t.TripNumber,
			Status:      c.Status.String(),
			SubmittedAt: c.CreatedAt,
			Message:     "Claim submitted, waiting for assignment",
		}
		return nil
	})
	if err != nil {
		if ce, ok := claim.AsError(err); ok {
			// expected outcome, not a system failure
			service.logger.Info(ctx, "claim_rejected", "Claim attempt rejected", map[string]any{
				"trip_id":    in.TripID,
				"driver_id":  in.DriverID,
				"kind":       string(ce.Kind),
				"reason":     ce.Message,
				"request_id": corrID,
			})
			return ports.SubmitClaimResult{}, err
		}
		service.logger.Error(ctx, "claim_submit_failed", "Failed to submit claim", err, map[string]any{
			"trip_id":    in.TripID,
			"driver_id":  in.DriverID,
			"request_id": corrID,
		})
		return ports.SubmitClaimResult{}, err
	}

	// post-commit side effects are best-effort: each failure is logged and
	// swallowed, never unwinding the committed claim
	service.dispatchSubmitted(ctx, created, loaded, corrID)

	service.logger.Info(ctx, "claim_submitted", "Driver claimed trip", map[string]any{
		"trip_id":     out.TripID,
		"trip_number": out.TripNumber,
		"claim_id":    out.ClaimID,
		"driver_id":   in.DriverID,
		"request_id":  corrID,
	})
	return out, nil
}

// dispatchSubmitted runs the post-commit side effects of a successful claim:
// the RabbitMQ announcement, the driver WebSocket push, and the audit row.
// The audit row goes in its own short transaction.
func (service *claimService) dispatchSubmitted(ctx context.Context, c *claim.Claim, t *trip.Trip, corrID string) {
	envelope := contracts.Envelope{
		Producer:      "claim-service",
		CorrelationID: corrID,
		SentAt:        time.Now().UTC(),
	}

	msg := contracts.ClaimSubmittedMessage{
		ClaimID:     c.ID,
		TripID:      c.TripID,
		TripNumber:  t.TripNumber,
		DriverID:    c.DriverID,
		Status:      c.Status.String(),
		SubmittedAt: c.CreatedAt,
		Envelope:    envelope,
	}
	if err := service.publishClaimSubmitted(ctx, msg); err != nil {
		service.logger.Error(ctx, "claim_submitted_publish_failed", "Failed to publish claim submission to RabbitMQ", err, map[string]any{
			"claim_id":   c.ID,
			"trip_id":    c.TripID,
			"request_id": corrID,
		})
	}

	push := contracts.WSDriverClaimUpdate{
		Type:       "claim_update",
		ClaimID:    c.ID,
		TripID:     c.TripID,
		TripNumber: t.TripNumber,
		Status:     c.Status.String(),
		Timestamp:  time.Now().UTC(),
		Envelope:   envelope,
	}
	if err := service.pushClaimUpdate(ctx, c.DriverID, push); err != nil {
		service.logger.Error(ctx, "claim_update_push_failed", "Failed to push claim update over WebSocket", err, map[string]any{
			"claim_id":   c.ID,
			"driver_id":  c.DriverID,
			"request_id": corrID,
		})
	}

	event, err := claim.NewEvent(c.TripID, claim.EventClaimSubmitted, map[string]any{
		"claim_id":  c.ID,
		"driver_id": c.DriverID,
		"status":    c.Status.String(),
	})
	if err == nil {
		err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
			return service.events.Append(ctx, event)
		})
	}
	if err != nil {
		service.logger.Error(ctx, "claim_audit_append_failed", "Failed to append claim audit event", err, map[string]any{
			"claim_id":   c.ID,
			"trip_id":    c.TripID,
			"request_id": corrID,
		})
	}
}
