package service

import (
	"context"
	"errors"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/offer"
	"trip-claims/internal/general/contracts"
	"trip-claims/internal/general/postgres"
	"trip-claims/internal/ports"
)

// RecordDecision transitions a single offer to the given status. Leaving
// PENDING stamps decided_at/decided_by; re-entering PENDING clears both. The
// decision commits before the RabbitMQ announcement goes out, so a broker
// outage never loses a recorded decision.
func (service *reviewService) RecordDecision(ctx context.Context, in ports.RecordDecisionInput) (ports.RecordDecisionResult, error) {
	var (
		out     ports.RecordDecisionResult
		decided *offer.Offer
	)
	corrID := generateCorrelationID()

	next, err := offer.ParseStatus(in.Status)
	if err != nil {
		return ports.RecordDecisionResult{}, err
	}

	err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
		o, err := service.offers.GetByID(ctx, in.OfferID)
		if err != nil {
			if errors.Is(err, postgres.ErrOfferNotFound) {
				return claim.NewError(claim.KindNotFound, "offer not found")
			}
			return err
		}

		wasPending := o.Status == offer.StatusPending
		if err := o.Decide(next, in.DecidedBy, time.Now().UTC()); err != nil {
			return err
		}
		if err := service.offers.UpdateDecision(ctx, o); err != nil {
			return err
		}
		decided = o

		eventType := claim.EventOfferDecided
		if next == offer.StatusPending && !wasPending {
			eventType = claim.EventOfferReopened
		}
		event, err := claim.NewEvent(o.BookingID, eventType, map[string]any{
			"offer_id":   o.ID,
			"status":     o.Status.String(),
			"decided_by": in.DecidedBy,
		})
		if err != nil {
			return err
		}
		if err := service.events.Append(ctx, event); err != nil {
			return err
		}

		out = ports.RecordDecisionResult{
			OfferID:   o.ID,
			Status:    o.Status.String(),
			DecidedAt: o.DecidedAt,
		}
		if o.DecidedBy != nil {
			out.DecidedBy = *o.DecidedBy
		}
		return nil
	})
	if err != nil {
		if _, ok := claim.AsError(err); !ok {
			service.logger.Error(ctx, "record_decision_failed", "Failed to record offer decision", err, map[string]any{
				"offer_id":   in.OfferID,
				"status":     in.Status,
				"request_id": corrID,
			})
		}
		return ports.RecordDecisionResult{}, err
	}

	// best-effort announcement after commit
	msg := contracts.OfferDecisionMessage{
		OfferID:   decided.ID,
		BookingID: decided.BookingID,
		Status:    decided.Status.String(),
		DecidedBy: out.DecidedBy,
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer:      "review-service",
			CorrelationID: corrID,
			SentAt:        time.Now().UTC(),
		},
	}
	if err := service.publishOfferDecision(ctx, msg); err != nil {
		service.logger.Error(ctx, "offer_decision_publish_failed", "Failed to publish offer decision to RabbitMQ", err, map[string]any{
			"offer_id":   decided.ID,
			"booking_id": decided.BookingID,
			"request_id": corrID,
		})
	}

	service.logger.Info(ctx, "offer_decided", "Offer decision recorded", map[string]any{
		"offer_id":   out.OfferID,
		"status":     out.Status,
		"decided_by": out.DecidedBy,
		"request_id": corrID,
	})
	return out, nil
}
