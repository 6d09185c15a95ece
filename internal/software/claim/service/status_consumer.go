package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/general/contracts"
	"trip-claims/internal/general/postgres"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartBackgroundConsumer starts consuming claim status decisions from
// RabbitMQ. The auto-dispatch process announces accept/reject decisions on
// the claim topic; this consumer applies them to the claim rows and pushes
// the update to the affected driver's WebSocket.
func (service *claimService) StartBackgroundConsumer(ctx context.Context, prefetch int) {
	go service.rabbitmq.Consume(ctx, contracts.QueueClaimStatus, "claim-service-status", prefetch,
		func(ctx context.Context, d amqp.Delivery) error {
			service.logger.Info(ctx, "claim_status_received", "Processing claim status decision from MQ",
				map[string]any{"routing_key": d.RoutingKey, "body": string(d.Body)})

			var msg contracts.ClaimStatusMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				service.logger.Error(ctx, "mq_message_parse_failed", "Failed to parse claim status message", err, nil)
				return err
			}

			updated, err := service.applyStatusDecision(ctx, msg)
			if err != nil {
				// a decision for an unknown claim is dropped, not retried
				if errors.Is(err, postgres.ErrClaimNotFound) {
					service.logger.Error(ctx, "claim_status_unknown_claim", "Dropping decision for unknown claim", err,
						map[string]any{"claim_id": msg.ClaimID})
					return nil
				}
				service.logger.Error(ctx, "claim_status_apply_failed", "Failed to apply claim status decision", err,
					map[string]any{"claim_id": msg.ClaimID, "status": msg.Status})
				return err
			}

			// push to the driver when connected; absence is not an error
			if service.websocket.IsDriverConnected(updated.DriverID) {
				push := contracts.WSDriverClaimUpdate{
					Type:      "claim_update",
					ClaimID:   updated.ID,
					TripID:    updated.TripID,
					Status:    updated.Status.String(),
					Timestamp: time.Now().UTC(),
					Envelope: contracts.Envelope{
						Producer:      "claim-service",
						CorrelationID: msg.CorrelationID,
						SentAt:        time.Now().UTC(),
					},
				}
				if err := service.pushClaimUpdate(ctx, updated.DriverID, push); err != nil {
					service.logger.Error(ctx, "claim_update_push_failed", "Failed to push claim decision over WebSocket", err,
						map[string]any{"claim_id": updated.ID, "driver_id": updated.DriverID})
				}
			}

			return nil
		})

	service.logger.Info(ctx, "mq_consumer_started", "Claim service MQ consumer started",
		map[string]any{"queue": contracts.QueueClaimStatus})
}

// applyStatusDecision transitions the claim and appends the audit event in
// one transaction.
func (service *claimService) applyStatusDecision(ctx context.Context, msg contracts.ClaimStatusMessage) (*claim.Claim, error) {
	next, err := claim.ParseStatus(msg.Status)
	if err != nil {
		return nil, err
	}

	var updated *claim.Claim
	err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
		c, err := service.claims.GetByID(ctx, msg.ClaimID)
		if err != nil {
			return err
		}

		if c.Status == next {
			// replayed decision; nothing to apply
			updated = c
			return nil
		}

		if err := c.Decide(next, msg.DecidedBy, time.Now().UTC()); err != nil {
			return err
		}
		if err := service.claims.UpdateDecision(ctx, c); err != nil {
			return err
		}

		event, err := claim.NewEvent(c.TripID, statusEventType(next), map[string]any{
			"claim_id":   c.ID,
			"driver_id":  c.DriverID,
			"status":     c.Status.String(),
			"decided_by": msg.DecidedBy,
		})
		if err != nil {
			return err
		}
		if err := service.events.Append(ctx, event); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// statusEventType maps a claim status to its audit event type.
func statusEventType(status claim.Status) claim.EventType {
	switch status {
	case claim.StatusAccepted:
		return claim.EventClaimAccepted
	case claim.StatusRejected:
		return claim.EventClaimRejected
	case claim.StatusWithdrawn:
		return claim.EventClaimWithdrawn
	default:
		return claim.EventStatusChanged
	}
}
