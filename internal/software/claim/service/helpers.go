package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"trip-claims/internal/general/contracts"
)

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405") // e.g., 20251028T184523
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// publishClaimSubmitted sends a claim-submitted message to the claim_topic
// exchange using routing key "claim.submitted.{trip_id}" (topic).
func (service *claimService) publishClaimSubmitted(ctx context.Context, msg contracts.ClaimSubmittedMessage) error {
	// construct routing key (e.g., "claim.submitted.<trip_id>")
	routingKey := contracts.RouteClaimSubmittedPrefix + msg.TripID

	// marshal and publish
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeClaimTopic, routingKey, body); err != nil {
		return err
	}

	// log successful publication
	service.logger.Info(ctx, "claim_submitted_published", "Published claim submission to RabbitMQ", map[string]any{
		"routing_key": routingKey,
		"trip_id":     msg.TripID,
		"claim_id":    msg.ClaimID,
		"driver_id":   msg.DriverID,
	})

	return nil
}

// pushClaimUpdate sends a claim update over the driver's WebSocket, if connected.
func (service *claimService) pushClaimUpdate(ctx context.Context, driverID string, msg contracts.WSDriverClaimUpdate) error {
	if err := service.websocket.SendToDriver(driverID, msg); err != nil {
		return err
	}

	service.logger.Debug(ctx, "claim_update_pushed", "Pushed claim update over WebSocket", map[string]any{
		"driver_id": driverID,
		"claim_id":  msg.ClaimID,
		"status":    msg.Status,
	})
	return nil
}
