package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"trip-claims/internal/domain/offer"
	"trip-claims/internal/general/contracts"
	"trip-claims/internal/ports"
)

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405")
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// entryOf converts a domain offer into its reviewer-facing view.
func entryOf(o *offer.Offer) *ports.ShortlistEntry {
	if o == nil {
		return nil
	}
	return &ports.ShortlistEntry{
		OfferID:   o.ID,
		OwnerID:   o.OwnerID,
		Total:     o.Total,
		Status:    o.Status.String(),
		CreatedAt: o.CreatedAt,
	}
}

// publishOfferDecision sends a decision message to the review_topic exchange
// using routing key "review.decision.{booking_id}" (topic).
func (service *reviewService) publishOfferDecision(ctx context.Context, msg contracts.OfferDecisionMessage) error {
	routingKey := contracts.RouteOfferDecisionPrefix + msg.BookingID

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeReviewTopic, routingKey, body); err != nil {
		return err
	}

	service.logger.Info(ctx, "offer_decision_published", "Published offer decision to RabbitMQ", map[string]any{
		"routing_key": routingKey,
		"booking_id":  msg.BookingID,
		"offer_id":    msg.OfferID,
		"status":      msg.Status,
	})

	return nil
}
