package service

import (
	"context"
	"errors"

	"trip-claims/internal/domain/booking"
	"trip-claims/internal/domain/claim"
	"trip-claims/internal/general/postgres"
	"trip-claims/internal/ports"
)

// StartReview bulk-transitions the booking's PENDING offers to REVIEWING and
// moves the booking itself to REVIEWING, all in one transaction. The
// operation is idempotent: a second call finds nothing PENDING, transitions
// zero rows, and still succeeds.
func (service *reviewService) StartReview(ctx context.Context, bookingID string) (ports.StartReviewResult, error) {
	var out ports.StartReviewResult
	corrID := generateCorrelationID()

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		// lock the booking row so concurrent StartReview calls serialize
		b, err := service.bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, postgres.ErrBookingNotFound) {
				return claim.NewError(claim.KindNotFound, "booking not found")
			}
			return err
		}
		if b.Status.Terminal() {
			return claim.NewError(claim.KindNotAvailable, "booking is already closed")
		}

		transitioned, err := service.offers.MarkReviewing(ctx, bookingID)
		if err != nil {
			return err
		}

		changed, err := service.bookings.MarkReviewing(ctx, bookingID)
		if err != nil {
			return err
		}

		status := b.Status
		if changed {
			status = booking.StatusReviewing
		}

		// audit only the first, effective call
		if transitioned > 0 || changed {
			event, err := claim.NewEvent(bookingID, claim.EventReviewStarted, map[string]any{
				"offers_transitioned": transitioned,
				"booking_status":      status.String(),
			})
			if err != nil {
				return err
			}
			if err := service.events.Append(ctx, event); err != nil {
				return err
			}
		}

		out = ports.StartReviewResult{
			BookingID:     bookingID,
			BookingStatus: status.String(),
			Transitioned:  transitioned,
		}
		return nil
	})
	if err != nil {
		if _, ok := claim.AsError(err); !ok {
			service.logger.Error(ctx, "start_review_failed", "Failed to start offer review", err, map[string]any{
				"booking_id": bookingID,
				"request_id": corrID,
			})
		}
		return ports.StartReviewResult{}, err
	}

	service.logger.Info(ctx, "review_started", "Offer review started", map[string]any{
		"booking_id":   bookingID,
		"transitioned": out.Transitioned,
		"status":       out.BookingStatus,
		"request_id":   corrID,
	})
	return out, nil
}
