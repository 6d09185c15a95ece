package service

import (
	"context"
	"errors"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/offer"
	"trip-claims/internal/general/postgres"
	"trip-claims/internal/ports"
)

// Shortlist reduces a booking's offers to the reviewer's three price points.
// A booking with no shortlistable offers yields an empty result, not an
// error. The selection is recomputed from the live offer rows on every call.
func (service *reviewService) Shortlist(ctx context.Context, bookingID string) (ports.ShortlistResult, error) {
	var (
		out      ports.ShortlistResult
		selected *offer.Shortlist
		eligible int
	)

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := service.bookings.GetByID(ctx, bookingID); err != nil {
			if errors.Is(err, postgres.ErrBookingNotFound) {
				return claim.NewError(claim.KindNotFound, "booking not found")
			}
			return err
		}

		offers, err := service.offers.ListForBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		for _, o := range offers {
			if o.Status.Shortlistable() {
				eligible++
			}
		}

		selected, err = offer.SelectShortlist(offers)
		return err
	})
	if err != nil {
		if errors.Is(err, offer.ErrMixedCurrency) {
			service.logger.Info(ctx, "shortlist_mixed_currency", "Booking offers span multiple currencies", map[string]any{
				"booking_id": bookingID,
			})
			return ports.ShortlistResult{}, err
		}
		if _, ok := claim.AsError(err); !ok {
			service.logger.Error(ctx, "shortlist_failed", "Failed to compute shortlist", err, map[string]any{
				"booking_id": bookingID,
			})
		}
		return ports.ShortlistResult{}, err
	}

	out = ports.ShortlistResult{BookingID: bookingID, EligibleCount: eligible}
	if selected == nil {
		out.Empty = true
		return out, nil
	}

	out.High = entryOf(selected.High)
	out.Mid = entryOf(selected.Mid)
	out.Low = entryOf(selected.Low)
	out.Target = selected.Target
	out.Currency = selected.Currency

	service.logger.Debug(ctx, "shortlist_computed", "Computed offer shortlist", map[string]any{
		"booking_id": bookingID,
		"eligible":   eligible,
		"target":     out.Target,
	})
	return out, nil
}
