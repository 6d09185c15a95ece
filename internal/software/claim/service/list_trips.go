package service

import (
	"context"
	"time"

	"trip-claims/internal/domain/claim"
	"trip-claims/internal/domain/driver"
	"trip-claims/internal/domain/trip"
	"trip-claims/internal/ports"
)

const openTripsLimit = 100

// ListOpenTrips returns claimable trips annotated for the requesting driver.
// The annotation is advisory only: every check is re-run inside the submit
// transaction, so a stale "can_claim: true" is corrected at write time.
func (service *claimService) ListOpenTrips(ctx context.Context, driverID string) ([]ports.OpenTripView, error) {
	var views []ports.OpenTripView

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		d, err := service.drivers.GetByID(ctx, driverID)
		if err != nil {
			return err
		}

		trips, err := service.trips.ListOpen(ctx, openTripsLimit)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		views = make([]ports.OpenTripView, 0, len(trips))
		for _, t := range trips {
			views = append(views, service.annotate(d, t, now))
		}
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "open_trips_list_failed", "Failed to list open trips", err, map[string]any{
			"driver_id": driverID,
		})
		return nil, err
	}

	service.logger.Debug(ctx, "open_trips_listed", "Listed open trips for driver", map[string]any{
		"driver_id": driverID,
		"count":     len(views),
	})
	return views, nil
}

// annotate builds the driver-facing view of one open trip, running the
// eligibility and window checks against the wall clock.
func (service *claimService) annotate(d *driver.Driver, t *trip.Trip, now time.Time) ports.OpenTripView {
	view := ports.OpenTripView{
		TripID:            t.ID,
		TripNumber:        t.TripNumber,
		ScheduledAt:       t.ScheduledAt,
		PickupAt:          t.PickupAt,
		OriginRegion:      t.OriginRegion,
		DestinationRegion: t.DestinationRegion,
		PremiumOnly:       t.PremiumOnly,
	}
	if t.RequiredClass != nil {
		view.RequiredClass = t.RequiredClass.String()
	}

	if result := claim.Evaluate(d, t); !result.Eligible {
		view.Reason = result.Message
		return view
	}

	if gate := claim.CheckWindow(t.PickupTime(), t.CreatedAt, now, service.policy); !gate.Open {
		view.Reason = gate.Reason
		view.RetryAfterSeconds = int64(gate.RetryAfter.Seconds())
		return view
	}

	view.CanClaim = true
	return view
}
