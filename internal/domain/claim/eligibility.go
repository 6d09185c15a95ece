package claim

import (
	"fmt"
	"strings"

	"trip-claims/internal/domain/driver"
	"trip-claims/internal/domain/trip"
)

// IneligibilityReason is a machine-readable reason code for a failed
// eligibility check. The paired message carries the human-readable detail.
type IneligibilityReason string

const (
	ReasonNoOperatingArea   IneligibilityReason = "NO_OPERATING_AREA"
	ReasonOutsideArea       IneligibilityReason = "OUTSIDE_OPERATING_AREA"
	ReasonPremiumOnly       IneligibilityReason = "PREMIUM_ONLY"
	ReasonClassMismatch     IneligibilityReason = "VEHICLE_CLASS_MISMATCH"
	ReasonProfileIncomplete IneligibilityReason = "PROFILE_INCOMPLETE"
)

// Eligibility is the outcome of evaluating one driver against one trip.
type Eligibility struct {
	Eligible bool
	Reason   IneligibilityReason // set when not eligible
	Message  string              // set when not eligible; safe for user display
}

func eligible() Eligibility {
	return Eligibility{Eligible: true}
}

func ineligible(reason IneligibilityReason, msg string) Eligibility {
	return Eligibility{Reason: reason, Message: msg}
}

// Evaluate decides whether a driver may claim a trip. Pure: it reads
// profile and trip attributes and has no side effects. Both the area check
// and the class/priority check must pass.
func Evaluate(d *driver.Driver, t *trip.Trip) Eligibility {
	if result := checkArea(d, t); !result.Eligible {
		return result
	}
	return checkClass(d, t)
}

// checkArea requires at least one of the trip's region labels to fall in the
// driver's normalized operating-area set.
func checkArea(d *driver.Driver, t *trip.Trip) Eligibility {
	areas := d.Areas()
	if areas.Empty() {
		return ineligible(ReasonNoOperatingArea, "no operating area configured on your profile")
	}

	regions := t.Regions()
	if areas.ContainsAny(regions) {
		return eligible()
	}

	return ineligible(ReasonOutsideArea, fmt.Sprintf(
		"trip is outside your operating area (trip: %s; yours: %s)",
		strings.ToLower(strings.Join(regions, ", ")), areas.String(),
	))
}

// checkClass enforces the trip's premium flag and required vehicle class.
// A trip with neither requirement is open to any eligible-area driver.
func checkClass(d *driver.Driver, t *trip.Trip) Eligibility {
	if t.PremiumOnly && !d.Premium {
		return ineligible(ReasonPremiumOnly, "this trip is reserved for premium drivers")
	}

	if t.RequiredClass == nil {
		return eligible()
	}

	if !d.HasVehicleConfigured() {
		return ineligible(ReasonProfileIncomplete, "no vehicle configured on your profile")
	}

	if d.VehicleClass() != *t.RequiredClass {
		return ineligible(ReasonClassMismatch, fmt.Sprintf("this trip requires vehicle class %s", t.RequiredClass))
	}

	return eligible()
}
