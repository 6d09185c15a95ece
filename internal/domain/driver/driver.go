package driver

import (
	"errors"
	"strings"
	"time"

	"trip-claims/internal/domain/trip"
)

// Driver is the domain entity corresponding to the `drivers` table.
// Vehicle and operating-area fields come in as free text from profile forms;
// the normalized views are what eligibility checks consume.
type Driver struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string
	VehicleText string // free text, e.g. "Boda", "Hiace"
	Premium     bool   // premium/priority driver flag

	Region         string // primary operating region, free text
	OperatingAreas string // extra areas, delimiter-separated free text
}

var ErrDriverIDRequired = errors.New("driver id is required")

// NewDriver constructs a driver profile. Caller provides ID (UUID as string).
func NewDriver(id, name, vehicleText, region, operatingAreas string, premium bool) (*Driver, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, ErrDriverIDRequired
	}

	now := time.Now().UTC()
	return &Driver{
		ID:             id,
		CreatedAt:      now,
		UpdatedAt:      now,
		Name:           strings.TrimSpace(name),
		VehicleText:    strings.TrimSpace(vehicleText),
		Premium:        premium,
		Region:         strings.TrimSpace(region),
		OperatingAreas: strings.TrimSpace(operatingAreas),
	}, nil
}

// VehicleClass returns the canonical class for the driver's free-text vehicle
// description.
func (driver *Driver) VehicleClass() trip.VehicleClass {
	return trip.NormalizeVehicleClass(driver.VehicleText)
}

// HasVehicleConfigured reports whether the profile carries any vehicle text.
func (driver *Driver) HasVehicleConfigured() bool {
	return strings.TrimSpace(driver.VehicleText) != ""
}

// Areas returns the driver's normalized operating-area set.
func (driver *Driver) Areas() AreaSet {
	return ParseAreas(driver.Region, driver.OperatingAreas)
}
