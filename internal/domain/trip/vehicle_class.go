package trip

import "strings"

// VehicleClass is a canonical vehicle/service class. Driver profiles carry
// free-text vehicle descriptions; NormalizeVehicleClass maps them onto these
// tags so eligibility checks never compare raw strings.
type VehicleClass string

const (
	ClassA       VehicleClass = "CLASS_A" // two-wheelers
	ClassB       VehicleClass = "CLASS_B" // three-wheelers
	ClassC       VehicleClass = "CLASS_C" // vans and minibuses
	ClassD       VehicleClass = "CLASS_D" // cars
	ClassUnknown VehicleClass = "UNKNOWN"
)

// classSynonyms maps normalized free-text vehicle descriptions to canonical classes.
var classSynonyms = map[string]VehicleClass{
	"motor": ClassA,
	"boda":  ClassA,
	"bike":  ClassA,

	"tuktuk": ClassB,
	"bajaji": ClassB,
	"auto":   ClassB,

	"van":     ClassC,
	"hiace":   ClassC,
	"coaster": ClassC,
	"minibus": ClassC,
	"xl":      ClassC,

	"car":   ClassD,
	"sedan": ClassD,
	"suv":   ClassD,
}

// NormalizeVehicleClass maps free-text vehicle descriptions (e.g. "Boda",
// "hiace ") to a canonical class. Canonical class names themselves are also
// accepted. Unrecognized text normalizes to ClassUnknown, which never
// satisfies an exact-match requirement.
func NormalizeVehicleClass(raw string) VehicleClass {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ClassUnknown
	}

	if class, ok := classSynonyms[s]; ok {
		return class
	}

	// accept canonical spellings like "CLASS_A" or "class a"
	switch strings.ToUpper(strings.ReplaceAll(s, " ", "_")) {
	case string(ClassA):
		return ClassA
	case string(ClassB):
		return ClassB
	case string(ClassC):
		return ClassC
	case string(ClassD):
		return ClassD
	}

	return ClassUnknown
}

// Known reports whether the class is a recognized canonical class.
func (class VehicleClass) Known() bool {
	switch class {
	case ClassA, ClassB, ClassC, ClassD:
		return true
	default:
		return false
	}
}

// String returns the string representation of the VehicleClass.
func (class VehicleClass) String() string {
	return string(class)
}
