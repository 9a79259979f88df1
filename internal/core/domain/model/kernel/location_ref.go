package kernel

import (
	"fmt"

	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

// LocationKind identifies the kind of place a LocationRef points at.
type LocationKind int

const (
	// LocationKindUnknown represents an invalid or undefined location kind.
	LocationKindUnknown LocationKind = iota

	// LocationKindHub references a branch or hub facility.
	LocationKindHub

	// LocationKindVehicle references a linehaul or delivery vehicle.
	LocationKindVehicle

	// LocationKindAddress references a customer address.
	LocationKindAddress
)

// getLocationKindStrings returns the string representation of every kind.
func getLocationKindStrings() map[LocationKind]string {
	return map[LocationKind]string{
		LocationKindUnknown: "Unknown",
		LocationKindHub:     "Hub",
		LocationKindVehicle: "Vehicle",
		LocationKindAddress: "Address",
	}
}

// String returns the human-readable name of the location kind.
func (k LocationKind) String() string {
	if str, ok := getLocationKindStrings()[k]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks the LocationKind is one of the defined kinds.
func (k LocationKind) Validate() error {
	switch k {
	case LocationKindHub, LocationKindVehicle, LocationKindAddress:
		return nil
	case LocationKindUnknown:
		fallthrough
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"locationKind is invalid",
			fmt.Errorf("%d is not a valid location kind", k),
		)
	}
}

// ErrLocationRefIsNotConstructed is returned when attempting to use an
// improperly initialized LocationRef.
var ErrLocationRefIsNotConstructed = errs.NewValueIsRequiredError(
	"location ref must be created via NewHubRef, NewVehicleRef, or NewAddressRef constructors")

// LocationRef is a tagged union referencing the place where a shipment
// currently sits: a hub, a vehicle, or a customer address. Modeling the pair
// as a union makes invalid kind/id combinations unrepresentable, unlike the
// legacy free-form (type, id) columns it replaces.
//
// Example:
//
//	ref, err := kernel.NewHubRef(hubID)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(ref) // Output: Hub(550e8400-...)
type LocationRef struct { //nolint:recvcheck //using for validation
	kind  LocationKind
	id    UUID
	guard guard.ConstructorGuard
}

// NewHubRef creates a LocationRef pointing at a hub facility.
func NewHubRef(id UUID) (LocationRef, error) {
	return newLocationRef(LocationKindHub, id)
}

// NewVehicleRef creates a LocationRef pointing at a vehicle.
func NewVehicleRef(id UUID) (LocationRef, error) {
	return newLocationRef(LocationKindVehicle, id)
}

// NewAddressRef creates a LocationRef pointing at a customer address.
func NewAddressRef(id UUID) (LocationRef, error) {
	return newLocationRef(LocationKindAddress, id)
}

// NewLocationRef creates a LocationRef of an explicit kind. Prefer the
// kind-specific constructors; this form exists for restoring persisted refs.
func NewLocationRef(kind LocationKind, id UUID) (LocationRef, error) {
	return newLocationRef(kind, id)
}

func newLocationRef(kind LocationKind, id UUID) (LocationRef, error) {
	if err := kind.Validate(); err != nil {
		return LocationRef{}, err
	}

	if err := id.Validate(); err != nil {
		return LocationRef{}, err
	}

	return LocationRef{
		kind:  kind,
		id:    id,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Kind returns the kind of place this ref points at.
func (r LocationRef) Kind() LocationKind {
	return r.kind
}

// ID returns the identifier of the referenced place.
func (r LocationRef) ID() UUID {
	return r.id
}

// IsEqual compares two refs by kind and identifier.
func (r LocationRef) IsEqual(other LocationRef) bool {
	return r.kind == other.kind && r.id.IsEqual(other.id)
}

// String returns a "Kind(id)" representation suitable for logging.
func (r LocationRef) String() string {
	return fmt.Sprintf("%s(%s)", r.kind, r.id)
}

// Validate checks the LocationRef was properly constructed.
func (r LocationRef) Validate() error {
	return r.guard.Validate(ErrLocationRefIsNotConstructed)
}
