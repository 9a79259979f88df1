package shipment

import (
	"fmt"
	"strings"

	"groupage/internal/pkg/errs"
)

// Status represents the canonical lifecycle state of a shipment.
// It implements a state machine with a strictly ordered forward path and
// explicit branch states, so shipments can only move along defined edges.
//
// Forward path:
//
//	BOOKED → PICKUP_SCHEDULED → PICKED_UP → AT_ORIGIN_HUB → BAGGED
//	       → LINEHAUL_DEPARTED → LINEHAUL_ARRIVED → AT_DESTINATION_HUB
//	       → [CUSTOMS_HOLD → CUSTOMS_CLEARED] → OUT_FOR_DELIVERY → DELIVERED
//
// PICKUP_SCHEDULED, BAGGED and the customs pair are optional legs: a booking
// may go straight to pickup, a loose shipment may skip bagging, and a domestic
// shipment never enters customs. CUSTOMS_HOLD can only exit via CUSTOMS_CLEARED.
//
// Branch states: RETURN_INITIATED → RETURN_IN_TRANSIT → RETURNED is reachable
// from any non-terminal forward state; CANCELLED is terminal and only reachable
// before pickup (or by explicit override). EXCEPTION is a parked marker carried
// as a side-flag on the shipment - it never replaces the forward status.
//
// DELIVERED, RETURNED and CANCELLED are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Booked is the initial status recorded when the shipment is created.
	Booked

	// PickupScheduled indicates a pickup slot has been planned.
	PickupScheduled

	// PickedUp indicates the courier has collected the shipment.
	PickedUp

	// AtOriginHub indicates arrival at the origin branch or hub.
	AtOriginHub

	// Bagged indicates the shipment has been packed into a transport bag.
	Bagged

	// LinehaulDeparted indicates the shipment left the origin hub on a linehaul leg.
	LinehaulDeparted

	// LinehaulArrived indicates the linehaul leg reached its destination port.
	LinehaulArrived

	// AtDestinationHub indicates arrival at the destination branch or hub.
	AtDestinationHub

	// CustomsHold indicates the shipment is parked in customs inspection.
	CustomsHold

	// CustomsCleared indicates customs released the shipment.
	CustomsCleared

	// OutForDelivery indicates the shipment is on a delivery run.
	OutForDelivery

	// Delivered indicates successful delivery. Terminal.
	Delivered

	// ReturnInitiated indicates a return to shipper has been started.
	ReturnInitiated

	// ReturnInTransit indicates the return shipment is traveling back.
	ReturnInTransit

	// Returned indicates the shipment is back with the shipper. Terminal.
	Returned

	// Cancelled indicates the booking was cancelled. Terminal.
	Cancelled

	// Exception marks an exception milestone. It is never the forward status
	// of a shipment; it exists so exception scans and legacy records map onto
	// the same enumeration as every other milestone.
	Exception
)

// getStatusStrings returns a map of Status values to their canonical tokens.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "UNKNOWN",
		Booked:           "BOOKED",
		PickupScheduled:  "PICKUP_SCHEDULED",
		PickedUp:         "PICKED_UP",
		AtOriginHub:      "AT_ORIGIN_HUB",
		Bagged:           "BAGGED",
		LinehaulDeparted: "LINEHAUL_DEPARTED",
		LinehaulArrived:  "LINEHAUL_ARRIVED",
		AtDestinationHub: "AT_DESTINATION_HUB",
		CustomsHold:      "CUSTOMS_HOLD",
		CustomsCleared:   "CUSTOMS_CLEARED",
		OutForDelivery:   "OUT_FOR_DELIVERY",
		Delivered:        "DELIVERED",
		ReturnInitiated:  "RETURN_INITIATED",
		ReturnInTransit:  "RETURN_IN_TRANSIT",
		Returned:         "RETURNED",
		Cancelled:        "CANCELLED",
		Exception:        "EXCEPTION",
	}
}

// forwardEdges defines the reachable targets for every status. Only edges
// listed here may be taken by Apply; everything else is an invalid transition.
func forwardEdges() map[Status][]Status {
	return map[Status][]Status{
		Booked:           {PickupScheduled, PickedUp},
		PickupScheduled:  {PickedUp},
		PickedUp:         {AtOriginHub},
		AtOriginHub:      {Bagged, LinehaulDeparted},
		Bagged:           {LinehaulDeparted},
		LinehaulDeparted: {LinehaulArrived},
		LinehaulArrived:  {AtDestinationHub},
		AtDestinationHub: {CustomsHold, OutForDelivery},
		CustomsHold:      {CustomsCleared},
		CustomsCleared:   {OutForDelivery},
		OutForDelivery:   {Delivered},
		ReturnInitiated:  {ReturnInTransit},
		ReturnInTransit:  {Returned},
	}
}

// String returns the canonical uppercase token of the status.
// It implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Legacy returns the deprecated lowercase mirror of the status token.
// Every persisted shipment row carries this value alongside the canonical one,
// and the two must always agree.
func (s Status) Legacy() string {
	return strings.ToLower(s.String())
}

// Validate checks the Status is one of the defined canonical values.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > Exception {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Returned || s == Cancelled
}

// CanTransitionTo reports whether target is directly reachable from s
// along the forward/branch graph.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range forwardEdges()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// comesBefore reports whether s precedes other on the canonical forward path.
// Branch statuses are not ordered against the forward path.
func (s Status) comesBefore(other Status) bool {
	return s < other && other <= Delivered
}

// ParseStatus resolves a canonical uppercase token back to its Status value.
// Returns an error for unrecognized tokens; legacy lowercase records must go
// through TranslateLegacyStatus instead.
func ParseStatus(token string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == token && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status token is invalid",
		fmt.Errorf("%q is not a canonical status token", token),
	)
}

// getLegacyStatusTokens returns the fixed translation table from legacy
// free-text status tokens to canonical statuses. The table is the only place
// legacy values are interpreted; untranslated strings never enter the state
// machine.
func getLegacyStatusTokens() map[string]Status {
	return map[string]Status{
		"created":          Booked,
		"booked":           Booked,
		"pending":          Booked,
		"pickup_scheduled": PickupScheduled,
		"pickup_assigned":  PickupScheduled,
		"picked":           PickedUp,
		"picked_up":        PickedUp,
		"at_hub":           AtOriginHub,
		"origin_hub":       AtOriginHub,
		"bagged":           Bagged,
		"in_transit":       LinehaulDeparted,
		"linehaul":         LinehaulDeparted,
		"arrived_port":     LinehaulArrived,
		"destination_hub":  AtDestinationHub,
		"customs":          CustomsHold,
		"customs_hold":     CustomsHold,
		"customs_cleared":  CustomsCleared,
		"ofd":              OutForDelivery,
		"out_for_delivery": OutForDelivery,
		"delivered":        Delivered,
		"rto_initiated":    ReturnInitiated,
		"rto":              ReturnInTransit,
		"rto_delivered":    Returned,
		"returned":         Returned,
		"cancelled":        Cancelled,
		"canceled":         Cancelled,
		"exception":        Exception,
		"problem":          Exception,
	}
}

// TranslateLegacyStatus maps a legacy status token onto the canonical
// enumeration. Tokens are matched case-insensitively after trimming.
// Returns an error for tokens outside the documented table.
func TranslateLegacyStatus(token string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	if status, ok := getLegacyStatusTokens()[normalized]; ok {
		return status, nil
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"legacy status is invalid",
		fmt.Errorf("%q is not in the legacy translation table", token),
	)
}
