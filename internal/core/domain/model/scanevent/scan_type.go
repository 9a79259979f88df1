package scanevent

import (
	"fmt"
	"strings"

	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/pkg/errs"
)

// ScanType is the closed enumeration of field observations a device can
// report. Most scan types mirror a milestone and drive a status transition;
// a few are informational and leave the status untouched.
type ScanType int

const (
	// ScanTypeUnknown represents an invalid or undefined scan type.
	ScanTypeUnknown ScanType = iota

	// ScanTypePickup is the courier collecting the shipment from the shipper.
	ScanTypePickup

	// ScanTypeOriginInbound is the arrival scan at the origin hub.
	ScanTypeOriginInbound

	// ScanTypeBagging is the shipment being placed into a groupage bag.
	ScanTypeBagging

	// ScanTypeLinehaulDepart is the departure scan of the linehaul leg.
	ScanTypeLinehaulDepart

	// ScanTypeLinehaulArrive is the arrival scan of the linehaul leg.
	ScanTypeLinehaulArrive

	// ScanTypeDestinationInbound is the arrival scan at the destination hub.
	ScanTypeDestinationInbound

	// ScanTypeCustomsHold is customs detaining the shipment.
	ScanTypeCustomsHold

	// ScanTypeCustomsClear is customs releasing the shipment.
	ScanTypeCustomsClear

	// ScanTypeOutForDelivery is the shipment loaded for the last mile.
	ScanTypeOutForDelivery

	// ScanTypeDelivery is the handover to the recipient, with POD artifacts.
	ScanTypeDelivery

	// ScanTypeReturnPickup is a returning shipment starting its way back.
	ScanTypeReturnPickup

	// ScanTypeReturnDelivery is a returning shipment handed back to the shipper.
	ScanTypeReturnDelivery

	// ScanTypeCheckpoint is an informational location ping without a status change.
	ScanTypeCheckpoint
)

// getScanTypeStrings returns the canonical device token of every scan type.
func getScanTypeStrings() map[ScanType]string {
	return map[ScanType]string{
		ScanTypeUnknown:            "UNKNOWN",
		ScanTypePickup:             "PICKUP",
		ScanTypeOriginInbound:      "ORIGIN_INBOUND",
		ScanTypeBagging:            "BAGGING",
		ScanTypeLinehaulDepart:     "LINEHAUL_DEPART",
		ScanTypeLinehaulArrive:     "LINEHAUL_ARRIVE",
		ScanTypeDestinationInbound: "DESTINATION_INBOUND",
		ScanTypeCustomsHold:        "CUSTOMS_HOLD",
		ScanTypeCustomsClear:       "CUSTOMS_CLEAR",
		ScanTypeOutForDelivery:     "OUT_FOR_DELIVERY",
		ScanTypeDelivery:           "DELIVERY",
		ScanTypeReturnPickup:       "RETURN_PICKUP",
		ScanTypeReturnDelivery:     "RETURN_DELIVERY",
		ScanTypeCheckpoint:         "CHECKPOINT",
	}
}

// String returns the canonical uppercase token of the scan type.
func (t ScanType) String() string {
	if str, ok := getScanTypeStrings()[t]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks the ScanType is one of the defined values.
func (t ScanType) Validate() error {
	if t <= ScanTypeUnknown || t > ScanTypeCheckpoint {
		return errs.NewValueIsInvalidErrorWithCause(
			"scanType is invalid",
			fmt.Errorf("%d is not a valid scan type", t),
		)
	}
	return nil
}

// TargetStatus returns the shipment status this scan type drives a shipment
// towards, and false for informational scans that leave the status untouched.
func (t ScanType) TargetStatus() (shipment.Status, bool) {
	switch t {
	case ScanTypePickup:
		return shipment.PickedUp, true
	case ScanTypeOriginInbound:
		return shipment.AtOriginHub, true
	case ScanTypeBagging:
		return shipment.Bagged, true
	case ScanTypeLinehaulDepart:
		return shipment.LinehaulDeparted, true
	case ScanTypeLinehaulArrive:
		return shipment.LinehaulArrived, true
	case ScanTypeDestinationInbound:
		return shipment.AtDestinationHub, true
	case ScanTypeCustomsHold:
		return shipment.CustomsHold, true
	case ScanTypeCustomsClear:
		return shipment.CustomsCleared, true
	case ScanTypeOutForDelivery:
		return shipment.OutForDelivery, true
	case ScanTypeDelivery:
		return shipment.Delivered, true
	case ScanTypeReturnPickup:
		return shipment.ReturnInTransit, true
	case ScanTypeReturnDelivery:
		return shipment.Returned, true
	default:
		return shipment.Unknown, false
	}
}

// RequiresPOD reports whether this scan type must carry proof-of-delivery
// artifacts.
func (t ScanType) RequiresPOD() bool {
	return t == ScanTypeDelivery
}

// ParseScanType resolves a device token back to its ScanType value.
// Tokens are matched case-insensitively.
func ParseScanType(raw string) (ScanType, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	for scanType, str := range getScanTypeStrings() {
		if str == token && scanType != ScanTypeUnknown {
			return scanType, nil
		}
	}
	return ScanTypeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"scanType token is invalid",
		fmt.Errorf("%q is not a scan type token", raw),
	)
}
