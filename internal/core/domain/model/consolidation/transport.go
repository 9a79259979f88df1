package consolidation

import (
	"errors"
	"strings"

	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

// ErrTransportDetailsAreNotConstructed is returned when attempting to use
// improperly initialized TransportDetails.
var ErrTransportDetailsAreNotConstructed = errors.New(
	"TransportDetails must be created via NewTransportDetails constructor")

// TransportMode is the linehaul mode a consolidation travels by.
type TransportMode int

const (
	// TransportModeUnknown is the zero value, not valid for dispatch.
	TransportModeUnknown TransportMode = iota
	// TransportModeAir is an air linehaul (master air waybill).
	TransportModeAir
	// TransportModeRoad is a road linehaul (CMR / truck manifest).
	TransportModeRoad
	// TransportModeSea is a sea linehaul (bill of lading).
	TransportModeSea
)

func getTransportModeStrings() map[TransportMode]string {
	return map[TransportMode]string{
		TransportModeUnknown: "",
		TransportModeAir:     "AIR",
		TransportModeRoad:    "ROAD",
		TransportModeSea:     "SEA",
	}
}

// String returns the canonical token for the transport mode.
func (m TransportMode) String() string {
	return getTransportModeStrings()[m]
}

// Validate checks the transport mode is one of the known modes.
func (m TransportMode) Validate() error {
	if m <= TransportModeUnknown || m > TransportModeSea {
		return errs.NewValueIsInvalidError("transportMode")
	}
	return nil
}

// ParseTransportMode maps a canonical token back to a TransportMode.
func ParseTransportMode(raw string) (TransportMode, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	for mode, s := range getTransportModeStrings() {
		if s == token && mode != TransportModeUnknown {
			return mode, nil
		}
	}
	return TransportModeUnknown, errs.NewValueIsInvalidError("transportMode")
}

// TransportDetails describes the linehaul leg a consolidation is dispatched
// on: the mode and the carrier document covering the whole group.
type TransportDetails struct { //nolint:recvcheck //using for validation
	mode           TransportMode
	documentNumber string
	carrierName    string
	guard          guard.ConstructorGuard
}

// NewTransportDetails creates transport details for dispatch. The mode and
// document number are required; the carrier name is optional.
func NewTransportDetails(mode TransportMode, documentNumber, carrierName string) (TransportDetails, error) {
	if err := mode.Validate(); err != nil {
		return TransportDetails{}, err
	}
	if strings.TrimSpace(documentNumber) == "" {
		return TransportDetails{}, errs.NewValueIsRequiredError("documentNumber")
	}

	return TransportDetails{
		mode:           mode,
		documentNumber: documentNumber,
		carrierName:    carrierName,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Mode returns the linehaul mode.
func (t TransportDetails) Mode() TransportMode { return t.mode }

// DocumentNumber returns the carrier document covering the consolidation.
func (t TransportDetails) DocumentNumber() string { return t.documentNumber }

// CarrierName returns the carrier name, if recorded.
func (t TransportDetails) CarrierName() string { return t.carrierName }

// Validate checks the TransportDetails were properly constructed.
func (t TransportDetails) Validate() error {
	return t.guard.Validate(ErrTransportDetailsAreNotConstructed)
}
