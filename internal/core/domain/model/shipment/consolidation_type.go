package shipment

import (
	"fmt"

	"groupage/internal/pkg/errs"
)

// ConsolidationType distinguishes how a shipment travels.
//
// The BBX/LBX distinction is the defining difference between the two groupage
// modes: BBX babies are co-packed and physically mirror the mother's transport
// events, while LBX babies are grouped for manifest/billing only and keep
// independent physical tracking.
type ConsolidationType int

const (
	// ConsolidationTypeUnknown represents an invalid or undefined type.
	ConsolidationTypeUnknown ConsolidationType = iota

	// ConsolidationTypeIndividual marks a shipment traveling on its own.
	ConsolidationTypeIndividual

	// ConsolidationTypeBBX marks physical consolidation: babies are co-packed
	// and travel with the mother.
	ConsolidationTypeBBX

	// ConsolidationTypeLBX marks virtual/logical consolidation: babies are
	// grouped on paper only.
	ConsolidationTypeLBX
)

// getConsolidationTypeStrings returns the token of every type.
func getConsolidationTypeStrings() map[ConsolidationType]string {
	return map[ConsolidationType]string{
		ConsolidationTypeUnknown:    "UNKNOWN",
		ConsolidationTypeIndividual: "INDIVIDUAL",
		ConsolidationTypeBBX:        "BBX",
		ConsolidationTypeLBX:        "LBX",
	}
}

// String returns the uppercase token of the type.
func (t ConsolidationType) String() string {
	if str, ok := getConsolidationTypeStrings()[t]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks the type is one of the defined values.
func (t ConsolidationType) Validate() error {
	if t < ConsolidationTypeIndividual || t > ConsolidationTypeLBX {
		return errs.NewValueIsInvalidErrorWithCause(
			"consolidationType is invalid",
			fmt.Errorf("%d is not a valid consolidation type", t),
		)
	}
	return nil
}

// IsGroupage reports whether the type denotes membership in a consolidation.
func (t ConsolidationType) IsGroupage() bool {
	return t == ConsolidationTypeBBX || t == ConsolidationTypeLBX
}

// IsPhysical reports whether babies of this type physically co-travel with the
// mother and mirror its transport-state transitions.
func (t ConsolidationType) IsPhysical() bool {
	return t == ConsolidationTypeBBX
}

// ParseConsolidationType resolves an uppercase token to its type value.
func ParseConsolidationType(token string) (ConsolidationType, error) {
	for value, str := range getConsolidationTypeStrings() {
		if str == token && value != ConsolidationTypeUnknown {
			return value, nil
		}
	}
	return ConsolidationTypeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"consolidationType token is invalid",
		fmt.Errorf("%q is not a consolidation type token", token),
	)
}
