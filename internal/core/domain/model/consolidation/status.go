package consolidation

import (
	"fmt"

	"groupage/internal/pkg/errs"
)

// Status represents the lifecycle state of a consolidation (the mother).
//
// State transitions:
//
//	OPEN → LOCKED → IN_TRANSIT → ARRIVED → DECONSOLIDATING → COMPLETED
//	  │       │
//	  └───────┴──> CANCELLED
//
// Lock is a one-way gate: members can only be added or removed while OPEN.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusOpen accepts member shipments subject to capacity and cutoff.
	StatusOpen

	// StatusLocked freezes membership; no further add or remove.
	StatusLocked

	// StatusInTransit indicates the mother is traveling on its transport leg.
	StatusInTransit

	// StatusArrived indicates the mother reached its destination.
	StatusArrived

	// StatusDeconsolidating indicates the unpack workflow is running.
	StatusDeconsolidating

	// StatusCompleted indicates every member was released. Terminal.
	StatusCompleted

	// StatusCancelled indicates the consolidation was abandoned. Terminal,
	// reachable only from OPEN or LOCKED.
	StatusCancelled
)

// getStatusStrings returns the canonical token of every status.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:         "UNKNOWN",
		StatusOpen:            "OPEN",
		StatusLocked:          "LOCKED",
		StatusInTransit:       "IN_TRANSIT",
		StatusArrived:         "ARRIVED",
		StatusDeconsolidating: "DECONSOLIDATING",
		StatusCompleted:       "COMPLETED",
		StatusCancelled:       "CANCELLED",
	}
}

// String returns the canonical uppercase token of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks the Status is one of the defined values.
func (s Status) Validate() error {
	if s < StatusOpen || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%d is not a valid consolidation status", s),
		)
	}
	return nil
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusOpen:
		return target == StatusLocked || target == StatusCancelled
	case StatusLocked:
		return target == StatusInTransit || target == StatusCancelled
	case StatusInTransit:
		return target == StatusArrived
	case StatusArrived:
		return target == StatusDeconsolidating
	case StatusDeconsolidating:
		return target == StatusCompleted
	case StatusUnknown, StatusCompleted, StatusCancelled:
		return false
	default:
		return false
	}
}

// ParseStatus resolves a canonical uppercase token back to its Status value.
func ParseStatus(token string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == token && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status token is invalid",
		fmt.Errorf("%q is not a consolidation status token", token),
	)
}
