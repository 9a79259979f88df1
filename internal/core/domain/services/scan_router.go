package services

import (
	"fmt"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"
	"groupage/internal/core/domain/model/shipment"
)

// ScanRouter is the domain service that turns a raw field observation into a
// shipment state change. It owns two policies the aggregates cannot own alone:
//
//   - Geofence validation: comparing the scan's GPS fix against the expected
//     location tolerance. A failed validation never blocks ingestion, it
//     flags the event for fraud/ops review.
//   - Transition routing: translating the scan type into a target status and
//     applying it to the shipment. A rejected transition (device scanned
//     "delivered" before "out for delivery") is recorded on the event and the
//     event is kept for audit, never silently dropped.
//
// Example usage:
//
//	router := services.NewScanRouter()
//	validation := router.ValidateGeofence(event, &hubGeofence)
//	_ = event.AttachValidation(validation)
//
//	transition, err := router.Route(shipment, event)
//	if err != nil {
//	    // programming error: invalid shipment or event
//	    return
//	}
//	// transition.Applied tells whether the status moved
type ScanRouter struct{}

// NewScanRouter creates a new ScanRouter instance.
func NewScanRouter() ScanRouter {
	return ScanRouter{}
}

// Route applies the scan to the shipment and attaches the outcome to the
// event. The shipment's scan pointer always moves; the status moves only when
// the scan type targets a status and the state machine accepts the edge.
//
// Returns an error only for invalid inputs or an already routed event;
// a rejected transition is a successful routing with Applied=false.
func (r ScanRouter) Route(s *shipment.Shipment, event *scanevent.ScanEvent) (scanevent.Transition, error) {
	if err := s.Validate(); err != nil {
		return scanevent.Transition{}, err
	}
	if err := event.Validate(); err != nil {
		return scanevent.Transition{}, err
	}

	var location *kernel.LocationRef
	if event.BranchID() != nil {
		hubRef, err := kernel.NewHubRef(*event.BranchID())
		if err != nil {
			return scanevent.Transition{}, err
		}
		location = &hubRef
	}
	if err := s.RecordScan(event.ID(), location); err != nil {
		return scanevent.Transition{}, err
	}

	transition := r.route(s, event)
	if err := event.AttachTransition(transition); err != nil {
		return scanevent.Transition{}, err
	}
	return transition, nil
}

func (r ScanRouter) route(s *shipment.Shipment, event *scanevent.ScanEvent) scanevent.Transition {
	target, ok := event.Type().TargetStatus()
	if !ok {
		return scanevent.Transition{
			Applied:         false,
			ResultingStatus: s.Status().String(),
		}
	}

	if err := s.Apply(target, event.OccurredAt(), event.OperatorID()); err != nil {
		return scanevent.Transition{
			Applied:         false,
			ResultingStatus: s.Status().String(),
			RejectionReason: err.Error(),
		}
	}

	return scanevent.Transition{
		Applied:         true,
		ResultingStatus: target.String(),
	}
}

// ValidateGeofence compares the scan's GPS fix against the expected location
// tolerance. With no geofence configured the scan passes unconditionally;
// with a geofence configured a missing fix or an out-of-tolerance fix marks
// the event as not validated.
func (r ScanRouter) ValidateGeofence(event *scanevent.ScanEvent, expected *kernel.Geofence) scanevent.Validation {
	if expected == nil {
		return scanevent.Validation{IsValidated: true}
	}

	if event.Location() == nil {
		return scanevent.Validation{
			IsValidated:      false,
			ValidationErrors: []string{"no gps fix for geofence validation"},
		}
	}

	distance := expected.Distance(*event.Location())
	within := expected.Contains(*event.Location())

	validation := scanevent.Validation{
		IsValidated:           within,
		IsWithinGeofence:      &within,
		DistanceFromExpectedM: &distance,
	}
	if !within {
		validation.ValidationErrors = []string{
			fmt.Sprintf("scan is %.0fm from expected location, tolerance is %.0fm",
				distance, expected.RadiusMeters()),
		}
	}
	return validation
}
