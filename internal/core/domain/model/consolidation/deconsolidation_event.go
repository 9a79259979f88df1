package consolidation

import (
	"fmt"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
)

// DeconsolidationEventType classifies one step of the unpack workflow.
type DeconsolidationEventType string

const (
	// DeconsolidationStarted marks the beginning of the unpack workflow.
	DeconsolidationStarted DeconsolidationEventType = "STARTED"

	// DeconsolidationShipmentScanned marks one baby scanned out of the mother.
	DeconsolidationShipmentScanned DeconsolidationEventType = "SHIPMENT_SCANNED"

	// DeconsolidationShipmentReleased marks one baby released back into
	// independent tracking.
	DeconsolidationShipmentReleased DeconsolidationEventType = "SHIPMENT_RELEASED"

	// DeconsolidationDiscrepancy marks a manifest reconciliation problem.
	DeconsolidationDiscrepancy DeconsolidationEventType = "DISCREPANCY"

	// DeconsolidationCompleted marks the end of the unpack workflow.
	DeconsolidationCompleted DeconsolidationEventType = "COMPLETED"
)

// Validate checks the event type is one of the defined steps.
func (t DeconsolidationEventType) Validate() error {
	switch t {
	case DeconsolidationStarted, DeconsolidationShipmentScanned,
		DeconsolidationShipmentReleased, DeconsolidationDiscrepancy, DeconsolidationCompleted:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"deconsolidationEventType is invalid",
			fmt.Errorf("%q is not a valid deconsolidation event type", t),
		)
	}
}

// DeconsolidationEvent is one audit record of the unpack workflow. Events are
// owned by exactly one consolidation, appended by the aggregate and never
// mutated or deleted afterwards.
type DeconsolidationEvent struct {
	id         kernel.UUID
	eventType  DeconsolidationEventType
	shipmentID *kernel.UUID
	actor      string
	notes      string
	occurredAt time.Time
}

// newDeconsolidationEvent creates an event record owned by the aggregate.
func newDeconsolidationEvent(
	eventType DeconsolidationEventType,
	shipmentID *kernel.UUID,
	actor, notes string,
	at time.Time,
) (*DeconsolidationEvent, error) {
	if err := eventType.Validate(); err != nil {
		return nil, err
	}
	if shipmentID != nil {
		if err := shipmentID.Validate(); err != nil {
			return nil, err
		}
	}
	if actor == "" {
		return nil, errs.NewValueIsRequiredError("actor is required")
	}

	return &DeconsolidationEvent{
		id:         kernel.NewUUID(),
		eventType:  eventType,
		shipmentID: shipmentID,
		actor:      actor,
		notes:      notes,
		occurredAt: at,
	}, nil
}

// RestoreDeconsolidationEvent reconstructs an event record from persistence.
func RestoreDeconsolidationEvent(
	id kernel.UUID,
	eventType DeconsolidationEventType,
	shipmentID *kernel.UUID,
	actor, notes string,
	occurredAt time.Time,
) (*DeconsolidationEvent, error) {
	event, err := newDeconsolidationEvent(eventType, shipmentID, actor, notes, occurredAt)
	if err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	event.id = id
	return event, nil
}

// ID returns the event's unique identifier.
func (e *DeconsolidationEvent) ID() kernel.UUID { return e.id }

// Type returns the workflow step this event records.
func (e *DeconsolidationEvent) Type() DeconsolidationEventType { return e.eventType }

// ShipmentID returns the baby shipment involved, nil for workflow-level events.
func (e *DeconsolidationEvent) ShipmentID() *kernel.UUID { return e.shipmentID }

// Actor returns who performed the step.
func (e *DeconsolidationEvent) Actor() string { return e.actor }

// Notes returns free-text details recorded with the step.
func (e *DeconsolidationEvent) Notes() string { return e.notes }

// OccurredAt returns when the step happened.
func (e *DeconsolidationEvent) OccurredAt() time.Time { return e.occurredAt }
