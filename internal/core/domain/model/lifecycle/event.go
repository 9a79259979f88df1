// Package lifecycle defines the event envelope emitted whenever a shipment or
// consolidation changes status. External collaborators (notifications,
// analytics, finance) consume these events read-only; they can never mutate
// lifecycle state through them.
package lifecycle

import (
	"time"

	"groupage/internal/core/domain/model/kernel"
)

// EntityType identifies which aggregate kind an event refers to.
type EntityType string

const (
	// EntityTypeShipment marks events emitted by shipment aggregates.
	EntityTypeShipment EntityType = "shipment"

	// EntityTypeConsolidation marks events emitted by consolidation aggregates.
	EntityTypeConsolidation EntityType = "consolidation"
)

// Event is the contract published on the lifecycle bus: a before/after status
// pair for one entity. Delivery is fire-and-forget with at-least-once
// semantics, so consumers must be idempotent on (EntityID, NewStatus, OccurredAt).
type Event struct {
	EntityType     EntityType
	EntityID       kernel.UUID
	PreviousStatus string
	NewStatus      string
	OccurredAt     time.Time
	ActorID        string
}
