// Package ports defines repository interfaces for the groupage domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
// Updates use optimistic locking on the aggregate version: a concurrent writer
// loses with ErrVersionConflict and must reload and retry.
type ShipmentRepository interface {
	// Add persists a new shipment aggregate to storage.
	// The shipment must be valid and its tracking number unused.
	Add(ctx context.Context, s *shipment.Shipment) error

	// Update persists changes to an existing shipment aggregate.
	// Returns ErrVersionConflict when the stored version moved past the
	// loaded one; the caller reloads and retries or surfaces the conflict.
	Update(ctx context.Context, s *shipment.Shipment) error

	// Get retrieves a shipment aggregate by its unique identifier, with its
	// complete hold, reroute and exception history.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetByTrackingNumber retrieves a shipment by the number field devices
	// report. Returns errs.ObjectNotFoundError when unknown.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error)

	// GetMembers retrieves every shipment currently assigned to the given
	// consolidation.
	GetMembers(ctx context.Context, consolidationID kernel.UUID) ([]*shipment.Shipment, error)
}
