package ports

import (
	"context"
	"time"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
)

// ConsolidationRepository defines the persistence contract for consolidation
// aggregates. Membership changes share the aggregate's capacity counters, so
// updates serialize per consolidation through optimistic locking on the
// aggregate version.
type ConsolidationRepository interface {
	// Add persists a new consolidation aggregate to storage.
	Add(ctx context.Context, c *consolidation.Consolidation) error

	// Update persists changes to an existing consolidation aggregate,
	// including its memberships and deconsolidation log. Returns
	// ErrVersionConflict when a concurrent writer got there first.
	Update(ctx context.Context, c *consolidation.Consolidation) error

	// Get retrieves a consolidation aggregate by its unique identifier, with
	// every membership (including removed ones) and the full audit log.
	Get(ctx context.Context, id kernel.UUID) (*consolidation.Consolidation, error)

	// GetOpenPastCutoff retrieves every consolidation still OPEN whose cutoff
	// time is at or before the given moment. Used by the cutoff sweep job.
	GetOpenPastCutoff(ctx context.Context, now time.Time) ([]*consolidation.Consolidation, error)
}
