package ports

import (
	"context"
	"errors"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"
)

// ErrDuplicateScanEvent is returned by Add when the offline sync key is
// already stored. Dedupe is atomic with insertion: two near-simultaneous
// replays cannot both pass a separate lookup.
var ErrDuplicateScanEvent = errors.New("scan event with this offline sync key already exists")

// ErrVersionConflict is returned by aggregate updates when the stored version
// moved past the loaded one. The caller reloads and retries or surfaces the
// conflict.
var ErrVersionConflict = errors.New("aggregate was modified concurrently")

// ScanEventRepository defines the persistence contract for scan events.
// Events are append-only; there is no Update.
type ScanEventRepository interface {
	// Add persists a new scan event. Returns ErrDuplicateScanEvent when the
	// offline sync key is already taken; the caller absorbs the replay by
	// returning the stored event.
	Add(ctx context.Context, e *scanevent.ScanEvent) error

	// GetByOfflineSyncKey retrieves the stored event for an idempotency token.
	// Returns errs.ObjectNotFoundError when unknown.
	GetByOfflineSyncKey(ctx context.Context, offlineSyncKey string) (*scanevent.ScanEvent, error)

	// GetByShipment retrieves the scan history of a shipment, most recent first.
	GetByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*scanevent.ScanEvent, error)
}
