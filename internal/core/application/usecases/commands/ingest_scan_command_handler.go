package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/scanevent"
	"groupage/internal/core/domain/services"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/errs"
)

// IngestScanCommandHandler handles the business logic for scan ingestion:
// dedupe by offline sync key, geofence validation, transition routing and
// persistence of both the event and the shipment in one transaction.
//
// Idempotency is two-layered. A fast lookup absorbs the common replay before
// any work happens; the unique index on the sync key closes the race where
// two replays pass that lookup simultaneously. The loser re-reads and
// returns the stored event, without a second transition.
type IngestScanCommandHandler struct {
	uowFactory ScanUoWFactory
	publisher  ports.EventPublisher
	router     services.ScanRouter
}

// NewIngestScanCommandHandler creates a handler for scan ingestion.
func NewIngestScanCommandHandler(
	uowFactory ScanUoWFactory,
	publisher ports.EventPublisher,
) IngestScanCommandHandler {
	return IngestScanCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		router:     services.NewScanRouter(),
	}
}

// Handle processes the scan. Returns the stored event: the freshly ingested
// one, or the prior one when the sync key was already seen. A transition the
// state machine rejected is not an error here: the event is persisted with
// the rejection recorded and callers inspect its TransitionOutcome.
func (h *IngestScanCommandHandler) Handle(
	ctx context.Context,
	cmd IngestScanCommand,
) (*scanevent.ScanEvent, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if stored, found, err := h.findStored(ctx, cmd.OfflineSyncKey()); err != nil {
		return nil, err
	} else if found {
		return stored, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipmentEntity, err := uow.ShipmentRepository().GetByTrackingNumber(ctx, cmd.TrackingNumber())
	if err != nil {
		return nil, err
	}

	event, err := scanevent.NewScanEvent(
		kernel.NewUUID(),
		cmd.OfflineSyncKey(),
		shipmentEntity.ID(),
		cmd.TrackingNumber(),
		cmd.ScanType(),
		cmd.OccurredAt(),
		time.Now().UTC(),
		cmd.DeviceID(),
		cmd.OperatorID(),
		cmd.Location(),
		cmd.AccuracyM(),
		cmd.BranchID(),
		cmd.POD(),
	)
	if err != nil {
		return nil, err
	}
	if cmd.SyncedAt() != nil {
		if err = event.AttachSyncedAt(*cmd.SyncedAt()); err != nil {
			return nil, err
		}
	}

	validation := h.router.ValidateGeofence(event, cmd.ExpectedGeofence())
	if err = event.AttachValidation(validation); err != nil {
		return nil, err
	}

	if _, err = h.router.Route(shipmentEntity, event); err != nil {
		return nil, err
	}

	if err = uow.ScanEventRepository().Add(ctx, event); err != nil {
		if errors.Is(err, ports.ErrDuplicateScanEvent) {
			// lost the insert race to a concurrent replay
			_ = uow.Rollback(ctx)
			stored, _, findErr := h.findStored(ctx, cmd.OfflineSyncKey())
			if findErr != nil {
				return nil, findErr
			}
			return stored, nil
		}
		return nil, err
	}

	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx, shipmentEntity.PopEvents()...)
	return event, nil
}

// findStored looks the sync key up in its own short transaction.
func (h *IngestScanCommandHandler) findStored(
	ctx context.Context,
	offlineSyncKey string,
) (*scanevent.ScanEvent, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, err := uow.ScanEventRepository().GetByOfflineSyncKey(ctx, offlineSyncKey)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return stored, true, nil
}
