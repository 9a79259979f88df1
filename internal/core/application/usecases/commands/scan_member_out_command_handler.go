package commands

import (
	"context"
	"errors"

	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/ports"
)

// ScanMemberOutCommandHandler scans one baby out of its mother: the membership
// moves to DECONSOLIDATED, the baby wakes up into independent tracking at the
// destination hub, and its release is recorded on the audit log, all in one
// transaction.
type ScanMemberOutCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewScanMemberOutCommandHandler creates a handler for member scan-outs.
func NewScanMemberOutCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) ScanMemberOutCommandHandler {
	return ScanMemberOutCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the scan-out command.
func (h *ScanMemberOutCommandHandler) Handle(ctx context.Context, cmd ScanMemberOutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	consolidationEntity, err := uow.ConsolidationRepository().Get(ctx, cmd.ConsolidationID())
	if err != nil {
		return err
	}
	shipmentEntity, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	if err = consolidationEntity.ScanMemberOut(cmd.ShipmentID(), cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	// Physical co-travel babies resume at the destination hub; a virtual
	// member may already be there on its own scans, which is not a fault.
	err = shipmentEntity.Apply(shipment.AtDestinationHub, cmd.At(), cmd.Actor())
	if err != nil && !errors.Is(err, shipment.ErrInvalidTransition) {
		return err
	}
	shipmentEntity.ClearConsolidation()

	if err = consolidationEntity.RecordMemberRelease(cmd.ShipmentID(), cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
		return err
	}
	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, shipmentEntity.PopEvents()...)
	return nil
}
