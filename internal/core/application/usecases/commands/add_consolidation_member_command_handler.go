package commands

import (
	"context"
)

// AddConsolidationMemberCommandHandler adds a baby shipment to a mother.
// Both sides of the membership change in one transaction: the consolidation
// gains the membership (after capacity and cutoff checks) and the shipment is
// linked to its mother. The capacity counters are shared mutable state, so
// the aggregate version serializes concurrent adds per consolidation.
type AddConsolidationMemberCommandHandler struct {
	uowFactory ConsolidationUoWFactory
}

// NewAddConsolidationMemberCommandHandler creates a handler for member adds.
func NewAddConsolidationMemberCommandHandler(uowFactory ConsolidationUoWFactory) AddConsolidationMemberCommandHandler {
	return AddConsolidationMemberCommandHandler{uowFactory: uowFactory}
}

// Handle processes the add command.
func (h *AddConsolidationMemberCommandHandler) Handle(ctx context.Context, cmd AddConsolidationMemberCommand) error {
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

	if err = consolidationEntity.AddMember(cmd.ShipmentID(), cmd.WeightKg(), cmd.VolumeM3(), cmd.At()); err != nil {
		return err
	}
	if err = shipmentEntity.AssignToConsolidation(consolidationEntity.ID(), consolidationEntity.Type()); err != nil {
		return err
	}

	if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
		return err
	}
	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
