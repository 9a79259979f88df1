package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/guard"
)

var ErrRemoveConsolidationMemberCommandIsNotConstructed = errors.New(
	"RemoveConsolidationMemberCommand must be created via NewRemoveConsolidationMemberCommand constructor",
)

// RemoveConsolidationMemberCommand represents a request to withdraw a baby
// shipment from an open consolidation. The membership row stays for audit;
// the shipment resumes independent tracking.
type RemoveConsolidationMemberCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	shipmentID      kernel.UUID
	at              time.Time

	guard guard.ConstructorGuard
}

// NewRemoveConsolidationMemberCommand creates a command to remove a member.
func NewRemoveConsolidationMemberCommand(
	consolidationID kernel.UUID,
	shipmentID kernel.UUID,
	at time.Time,
) (RemoveConsolidationMemberCommand, error) {
	if err := errors.Join(consolidationID.Validate(), shipmentID.Validate()); err != nil {
		return RemoveConsolidationMemberCommand{}, err
	}

	return RemoveConsolidationMemberCommand{
		consolidationID: consolidationID,
		shipmentID:      shipmentID,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RemoveConsolidationMemberCommand) Validate() error {
	return c.guard.Validate(ErrRemoveConsolidationMemberCommandIsNotConstructed)
}

// ConsolidationID returns the mother to remove from.
func (c RemoveConsolidationMemberCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// ShipmentID returns the baby shipment to withdraw.
func (c RemoveConsolidationMemberCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// At returns when the shipment was withdrawn.
func (c RemoveConsolidationMemberCommand) At() time.Time { return c.at }

// RemoveConsolidationMemberCommandHandler withdraws a member in one
// transaction: the membership is marked removed and the shipment unlinked.
type RemoveConsolidationMemberCommandHandler struct {
	uowFactory ConsolidationUoWFactory
}

// NewRemoveConsolidationMemberCommandHandler creates a handler for member removals.
func NewRemoveConsolidationMemberCommandHandler(
	uowFactory ConsolidationUoWFactory,
) RemoveConsolidationMemberCommandHandler {
	return RemoveConsolidationMemberCommandHandler{uowFactory: uowFactory}
}

// Handle processes the remove command.
func (h *RemoveConsolidationMemberCommandHandler) Handle(
	ctx context.Context,
	cmd RemoveConsolidationMemberCommand,
) error {
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

	if err = consolidationEntity.RemoveMember(cmd.ShipmentID(), cmd.At()); err != nil {
		return err
	}
	shipmentEntity.ClearConsolidation()

	if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
		return err
	}
	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
