package commands

import (
	"context"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/ports"
)

// CreateConsolidationCommandHandler opens a groupage unit: the consolidation
// aggregate and its mother shipment are created in one transaction so the
// traveling unit can never exist half-registered.
type CreateConsolidationCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewCreateConsolidationCommandHandler creates a handler for opening consolidations.
func NewCreateConsolidationCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) CreateConsolidationCommandHandler {
	return CreateConsolidationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the create command.
func (h *CreateConsolidationCommandHandler) Handle(ctx context.Context, cmd CreateConsolidationCommand) error {
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

	mother, err := shipment.NewShipment(
		cmd.MotherShipmentID(),
		cmd.MotherTrackingNumber(),
		cmd.ConsolidationType(),
		cmd.DestinationBranchID(),
		cmd.CreatedAt(),
		cmd.Actor(),
	)
	if err != nil {
		return err
	}
	mother.MarkAsMother()

	consolidationEntity, err := consolidation.NewConsolidation(
		cmd.ConsolidationID(),
		cmd.Reference(),
		cmd.ConsolidationType(),
		cmd.MotherShipmentID(),
		cmd.OriginBranchID(),
		cmd.DestinationBranchID(),
		cmd.Capacity(),
		cmd.CutoffAt(),
		cmd.CreatedAt(),
		cmd.Actor(),
	)
	if err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Add(ctx, mother); err != nil {
		return err
	}
	if err = uow.ConsolidationRepository().Add(ctx, consolidationEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, mother.PopEvents()...)
	h.publisher.Publish(ctx, consolidationEntity.PopEvents()...)
	return nil
}
