package commands

import (
	"context"

	"groupage/internal/core/domain/model/lifecycle"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/ports"
)

// DispatchConsolidationCommandHandler puts a locked consolidation in transit.
// For physical co-travel (BBX) the baby shipments stop tracking individually:
// their statuses advance to LINEHAUL_DEPARTED with the mother in the same
// transaction. Virtual (LBX) babies keep their own scan-driven progression.
// The mother shipment's own status is driven by scans on its tracking number.
type DispatchConsolidationCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewDispatchConsolidationCommandHandler creates a handler for dispatches.
func NewDispatchConsolidationCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) DispatchConsolidationCommandHandler {
	return DispatchConsolidationCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the dispatch command.
func (h *DispatchConsolidationCommandHandler) Handle(ctx context.Context, cmd DispatchConsolidationCommand) error {
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

	if err = consolidationEntity.Dispatch(cmd.Transport(), cmd.At(), cmd.Actor()); err != nil {
		return err
	}

	var events []lifecycle.Event
	if consolidationEntity.Type().IsPhysical() {
		members, membersErr := uow.ShipmentRepository().GetMembers(ctx, consolidationEntity.ID())
		if membersErr != nil {
			return membersErr
		}

		for _, member := range members {
			if err = member.Apply(shipment.LinehaulDeparted, cmd.At(), cmd.Actor()); err != nil {
				return err
			}
			if err = uow.ShipmentRepository().Update(ctx, member); err != nil {
				return err
			}
			events = append(events, member.PopEvents()...)
		}
	}

	if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, consolidationEntity.PopEvents()...)
	h.publisher.Publish(ctx, events...)
	return nil
}
