package commands

import (
	"context"

	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/ports"
)

// BookShipmentCommandHandler handles the business logic for shipment booking.
// Creates and persists the shipment, then publishes the recorded lifecycle
// event after the transaction commits.
type BookShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	publisher  ports.EventPublisher
}

// NewBookShipmentCommandHandler creates a handler for shipment booking.
func NewBookShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	publisher ports.EventPublisher,
) BookShipmentCommandHandler {
	return BookShipmentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the booking command.
// Creates a new shipment aggregate and persists it within a transaction.
// Automatically rolls back on any error to prevent partial data.
func (h *BookShipmentCommandHandler) Handle(ctx context.Context, cmd BookShipmentCommand) error {
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

	shipmentEntity, err := shipment.NewShipment(
		cmd.ShipmentID(),
		cmd.TrackingNumber(),
		cmd.ConsolidationType(),
		cmd.DestinationBranchID(),
		cmd.BookedAt(),
		cmd.Actor(),
	)
	if err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Add(ctx, shipmentEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, shipmentEntity.PopEvents()...)
	return nil
}
