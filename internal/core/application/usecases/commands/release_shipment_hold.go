package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/guard"
)

var ErrReleaseShipmentHoldCommandIsNotConstructed = errors.New(
	"ReleaseShipmentHoldCommand must be created via NewReleaseShipmentHoldCommand constructor",
)

// ReleaseShipmentHoldCommand represents a request to clear a shipment's active
// hold, resuming normal progression.
type ReleaseShipmentHoldCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	actor      string
	at         time.Time

	guard guard.ConstructorGuard
}

// NewReleaseShipmentHoldCommand creates a command to release a hold.
func NewReleaseShipmentHoldCommand(shipmentID kernel.UUID, actor string, at time.Time) (ReleaseShipmentHoldCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return ReleaseShipmentHoldCommand{}, err
	}

	return ReleaseShipmentHoldCommand{
		shipmentID: shipmentID,
		actor:      actor,
		at:         at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseShipmentHoldCommand) Validate() error {
	return c.guard.Validate(ErrReleaseShipmentHoldCommandIsNotConstructed)
}

// ShipmentID returns the shipment whose hold is released.
func (c ReleaseShipmentHoldCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Actor returns who released the hold.
func (c ReleaseShipmentHoldCommand) Actor() string { return c.actor }

// At returns when the hold was released.
func (c ReleaseShipmentHoldCommand) At() time.Time { return c.at }

// ReleaseShipmentHoldCommandHandler clears the active hold within a transaction.
type ReleaseShipmentHoldCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

// NewReleaseShipmentHoldCommandHandler creates a handler for releasing holds.
func NewReleaseShipmentHoldCommandHandler(uowFactory ShipmentUoWFactory) ReleaseShipmentHoldCommandHandler {
	return ReleaseShipmentHoldCommandHandler{uowFactory: uowFactory}
}

// Handle processes the release command.
func (h *ReleaseShipmentHoldCommandHandler) Handle(ctx context.Context, cmd ReleaseShipmentHoldCommand) error {
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

	shipmentEntity, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	if err = shipmentEntity.ReleaseHold(cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
