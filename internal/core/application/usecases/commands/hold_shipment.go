package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var ErrHoldShipmentCommandIsNotConstructed = errors.New(
	"HoldShipmentCommand must be created via NewHoldShipmentCommand constructor",
)

// HoldShipmentCommand represents a request to park a shipment: forward
// transitions are blocked until the hold is released, side-channel operations
// stay available.
type HoldShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	reason     string
	actor      string
	at         time.Time

	guard guard.ConstructorGuard
}

// NewHoldShipmentCommand creates a command to place a hold on a shipment.
func NewHoldShipmentCommand(shipmentID kernel.UUID, reason, actor string, at time.Time) (HoldShipmentCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return HoldShipmentCommand{}, err
	}
	if reason == "" {
		return HoldShipmentCommand{}, errs.NewValueIsRequiredError("reason is required")
	}

	return HoldShipmentCommand{
		shipmentID: shipmentID,
		reason:     reason,
		actor:      actor,
		at:         at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c HoldShipmentCommand) Validate() error {
	return c.guard.Validate(ErrHoldShipmentCommandIsNotConstructed)
}

// ShipmentID returns the shipment to hold.
func (c HoldShipmentCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Reason returns why the shipment is being held.
func (c HoldShipmentCommand) Reason() string { return c.reason }

// Actor returns who placed the hold.
func (c HoldShipmentCommand) Actor() string { return c.actor }

// At returns when the hold takes effect.
func (c HoldShipmentCommand) At() time.Time { return c.at }

// HoldShipmentCommandHandler places a hold on a shipment within a transaction.
type HoldShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

// NewHoldShipmentCommandHandler creates a handler for placing holds.
func NewHoldShipmentCommandHandler(uowFactory ShipmentUoWFactory) HoldShipmentCommandHandler {
	return HoldShipmentCommandHandler{uowFactory: uowFactory}
}

// Handle processes the hold command.
func (h *HoldShipmentCommandHandler) Handle(ctx context.Context, cmd HoldShipmentCommand) error {
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

	if err = shipmentEntity.PlaceHold(cmd.Reason(), cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
