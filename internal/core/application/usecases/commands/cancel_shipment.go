package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/guard"
)

var ErrCancelShipmentCommandIsNotConstructed = errors.New(
	"CancelShipmentCommand must be created via NewCancelShipmentCommand constructor",
)

// CancelShipmentCommand represents a request to cancel a shipment. Without
// the override flag, cancellation is only legal before pickup. Cancellation
// is a terminal status, never a deletion.
type CancelShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	actor      string
	at         time.Time
	override   bool

	guard guard.ConstructorGuard
}

// NewCancelShipmentCommand creates a command to cancel a shipment.
func NewCancelShipmentCommand(
	shipmentID kernel.UUID,
	actor string,
	at time.Time,
	override bool,
) (CancelShipmentCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return CancelShipmentCommand{}, err
	}

	return CancelShipmentCommand{
		shipmentID: shipmentID,
		actor:      actor,
		at:         at,
		override:   override,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
}

// ShipmentID returns the shipment to cancel.
func (c CancelShipmentCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Actor returns who cancelled the shipment.
func (c CancelShipmentCommand) Actor() string { return c.actor }

// At returns when the cancellation takes effect.
func (c CancelShipmentCommand) At() time.Time { return c.at }

// Override returns whether a post-pickup cancellation was explicitly approved.
func (c CancelShipmentCommand) Override() bool { return c.override }

// CancelShipmentCommandHandler cancels the shipment within a transaction and
// publishes the recorded lifecycle event after commit.
type CancelShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelShipmentCommandHandler creates a handler for cancellations.
func NewCancelShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	publisher ports.EventPublisher,
) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the cancel command.
func (h *CancelShipmentCommandHandler) Handle(ctx context.Context, cmd CancelShipmentCommand) error {
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

	if err = shipmentEntity.Cancel(cmd.At(), cmd.Actor(), cmd.Override()); err != nil {
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
