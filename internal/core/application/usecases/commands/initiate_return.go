package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/guard"
)

var ErrInitiateReturnCommandIsNotConstructed = errors.New(
	"InitiateReturnCommand must be created via NewInitiateReturnCommand constructor",
)

// InitiateReturnCommand represents a request to branch a shipment onto the
// return path. Legal from any non-terminal status, including while held.
type InitiateReturnCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	actor      string
	at         time.Time

	guard guard.ConstructorGuard
}

// NewInitiateReturnCommand creates a command to initiate a return.
func NewInitiateReturnCommand(shipmentID kernel.UUID, actor string, at time.Time) (InitiateReturnCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return InitiateReturnCommand{}, err
	}

	return InitiateReturnCommand{
		shipmentID: shipmentID,
		actor:      actor,
		at:         at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c InitiateReturnCommand) Validate() error {
	return c.guard.Validate(ErrInitiateReturnCommandIsNotConstructed)
}

// ShipmentID returns the shipment to send back.
func (c InitiateReturnCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Actor returns who initiated the return.
func (c InitiateReturnCommand) Actor() string { return c.actor }

// At returns when the return was initiated.
func (c InitiateReturnCommand) At() time.Time { return c.at }

// InitiateReturnCommandHandler branches the shipment onto the return path
// within a transaction and publishes the recorded lifecycle event.
type InitiateReturnCommandHandler struct {
	uowFactory ShipmentUoWFactory
	publisher  ports.EventPublisher
}

// NewInitiateReturnCommandHandler creates a handler for return initiation.
func NewInitiateReturnCommandHandler(
	uowFactory ShipmentUoWFactory,
	publisher ports.EventPublisher,
) InitiateReturnCommandHandler {
	return InitiateReturnCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the return command.
func (h *InitiateReturnCommandHandler) Handle(ctx context.Context, cmd InitiateReturnCommand) error {
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

	if err = shipmentEntity.InitiateReturn(cmd.At(), cmd.Actor()); err != nil {
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
