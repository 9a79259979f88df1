package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/guard"
)

var ErrRerouteShipmentCommandIsNotConstructed = errors.New(
	"RerouteShipmentCommand must be created via NewRerouteShipmentCommand constructor",
)

// RerouteShipmentCommand represents a request to change a shipment's
// destination branch mid-flight. The prior destination is kept on the
// shipment's reroute history.
type RerouteShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID  kernel.UUID
	newBranchID kernel.UUID
	actor       string
	at          time.Time

	guard guard.ConstructorGuard
}

// NewRerouteShipmentCommand creates a command to reroute a shipment.
func NewRerouteShipmentCommand(
	shipmentID kernel.UUID,
	newBranchID kernel.UUID,
	actor string,
	at time.Time,
) (RerouteShipmentCommand, error) {
	if err := errors.Join(shipmentID.Validate(), newBranchID.Validate()); err != nil {
		return RerouteShipmentCommand{}, err
	}

	return RerouteShipmentCommand{
		shipmentID:  shipmentID,
		newBranchID: newBranchID,
		actor:       actor,
		at:          at,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RerouteShipmentCommand) Validate() error {
	return c.guard.Validate(ErrRerouteShipmentCommandIsNotConstructed)
}

// ShipmentID returns the shipment to reroute.
func (c RerouteShipmentCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// NewBranchID returns the new destination branch.
func (c RerouteShipmentCommand) NewBranchID() kernel.UUID { return c.newBranchID }

// Actor returns who requested the reroute.
func (c RerouteShipmentCommand) Actor() string { return c.actor }

// At returns when the reroute was requested.
func (c RerouteShipmentCommand) At() time.Time { return c.at }

// RerouteShipmentCommandHandler changes the destination within a transaction.
type RerouteShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

// NewRerouteShipmentCommandHandler creates a handler for reroutes.
func NewRerouteShipmentCommandHandler(uowFactory ShipmentUoWFactory) RerouteShipmentCommandHandler {
	return RerouteShipmentCommandHandler{uowFactory: uowFactory}
}

// Handle processes the reroute command.
func (h *RerouteShipmentCommandHandler) Handle(ctx context.Context, cmd RerouteShipmentCommand) error {
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

	if err = shipmentEntity.RerouteTo(cmd.NewBranchID(), cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
