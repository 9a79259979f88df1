package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var ErrResolveShipmentExceptionCommandIsNotConstructed = errors.New(
	"ResolveShipmentExceptionCommand must be created via NewResolveShipmentExceptionCommand constructor",
)

// ResolveShipmentExceptionCommand represents a request to close a shipment's
// open exception with an explicit resolution type.
type ResolveShipmentExceptionCommand struct { //nolint:recvcheck //using for validation
	shipmentID     kernel.UUID
	resolutionType string
	actor          string
	at             time.Time

	guard guard.ConstructorGuard
}

// NewResolveShipmentExceptionCommand creates a command to resolve an exception.
func NewResolveShipmentExceptionCommand(
	shipmentID kernel.UUID,
	resolutionType string,
	actor string,
	at time.Time,
) (ResolveShipmentExceptionCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return ResolveShipmentExceptionCommand{}, err
	}
	if resolutionType == "" {
		return ResolveShipmentExceptionCommand{}, errs.NewValueIsRequiredError("resolutionType is required")
	}

	return ResolveShipmentExceptionCommand{
		shipmentID:     shipmentID,
		resolutionType: resolutionType,
		actor:          actor,
		at:             at,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveShipmentExceptionCommand) Validate() error {
	return c.guard.Validate(ErrResolveShipmentExceptionCommandIsNotConstructed)
}

// ShipmentID returns the shipment whose exception is resolved.
func (c ResolveShipmentExceptionCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// ResolutionType returns how the exception was resolved.
func (c ResolveShipmentExceptionCommand) ResolutionType() string { return c.resolutionType }

// Actor returns who resolved the exception.
func (c ResolveShipmentExceptionCommand) Actor() string { return c.actor }

// At returns when the exception was resolved.
func (c ResolveShipmentExceptionCommand) At() time.Time { return c.at }

// ResolveShipmentExceptionCommandHandler resolves the exception within a transaction.
type ResolveShipmentExceptionCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

// NewResolveShipmentExceptionCommandHandler creates a handler for exception resolution.
func NewResolveShipmentExceptionCommandHandler(uowFactory ShipmentUoWFactory) ResolveShipmentExceptionCommandHandler {
	return ResolveShipmentExceptionCommandHandler{uowFactory: uowFactory}
}

// Handle processes the resolve command.
func (h *ResolveShipmentExceptionCommandHandler) Handle(ctx context.Context, cmd ResolveShipmentExceptionCommand) error {
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

	if err = shipmentEntity.ResolveException(cmd.ResolutionType(), cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
