package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var ErrFlagShipmentExceptionCommandIsNotConstructed = errors.New(
	"FlagShipmentExceptionCommand must be created via NewFlagShipmentExceptionCommand constructor",
)

// FlagShipmentExceptionCommand represents a request to mark a shipment with an
// unresolved exception. The forward status is untouched; the flag stays up
// until explicitly resolved.
type FlagShipmentExceptionCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	category   string
	severity   shipment.Severity
	notes      string
	at         time.Time

	guard guard.ConstructorGuard
}

// NewFlagShipmentExceptionCommand creates a command to flag an exception.
func NewFlagShipmentExceptionCommand(
	shipmentID kernel.UUID,
	category string,
	severity shipment.Severity,
	notes string,
	at time.Time,
) (FlagShipmentExceptionCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return FlagShipmentExceptionCommand{}, err
	}
	if category == "" {
		return FlagShipmentExceptionCommand{}, errs.NewValueIsRequiredError("category is required")
	}
	if err := severity.Validate(); err != nil {
		return FlagShipmentExceptionCommand{}, err
	}

	return FlagShipmentExceptionCommand{
		shipmentID: shipmentID,
		category:   category,
		severity:   severity,
		notes:      notes,
		at:         at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c FlagShipmentExceptionCommand) Validate() error {
	return c.guard.Validate(ErrFlagShipmentExceptionCommandIsNotConstructed)
}

// ShipmentID returns the shipment to flag.
func (c FlagShipmentExceptionCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Category returns the exception category.
func (c FlagShipmentExceptionCommand) Category() string { return c.category }

// Severity returns the exception severity.
func (c FlagShipmentExceptionCommand) Severity() shipment.Severity { return c.severity }

// Notes returns free-text details.
func (c FlagShipmentExceptionCommand) Notes() string { return c.notes }

// At returns when the exception was raised.
func (c FlagShipmentExceptionCommand) At() time.Time { return c.at }

// FlagShipmentExceptionCommandHandler flags the exception within a transaction.
type FlagShipmentExceptionCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

// NewFlagShipmentExceptionCommandHandler creates a handler for exception flags.
func NewFlagShipmentExceptionCommandHandler(uowFactory ShipmentUoWFactory) FlagShipmentExceptionCommandHandler {
	return FlagShipmentExceptionCommandHandler{uowFactory: uowFactory}
}

// Handle processes the flag command.
func (h *FlagShipmentExceptionCommandHandler) Handle(ctx context.Context, cmd FlagShipmentExceptionCommand) error {
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

	if err = shipmentEntity.FlagException(cmd.Category(), cmd.Severity(), cmd.Notes(), cmd.At()); err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Update(ctx, shipmentEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
