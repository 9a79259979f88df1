package commands

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var (
	ErrBookShipmentCommandIsNotConstructed = errors.New(
		"BookShipmentCommand must be created via NewBookShipmentCommand constructor",
	)
)

// BookShipmentCommand represents a request to register a new shipment.
// The shipment starts its lifecycle in BOOKED with the booked milestone
// stamped at the given time.
//
// Example:
//
//	cmd, err := NewBookShipmentCommand("GRP-0001", shipment.ConsolidationTypeIndividual,
//	    destinationBranchID, time.Now().UTC(), "booking-desk")
//	if err != nil {
//	    return fmt.Errorf("invalid booking data: %w", err)
//	}
//
//	handler := NewBookShipmentCommandHandler(uowFactory, publisher)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to book shipment: %w", err)
//	}
//	fmt.Printf("Booked shipment with ID: %s", cmd.ShipmentID())
type BookShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID          kernel.UUID
	trackingNumber      string
	consolidationType   shipment.ConsolidationType
	destinationBranchID kernel.UUID
	bookedAt            time.Time
	actor               string

	guard guard.ConstructorGuard
}

// NewBookShipmentCommand creates a command to book a new shipment.
// Automatically generates a unique ID for the shipment.
func NewBookShipmentCommand(
	trackingNumber string,
	consolidationType shipment.ConsolidationType,
	destinationBranchID kernel.UUID,
	bookedAt time.Time,
	actor string,
) (BookShipmentCommand, error) {
	command := BookShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setShipmentID(kernel.NewUUID()),
		command.setTrackingNumber(trackingNumber),
		command.setConsolidationType(consolidationType),
		command.setDestinationBranchID(destinationBranchID),
		command.setBookedAt(bookedAt),
	); err != nil {
		return BookShipmentCommand{}, err
	}

	command.actor = actor
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c BookShipmentCommand) Validate() error {
	return c.guard.Validate(ErrBookShipmentCommandIsNotConstructed)
}

// ShipmentID returns the generated shipment ID.
func (c BookShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// TrackingNumber returns the tracking number from the command.
func (c BookShipmentCommand) TrackingNumber() string {
	return c.trackingNumber
}

// ConsolidationType returns the consolidation type from the command.
func (c BookShipmentCommand) ConsolidationType() shipment.ConsolidationType {
	return c.consolidationType
}

// DestinationBranchID returns the destination branch from the command.
func (c BookShipmentCommand) DestinationBranchID() kernel.UUID {
	return c.destinationBranchID
}

// BookedAt returns the booking time from the command.
func (c BookShipmentCommand) BookedAt() time.Time {
	return c.bookedAt
}

// Actor returns who booked the shipment.
func (c BookShipmentCommand) Actor() string {
	return c.actor
}

func (c *BookShipmentCommand) setShipmentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.shipmentID = id
	return nil
}

func (c *BookShipmentCommand) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber is required")
	}

	c.trackingNumber = trackingNumber
	return nil
}

func (c *BookShipmentCommand) setConsolidationType(consolidationType shipment.ConsolidationType) error {
	if err := consolidationType.Validate(); err != nil {
		return err
	}

	c.consolidationType = consolidationType
	return nil
}

func (c *BookShipmentCommand) setDestinationBranchID(destinationBranchID kernel.UUID) error {
	if err := destinationBranchID.Validate(); err != nil {
		return err
	}

	c.destinationBranchID = destinationBranchID
	return nil
}

func (c *BookShipmentCommand) setBookedAt(bookedAt time.Time) error {
	if bookedAt.IsZero() {
		return errs.NewValueIsRequiredError("bookedAt is required")
	}

	c.bookedAt = bookedAt
	return nil
}
