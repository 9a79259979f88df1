package commands

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var ErrCreateConsolidationCommandIsNotConstructed = errors.New(
	"CreateConsolidationCommand must be created via NewCreateConsolidationCommand constructor",
)

// CreateConsolidationCommand represents a request to open a new groupage unit.
// Opening a consolidation also books its mother shipment: the record tracked
// as the traveling unit over the linehaul leg.
//
// Example:
//
//	capacity, _ := consolidation.NewCapacity(40, 500, 3.5)
//	cmd, err := NewCreateConsolidationCommand("BBX-2026-0001", shipment.ConsolidationTypeBBX,
//	    "GRP-M-0001", originID, destinationID, capacity, cutoffAt, time.Now().UTC(), "hub-operator")
type CreateConsolidationCommand struct { //nolint:recvcheck //using for validation
	consolidationID      kernel.UUID
	motherShipmentID     kernel.UUID
	reference            string
	consolidationType    shipment.ConsolidationType
	motherTrackingNumber string
	originBranchID       kernel.UUID
	destinationBranchID  kernel.UUID
	capacity             consolidation.Capacity
	cutoffAt             time.Time
	createdAt            time.Time
	actor                string

	guard guard.ConstructorGuard
}

// NewCreateConsolidationCommand creates a command to open a consolidation.
// Automatically generates IDs for the consolidation and its mother shipment.
func NewCreateConsolidationCommand(
	reference string,
	consolidationType shipment.ConsolidationType,
	motherTrackingNumber string,
	originBranchID kernel.UUID,
	destinationBranchID kernel.UUID,
	capacity consolidation.Capacity,
	cutoffAt time.Time,
	createdAt time.Time,
	actor string,
) (CreateConsolidationCommand, error) {
	command := CreateConsolidationCommand{
		consolidationID:  kernel.NewUUID(),
		motherShipmentID: kernel.NewUUID(),
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setReference(reference),
		command.setConsolidationType(consolidationType),
		command.setMotherTrackingNumber(motherTrackingNumber),
		command.setBranches(originBranchID, destinationBranchID),
		command.setCapacity(capacity),
		command.setCutoffAt(cutoffAt),
	); err != nil {
		return CreateConsolidationCommand{}, err
	}

	command.createdAt = createdAt
	command.actor = actor
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateConsolidationCommand) Validate() error {
	return c.guard.Validate(ErrCreateConsolidationCommandIsNotConstructed)
}

// ConsolidationID returns the generated consolidation ID.
func (c CreateConsolidationCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// MotherShipmentID returns the generated mother shipment ID.
func (c CreateConsolidationCommand) MotherShipmentID() kernel.UUID { return c.motherShipmentID }

// Reference returns the bag / manifest reference.
func (c CreateConsolidationCommand) Reference() string { return c.reference }

// ConsolidationType returns the groupage type (BBX or LBX).
func (c CreateConsolidationCommand) ConsolidationType() shipment.ConsolidationType {
	return c.consolidationType
}

// MotherTrackingNumber returns the tracking number for the mother shipment.
func (c CreateConsolidationCommand) MotherTrackingNumber() string { return c.motherTrackingNumber }

// OriginBranchID returns the origin of the linehaul leg.
func (c CreateConsolidationCommand) OriginBranchID() kernel.UUID { return c.originBranchID }

// DestinationBranchID returns the destination of the linehaul leg.
func (c CreateConsolidationCommand) DestinationBranchID() kernel.UUID { return c.destinationBranchID }

// Capacity returns the capacity envelope.
func (c CreateConsolidationCommand) Capacity() consolidation.Capacity { return c.capacity }

// CutoffAt returns the moment after which no member may be added.
func (c CreateConsolidationCommand) CutoffAt() time.Time { return c.cutoffAt }

// CreatedAt returns when the consolidation was opened.
func (c CreateConsolidationCommand) CreatedAt() time.Time { return c.createdAt }

// Actor returns who opened the consolidation.
func (c CreateConsolidationCommand) Actor() string { return c.actor }

func (c *CreateConsolidationCommand) setReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("reference is required")
	}

	c.reference = reference
	return nil
}

func (c *CreateConsolidationCommand) setConsolidationType(consolidationType shipment.ConsolidationType) error {
	if err := consolidationType.Validate(); err != nil {
		return err
	}
	if !consolidationType.IsGroupage() {
		return errs.NewValueIsInvalidError("consolidationType")
	}

	c.consolidationType = consolidationType
	return nil
}

func (c *CreateConsolidationCommand) setMotherTrackingNumber(motherTrackingNumber string) error {
	if motherTrackingNumber == "" {
		return errs.NewValueIsRequiredError("motherTrackingNumber is required")
	}

	c.motherTrackingNumber = motherTrackingNumber
	return nil
}

func (c *CreateConsolidationCommand) setBranches(originBranchID, destinationBranchID kernel.UUID) error {
	if err := errors.Join(originBranchID.Validate(), destinationBranchID.Validate()); err != nil {
		return err
	}

	c.originBranchID = originBranchID
	c.destinationBranchID = destinationBranchID
	return nil
}

func (c *CreateConsolidationCommand) setCapacity(capacity consolidation.Capacity) error {
	if err := capacity.Validate(); err != nil {
		return err
	}

	c.capacity = capacity
	return nil
}

func (c *CreateConsolidationCommand) setCutoffAt(cutoffAt time.Time) error {
	if cutoffAt.IsZero() {
		return errs.NewValueIsRequiredError("cutoffAt is required")
	}

	c.cutoffAt = cutoffAt
	return nil
}
