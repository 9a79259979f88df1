package commands

import (
	"errors"
	"fmt"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var ErrAddConsolidationMemberCommandIsNotConstructed = errors.New(
	"AddConsolidationMemberCommand must be created via NewAddConsolidationMemberCommand constructor",
)

// AddConsolidationMemberCommand represents a request to add a baby shipment to
// an open consolidation, with its capacity contribution.
type AddConsolidationMemberCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	shipmentID      kernel.UUID
	weightKg        float64
	volumeM3        float64
	at              time.Time

	guard guard.ConstructorGuard
}

// NewAddConsolidationMemberCommand creates a command to add a member.
func NewAddConsolidationMemberCommand(
	consolidationID kernel.UUID,
	shipmentID kernel.UUID,
	weightKg float64,
	volumeM3 float64,
	at time.Time,
) (AddConsolidationMemberCommand, error) {
	command := AddConsolidationMemberCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setConsolidationID(consolidationID),
		command.setShipmentID(shipmentID),
		command.setWeightKg(weightKg),
		command.setVolumeM3(volumeM3),
	); err != nil {
		return AddConsolidationMemberCommand{}, err
	}

	command.at = at
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AddConsolidationMemberCommand) Validate() error {
	return c.guard.Validate(ErrAddConsolidationMemberCommandIsNotConstructed)
}

// ConsolidationID returns the mother to add to.
func (c AddConsolidationMemberCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// ShipmentID returns the baby shipment to add.
func (c AddConsolidationMemberCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// WeightKg returns the shipment's weight contribution.
func (c AddConsolidationMemberCommand) WeightKg() float64 { return c.weightKg }

// VolumeM3 returns the shipment's volume contribution.
func (c AddConsolidationMemberCommand) VolumeM3() float64 { return c.volumeM3 }

// At returns when the shipment was added.
func (c AddConsolidationMemberCommand) At() time.Time { return c.at }

func (c *AddConsolidationMemberCommand) setConsolidationID(consolidationID kernel.UUID) error {
	if err := consolidationID.Validate(); err != nil {
		return err
	}

	c.consolidationID = consolidationID
	return nil
}

func (c *AddConsolidationMemberCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}

	c.shipmentID = shipmentID
	return nil
}

func (c *AddConsolidationMemberCommand) setWeightKg(weightKg float64) error {
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"weightKg is invalid", fmt.Errorf("%f is not greater than 0", weightKg))
	}

	c.weightKg = weightKg
	return nil
}

func (c *AddConsolidationMemberCommand) setVolumeM3(volumeM3 float64) error {
	if volumeM3 <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"volumeM3 is invalid", fmt.Errorf("%f is not greater than 0", volumeM3))
	}

	c.volumeM3 = volumeM3
	return nil
}
