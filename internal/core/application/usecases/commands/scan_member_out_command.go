package commands

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/guard"
)

var ErrScanMemberOutCommandIsNotConstructed = errors.New(
	"ScanMemberOutCommand must be created via NewScanMemberOutCommand constructor",
)

// ScanMemberOutCommand represents one baby shipment being scanned out of its
// mother during deconsolidation.
type ScanMemberOutCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	shipmentID      kernel.UUID
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewScanMemberOutCommand creates a command to scan a member out.
func NewScanMemberOutCommand(
	consolidationID kernel.UUID,
	shipmentID kernel.UUID,
	actor string,
	at time.Time,
) (ScanMemberOutCommand, error) {
	if err := errors.Join(consolidationID.Validate(), shipmentID.Validate()); err != nil {
		return ScanMemberOutCommand{}, err
	}

	return ScanMemberOutCommand{
		consolidationID: consolidationID,
		shipmentID:      shipmentID,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ScanMemberOutCommand) Validate() error {
	return c.guard.Validate(ErrScanMemberOutCommandIsNotConstructed)
}

// ConsolidationID returns the mother being unpacked.
func (c ScanMemberOutCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// ShipmentID returns the baby being scanned out.
func (c ScanMemberOutCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Actor returns who scanned the member out.
func (c ScanMemberOutCommand) Actor() string { return c.actor }

// At returns when the member was scanned out.
func (c ScanMemberOutCommand) At() time.Time { return c.at }
