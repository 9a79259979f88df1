package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/guard"
)

var ErrRecordDiscrepancyCommandIsNotConstructed = errors.New(
	"RecordDiscrepancyCommand must be created via NewRecordDiscrepancyCommand constructor",
)

// RecordDiscrepancyCommand represents a manifest reconciliation problem raised
// during deconsolidation: a manifested shipment that cannot be scanned out, a
// foreign shipment found in the bag, or damage discovered at unpack.
type RecordDiscrepancyCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	shipmentID      *kernel.UUID
	kind            consolidation.DiscrepancyKind
	notes           string
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewRecordDiscrepancyCommand creates a command to record a discrepancy.
// The shipment ID is required for MISSING and DAMAGED, optional for
// UNMANIFESTED finds.
func NewRecordDiscrepancyCommand(
	consolidationID kernel.UUID,
	shipmentID *kernel.UUID,
	kind consolidation.DiscrepancyKind,
	notes string,
	actor string,
	at time.Time,
) (RecordDiscrepancyCommand, error) {
	if err := errors.Join(consolidationID.Validate(), kind.Validate()); err != nil {
		return RecordDiscrepancyCommand{}, err
	}
	if shipmentID != nil {
		if err := shipmentID.Validate(); err != nil {
			return RecordDiscrepancyCommand{}, err
		}
	}

	return RecordDiscrepancyCommand{
		consolidationID: consolidationID,
		shipmentID:      shipmentID,
		kind:            kind,
		notes:           notes,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordDiscrepancyCommand) Validate() error {
	return c.guard.Validate(ErrRecordDiscrepancyCommandIsNotConstructed)
}

// ConsolidationID returns the mother being reconciled.
func (c RecordDiscrepancyCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// ShipmentID returns the shipment involved, nil for anonymous finds.
func (c RecordDiscrepancyCommand) ShipmentID() *kernel.UUID { return c.shipmentID }

// Kind returns the discrepancy classification.
func (c RecordDiscrepancyCommand) Kind() consolidation.DiscrepancyKind { return c.kind }

// Notes returns free-text details.
func (c RecordDiscrepancyCommand) Notes() string { return c.notes }

// Actor returns who raised the discrepancy.
func (c RecordDiscrepancyCommand) Actor() string { return c.actor }

// At returns when the discrepancy was raised.
func (c RecordDiscrepancyCommand) At() time.Time { return c.at }

// RecordDiscrepancyCommandHandler records the discrepancy within a transaction.
type RecordDiscrepancyCommandHandler struct {
	uowFactory ConsolidationUoWFactory
}

// NewRecordDiscrepancyCommandHandler creates a handler for discrepancies.
func NewRecordDiscrepancyCommandHandler(uowFactory ConsolidationUoWFactory) RecordDiscrepancyCommandHandler {
	return RecordDiscrepancyCommandHandler{uowFactory: uowFactory}
}

// Handle processes the record command.
func (h *RecordDiscrepancyCommandHandler) Handle(ctx context.Context, cmd RecordDiscrepancyCommand) error {
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

	consolidationEntity, err := uow.ConsolidationRepository().Get(ctx, cmd.ConsolidationID())
	if err != nil {
		return err
	}

	if err = consolidationEntity.RecordDiscrepancy(
		cmd.ShipmentID(), cmd.Kind(), cmd.Notes(), cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
