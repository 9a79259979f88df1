package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var ErrResolveDiscrepancyCommandIsNotConstructed = errors.New(
	"ResolveDiscrepancyCommand must be created via NewResolveDiscrepancyCommand constructor",
)

// ResolveDiscrepancyCommand represents the audited resolution of a member's
// discrepancy, unblocking completion for that member.
type ResolveDiscrepancyCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	shipmentID      kernel.UUID
	resolution      string
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewResolveDiscrepancyCommand creates a command to resolve a discrepancy.
func NewResolveDiscrepancyCommand(
	consolidationID kernel.UUID,
	shipmentID kernel.UUID,
	resolution string,
	actor string,
	at time.Time,
) (ResolveDiscrepancyCommand, error) {
	if err := errors.Join(consolidationID.Validate(), shipmentID.Validate()); err != nil {
		return ResolveDiscrepancyCommand{}, err
	}
	if resolution == "" {
		return ResolveDiscrepancyCommand{}, errs.NewValueIsRequiredError("resolution is required")
	}

	return ResolveDiscrepancyCommand{
		consolidationID: consolidationID,
		shipmentID:      shipmentID,
		resolution:      resolution,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveDiscrepancyCommand) Validate() error {
	return c.guard.Validate(ErrResolveDiscrepancyCommandIsNotConstructed)
}

// ConsolidationID returns the mother being reconciled.
func (c ResolveDiscrepancyCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// ShipmentID returns the member whose discrepancy is resolved.
func (c ResolveDiscrepancyCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Resolution returns the audited resolution note.
func (c ResolveDiscrepancyCommand) Resolution() string { return c.resolution }

// Actor returns who resolved the discrepancy.
func (c ResolveDiscrepancyCommand) Actor() string { return c.actor }

// At returns when the discrepancy was resolved.
func (c ResolveDiscrepancyCommand) At() time.Time { return c.at }

// ResolveDiscrepancyCommandHandler resolves the discrepancy within a transaction.
type ResolveDiscrepancyCommandHandler struct {
	uowFactory ConsolidationUoWFactory
}

// NewResolveDiscrepancyCommandHandler creates a handler for resolutions.
func NewResolveDiscrepancyCommandHandler(uowFactory ConsolidationUoWFactory) ResolveDiscrepancyCommandHandler {
	return ResolveDiscrepancyCommandHandler{uowFactory: uowFactory}
}

// Handle processes the resolve command.
func (h *ResolveDiscrepancyCommandHandler) Handle(ctx context.Context, cmd ResolveDiscrepancyCommand) error {
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

	if err = consolidationEntity.ResolveDiscrepancy(
		cmd.ShipmentID(), cmd.Resolution(), cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
