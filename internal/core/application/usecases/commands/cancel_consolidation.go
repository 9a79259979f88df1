package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/guard"
)

var ErrCancelConsolidationCommandIsNotConstructed = errors.New(
	"CancelConsolidationCommand must be created via NewCancelConsolidationCommand constructor",
)

// CancelConsolidationCommand represents a request to abandon a consolidation
// before it departs. Member shipments are unlinked and resume independent
// tracking; the memberships stay recorded for audit.
type CancelConsolidationCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewCancelConsolidationCommand creates a command to cancel a consolidation.
func NewCancelConsolidationCommand(consolidationID kernel.UUID, actor string, at time.Time) (CancelConsolidationCommand, error) {
	if err := consolidationID.Validate(); err != nil {
		return CancelConsolidationCommand{}, err
	}

	return CancelConsolidationCommand{
		consolidationID: consolidationID,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelConsolidationCommand) Validate() error {
	return c.guard.Validate(ErrCancelConsolidationCommandIsNotConstructed)
}

// ConsolidationID returns the consolidation to cancel.
func (c CancelConsolidationCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// Actor returns who cancelled the consolidation.
func (c CancelConsolidationCommand) Actor() string { return c.actor }

// At returns when the cancellation took effect.
func (c CancelConsolidationCommand) At() time.Time { return c.at }

// CancelConsolidationCommandHandler cancels the consolidation and unlinks its
// member shipments in one transaction.
type CancelConsolidationCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelConsolidationCommandHandler creates a handler for cancellations.
func NewCancelConsolidationCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) CancelConsolidationCommandHandler {
	return CancelConsolidationCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the cancel command.
func (h *CancelConsolidationCommandHandler) Handle(ctx context.Context, cmd CancelConsolidationCommand) error {
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

	members, err := uow.ShipmentRepository().GetMembers(ctx, consolidationEntity.ID())
	if err != nil {
		return err
	}

	if err = consolidationEntity.Cancel(cmd.Actor(), cmd.At()); err != nil {
		return err
	}

	for _, member := range members {
		member.ClearConsolidation()
		if err = uow.ShipmentRepository().Update(ctx, member); err != nil {
			return err
		}
	}

	if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, consolidationEntity.PopEvents()...)
	return nil
}
