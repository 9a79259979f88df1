package commands

import (
	"context"

	"groupage/internal/core/ports"
)

// CompleteConsolidationCommandHandler closes the unpack workflow within a
// transaction and publishes the terminal lifecycle event.
type CompleteConsolidationCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewCompleteConsolidationCommandHandler creates a handler for completions.
func NewCompleteConsolidationCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) CompleteConsolidationCommandHandler {
	return CompleteConsolidationCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the complete command.
func (h *CompleteConsolidationCommandHandler) Handle(ctx context.Context, cmd CompleteConsolidationCommand) error {
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

	if err = consolidationEntity.Complete(cmd.Actor(), cmd.At()); err != nil {
		return err
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
