package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/guard"
)

var ErrLockConsolidationCommandIsNotConstructed = errors.New(
	"LockConsolidationCommand must be created via NewLockConsolidationCommand constructor",
)

// LockConsolidationCommand represents a request to freeze a consolidation's
// membership. Lock is a one-way gate: no member may be added or removed
// afterwards.
type LockConsolidationCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewLockConsolidationCommand creates a command to lock a consolidation.
func NewLockConsolidationCommand(consolidationID kernel.UUID, actor string, at time.Time) (LockConsolidationCommand, error) {
	if err := consolidationID.Validate(); err != nil {
		return LockConsolidationCommand{}, err
	}

	return LockConsolidationCommand{
		consolidationID: consolidationID,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c LockConsolidationCommand) Validate() error {
	return c.guard.Validate(ErrLockConsolidationCommandIsNotConstructed)
}

// ConsolidationID returns the consolidation to lock.
func (c LockConsolidationCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// Actor returns who locked the consolidation.
func (c LockConsolidationCommand) Actor() string { return c.actor }

// At returns when the lock took effect.
func (c LockConsolidationCommand) At() time.Time { return c.at }

// LockConsolidationCommandHandler locks the consolidation within a transaction
// and publishes the recorded lifecycle event.
type LockConsolidationCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewLockConsolidationCommandHandler creates a handler for locks.
func NewLockConsolidationCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) LockConsolidationCommandHandler {
	return LockConsolidationCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the lock command.
func (h *LockConsolidationCommandHandler) Handle(ctx context.Context, cmd LockConsolidationCommand) error {
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

	if err = consolidationEntity.Lock(cmd.At(), cmd.Actor()); err != nil {
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
