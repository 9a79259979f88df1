package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/ports"
	"groupage/internal/pkg/errs"
	"groupage/internal/pkg/guard"
)

var ErrLockExpiredConsolidationsCommandIsNotConstructed = errors.New(
	"LockExpiredConsolidationsCommand must be created via NewLockExpiredConsolidationsCommand constructor",
)

// LockExpiredConsolidationsCommand represents the periodic sweep that locks
// every open consolidation whose cutoff time has passed. Empty consolidations
// are left open: locking them would freeze a unit nothing can travel in.
type LockExpiredConsolidationsCommand struct { //nolint:recvcheck //using for validation
	now   time.Time
	actor string

	guard guard.ConstructorGuard
}

// NewLockExpiredConsolidationsCommand creates a sweep command for the given moment.
func NewLockExpiredConsolidationsCommand(now time.Time, actor string) (LockExpiredConsolidationsCommand, error) {
	if now.IsZero() {
		return LockExpiredConsolidationsCommand{}, errs.NewValueIsRequiredError("now is required")
	}

	return LockExpiredConsolidationsCommand{
		now:   now,
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c LockExpiredConsolidationsCommand) Validate() error {
	return c.guard.Validate(ErrLockExpiredConsolidationsCommandIsNotConstructed)
}

// Now returns the sweep moment cutoffs are compared against.
func (c LockExpiredConsolidationsCommand) Now() time.Time { return c.now }

// Actor returns the identity the sweep locks under.
func (c LockExpiredConsolidationsCommand) Actor() string { return c.actor }

// LockExpiredConsolidationsCommandHandler locks expired consolidations in one
// transaction and reports how many it locked.
type LockExpiredConsolidationsCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewLockExpiredConsolidationsCommandHandler creates a handler for the sweep.
func NewLockExpiredConsolidationsCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) LockExpiredConsolidationsCommandHandler {
	return LockExpiredConsolidationsCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the sweep. Returns the number of consolidations locked.
func (h *LockExpiredConsolidationsCommandHandler) Handle(
	ctx context.Context,
	cmd LockExpiredConsolidationsCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expired, err := uow.ConsolidationRepository().GetOpenPastCutoff(ctx, cmd.Now())
	if err != nil {
		return 0, err
	}

	locked := 0
	for _, consolidationEntity := range expired {
		if consolidationEntity.TotalPieces() == 0 {
			continue
		}

		if err = consolidationEntity.Lock(cmd.Now(), cmd.Actor()); err != nil {
			return 0, err
		}
		if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
			return 0, err
		}
		locked++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for _, consolidationEntity := range expired {
		h.publisher.Publish(ctx, consolidationEntity.PopEvents()...)
	}
	return locked, nil
}
