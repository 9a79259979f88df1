package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/guard"
)

var ErrBeginDeconsolidationCommandIsNotConstructed = errors.New(
	"BeginDeconsolidationCommand must be created via NewBeginDeconsolidationCommand constructor",
)

// BeginDeconsolidationCommand represents a request to start the unpack
// workflow on an arrived consolidation.
type BeginDeconsolidationCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewBeginDeconsolidationCommand creates a command to start the unpack.
func NewBeginDeconsolidationCommand(consolidationID kernel.UUID, actor string, at time.Time) (BeginDeconsolidationCommand, error) {
	if err := consolidationID.Validate(); err != nil {
		return BeginDeconsolidationCommand{}, err
	}

	return BeginDeconsolidationCommand{
		consolidationID: consolidationID,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c BeginDeconsolidationCommand) Validate() error {
	return c.guard.Validate(ErrBeginDeconsolidationCommandIsNotConstructed)
}

// ConsolidationID returns the consolidation to unpack.
func (c BeginDeconsolidationCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// Actor returns who started the unpack.
func (c BeginDeconsolidationCommand) Actor() string { return c.actor }

// At returns when the unpack started.
func (c BeginDeconsolidationCommand) At() time.Time { return c.at }

// BeginDeconsolidationCommandHandler starts the unpack within a transaction.
type BeginDeconsolidationCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewBeginDeconsolidationCommandHandler creates a handler for unpack starts.
func NewBeginDeconsolidationCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) BeginDeconsolidationCommandHandler {
	return BeginDeconsolidationCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the begin command.
func (h *BeginDeconsolidationCommandHandler) Handle(ctx context.Context, cmd BeginDeconsolidationCommand) error {
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

	if err = consolidationEntity.BeginDeconsolidation(cmd.Actor(), cmd.At()); err != nil {
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
