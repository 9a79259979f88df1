package commands

import (
	"context"
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/lifecycle"
	"groupage/internal/core/domain/model/shipment"
	"groupage/internal/core/ports"
	"groupage/internal/pkg/guard"
)

var ErrArriveConsolidationCommandIsNotConstructed = errors.New(
	"ArriveConsolidationCommand must be created via NewArriveConsolidationCommand constructor",
)

// ArriveConsolidationCommand represents the mother reaching its destination
// branch. Physical co-travel babies advance to LINEHAUL_ARRIVED with it.
type ArriveConsolidationCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewArriveConsolidationCommand creates a command to record arrival.
func NewArriveConsolidationCommand(consolidationID kernel.UUID, actor string, at time.Time) (ArriveConsolidationCommand, error) {
	if err := consolidationID.Validate(); err != nil {
		return ArriveConsolidationCommand{}, err
	}

	return ArriveConsolidationCommand{
		consolidationID: consolidationID,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ArriveConsolidationCommand) Validate() error {
	return c.guard.Validate(ErrArriveConsolidationCommandIsNotConstructed)
}

// ConsolidationID returns the consolidation that arrived.
func (c ArriveConsolidationCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// Actor returns who recorded the arrival.
func (c ArriveConsolidationCommand) Actor() string { return c.actor }

// At returns when the mother arrived.
func (c ArriveConsolidationCommand) At() time.Time { return c.at }

// ArriveConsolidationCommandHandler records the arrival within a transaction.
type ArriveConsolidationCommandHandler struct {
	uowFactory ConsolidationUoWFactory
	publisher  ports.EventPublisher
}

// NewArriveConsolidationCommandHandler creates a handler for arrivals.
func NewArriveConsolidationCommandHandler(
	uowFactory ConsolidationUoWFactory,
	publisher ports.EventPublisher,
) ArriveConsolidationCommandHandler {
	return ArriveConsolidationCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle processes the arrival command.
func (h *ArriveConsolidationCommandHandler) Handle(ctx context.Context, cmd ArriveConsolidationCommand) error {
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

	if err = consolidationEntity.Arrive(cmd.At(), cmd.Actor()); err != nil {
		return err
	}

	var events []lifecycle.Event
	if consolidationEntity.Type().IsPhysical() {
		members, membersErr := uow.ShipmentRepository().GetMembers(ctx, consolidationEntity.ID())
		if membersErr != nil {
			return membersErr
		}

		for _, member := range members {
			if err = member.Apply(shipment.LinehaulArrived, cmd.At(), cmd.Actor()); err != nil {
				return err
			}
			if err = uow.ShipmentRepository().Update(ctx, member); err != nil {
				return err
			}
			events = append(events, member.PopEvents()...)
		}
	}

	if err = uow.ConsolidationRepository().Update(ctx, consolidationEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, consolidationEntity.PopEvents()...)
	h.publisher.Publish(ctx, events...)
	return nil
}
