package commands

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/consolidation"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/guard"
)

var ErrDispatchConsolidationCommandIsNotConstructed = errors.New(
	"DispatchConsolidationCommand must be created via NewDispatchConsolidationCommand constructor",
)

// DispatchConsolidationCommand represents a request to put a locked
// consolidation on its linehaul leg, with the carrier document covering the
// whole group.
type DispatchConsolidationCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	transport       consolidation.TransportDetails
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewDispatchConsolidationCommand creates a command to dispatch a consolidation.
func NewDispatchConsolidationCommand(
	consolidationID kernel.UUID,
	transport consolidation.TransportDetails,
	actor string,
	at time.Time,
) (DispatchConsolidationCommand, error) {
	if err := errors.Join(consolidationID.Validate(), transport.Validate()); err != nil {
		return DispatchConsolidationCommand{}, err
	}

	return DispatchConsolidationCommand{
		consolidationID: consolidationID,
		transport:       transport,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchConsolidationCommand) Validate() error {
	return c.guard.Validate(ErrDispatchConsolidationCommandIsNotConstructed)
}

// ConsolidationID returns the consolidation to dispatch.
func (c DispatchConsolidationCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// Transport returns the linehaul transport details.
func (c DispatchConsolidationCommand) Transport() consolidation.TransportDetails { return c.transport }

// Actor returns who dispatched the consolidation.
func (c DispatchConsolidationCommand) Actor() string { return c.actor }

// At returns when the mother departed.
func (c DispatchConsolidationCommand) At() time.Time { return c.at }
