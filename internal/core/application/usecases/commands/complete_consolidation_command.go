package commands

import (
	"errors"
	"time"

	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/pkg/guard"
)

var ErrCompleteConsolidationCommandIsNotConstructed = errors.New(
	"CompleteConsolidationCommand must be created via NewCompleteConsolidationCommand constructor",
)

// CompleteConsolidationCommand represents a request to close the unpack
// workflow. Completion fails while any manifested member is neither scanned
// out nor covered by a resolved discrepancy.
type CompleteConsolidationCommand struct { //nolint:recvcheck //using for validation
	consolidationID kernel.UUID
	actor           string
	at              time.Time

	guard guard.ConstructorGuard
}

// NewCompleteConsolidationCommand creates a command to complete a consolidation.
func NewCompleteConsolidationCommand(
	consolidationID kernel.UUID,
	actor string,
	at time.Time,
) (CompleteConsolidationCommand, error) {
	if err := consolidationID.Validate(); err != nil {
		return CompleteConsolidationCommand{}, err
	}

	return CompleteConsolidationCommand{
		consolidationID: consolidationID,
		actor:           actor,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteConsolidationCommand) Validate() error {
	return c.guard.Validate(ErrCompleteConsolidationCommandIsNotConstructed)
}

// ConsolidationID returns the consolidation to complete.
func (c CompleteConsolidationCommand) ConsolidationID() kernel.UUID { return c.consolidationID }

// Actor returns who completed the consolidation.
func (c CompleteConsolidationCommand) Actor() string { return c.actor }

// At returns when the workflow closed.
func (c CompleteConsolidationCommand) At() time.Time { return c.at }
