package ports

import (
	"context"

	"groupage/internal/core/domain/model/lifecycle"
)

// EventPublisher is the lifecycle bus port. Publishing is fire-and-forget:
// it must never block a state transition or fail one after its commit, so
// implementations hand events to external collaborators asynchronously.
type EventPublisher interface {
	// Publish dispatches lifecycle events recorded by aggregates. Called by
	// command handlers after a successful commit, never before.
	Publish(ctx context.Context, events ...lifecycle.Event)
}
