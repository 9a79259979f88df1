package eventbus

import (
	"context"
	"log/slog"

	"groupage/internal/core/domain/model/lifecycle"
)

// LoggingConsumer writes every lifecycle event to the structured log. It is
// the default subscriber wired at startup so every status change leaves an
// operational trace even with no other consumers registered.
type LoggingConsumer struct {
	logger *slog.Logger
}

// NewLoggingConsumer creates a consumer that logs lifecycle events.
func NewLoggingConsumer(logger *slog.Logger) *LoggingConsumer {
	return &LoggingConsumer{
		logger: logger.With("component", "lifecycle_log"),
	}
}

// Consume logs one lifecycle event.
func (c *LoggingConsumer) Consume(ctx context.Context, event lifecycle.Event) {
	c.logger.InfoContext(ctx, "Lifecycle transition",
		"entityType", event.EntityType,
		"entityID", event.EntityID.String(),
		"previousStatus", event.PreviousStatus,
		"newStatus", event.NewStatus,
		"occurredAt", event.OccurredAt,
		"actor", event.ActorID,
	)
}
