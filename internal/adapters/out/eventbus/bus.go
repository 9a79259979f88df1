// Package eventbus provides the in-process implementation of the lifecycle
// event bus. Command handlers publish events after their transaction commits;
// the bus hands them to registered consumers on a dispatcher goroutine so a
// slow consumer can never delay a state transition.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"groupage/internal/core/domain/model/lifecycle"
)

// Consumer receives lifecycle events from the bus. Consumers run on the
// dispatcher goroutine; long-running work should be handed off internally.
type Consumer interface {
	Consume(ctx context.Context, event lifecycle.Event)
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(ctx context.Context, event lifecycle.Event)

// Consume calls f(ctx, event).
func (f ConsumerFunc) Consume(ctx context.Context, event lifecycle.Event) {
	f(ctx, event)
}

const defaultBufferSize = 256

// InProcessBus is a buffered asynchronous lifecycle event bus. Publish never
// blocks: when the buffer is full the event is dropped and logged, preserving
// at-least-once delivery for well-behaved consumers without ever back-pressuring
// a command handler.
type InProcessBus struct {
	events    chan lifecycle.Event
	consumers []Consumer
	logger    *slog.Logger

	mu      sync.RWMutex
	done    chan struct{}
	closed  atomic.Bool
	stopped sync.Once
}

// NewInProcessBus creates a bus with the default buffer size and starts its
// dispatcher goroutine.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	return NewInProcessBusWithBuffer(logger, defaultBufferSize)
}

// NewInProcessBusWithBuffer creates a bus with an explicit buffer size.
func NewInProcessBusWithBuffer(logger *slog.Logger, bufferSize int) *InProcessBus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	bus := &InProcessBus{
		events: make(chan lifecycle.Event, bufferSize),
		logger: logger.With("component", "lifecycle_bus"),
		done:   make(chan struct{}),
	}
	go bus.dispatch()
	return bus
}

// Subscribe registers a consumer for all lifecycle events. Consumers added
// after events were dispatched do not see those events.
func (b *InProcessBus) Subscribe(consumer Consumer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consumers = append(b.consumers, consumer)
}

// Publish enqueues events for asynchronous dispatch. It never blocks; events
// that do not fit in the buffer are dropped and logged.
func (b *InProcessBus) Publish(ctx context.Context, events ...lifecycle.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed.Load() {
		return
	}

	for _, event := range events {
		select {
		case b.events <- event:
		default:
			b.logger.WarnContext(ctx, "Lifecycle event dropped, bus buffer full",
				"entityType", event.EntityType,
				"entityID", event.EntityID.String(),
				"newStatus", event.NewStatus,
			)
		}
	}
}

// Close stops the dispatcher after draining buffered events. Publish calls
// after Close drop everything.
func (b *InProcessBus) Close() {
	b.stopped.Do(func() {
		b.mu.Lock()
		b.closed.Store(true)
		close(b.events)
		b.mu.Unlock()

		<-b.done
	})
}

func (b *InProcessBus) dispatch() {
	defer close(b.done)
	ctx := context.Background()

	for event := range b.events {
		b.mu.RLock()
		consumers := b.consumers
		b.mu.RUnlock()

		for _, consumer := range consumers {
			consumer.Consume(ctx, event)
		}
	}
}
