package eventbus_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"groupage/internal/adapters/out/eventbus"
	"groupage/internal/core/domain/model/kernel"
	"groupage/internal/core/domain/model/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectingConsumer captures delivered events for assertions.
type collectingConsumer struct {
	mu     sync.Mutex
	events []lifecycle.Event
}

func (c *collectingConsumer) Consume(_ context.Context, event lifecycle.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *collectingConsumer) collected() []lifecycle.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]lifecycle.Event(nil), c.events...)
}

func newTestEvent(newStatus string) lifecycle.Event {
	return lifecycle.Event{
		EntityType:     lifecycle.EntityTypeShipment,
		EntityID:       kernel.NewUUID(),
		PreviousStatus: "BOOKED",
		NewStatus:      newStatus,
		OccurredAt:     time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		ActorID:        "courier-7",
	}
}

func TestInProcessBus_DeliversToAllConsumers(t *testing.T) {
	// Arrange
	bus := eventbus.NewInProcessBus(slog.Default())
	first := &collectingConsumer{}
	second := &collectingConsumer{}
	bus.Subscribe(first)
	bus.Subscribe(second)

	// Act
	bus.Publish(context.Background(), newTestEvent("PICKED_UP"), newTestEvent("AT_ORIGIN_HUB"))
	bus.Close()

	// Assert
	require.Len(t, first.collected(), 2)
	require.Len(t, second.collected(), 2)
	assert.Equal(t, "PICKED_UP", first.collected()[0].NewStatus)
	assert.Equal(t, "AT_ORIGIN_HUB", first.collected()[1].NewStatus)
}

func TestInProcessBus_PreservesPublishOrder(t *testing.T) {
	// Arrange
	bus := eventbus.NewInProcessBus(slog.Default())
	consumer := &collectingConsumer{}
	bus.Subscribe(consumer)

	statuses := []string{"PICKED_UP", "AT_ORIGIN_HUB", "BAGGED", "LINEHAUL_DEPARTED"}
	events := make([]lifecycle.Event, 0, len(statuses))
	for _, status := range statuses {
		events = append(events, newTestEvent(status))
	}

	// Act
	bus.Publish(context.Background(), events...)
	bus.Close()

	// Assert
	collected := consumer.collected()
	require.Len(t, collected, len(statuses))
	for i, status := range statuses {
		assert.Equal(t, status, collected[i].NewStatus)
	}
}

func TestInProcessBus_OverflowDropsWithoutBlocking(t *testing.T) {
	// Arrange: a tiny buffer and a consumer that blocks until released, so the
	// dispatcher cannot drain while we overfill the buffer.
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	consumer := &collectingConsumer{}

	bus := eventbus.NewInProcessBusWithBuffer(slog.Default(), 1)
	bus.Subscribe(eventbus.ConsumerFunc(func(ctx context.Context, event lifecycle.Event) {
		once.Do(func() { close(started) })
		<-release
		consumer.Consume(ctx, event)
	}))

	// Act: first event occupies the dispatcher, second fills the buffer, the
	// rest must be dropped rather than block this goroutine.
	bus.Publish(context.Background(), newTestEvent("PICKED_UP"))
	<-started
	bus.Publish(context.Background(), newTestEvent("AT_ORIGIN_HUB"))

	done := make(chan struct{})
	go func() {
		bus.Publish(context.Background(), newTestEvent("BAGGED"), newTestEvent("LINEHAUL_DEPARTED"))
		close(done)
	}()

	// Assert: the overflow publish returns promptly
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}

	close(release)
	bus.Close()
	assert.LessOrEqual(t, len(consumer.collected()), 2, "Overflowed events should be dropped")
	assert.GreaterOrEqual(t, len(consumer.collected()), 1)
}

func TestInProcessBus_SubscribeAfterDelivery_SeesOnlyNewEvents(t *testing.T) {
	// Arrange
	bus := eventbus.NewInProcessBus(slog.Default())
	early := &collectingConsumer{}
	bus.Subscribe(early)

	bus.Publish(context.Background(), newTestEvent("PICKED_UP"))

	// Give the dispatcher time to deliver before the late subscription.
	require.Eventually(t, func() bool {
		return len(early.collected()) == 1
	}, time.Second, 5*time.Millisecond)

	late := &collectingConsumer{}
	bus.Subscribe(late)

	// Act
	bus.Publish(context.Background(), newTestEvent("AT_ORIGIN_HUB"))
	bus.Close()

	// Assert
	assert.Len(t, early.collected(), 2)
	require.Len(t, late.collected(), 1)
	assert.Equal(t, "AT_ORIGIN_HUB", late.collected()[0].NewStatus)
}

func TestInProcessBus_CloseIsIdempotent(t *testing.T) {
	bus := eventbus.NewInProcessBus(slog.Default())
	bus.Publish(context.Background(), newTestEvent("PICKED_UP"))
	bus.Close()
	bus.Close()
}
