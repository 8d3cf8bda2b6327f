package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Payslip", uuid.New(), uuid.New()),
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := startedBus(t)

	confirmed := newTestHandler("PayslipConfirmed")
	paid := newTestHandler("PayslipPaid")
	bus.Subscribe(confirmed)
	bus.Subscribe(paid)

	event := newTestEvent("PayslipConfirmed")
	require.NoError(t, bus.Publish(context.Background(), event, newTestEvent("PayslipConfirmed")))

	assert.Equal(t, 2, confirmed.count())
	assert.Equal(t, event, confirmed.handled[0])
	assert.Zero(t, paid.count())

	published, failed := bus.Stats()
	assert.Equal(t, int64(2), published)
	assert.Zero(t, failed)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := startedBus(t)

	handler := newTestHandler("PayslipPaid")
	bus.Subscribe(handler, "PayslipDeleted")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PayslipPaid")))
	assert.Zero(t, handler.count())

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PayslipDeleted")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := startedBus(t)

	wildcard := newTestHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PayslipCreated"), newTestEvent("PayslipsBulkDeleted")))
	assert.Equal(t, 2, wildcard.count())
}

func TestInMemoryEventBus_FailingHandlersAreIsolated(t *testing.T) {
	bus := startedBus(t)

	failing := newTestHandler("PayslipCreated")
	failing.err = errors.New("cache unavailable")
	panicking := newTestHandler("PayslipCreated")
	panicking.panics = true
	healthy := newTestHandler("PayslipCreated")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("PayslipCreated"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
	_, failed := bus.Stats()
	assert.Equal(t, int64(2), failed)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)

	handler := newTestHandler("PayslipCreated")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("PayslipCreated"))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("PayslipCreated"))

	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_StoppedBusDropsEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("PayslipCreated")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PayslipCreated")))
	assert.Zero(t, handler.count())

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PayslipCreated")))
	assert.Equal(t, 1, handler.count())

	require.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PayslipCreated")))
	assert.Equal(t, 1, handler.count())
}

func TestHandlerFunc(t *testing.T) {
	bus := startedBus(t)

	var seen []string
	fn := NewHandlerFunc(func(ctx context.Context, event shared.DomainEvent) error {
		seen = append(seen, event.EventType())
		return nil
	}, "PayslipPaid", "PayslipCancelled")
	bus.Subscribe(fn)

	_ = bus.Publish(context.Background(),
		newTestEvent("PayslipPaid"),
		newTestEvent("PayslipCreated"),
		newTestEvent("PayslipCancelled"),
	)
	assert.Equal(t, []string{"PayslipPaid", "PayslipCancelled"}, seen)
}
