package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// AllEvents subscribes a handler to every event type.
const AllEvents = "*"

// Publisher is what services depend on to announce completed writes.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type Handler func(ctx context.Context, event Event) error

// EventBus fans events out to in-process subscribers.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	inflight sync.WaitGroup
	logger   *slog.Logger
}

func NewEventBus(logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	count := len(eb.handlers[eventType])
	eb.mu.Unlock()

	eb.logger.Debug("event handler registered", "event_type", eventType, "handlers", count)
}

// SubscribeAll registers handler for every event, whatever its type.
func (eb *EventBus) SubscribeAll(handler Handler) {
	eb.Subscribe(AllEvents, handler)
}

// handlersFor returns a snapshot so dispatch never holds the lock.
func (eb *EventBus) handlersFor(eventType string) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	matched := make([]Handler, 0, len(eb.handlers[eventType])+len(eb.handlers[AllEvents]))
	matched = append(matched, eb.handlers[eventType]...)
	return append(matched, eb.handlers[AllEvents]...)
}

// Publish runs each handler in its own goroutine on a context detached from
// the caller's cancellation. Handler failures are logged, never returned.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	handlers := eb.handlersFor(event.EventType())
	if len(handlers) == 0 {
		return nil
	}

	eb.logger.Debug("dispatching event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers", len(handlers))

	detached := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		eb.inflight.Add(1)
		go func(h Handler) {
			defer eb.inflight.Done()
			if err := h(detached, event); err != nil {
				eb.logHandlerError(event, err)
			}
		}(handler)
	}
	return nil
}

// PublishSync runs every handler in turn and joins their failures.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, handler := range eb.handlersFor(event.EventType()) {
		if err := handler(ctx, event); err != nil {
			eb.logHandlerError(event, err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("event %s: %w", event.EventType(), errors.Join(errs...))
	}
	return nil
}

// Wait blocks until asynchronous handlers return. Used on shutdown.
func (eb *EventBus) Wait() {
	eb.inflight.Wait()
}

func (eb *EventBus) logHandlerError(event Event, err error) {
	eb.logger.Error("event handler failed",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"error", err)
}
