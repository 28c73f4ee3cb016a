// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Event is a transient notification of a fact that has already been committed.
// Events are matched to observers by the exact string returned from EventType.
type Event interface {
	EventID() uuid.UUID
	EventType() string
	OccurredOn() time.Time
}

// Handler is one registered observer callback. Name identifies the observer
// in failure logs.
type Handler struct {
	Name string
	Fn   func(ctx context.Context, event Event) error
}

// Registration binds an event type to an observer. The full set of
// registrations is supplied when the dispatcher is constructed; the registry
// is read-only afterwards.
type Registration struct {
	EventType string
	Handler   Handler
}

// Dispatcher delivers committed events to registered observers. Observers for
// one event run sequentially in registration order, and a failing observer
// never prevents the remaining ones from running.
type Dispatcher struct {
	registry map[string][]Handler
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewDispatcher builds a dispatcher from a fixed set of registrations.
func NewDispatcher(logger *zap.Logger, regs ...Registration) *Dispatcher {
	registry := make(map[string][]Handler, len(regs))
	for _, r := range regs {
		registry[r.EventType] = append(registry[r.EventType], r.Handler)
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger,
		tracer:   otel.Tracer("partsledger/dispatch"),
	}
}

// Dispatch delivers events one at a time in the order supplied. Each event is
// fully dispatched (all its observers have run) before the next one begins.
// Observer errors are logged and contained; Dispatch never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	for _, event := range events {
		d.dispatchOne(ctx, event)
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, event Event) {
	ctx, span := d.tracer.Start(ctx, "dispatch.event",
		trace.WithAttributes(
			attribute.String("event.id", event.EventID().String()),
			attribute.String("event.type", event.EventType()),
		),
	)
	defer span.End()

	handlers := d.registry[event.EventType()]
	span.SetAttributes(attribute.Int("observer.count", len(handlers)))

	if len(handlers) == 0 {
		d.logger.Debug("no observers registered for event",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
		)
		return
	}

	for _, h := range handlers {
		d.invoke(ctx, h, event)
	}
}

// invoke runs a single observer with failure isolation. Errors and panics are
// logged with the event and observer identity and swallowed.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("observer panicked",
				zap.String("event_id", event.EventID().String()),
				zap.String("event_type", event.EventType()),
				zap.String("observer", h.Name),
				zap.Any("panic", r),
			)
		}
	}()

	if err := h.Fn(ctx, event); err != nil {
		d.logger.Error("observer failed",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.String("observer", h.Name),
			zap.Error(err),
		)
	}
}
