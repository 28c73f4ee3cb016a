// internal/inventory/coordinator.go
package inventory

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"partsledger/internal/dispatch"
)

// Change pairs a mutated aggregate with the events its commands emitted.
type Change struct {
	Inventory *Inventory
	Events    []dispatch.Event
}

// Coordinator commits mutated aggregates and releases their events. All
// aggregates in one Commit call are persisted as a single atomic unit; events
// are dispatched if and only if that persist succeeded. Per-aggregate event
// order is preserved, with no ordering guarantee across aggregates.
type Coordinator struct {
	repo       Repository
	dispatcher EventDispatcher
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewCoordinator(repo Repository, dispatcher EventDispatcher, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
		tracer:     otel.Tracer("partsledger/inventory"),
	}
}

// Commit persists the changed aggregates and then dispatches their events.
// On persistence failure nothing is dispatched: no event escapes an
// uncommitted change.
func (c *Coordinator) Commit(ctx context.Context, changes ...Change) error {
	eventCount := 0
	invs := make([]*Inventory, len(changes))
	for i, ch := range changes {
		invs[i] = ch.Inventory
		eventCount += len(ch.Events)
	}

	ctx, span := c.tracer.Start(ctx, "coordinator.commit",
		trace.WithAttributes(
			attribute.Int("aggregate.count", len(changes)),
			attribute.Int("event.count", eventCount),
		),
	)
	defer span.End()

	if err := c.repo.Save(ctx, invs...); err != nil {
		span.SetAttributes(attribute.Bool("commit.success", false))
		return err
	}

	// Commit is the durability boundary. A cancelled caller context must not
	// swallow the lifecycle events of a change that is already durable, so
	// dispatch runs detached from the caller's cancellation.
	dispatchCtx := context.WithoutCancel(ctx)
	for _, ch := range changes {
		c.dispatcher.Dispatch(dispatchCtx, ch.Events...)
	}

	span.SetAttributes(attribute.Bool("commit.success", true))
	return nil
}
