// internal/alerting/observers.go
package alerting

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"partsledger/internal/catalog"
	"partsledger/internal/dispatch"
	"partsledger/internal/inventory"
)

// PartLookup is the read-only slice of the catalog the alerter needs.
// Satisfied by *clients.CatalogClient.
type PartLookup interface {
	GetPart(ctx context.Context, id uuid.UUID) (*catalog.Part, error)
}

// LowStockAlerter reacts to LowStockDetected events with a reorder
// suggestion, enriched with cost and lead time from the part catalog. A
// failed catalog lookup degrades the alert, it does not suppress it.
type LowStockAlerter struct {
	parts  PartLookup
	logger *zap.Logger
}

func NewLowStockAlerter(parts PartLookup, logger *zap.Logger) *LowStockAlerter {
	return &LowStockAlerter{parts: parts, logger: logger}
}

// Registration binds the alerter to the low-stock event type.
func (a *LowStockAlerter) Registration() dispatch.Registration {
	return dispatch.Registration{
		EventType: inventory.EventTypeLowStockDetected,
		Handler:   dispatch.Handler{Name: "low-stock-alerter", Fn: a.Handle},
	}
}

func (a *LowStockAlerter) Handle(ctx context.Context, event dispatch.Event) error {
	lowStock, ok := event.(*inventory.LowStockDetected)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}

	fields := []zap.Field{
		zap.String("inventory_id", lowStock.InventoryID.String()),
		zap.String("part_id", lowStock.PartID.String()),
		zap.String("warehouse", lowStock.Warehouse),
		zap.Int("current_quantity", lowStock.CurrentQuantity),
		zap.Int("minimum_stock_level", lowStock.MinimumStockLevel),
		zap.Int("suggested_reorder_quantity", lowStock.ReorderQuantity),
	}

	part, err := a.parts.GetPart(ctx, lowStock.PartID)
	if err != nil {
		a.logger.Warn("low stock detected (catalog lookup failed)",
			append(fields, zap.Error(err))...)
		return nil
	}

	a.logger.Warn("low stock detected",
		append(fields,
			zap.String("sku", part.SKU),
			zap.String("part_name", part.Name),
			zap.String("unit_cost", part.Cost.String()),
			zap.String("estimated_reorder_cost", part.Cost.Mul(decimal.NewFromInt(int64(lowStock.ReorderQuantity))).String()),
			zap.Int("lead_time_days", part.LeadTimeDays),
		)...)
	return nil
}

// MovementAuditor logs every stock movement event. It subscribes to all
// movement types, one registration per event type in the closed set.
type MovementAuditor struct {
	logger *zap.Logger
}

func NewMovementAuditor(logger *zap.Logger) *MovementAuditor {
	return &MovementAuditor{logger: logger}
}

// Registrations binds the auditor to every movement event type.
func (m *MovementAuditor) Registrations() []dispatch.Registration {
	handler := dispatch.Handler{Name: "movement-auditor", Fn: m.Handle}
	types := []string{
		inventory.EventTypePartsReserved,
		inventory.EventTypePartsIssued,
		inventory.EventTypePartsReceived,
		inventory.EventTypeQuantityAdjusted,
	}
	regs := make([]dispatch.Registration, len(types))
	for i, eventType := range types {
		regs[i] = dispatch.Registration{EventType: eventType, Handler: handler}
	}
	return regs
}

func (m *MovementAuditor) Handle(ctx context.Context, event dispatch.Event) error {
	m.logger.Info("stock movement",
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.Time("occurred_on", event.OccurredOn()),
	)
	return nil
}
