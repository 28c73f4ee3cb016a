// internal/alerting/observers_test.go
package alerting

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"partsledger/internal/catalog"
	"partsledger/internal/dispatch"
	"partsledger/internal/inventory"
)

type stubPartLookup struct {
	part *catalog.Part
	err  error
}

func (s *stubPartLookup) GetPart(_ context.Context, _ uuid.UUID) (*catalog.Part, error) {
	return s.part, s.err
}

func lowStockFixture(t *testing.T) *inventory.LowStockDetected {
	t.Helper()

	inv, err := inventory.NewInventory(uuid.New(), "main", "A-12-3", 10, 40, 25)
	require.NoError(t, err)
	events, err := inv.Receive(5, "tech-jordan", "PO-100")
	require.NoError(t, err)
	require.Len(t, events, 1)

	_, err = inv.Reserve(3, uuid.New(), "tech-jordan")
	require.NoError(t, err)
	events, err = inv.Issue(3, uuid.New(), "tech-jordan")
	require.NoError(t, err)
	require.Len(t, events, 2)

	lowStock, ok := events[1].(*inventory.LowStockDetected)
	require.True(t, ok)
	return lowStock
}

func TestLowStockAlerter_EnrichesFromCatalog(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	lookup := &stubPartLookup{part: &catalog.Part{
		SKU:          "BRK-PAD-220",
		Name:         "Brake pad set",
		Cost:         decimal.RequireFromString("18.50"),
		LeadTimeDays: 4,
	}}
	alerter := NewLowStockAlerter(lookup, zap.New(core))

	err := alerter.Handle(context.Background(), lowStockFixture(t))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "low stock detected", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "BRK-PAD-220", fields["sku"])
	assert.Equal(t, "18.5", fields["unit_cost"])
	assert.Equal(t, "462.5", fields["estimated_reorder_cost"])
	assert.Equal(t, int64(4), fields["lead_time_days"])
	assert.Equal(t, int64(2), fields["current_quantity"])
	assert.Equal(t, int64(25), fields["suggested_reorder_quantity"])
}

func TestLowStockAlerter_CatalogFailureStillAlerts(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	lookup := &stubPartLookup{err: errors.New("catalog unreachable")}
	alerter := NewLowStockAlerter(lookup, zap.New(core))

	err := alerter.Handle(context.Background(), lowStockFixture(t))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "low stock detected (catalog lookup failed)", entries[0].Message)
	assert.Equal(t, int64(10), entries[0].ContextMap()["minimum_stock_level"])
}

func TestLowStockAlerter_RejectsForeignEventType(t *testing.T) {
	alerter := NewLowStockAlerter(&stubPartLookup{}, zap.NewNop())

	inv, err := inventory.NewInventory(uuid.New(), "main", "A-12-3", 0, 0, 0)
	require.NoError(t, err)
	events, err := inv.Receive(1, "tech-jordan", "")
	require.NoError(t, err)

	assert.Error(t, alerter.Handle(context.Background(), events[0]))
}

func TestMovementAuditor_CoversAllMovementTypes(t *testing.T) {
	auditor := NewMovementAuditor(zap.NewNop())

	regs := auditor.Registrations()
	require.Len(t, regs, 4)

	types := make(map[string]bool, len(regs))
	for _, reg := range regs {
		assert.Equal(t, "movement-auditor", reg.Handler.Name)
		types[reg.EventType] = true
	}
	assert.True(t, types[inventory.EventTypePartsReserved])
	assert.True(t, types[inventory.EventTypePartsIssued])
	assert.True(t, types[inventory.EventTypePartsReceived])
	assert.True(t, types[inventory.EventTypeQuantityAdjusted])
}

func TestMovementAuditor_LogsViaDispatcher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	auditor := NewMovementAuditor(zap.New(core))
	dispatcher := dispatch.NewDispatcher(zap.NewNop(), auditor.Registrations()...)

	inv, err := inventory.NewInventory(uuid.New(), "main", "A-12-3", 0, 0, 0)
	require.NoError(t, err)
	events, err := inv.Receive(7, "tech-jordan", "PO-7")
	require.NoError(t, err)

	dispatcher.Dispatch(context.Background(), events...)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "stock movement", entries[0].Message)
	assert.Equal(t, inventory.EventTypePartsReceived, entries[0].ContextMap()["event_type"])
}
