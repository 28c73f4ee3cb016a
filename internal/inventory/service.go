// internal/inventory/service.go
package inventory

import (
	"context"

	"github.com/google/uuid"

	"partsledger/internal/dispatch"
)

// Service defines the interface for the inventory service. Commands return
// the updated state or one of the sentinel errors from domain.go; callers
// branch on them with errors.Is.
type Service interface {
	CreateLocation(ctx context.Context, partID uuid.UUID, warehouse, binLocation string, minLevel, maxLevel, reorderQuantity int) (*Inventory, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*Inventory, error)
	Ledger(ctx context.Context, id uuid.UUID) ([]LedgerEntry, error)

	ReserveParts(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*Inventory, error)
	ReleaseReservation(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*Inventory, error)
	IssueParts(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*Inventory, error)
	ReceiveParts(ctx context.Context, id uuid.UUID, quantity int, actor, referenceNumber string) (*Inventory, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, newQuantity int, reason, actor string) (*Inventory, error)
	UpdateStockLevels(ctx context.Context, id uuid.UUID, minLevel, maxLevel, reorderQuantity int) (*Inventory, error)
	MoveToBinLocation(ctx context.Context, id uuid.UUID, newBin string) (*Inventory, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Inventory, error)
}

// Repository is the persistence gateway for inventory aggregates. Save must
// persist every aggregate's state and its pending ledger entries as one
// atomic unit, and must return ErrConcurrencyConflict when any aggregate's
// version no longer matches the stored row.
type Repository interface {
	Create(ctx context.Context, inv *Inventory) error
	Get(ctx context.Context, id uuid.UUID) (*Inventory, error)
	Save(ctx context.Context, invs ...*Inventory) error
	ListLedger(ctx context.Context, inventoryID uuid.UUID) ([]LedgerEntry, error)
}

// EventDispatcher delivers committed events to observers. Satisfied by
// *dispatch.Dispatcher.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events ...dispatch.Event)
}
