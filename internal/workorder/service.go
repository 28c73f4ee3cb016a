// internal/workorder/service.go
package workorder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"partsledger/internal/inventory"
	"partsledger/internal/technician"
)

// OpenRequest carries everything needed to open a work order. RequestID is
// the client-chosen idempotency key; retries with the same ID are rejected.
type OpenRequest struct {
	RequestID       string     `json:"request_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerContact string     `json:"customer_contact"`
	TechnicianID    uuid.UUID  `json:"technician_id"`
	Description     string     `json:"description"`
	Lines           []PartLine `json:"lines"`
}

// Service defines the work order operations.
type Service interface {
	OpenWorkOrder(ctx context.Context, req OpenRequest) (*WorkOrder, error)
	GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	CompleteWorkOrder(ctx context.Context, id uuid.UUID, actor string) (*WorkOrder, error)
	CancelWorkOrder(ctx context.Context, id uuid.UUID, actor string) (*WorkOrder, error)
}

// StockMover is the slice of the inventory service the saga drives.
// Satisfied by *clients.InventoryClient.
type StockMover interface {
	ReserveParts(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*inventory.Inventory, error)
	ReleaseReservation(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*inventory.Inventory, error)
	IssueParts(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*inventory.Inventory, error)
}

// TechnicianDirectory validates assignees. Satisfied by *clients.TechnicianClient.
type TechnicianDirectory interface {
	GetTechnician(ctx context.Context, id uuid.UUID) (*technician.Technician, error)
}

// IdempotencyStore deduplicates work order submissions. Claim returns false
// when the key has already been claimed by an earlier request.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// Repository persists work orders and their part lines.
type Repository interface {
	Insert(ctx context.Context, order *WorkOrder) error
	Get(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	Close(ctx context.Context, id uuid.UUID, status string, closedAt time.Time) error
}
