// internal/workorder/domain.go
package workorder

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrWorkOrderNotFound  = errors.New("work order not found")
	ErrDuplicateRequest   = errors.New("duplicate work order request")
	ErrNoPartLines        = errors.New("work order requires at least one part line")
	ErrTechnicianInactive = errors.New("technician is not active")
	ErrNotOpen            = errors.New("work order is not open")
)

// Work order lifecycle states.
const (
	StatusOpen      = "open"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// PartLine is one part requirement on a work order. The reservation it
// created is consumed on completion and released on cancellation.
type PartLine struct {
	InventoryID uuid.UUID `json:"inventory_id"`
	Quantity    int       `json:"quantity"`
}

// WorkOrder represents a repair job that reserves parts for its duration.
type WorkOrder struct {
	ID              uuid.UUID  `json:"id"`
	CustomerName    string     `json:"customer_name"`
	CustomerContact string     `json:"customer_contact,omitempty"`
	TechnicianID    uuid.UUID  `json:"technician_id"`
	Status          string     `json:"status"`
	Description     string     `json:"description,omitempty"`
	Lines           []PartLine `json:"lines"`
	OpenedAt        time.Time  `json:"opened_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}
