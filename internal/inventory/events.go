// internal/inventory/events.go
package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Event type constants form the closed set the dispatcher registry is keyed
// by. Observers register against these exact strings.
const (
	EventTypePartsReserved    = "PartsReserved"
	EventTypePartsIssued      = "PartsIssued"
	EventTypePartsReceived    = "PartsReceived"
	EventTypeQuantityAdjusted = "QuantityAdjusted"
	EventTypeLowStockDetected = "LowStockDetected"
)

type baseEvent struct {
	ID uuid.UUID `json:"event_id"`
	At time.Time `json:"occurred_on"`
}

func newBaseEvent() baseEvent {
	return baseEvent{ID: uuid.New(), At: time.Now().UTC()}
}

func (e baseEvent) EventID() uuid.UUID    { return e.ID }
func (e baseEvent) OccurredOn() time.Time { return e.At }

// PartsReserved is raised when stock is earmarked for a work order.
type PartsReserved struct {
	baseEvent
	InventoryID  uuid.UUID `json:"inventory_id"`
	PartID       uuid.UUID `json:"part_id"`
	WorkOrderID  uuid.UUID `json:"work_order_id"`
	Warehouse    string    `json:"warehouse"`
	Quantity     int       `json:"quantity"`
	NewAvailable int       `json:"new_available"`
}

func (*PartsReserved) EventType() string { return EventTypePartsReserved }

func newPartsReserved(inv *Inventory, workOrderID uuid.UUID, quantity int) *PartsReserved {
	return &PartsReserved{
		baseEvent:    newBaseEvent(),
		InventoryID:  inv.ID,
		PartID:       inv.PartID,
		WorkOrderID:  workOrderID,
		Warehouse:    inv.Warehouse,
		Quantity:     quantity,
		NewAvailable: inv.Available(),
	}
}

// PartsIssued is raised when reserved stock leaves the location.
type PartsIssued struct {
	baseEvent
	InventoryID     uuid.UUID `json:"inventory_id"`
	PartID          uuid.UUID `json:"part_id"`
	WorkOrderID     uuid.UUID `json:"work_order_id"`
	Warehouse       string    `json:"warehouse"`
	Quantity        int       `json:"quantity"`
	RemainingOnHand int       `json:"remaining_on_hand"`
}

func (*PartsIssued) EventType() string { return EventTypePartsIssued }

func newPartsIssued(inv *Inventory, workOrderID uuid.UUID, quantity int) *PartsIssued {
	return &PartsIssued{
		baseEvent:       newBaseEvent(),
		InventoryID:     inv.ID,
		PartID:          inv.PartID,
		WorkOrderID:     workOrderID,
		Warehouse:       inv.Warehouse,
		Quantity:        quantity,
		RemainingOnHand: inv.QuantityOnHand,
	}
}

// PartsReceived is raised when incoming stock is booked in.
type PartsReceived struct {
	baseEvent
	InventoryID     uuid.UUID `json:"inventory_id"`
	PartID          uuid.UUID `json:"part_id"`
	Warehouse       string    `json:"warehouse"`
	Quantity        int       `json:"quantity"`
	NewOnHand       int       `json:"new_on_hand"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
}

func (*PartsReceived) EventType() string { return EventTypePartsReceived }

func newPartsReceived(inv *Inventory, quantity int, referenceNumber string) *PartsReceived {
	return &PartsReceived{
		baseEvent:       newBaseEvent(),
		InventoryID:     inv.ID,
		PartID:          inv.PartID,
		Warehouse:       inv.Warehouse,
		Quantity:        quantity,
		NewOnHand:       inv.QuantityOnHand,
		ReferenceNumber: referenceNumber,
	}
}

// QuantityAdjusted is raised when the physical count is corrected.
type QuantityAdjusted struct {
	baseEvent
	InventoryID uuid.UUID `json:"inventory_id"`
	PartID      uuid.UUID `json:"part_id"`
	Warehouse   string    `json:"warehouse"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
	Reason      string    `json:"reason"`
}

func (*QuantityAdjusted) EventType() string { return EventTypeQuantityAdjusted }

func newQuantityAdjusted(inv *Inventory, oldQuantity, newQuantity int, reason string) *QuantityAdjusted {
	return &QuantityAdjusted{
		baseEvent:   newBaseEvent(),
		InventoryID: inv.ID,
		PartID:      inv.PartID,
		Warehouse:   inv.Warehouse,
		OldQuantity: oldQuantity,
		NewQuantity: newQuantity,
		Reason:      reason,
	}
}

// LowStockDetected is raised after an operation leaves on-hand quantity below
// the minimum stock level. It always follows the event of the operation that
// caused it.
type LowStockDetected struct {
	baseEvent
	InventoryID       uuid.UUID `json:"inventory_id"`
	PartID            uuid.UUID `json:"part_id"`
	Warehouse         string    `json:"warehouse"`
	CurrentQuantity   int       `json:"current_quantity"`
	MinimumStockLevel int       `json:"minimum_stock_level"`
	ReorderQuantity   int       `json:"reorder_quantity"`
}

func (*LowStockDetected) EventType() string { return EventTypeLowStockDetected }

func newLowStockDetected(inv *Inventory) *LowStockDetected {
	return &LowStockDetected{
		baseEvent:         newBaseEvent(),
		InventoryID:       inv.ID,
		PartID:            inv.PartID,
		Warehouse:         inv.Warehouse,
		CurrentQuantity:   inv.QuantityOnHand,
		MinimumStockLevel: inv.MinimumStockLevel,
		ReorderQuantity:   inv.ReorderQuantity,
	}
}
