// internal/inventory/domain.go
package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"partsledger/internal/dispatch"
)

var (
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInsufficientAvailable = errors.New("insufficient available quantity")
	ErrInsufficientReserved  = errors.New("insufficient reserved quantity")
	ErrInsufficientOnHand    = errors.New("insufficient on-hand quantity")
	ErrInvalidStockLevels    = errors.New("invalid stock levels: maximum must be >= minimum >= 0")
	ErrInactiveLocation      = errors.New("inventory location is inactive")
	ErrLocationNotEmpty      = errors.New("inventory location still holds stock")
	ErrConcurrencyConflict   = errors.New("concurrency conflict: inventory was modified by another caller")
	ErrInventoryNotFound     = errors.New("inventory location not found")
)

// Inventory tracks the stock of one part at one warehouse location. It is the
// unit of consistency: quantities change only through its own methods, each of
// which either completes with all invariants intact or returns an error
// leaving the state untouched.
//
// Every mutating method returns the domain events it emitted. Events describe
// committed facts, so callers must hand the aggregate and its events to a
// Coordinator, which persists first and dispatches only after a successful
// commit.
type Inventory struct {
	ID                uuid.UUID `json:"id"`
	PartID            uuid.UUID `json:"part_id"`
	Warehouse         string    `json:"warehouse"`
	BinLocation       string    `json:"bin_location,omitempty"`
	QuantityOnHand    int       `json:"quantity_on_hand"`
	QuantityReserved  int       `json:"quantity_reserved"`
	MinimumStockLevel int       `json:"minimum_stock_level"`
	MaximumStockLevel int       `json:"maximum_stock_level"`
	ReorderQuantity   int       `json:"reorder_quantity"`
	IsActive          bool      `json:"is_active"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Ledger entries produced by operations since the last save. Persisted
	// atomically with the aggregate state.
	pending []LedgerEntry
}

// NewInventory creates an empty stock location for a part. Quantities start
// at zero; stock arrives through ReceiveParts.
func NewInventory(partID uuid.UUID, warehouse, binLocation string, minLevel, maxLevel, reorderQuantity int) (*Inventory, error) {
	if partID == uuid.Nil {
		return nil, errors.New("part id is required")
	}
	if warehouse == "" {
		return nil, errors.New("warehouse is required")
	}
	if err := validateStockLevels(minLevel, maxLevel, reorderQuantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Inventory{
		ID:                uuid.New(),
		PartID:            partID,
		Warehouse:         warehouse,
		BinLocation:       binLocation,
		MinimumStockLevel: minLevel,
		MaximumStockLevel: maxLevel,
		ReorderQuantity:   reorderQuantity,
		IsActive:          true,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func validateStockLevels(minLevel, maxLevel, reorderQuantity int) error {
	if minLevel < 0 || maxLevel < minLevel || reorderQuantity < 0 {
		return ErrInvalidStockLevels
	}
	return nil
}

// Available is the portion of on-hand stock not promised to other work.
func (inv *Inventory) Available() int {
	return inv.QuantityOnHand - inv.QuantityReserved
}

// IsLowStock reports whether on-hand quantity has fallen below the minimum.
func (inv *Inventory) IsLowStock() bool {
	return inv.QuantityOnHand < inv.MinimumStockLevel
}

// IsOutOfStock reports whether the location holds no stock at all.
func (inv *Inventory) IsOutOfStock() bool {
	return inv.QuantityOnHand == 0
}

// PendingEntries returns the ledger entries awaiting persistence.
func (inv *Inventory) PendingEntries() []LedgerEntry {
	return inv.pending
}

func (inv *Inventory) guardQuantity(quantity int) error {
	if !inv.IsActive {
		return ErrInactiveLocation
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func (inv *Inventory) touch() {
	inv.UpdatedAt = time.Now().UTC()
}

// Reserve earmarks on-hand stock for a work order. The reservation must fit
// within the available quantity.
func (inv *Inventory) Reserve(quantity int, workOrderID uuid.UUID, actor string) ([]dispatch.Event, error) {
	if err := inv.guardQuantity(quantity); err != nil {
		return nil, err
	}
	if quantity > inv.Available() {
		return nil, ErrInsufficientAvailable
	}

	inv.QuantityReserved += quantity
	inv.touch()
	inv.appendEntry(TransactionReservation, quantity, workOrderID, "", "", actor)

	return []dispatch.Event{newPartsReserved(inv, workOrderID, quantity)}, nil
}

// ReleaseReservation returns previously reserved stock to the available pool.
func (inv *Inventory) ReleaseReservation(quantity int, workOrderID uuid.UUID, actor string) ([]dispatch.Event, error) {
	if err := inv.guardQuantity(quantity); err != nil {
		return nil, err
	}
	if quantity > inv.QuantityReserved {
		return nil, ErrInsufficientReserved
	}

	inv.QuantityReserved -= quantity
	inv.touch()
	inv.appendEntry(TransactionRelease, quantity, workOrderID, "", "", actor)

	return nil, nil
}

// Issue consumes a prior reservation, removing stock from the location.
// Issuing can drop on-hand quantity below the minimum, in which case a
// LowStockDetected event follows the PartsIssued event.
func (inv *Inventory) Issue(quantity int, workOrderID uuid.UUID, actor string) ([]dispatch.Event, error) {
	if err := inv.guardQuantity(quantity); err != nil {
		return nil, err
	}
	if quantity > inv.QuantityReserved {
		return nil, ErrInsufficientReserved
	}
	if quantity > inv.QuantityOnHand {
		return nil, ErrInsufficientOnHand
	}

	inv.QuantityOnHand -= quantity
	inv.QuantityReserved -= quantity
	inv.touch()
	inv.appendEntry(TransactionIssue, quantity, workOrderID, "", "", actor)

	events := []dispatch.Event{newPartsIssued(inv, workOrderID, quantity)}
	if inv.IsLowStock() {
		events = append(events, newLowStockDetected(inv))
	}
	return events, nil
}

// Receive adds incoming stock. MaximumStockLevel is advisory and never
// enforced here, so bulk receipts above the maximum are accepted. Receiving
// cannot newly trip the low-stock predicate, so it is not re-evaluated.
func (inv *Inventory) Receive(quantity int, actor, referenceNumber string) ([]dispatch.Event, error) {
	if err := inv.guardQuantity(quantity); err != nil {
		return nil, err
	}

	inv.QuantityOnHand += quantity
	inv.touch()
	inv.appendEntry(TransactionReceipt, quantity, uuid.Nil, referenceNumber, "", actor)

	return []dispatch.Event{newPartsReceived(inv, quantity, referenceNumber)}, nil
}

// AdjustQuantity sets the physical count outright, recording the delta and a
// reason. The new count cannot fall below what is already reserved. The
// low-stock predicate is re-evaluated only when the adjustment lowered the
// count; an upward adjustment never raises LowStockDetected, since there is
// no paired stock-recovered event to clear it.
func (inv *Inventory) AdjustQuantity(newQuantity int, reason, actor string) ([]dispatch.Event, error) {
	if !inv.IsActive {
		return nil, ErrInactiveLocation
	}
	if newQuantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if newQuantity < inv.QuantityReserved {
		return nil, ErrInsufficientReserved
	}

	oldQuantity := inv.QuantityOnHand
	inv.QuantityOnHand = newQuantity
	inv.touch()
	inv.appendEntry(TransactionAdjustment, newQuantity-oldQuantity, uuid.Nil, "", reason, actor)

	events := []dispatch.Event{newQuantityAdjusted(inv, oldQuantity, newQuantity, reason)}
	if newQuantity < oldQuantity && inv.IsLowStock() {
		events = append(events, newLowStockDetected(inv))
	}
	return events, nil
}

// UpdateStockLevels replaces the replenishment thresholds. Pure metadata, no
// ledger entry and no event.
func (inv *Inventory) UpdateStockLevels(minLevel, maxLevel, reorderQuantity int) error {
	if err := validateStockLevels(minLevel, maxLevel, reorderQuantity); err != nil {
		return err
	}
	inv.MinimumStockLevel = minLevel
	inv.MaximumStockLevel = maxLevel
	inv.ReorderQuantity = reorderQuantity
	inv.touch()
	return nil
}

// MoveToBinLocation records a new physical bin for the location.
func (inv *Inventory) MoveToBinLocation(newBin string) error {
	if newBin == "" {
		return errors.New("bin location is required")
	}
	inv.BinLocation = newBin
	inv.touch()
	return nil
}

// Deactivate retires the location. Only an empty location can be retired;
// reserved stock is impossible once on-hand is zero.
func (inv *Inventory) Deactivate() error {
	if inv.QuantityOnHand != 0 {
		return ErrLocationNotEmpty
	}
	inv.IsActive = false
	inv.touch()
	return nil
}

func (inv *Inventory) appendEntry(txType TransactionType, quantity int, workOrderID uuid.UUID, referenceNumber, notes, actor string) {
	inv.pending = append(inv.pending, LedgerEntry{
		TransactionID:   uuid.New(),
		InventoryID:     inv.ID,
		Type:            txType,
		Quantity:        quantity,
		WorkOrderID:     workOrderID,
		ReferenceNumber: referenceNumber,
		Notes:           notes,
		TransactionDate: time.Now().UTC(),
		TransactionBy:   actor,
	})
}

// clearPending discards ledger entries after they have been durably stored.
func (inv *Inventory) clearPending() {
	inv.pending = nil
}
