// internal/inventory/ledger.go
package inventory

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies one stock movement in the ledger.
type TransactionType string

const (
	TransactionReceipt     TransactionType = "receipt"
	TransactionReservation TransactionType = "reservation"
	TransactionRelease     TransactionType = "release"
	TransactionIssue       TransactionType = "issue"
	TransactionAdjustment  TransactionType = "adjustment"
)

// LedgerEntry is the immutable audit record of one stock movement. Entries
// are appended by the owning Inventory aggregate, exactly one per successful
// mutation, and are never updated or deleted.
//
// Quantity is the magnitude of the movement, except for adjustments where it
// is the signed delta between the old and new counts.
type LedgerEntry struct {
	TransactionID   uuid.UUID       `json:"transaction_id"`
	InventoryID     uuid.UUID       `json:"inventory_id"`
	Type            TransactionType `json:"type"`
	Quantity        int             `json:"quantity"`
	WorkOrderID     uuid.UUID       `json:"work_order_id,omitempty"` // uuid.Nil when the movement has no work-order correlation
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	TransactionBy   string          `json:"transaction_by"`
}
