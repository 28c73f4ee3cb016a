// internal/inventory/invariants_test.go
package inventory

import (
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

// checkInvariants asserts the properties that must hold after every
// operation, successful or not.
func checkInvariants(t *rapid.T, inv *Inventory) {
	if inv.QuantityOnHand < 0 {
		t.Fatalf("on-hand went negative: %d", inv.QuantityOnHand)
	}
	if inv.QuantityReserved < 0 || inv.QuantityReserved > inv.QuantityOnHand {
		t.Fatalf("reserved %d outside [0, %d]", inv.QuantityReserved, inv.QuantityOnHand)
	}
	if inv.Available() != inv.QuantityOnHand-inv.QuantityReserved {
		t.Fatalf("available %d != on-hand %d - reserved %d", inv.Available(), inv.QuantityOnHand, inv.QuantityReserved)
	}
	if inv.MaximumStockLevel < inv.MinimumStockLevel || inv.MinimumStockLevel < 0 {
		t.Fatalf("stock levels violated: min=%d max=%d", inv.MinimumStockLevel, inv.MaximumStockLevel)
	}
}

func TestInventoryInvariants_RandomOperationSequences(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inv, err := NewInventory(uuid.New(), "WH-MAIN", "A-01", 10, 50, 20)
		if err != nil {
			t.Fatalf("factory: %v", err)
		}

		ops := rapid.SliceOfN(rapid.SampledFrom([]string{
			"receive", "reserve", "release", "issue", "adjust",
		}), 1, 60).Draw(t, "ops")

		for _, op := range ops {
			onHand := inv.QuantityOnHand
			reserved := inv.QuantityReserved
			entries := len(inv.PendingEntries())

			quantity := rapid.IntRange(-2, 30).Draw(t, op+"_qty")

			var opErr error
			switch op {
			case "receive":
				_, opErr = inv.Receive(quantity, "prop-test", "")
			case "reserve":
				_, opErr = inv.Reserve(quantity, uuid.New(), "prop-test")
			case "release":
				_, opErr = inv.ReleaseReservation(quantity, uuid.New(), "prop-test")
			case "issue":
				_, opErr = inv.Issue(quantity, uuid.New(), "prop-test")
			case "adjust":
				_, opErr = inv.AdjustQuantity(quantity, "recount", "prop-test")
			}

			checkInvariants(t, inv)

			if opErr != nil {
				// A rejected operation leaves state and ledger untouched.
				if inv.QuantityOnHand != onHand || inv.QuantityReserved != reserved {
					t.Fatalf("%s failed with %v but mutated state", op, opErr)
				}
				if len(inv.PendingEntries()) != entries {
					t.Fatalf("%s failed with %v but appended a ledger entry", op, opErr)
				}
				continue
			}

			// A successful operation appends exactly one entry.
			if len(inv.PendingEntries()) != entries+1 {
				t.Fatalf("%s succeeded but appended %d entries", op, len(inv.PendingEntries())-entries)
			}
		}
	})
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inv, err := NewInventory(uuid.New(), "WH-MAIN", "A-01", 0, 1000, 0)
		if err != nil {
			t.Fatalf("factory: %v", err)
		}

		stock := rapid.IntRange(1, 500).Draw(t, "stock")
		if _, err := inv.Receive(stock, "prop-test", ""); err != nil {
			t.Fatalf("receive: %v", err)
		}

		quantity := rapid.IntRange(1, stock).Draw(t, "quantity")
		before := inv.QuantityReserved

		if _, err := inv.Reserve(quantity, uuid.New(), "prop-test"); err != nil {
			t.Fatalf("reserve %d of %d: %v", quantity, stock, err)
		}
		if _, err := inv.ReleaseReservation(quantity, uuid.New(), "prop-test"); err != nil {
			t.Fatalf("release: %v", err)
		}

		if inv.QuantityReserved != before {
			t.Fatalf("round trip left reserved at %d, want %d", inv.QuantityReserved, before)
		}
		if inv.QuantityOnHand != stock {
			t.Fatalf("round trip changed on-hand to %d, want %d", inv.QuantityOnHand, stock)
		}
	})
}

func TestLedgerEntryMatchesOperation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inv, err := NewInventory(uuid.New(), "WH-MAIN", "A-01", 0, 1000, 0)
		if err != nil {
			t.Fatalf("factory: %v", err)
		}

		quantity := rapid.IntRange(1, 100).Draw(t, "quantity")
		if _, err := inv.Receive(quantity, "prop-test", "PO-X"); err != nil {
			t.Fatalf("receive: %v", err)
		}

		entries := inv.PendingEntries()
		if len(entries) != 1 {
			t.Fatalf("want 1 entry, got %d", len(entries))
		}
		if entries[0].Type != TransactionReceipt || entries[0].Quantity != quantity {
			t.Fatalf("entry %v does not match receive of %d", entries[0], quantity)
		}
	})
}
