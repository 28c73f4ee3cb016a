// internal/inventory/postgres.go
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PostgresRepository persists inventory aggregates and their ledger entries.
// Optimistic concurrency uses the version column: a save whose WHERE clause
// matches zero rows means the in-memory copy was stale.
type PostgresRepository struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		tracer: otel.Tracer("partsledger/inventory"),
	}
}

func (r *PostgresRepository) Create(ctx context.Context, inv *Inventory) error {
	ctx, span := r.tracer.Start(ctx, "inventory.create",
		trace.WithAttributes(
			attribute.String("inventory.id", inv.ID.String()),
			attribute.String("inventory.warehouse", inv.Warehouse),
		),
	)
	defer span.End()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory (
			id, part_id, warehouse, bin_location,
			quantity_on_hand, quantity_reserved,
			minimum_stock_level, maximum_stock_level, reorder_quantity,
			is_active, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		inv.ID, inv.PartID, inv.Warehouse, inv.BinLocation,
		inv.QuantityOnHand, inv.QuantityReserved,
		inv.MinimumStockLevel, inv.MaximumStockLevel, inv.ReorderQuantity,
		inv.IsActive, inv.Version, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*Inventory, error) {
	ctx, span := r.tracer.Start(ctx, "inventory.get",
		trace.WithAttributes(attribute.String("inventory.id", id.String())),
	)
	defer span.End()

	inv := &Inventory{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, part_id, warehouse, bin_location,
		       quantity_on_hand, quantity_reserved,
		       minimum_stock_level, maximum_stock_level, reorder_quantity,
		       is_active, version, created_at, updated_at
		FROM inventory
		WHERE id = $1
	`, id).Scan(
		&inv.ID, &inv.PartID, &inv.Warehouse, &inv.BinLocation,
		&inv.QuantityOnHand, &inv.QuantityReserved,
		&inv.MinimumStockLevel, &inv.MaximumStockLevel, &inv.ReorderQuantity,
		&inv.IsActive, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	return inv, nil
}

// Save persists all aggregates and their pending ledger entries in one
// transaction. On success, each aggregate's version is advanced and its
// pending entries are cleared.
func (r *PostgresRepository) Save(ctx context.Context, invs ...*Inventory) error {
	entryCount := 0
	for _, inv := range invs {
		entryCount += len(inv.pending)
	}

	ctx, span := r.tracer.Start(ctx, "inventory.save",
		trace.WithAttributes(
			attribute.Int("aggregate.count", len(invs)),
			attribute.Int("ledger.entry.count", entryCount),
		),
	)
	defer span.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, inv := range invs {
		if err := r.saveOne(ctx, tx, inv); err != nil {
			if errors.Is(err, ErrConcurrencyConflict) {
				span.SetAttributes(attribute.Bool("conflict.detected", true))
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	for _, inv := range invs {
		inv.Version++
		inv.clearPending()
	}

	span.SetAttributes(attribute.Bool("save.success", true))
	return nil
}

func (r *PostgresRepository) saveOne(ctx context.Context, tx *sql.Tx, inv *Inventory) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE inventory
		SET bin_location = $1,
		    quantity_on_hand = $2,
		    quantity_reserved = $3,
		    minimum_stock_level = $4,
		    maximum_stock_level = $5,
		    reorder_quantity = $6,
		    is_active = $7,
		    version = version + 1,
		    updated_at = $8
		WHERE id = $9 AND version = $10
	`,
		inv.BinLocation,
		inv.QuantityOnHand, inv.QuantityReserved,
		inv.MinimumStockLevel, inv.MaximumStockLevel, inv.ReorderQuantity,
		inv.IsActive, inv.UpdatedAt,
		inv.ID, inv.Version,
	)
	if err != nil {
		return fmt.Errorf("update inventory %s: %w", inv.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrConcurrencyConflict
	}

	for _, entry := range inv.pending {
		workOrderID := uuid.NullUUID{UUID: entry.WorkOrderID, Valid: entry.WorkOrderID != uuid.Nil}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_ledger (
				transaction_id, inventory_id, type, quantity,
				work_order_id, reference_number, notes,
				transaction_date, transaction_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			entry.TransactionID, entry.InventoryID, entry.Type, entry.Quantity,
			workOrderID, entry.ReferenceNumber, entry.Notes,
			entry.TransactionDate, entry.TransactionBy,
		)
		if err != nil {
			// Unique violation means a concurrent writer got here first.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrConcurrencyConflict
			}
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}

	return nil
}

func (r *PostgresRepository) ListLedger(ctx context.Context, inventoryID uuid.UUID) ([]LedgerEntry, error) {
	ctx, span := r.tracer.Start(ctx, "inventory.list_ledger",
		trace.WithAttributes(attribute.String("inventory.id", inventoryID.String())),
	)
	defer span.End()

	rows, err := r.db.QueryContext(ctx, `
		SELECT transaction_id, inventory_id, type, quantity,
		       work_order_id, reference_number, notes,
		       transaction_date, transaction_by
		FROM inventory_ledger
		WHERE inventory_id = $1
		ORDER BY id ASC
	`, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var entry LedgerEntry
		var workOrderID uuid.NullUUID
		err := rows.Scan(
			&entry.TransactionID, &entry.InventoryID, &entry.Type, &entry.Quantity,
			&workOrderID, &entry.ReferenceNumber, &entry.Notes,
			&entry.TransactionDate, &entry.TransactionBy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if workOrderID.Valid {
			entry.WorkOrderID = workOrderID.UUID
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}

	span.SetAttributes(attribute.Int("entries.loaded", len(entries)))
	return entries, nil
}
