// internal/workorder/postgres.go
package workorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresRepository stores work orders in PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, order *WorkOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO work_orders (id, customer_name, customer_contact, technician_id, status, description, opened_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, order.ID, order.CustomerName, order.CustomerContact, order.TechnicianID, order.Status, order.Description, order.OpenedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO work_order_lines (work_order_id, inventory_id, quantity)
			VALUES ($1, $2, $3)
		`, order.ID, line.InventoryID, line.Quantity)
		if err != nil {
			return fmt.Errorf("insert work order line: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	order := &WorkOrder{}
	var contact, description sql.NullString
	var closedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_contact, technician_id, status, description, opened_at, updated_at, closed_at
		FROM work_orders WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerName, &contact, &order.TechnicianID,
		&order.Status, &description, &order.OpenedAt, &order.UpdatedAt, &closedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query work order: %w", err)
	}
	order.CustomerContact = contact.String
	order.Description = description.String
	if closedAt.Valid {
		order.ClosedAt = &closedAt.Time
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT inventory_id, quantity
		FROM work_order_lines
		WHERE work_order_id = $1
		ORDER BY inventory_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query work order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line PartLine
		if err := rows.Scan(&line.InventoryID, &line.Quantity); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	return order, rows.Err()
}

func (r *PostgresRepository) Close(ctx context.Context, id uuid.UUID, status string, closedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE work_orders
		SET status = $1, closed_at = $2, updated_at = $2
		WHERE id = $3
	`, status, closedAt, id)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrWorkOrderNotFound
	}
	return nil
}
