// internal/catalog/implementation.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// service implements the Service interface.
type service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService creates a new catalog service instance.
func NewService(db *sql.DB, logger *zap.Logger) Service {
	return &service{db: db, logger: logger}
}

// AddPart creates a new part in the catalog.
func (s *service) AddPart(ctx context.Context, sku, name, description, manufacturer string, cost, price decimal.Decimal, leadTimeDays int) (*Part, error) {
	if sku == "" || name == "" {
		return nil, errors.New("sku and name are required")
	}
	if cost.IsNegative() || price.IsNegative() {
		return nil, errors.New("cost and price must be non-negative")
	}
	if leadTimeDays < 0 {
		return nil, errors.New("lead time must be non-negative")
	}

	now := time.Now().UTC()
	part := &Part{
		ID:           uuid.New(),
		SKU:          sku,
		Name:         name,
		Description:  description,
		Manufacturer: manufacturer,
		Cost:         cost,
		Price:        price,
		LeadTimeDays: leadTimeDays,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parts (id, sku, name, description, manufacturer, cost, price, lead_time_days, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, part.ID, part.SKU, part.Name, part.Description, part.Manufacturer,
		part.Cost, part.Price, part.LeadTimeDays, part.Active, part.CreatedAt, part.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert part: %w", err)
	}

	s.logger.Info("part added", zap.String("part_id", part.ID.String()), zap.String("sku", sku))
	return part, nil
}

// GetPart retrieves a part from the catalog by its ID.
func (s *service) GetPart(ctx context.Context, id uuid.UUID) (*Part, error) {
	part := &Part{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sku, name, description, manufacturer, cost, price, lead_time_days, active, created_at, updated_at
		FROM parts
		WHERE id = $1
	`, id).Scan(
		&part.ID, &part.SKU, &part.Name, &part.Description, &part.Manufacturer,
		&part.Cost, &part.Price, &part.LeadTimeDays, &part.Active, &part.CreatedAt, &part.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query part: %w", err)
	}
	return part, nil
}

// UpdatePricing replaces a part's cost, price, and lead time.
func (s *service) UpdatePricing(ctx context.Context, id uuid.UUID, cost, price decimal.Decimal, leadTimeDays int) error {
	if cost.IsNegative() || price.IsNegative() || leadTimeDays < 0 {
		return errors.New("cost, price, and lead time must be non-negative")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE parts
		SET cost = $1, price = $2, lead_time_days = $3, updated_at = NOW()
		WHERE id = $4
	`, cost, price, leadTimeDays, id)
	if err != nil {
		return fmt.Errorf("update pricing: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrPartNotFound
	}
	return nil
}

// RetirePart marks a part as no longer orderable. Existing stock remains
// issuable through the inventory ledger.
func (s *service) RetirePart(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE parts
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("retire part: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrPartNotFound
	}
	return nil
}

// Search finds parts by name or SKU.
func (s *service) Search(ctx context.Context, query string) ([]*Part, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sku, name, description, manufacturer, cost, price, lead_time_days, active, created_at, updated_at
		FROM parts
		WHERE sku ILIKE '%' || $1 || '%'
		   OR to_tsvector('english', name) @@ plainto_tsquery('english', $1)
		LIMIT 25
	`, query)
	if err != nil {
		return nil, fmt.Errorf("search parts: %w", err)
	}
	defer rows.Close()

	var parts []*Part
	for rows.Next() {
		part := &Part{}
		if err := rows.Scan(
			&part.ID, &part.SKU, &part.Name, &part.Description, &part.Manufacturer,
			&part.Cost, &part.Price, &part.LeadTimeDays, &part.Active, &part.CreatedAt, &part.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		parts = append(parts, part)
	}
	return parts, rows.Err()
}
