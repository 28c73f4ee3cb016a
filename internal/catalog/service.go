// internal/catalog/service.go
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines the interface for the part catalog service.
type Service interface {
	AddPart(ctx context.Context, sku, name, description, manufacturer string, cost, price decimal.Decimal, leadTimeDays int) (*Part, error)
	GetPart(ctx context.Context, id uuid.UUID) (*Part, error)
	UpdatePricing(ctx context.Context, id uuid.UUID, cost, price decimal.Decimal, leadTimeDays int) error
	RetirePart(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string) ([]*Part, error)
}
