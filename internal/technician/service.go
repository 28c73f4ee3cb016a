// internal/technician/service.go
package technician

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the technician service.
type Service interface {
	RegisterTechnician(ctx context.Context, email, name, specialty, password string) (*Technician, error)
	Authenticate(ctx context.Context, email, password string) (*Technician, error)
	GetTechnician(ctx context.Context, id uuid.UUID) (*Technician, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}
