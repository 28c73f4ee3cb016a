// internal/technician/domain.go
package technician

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTechnicianNotFound = errors.New("technician not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// Availability states a technician can be in.
const (
	StatusActive     = "active"
	StatusOnLeave    = "on_leave"
	StatusTerminated = "terminated"
)

// Technician is a repair-shop employee who performs work orders. Ledger
// entries record the technician's ID as the acting party.
type Technician struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credential holds a technician's login secret, stored as a salted hash.
type Credential struct {
	TechnicianID uuid.UUID `json:"technician_id"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
}
