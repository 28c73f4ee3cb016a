// internal/technician/implementation.go
package technician

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// service implements the Service interface.
type service struct {
	db          *sql.DB
	logger      *zap.Logger
	rateLimiter *rate.Limiter
}

// NewService creates a new technician service instance. Registration and
// authentication share one limiter to slow down credential stuffing.
func NewService(db *sql.DB, logger *zap.Logger) Service {
	return &service{
		db:          db,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute), 10),
	}
}

// RegisterTechnician creates a new technician with hashed credentials.
func (s *service) RegisterTechnician(ctx context.Context, email, name, specialty, password string) (*Technician, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}
	if email == "" || name == "" {
		return nil, errors.New("email and name are required")
	}
	if len(password) < 10 {
		return nil, errors.New("password must be at least 10 characters")
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	tech := &Technician{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Specialty: specialty,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO technicians (id, email, name, specialty, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, tech.ID, tech.Email, tech.Name, tech.Specialty, tech.Status, tech.CreatedAt, tech.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert technician: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO technician_credentials (technician_id, password_hash, salt)
		VALUES ($1, $2, $3)
	`, tech.ID, passwordHash, salt)
	if err != nil {
		return nil, fmt.Errorf("insert credentials: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("technician registered", zap.String("technician_id", tech.ID.String()))
	return tech, nil
}

// Authenticate verifies a technician's credentials.
func (s *service) Authenticate(ctx context.Context, email, password string) (*Technician, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	tech, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrTechnicianNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	var credential Credential
	err = s.db.QueryRowContext(ctx, `
		SELECT technician_id, password_hash, salt
		FROM technician_credentials
		WHERE technician_id = $1
	`, tech.ID).Scan(&credential.TechnicianID, &credential.PasswordHash, &credential.Salt)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	ok, err := verifyPassword(password, credential.Salt, credential.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return tech, nil
}

func (s *service) getByEmail(ctx context.Context, email string) (*Technician, error) {
	tech := &Technician{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, specialty, status, created_at, updated_at
		FROM technicians
		WHERE email = $1
	`, email).Scan(&tech.ID, &tech.Email, &tech.Name, &tech.Specialty, &tech.Status, &tech.CreatedAt, &tech.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, err
	}
	return tech, nil
}

// GetTechnician retrieves a technician by ID.
func (s *service) GetTechnician(ctx context.Context, id uuid.UUID) (*Technician, error) {
	tech := &Technician{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, specialty, status, created_at, updated_at
		FROM technicians
		WHERE id = $1
	`, id).Scan(&tech.ID, &tech.Email, &tech.Name, &tech.Specialty, &tech.Status, &tech.CreatedAt, &tech.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query technician: %w", err)
	}
	return tech, nil
}

// SetStatus updates a technician's availability status.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case StatusActive, StatusOnLeave, StatusTerminated:
	default:
		return fmt.Errorf("unknown status %q", status)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE technicians
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrTechnicianNotFound
	}
	return nil
}
