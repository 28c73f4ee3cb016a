// internal/workorder/implementation.go
package workorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"partsledger/internal/technician"
)

type service struct {
	repo        Repository
	stock       StockMover
	technicians TechnicianDirectory
	idempotency IdempotencyStore
	logger      *zap.Logger
}

// NewService creates a new work order service instance.
func NewService(repo Repository, stock StockMover, technicians TechnicianDirectory, idempotency IdempotencyStore, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		stock:       stock,
		technicians: technicians,
		idempotency: idempotency,
		logger:      logger,
	}
}

// OpenWorkOrder orchestrates the opening saga: claim the idempotency key,
// validate the technician, reserve every part line, then persist. Any
// failure after a reservation succeeds releases what was already reserved.
func (s *service) OpenWorkOrder(ctx context.Context, req OpenRequest) (*WorkOrder, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoPartLines
	}
	if req.CustomerName == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("part line quantity must be positive")
		}
	}

	if req.RequestID != "" {
		claimed, err := s.idempotency.Claim(ctx, req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to check request id: %w", err)
		}
		if !claimed {
			return nil, ErrDuplicateRequest
		}
	}

	tech, err := s.technicians.GetTechnician(ctx, req.TechnicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	if tech.Status != technician.StatusActive {
		return nil, ErrTechnicianInactive
	}

	workOrderID := uuid.New()
	actor := tech.Name

	// Reserve line by line, remembering how far we got so a later failure
	// can release exactly the reservations already made.
	var reserved []PartLine
	compensate := func() {
		for _, line := range reserved {
			if _, err := s.stock.ReleaseReservation(ctx, line.InventoryID, line.Quantity, workOrderID, actor); err != nil {
				s.logger.Error("failed to release reservation during compensation",
					zap.String("work_order_id", workOrderID.String()),
					zap.String("inventory_id", line.InventoryID.String()),
					zap.Int("quantity", line.Quantity),
					zap.Error(err))
			}
		}
	}

	for _, line := range req.Lines {
		if _, err := s.stock.ReserveParts(ctx, line.InventoryID, line.Quantity, workOrderID, actor); err != nil {
			compensate()
			return nil, fmt.Errorf("failed to reserve parts: %w", err)
		}
		reserved = append(reserved, line)
	}

	now := time.Now().UTC()
	order := &WorkOrder{
		ID:              workOrderID,
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		TechnicianID:    req.TechnicianID,
		Status:          StatusOpen,
		Description:     req.Description,
		Lines:           req.Lines,
		OpenedAt:        now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		compensate()
		return nil, fmt.Errorf("failed to persist work order: %w", err)
	}

	s.logger.Info("work order opened",
		zap.String("work_order_id", workOrderID.String()),
		zap.String("technician_id", req.TechnicianID.String()),
		zap.Int("lines", len(req.Lines)))
	return order, nil
}

// GetWorkOrder returns one work order with its part lines.
func (s *service) GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	return s.repo.Get(ctx, id)
}

// CompleteWorkOrder issues every reserved line, then closes the order.
// A failed issue aborts the completion; lines issued before the failure
// stay issued and the order stays open so the completion can be retried
// for the remaining lines once the cause is fixed.
func (s *service) CompleteWorkOrder(ctx context.Context, id uuid.UUID, actor string) (*WorkOrder, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusOpen {
		return nil, ErrNotOpen
	}

	for _, line := range order.Lines {
		if _, err := s.stock.IssueParts(ctx, line.InventoryID, line.Quantity, order.ID, actor); err != nil {
			s.logger.Error("failed to issue parts during completion",
				zap.String("work_order_id", order.ID.String()),
				zap.String("inventory_id", line.InventoryID.String()),
				zap.Error(err))
			return nil, fmt.Errorf("failed to issue parts: %w", err)
		}
	}

	return s.close(ctx, order, StatusCompleted)
}

// CancelWorkOrder releases every reserved line, then closes the order. A
// failed release is logged and the remaining lines are still attempted, but
// the order is only closed when all succeed.
func (s *service) CancelWorkOrder(ctx context.Context, id uuid.UUID, actor string) (*WorkOrder, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusOpen {
		return nil, ErrNotOpen
	}

	var releaseErr error
	for _, line := range order.Lines {
		if _, err := s.stock.ReleaseReservation(ctx, line.InventoryID, line.Quantity, order.ID, actor); err != nil {
			s.logger.Error("failed to release reservation during cancellation",
				zap.String("work_order_id", order.ID.String()),
				zap.String("inventory_id", line.InventoryID.String()),
				zap.Error(err))
			if releaseErr == nil {
				releaseErr = err
			}
		}
	}
	if releaseErr != nil {
		return nil, fmt.Errorf("failed to release reservations: %w", releaseErr)
	}

	return s.close(ctx, order, StatusCancelled)
}

func (s *service) close(ctx context.Context, order *WorkOrder, status string) (*WorkOrder, error) {
	now := time.Now().UTC()
	if err := s.repo.Close(ctx, order.ID, status, now); err != nil {
		return nil, fmt.Errorf("failed to close work order: %w", err)
	}

	order.Status = status
	order.ClosedAt = &now
	order.UpdatedAt = now

	s.logger.Info("work order closed",
		zap.String("work_order_id", order.ID.String()),
		zap.String("status", status))
	return order, nil
}
