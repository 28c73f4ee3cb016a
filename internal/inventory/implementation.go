// internal/inventory/implementation.go
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"partsledger/internal/dispatch"
)

// service implements the Service interface.
type service struct {
	repo        Repository
	coordinator *Coordinator
	logger      *zap.Logger
}

// NewService creates a new inventory service instance.
func NewService(repo Repository, coordinator *Coordinator, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		coordinator: coordinator,
		logger:      logger,
	}
}

func (s *service) CreateLocation(ctx context.Context, partID uuid.UUID, warehouse, binLocation string, minLevel, maxLevel, reorderQuantity int) (*Inventory, error) {
	inv, err := NewInventory(partID, warehouse, binLocation, minLevel, maxLevel, reorderQuantity)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create inventory location: %w", err)
	}

	s.logger.Info("inventory location created",
		zap.String("inventory_id", inv.ID.String()),
		zap.String("part_id", partID.String()),
		zap.String("warehouse", warehouse),
	)
	return inv, nil
}

func (s *service) GetLocation(ctx context.Context, id uuid.UUID) (*Inventory, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) Ledger(ctx context.Context, id uuid.UUID) ([]LedgerEntry, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListLedger(ctx, id)
}

// mutate loads the aggregate, applies one command, and commits the result.
// Command errors abort before anything is persisted; persistence errors
// (including ErrConcurrencyConflict) abort before anything is dispatched.
func (s *service) mutate(ctx context.Context, id uuid.UUID, command func(*Inventory) ([]dispatch.Event, error)) (*Inventory, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	events, err := command(inv)
	if err != nil {
		return nil, err
	}

	if err := s.coordinator.Commit(ctx, Change{Inventory: inv, Events: events}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *service) ReserveParts(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*Inventory, error) {
	return s.mutate(ctx, id, func(inv *Inventory) ([]dispatch.Event, error) {
		return inv.Reserve(quantity, workOrderID, actor)
	})
}

func (s *service) ReleaseReservation(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*Inventory, error) {
	return s.mutate(ctx, id, func(inv *Inventory) ([]dispatch.Event, error) {
		return inv.ReleaseReservation(quantity, workOrderID, actor)
	})
}

func (s *service) IssueParts(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*Inventory, error) {
	return s.mutate(ctx, id, func(inv *Inventory) ([]dispatch.Event, error) {
		return inv.Issue(quantity, workOrderID, actor)
	})
}

func (s *service) ReceiveParts(ctx context.Context, id uuid.UUID, quantity int, actor, referenceNumber string) (*Inventory, error) {
	return s.mutate(ctx, id, func(inv *Inventory) ([]dispatch.Event, error) {
		return inv.Receive(quantity, actor, referenceNumber)
	})
}

func (s *service) AdjustQuantity(ctx context.Context, id uuid.UUID, newQuantity int, reason, actor string) (*Inventory, error) {
	return s.mutate(ctx, id, func(inv *Inventory) ([]dispatch.Event, error) {
		return inv.AdjustQuantity(newQuantity, reason, actor)
	})
}

func (s *service) UpdateStockLevels(ctx context.Context, id uuid.UUID, minLevel, maxLevel, reorderQuantity int) (*Inventory, error) {
	return s.mutate(ctx, id, func(inv *Inventory) ([]dispatch.Event, error) {
		return nil, inv.UpdateStockLevels(minLevel, maxLevel, reorderQuantity)
	})
}

func (s *service) MoveToBinLocation(ctx context.Context, id uuid.UUID, newBin string) (*Inventory, error) {
	return s.mutate(ctx, id, func(inv *Inventory) ([]dispatch.Event, error) {
		return nil, inv.MoveToBinLocation(newBin)
	})
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*Inventory, error) {
	return s.mutate(ctx, id, func(inv *Inventory) ([]dispatch.Event, error) {
		return nil, inv.Deactivate()
	})
}
