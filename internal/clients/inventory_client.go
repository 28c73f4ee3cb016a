// internal/clients/inventory_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"partsledger/internal/inventory"
)

type InventoryClient struct {
	baseURL string
	client  *http.Client
}

func NewInventoryClient(baseURL string) *InventoryClient {
	return &InventoryClient{baseURL: baseURL, client: http.DefaultClient}
}

type movementRequest struct {
	Quantity    int       `json:"quantity"`
	WorkOrderID uuid.UUID `json:"work_order_id"`
	Actor       string    `json:"actor"`
}

// GetLocation fetches one inventory location.
func (c *InventoryClient) GetLocation(ctx context.Context, id uuid.UUID) (*inventory.Inventory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/locations/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, inventory.ErrInventoryNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory service returned status %d", resp.StatusCode)
	}

	var inv inventory.Inventory
	if err := json.NewDecoder(resp.Body).Decode(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ReserveParts earmarks stock at a location for a work order.
func (c *InventoryClient) ReserveParts(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*inventory.Inventory, error) {
	return c.movement(ctx, id, "reserve", quantity, workOrderID, actor)
}

// ReleaseReservation returns previously reserved stock to the available pool.
func (c *InventoryClient) ReleaseReservation(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*inventory.Inventory, error) {
	return c.movement(ctx, id, "release", quantity, workOrderID, actor)
}

// IssueParts consumes a reservation, removing stock from the location.
func (c *InventoryClient) IssueParts(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*inventory.Inventory, error) {
	return c.movement(ctx, id, "issue", quantity, workOrderID, actor)
}

func (c *InventoryClient) movement(ctx context.Context, id uuid.UUID, op string, quantity int, workOrderID uuid.UUID, actor string) (*inventory.Inventory, error) {
	body, err := json.Marshal(movementRequest{Quantity: quantity, WorkOrderID: workOrderID, Actor: actor})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/locations/%s/%s", c.baseURL, id, op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, inventory.ErrInventoryNotFound
	case http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%s rejected: %w", op, inventory.ErrInsufficientAvailable)
	case http.StatusConflict:
		return nil, inventory.ErrConcurrencyConflict
	default:
		return nil, fmt.Errorf("inventory service returned status %d for %s", resp.StatusCode, op)
	}

	var inv inventory.Inventory
	if err := json.NewDecoder(resp.Body).Decode(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
