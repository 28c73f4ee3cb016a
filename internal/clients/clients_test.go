// internal/clients/clients_test.go
package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsledger/internal/catalog"
	"partsledger/internal/inventory"
	"partsledger/internal/technician"
)

func TestCatalogClient_GetPart(t *testing.T) {
	partID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parts/"+partID.String(), r.URL.Path)
		json.NewEncoder(w).Encode(catalog.Part{ID: partID, SKU: "BRK-PAD-220", Name: "Brake pad set"})
	}))
	defer server.Close()

	part, err := NewCatalogClient(server.URL).GetPart(context.Background(), partID)
	require.NoError(t, err)
	assert.Equal(t, "BRK-PAD-220", part.SKU)
}

func TestCatalogClient_GetPart_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such part", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewCatalogClient(server.URL).GetPart(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalog.ErrPartNotFound)
}

func TestTechnicianClient_GetTechnician_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such technician", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewTechnicianClient(server.URL).GetTechnician(context.Background(), uuid.New())
	assert.ErrorIs(t, err, technician.ErrTechnicianNotFound)
}

func TestInventoryClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, inventory.ErrInventoryNotFound},
		{"insufficient", http.StatusUnprocessableEntity, inventory.ErrInsufficientAvailable},
		{"conflict", http.StatusConflict, inventory.ErrConcurrencyConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, tt.name, tt.status)
			}))
			defer server.Close()

			client := NewInventoryClient(server.URL)
			_, err := client.ReserveParts(context.Background(), uuid.New(), 1, uuid.New(), "tech-jordan")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInventoryClient_MovementRoundTrip(t *testing.T) {
	locationID := uuid.New()
	workOrderID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/locations/"+locationID.String()+"/issue", r.URL.Path)

		var req struct {
			Quantity    int       `json:"quantity"`
			WorkOrderID uuid.UUID `json:"work_order_id"`
			Actor       string    `json:"actor"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.Quantity)
		assert.Equal(t, workOrderID, req.WorkOrderID)
		assert.Equal(t, "tech-jordan", req.Actor)

		json.NewEncoder(w).Encode(inventory.Inventory{ID: locationID, QuantityOnHand: 7})
	}))
	defer server.Close()

	inv, err := NewInventoryClient(server.URL).IssueParts(context.Background(), locationID, 3, workOrderID, "tech-jordan")
	require.NoError(t, err)
	assert.Equal(t, 7, inv.QuantityOnHand)
}
