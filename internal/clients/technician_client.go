// internal/clients/technician_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"partsledger/internal/technician"
)

type TechnicianClient struct {
	baseURL string
	client  *http.Client
}

func NewTechnicianClient(baseURL string) *TechnicianClient {
	return &TechnicianClient{baseURL: baseURL, client: http.DefaultClient}
}

// GetTechnician fetches one technician record.
func (c *TechnicianClient) GetTechnician(ctx context.Context, id uuid.UUID) (*technician.Technician, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/technicians/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, technician.ErrTechnicianNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("technician service returned status %d", resp.StatusCode)
	}

	var tech technician.Technician
	if err := json.NewDecoder(resp.Body).Decode(&tech); err != nil {
		return nil, err
	}
	return &tech, nil
}
