// internal/clients/catalog_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"partsledger/internal/catalog"
)

type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{baseURL: baseURL, client: http.DefaultClient}
}

// GetPart fetches one part's reference data (cost, price, lead time).
func (c *CatalogClient) GetPart(ctx context.Context, id uuid.UUID) (*catalog.Part, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/parts/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, catalog.ErrPartNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var part catalog.Part
	if err := json.NewDecoder(resp.Body).Decode(&part); err != nil {
		return nil, err
	}
	return &part, nil
}
