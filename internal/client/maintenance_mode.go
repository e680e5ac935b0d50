package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const maintenanceModePath = "/maintenance-mode"

// MaintenanceModeClient implements dato.MaintenanceModeClient.
type MaintenanceModeClient struct {
	httpClient *http.Client
}

// NewMaintenanceModeClient creates a new maintenance mode client.
func NewMaintenanceModeClient(httpClient *http.Client) *MaintenanceModeClient {
	return &MaintenanceModeClient{httpClient: httpClient}
}

// Find implements dato.MaintenanceModeClient.Find.
func (c *MaintenanceModeClient) Find(ctx context.Context) (*dato.MaintenanceMode, error) {
	resp, err := c.httpClient.Get(ctx, maintenanceModePath, nil)
	if err != nil {
		return nil, fmt.Errorf("getting maintenance mode: %w", err)
	}

	return decodeResource[dato.MaintenanceMode](resp.Body, dato.TypeMaintenanceMode)
}

// Activate implements dato.MaintenanceModeClient.Activate. Without force the
// API refuses while collaborators are editing.
func (c *MaintenanceModeClient) Activate(ctx context.Context, force bool) (*dato.MaintenanceMode, error) {
	var query url.Values
	if force {
		query = url.Values{"force": []string{strconv.FormatBool(force)}}
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "PUT",
		Path:   maintenanceModePath + "/activate",
		Query:  query,
	})
	if err != nil {
		return nil, fmt.Errorf("activating maintenance mode: %w", err)
	}

	return decodeResource[dato.MaintenanceMode](resp.Body, dato.TypeMaintenanceMode)
}

// Deactivate implements dato.MaintenanceModeClient.Deactivate.
func (c *MaintenanceModeClient) Deactivate(ctx context.Context) (*dato.MaintenanceMode, error) {
	resp, err := c.httpClient.Put(ctx, maintenanceModePath+"/deactivate", nil)
	if err != nil {
		return nil, fmt.Errorf("deactivating maintenance mode: %w", err)
	}

	return decodeResource[dato.MaintenanceMode](resp.Body, dato.TypeMaintenanceMode)
}
