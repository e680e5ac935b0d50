package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const dashboardSitesPath = "/sites"

// AccountClient implements dato.AccountClient.
type AccountClient struct {
	httpClient *http.Client
}

// NewAccountClient creates a new account client.
func NewAccountClient(httpClient *http.Client) *AccountClient {
	return &AccountClient{httpClient: httpClient}
}

// Find implements dato.AccountClient.Find.
func (c *AccountClient) Find(ctx context.Context) (*dato.Account, error) {
	resp, err := c.httpClient.Get(ctx, "/account", nil)
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	return decodeResource[dato.Account](resp.Body, dato.TypeAccount)
}

// DashboardSitesClient implements dato.DashboardSitesClient.
type DashboardSitesClient struct {
	resource *resource[dato.DashboardSite]
}

// NewDashboardSitesClient creates a new dashboard sites client.
func NewDashboardSitesClient(httpClient *http.Client) *DashboardSitesClient {
	return &DashboardSitesClient{
		resource: newResource[dato.DashboardSite](httpClient, nil, dashboardSitesPath, dato.TypeSite, nil),
	}
}

// List implements dato.DashboardSitesClient.List.
func (c *DashboardSitesClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.DashboardSite], error) {
	return c.resource.list(ctx, dashboardSitesPath, params)
}

// Find implements dato.DashboardSitesClient.Find.
func (c *DashboardSitesClient) Find(ctx context.Context, id string) (*dato.DashboardSite, error) {
	return c.resource.find(ctx, id, nil)
}

// Create implements dato.DashboardSitesClient.Create.
func (c *DashboardSitesClient) Create(ctx context.Context, request *dato.DashboardSiteCreateRequest) (*dato.DashboardSite, error) {
	return c.resource.create(ctx, dashboardSitesPath, request)
}

// Update implements dato.DashboardSitesClient.Update.
func (c *DashboardSitesClient) Update(ctx context.Context, id string, request *dato.DashboardSiteUpdateRequest) (*dato.DashboardSite, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.DashboardSitesClient.Destroy.
func (c *DashboardSitesClient) Destroy(ctx context.Context, id string) (*dato.DashboardSite, error) {
	return c.resource.destroy(ctx, id)
}
