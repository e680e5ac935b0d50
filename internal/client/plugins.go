package client

import (
	"context"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const pluginsPath = "/plugins"

// PluginsClient implements dato.PluginsClient.
type PluginsClient struct {
	resource *resource[dato.Plugin]
}

// NewPluginsClient creates a new plugins client.
func NewPluginsClient(httpClient *http.Client) *PluginsClient {
	return &PluginsClient{
		resource: newResource[dato.Plugin](httpClient, nil, pluginsPath, dato.TypePlugin, nil),
	}
}

// List implements dato.PluginsClient.List.
func (c *PluginsClient) List(ctx context.Context) (*dato.ListResponse[dato.Plugin], error) {
	return c.resource.list(ctx, pluginsPath, nil)
}

// Find implements dato.PluginsClient.Find.
func (c *PluginsClient) Find(ctx context.Context, id string) (*dato.Plugin, error) {
	return c.resource.find(ctx, id, nil)
}

// Create implements dato.PluginsClient.Create.
func (c *PluginsClient) Create(ctx context.Context, request *dato.PluginCreateRequest) (*dato.Plugin, error) {
	return c.resource.create(ctx, pluginsPath, request)
}

// Update implements dato.PluginsClient.Update.
func (c *PluginsClient) Update(ctx context.Context, id string, request *dato.PluginUpdateRequest) (*dato.Plugin, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.PluginsClient.Destroy.
func (c *PluginsClient) Destroy(ctx context.Context, id string) (*dato.Plugin, error) {
	return c.resource.destroy(ctx, id)
}
