package client

import (
	"context"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const rolesPath = "/roles"

// RolesClient implements dato.RolesClient.
type RolesClient struct {
	resource *resource[dato.Role]
}

// NewRolesClient creates a new roles client.
func NewRolesClient(httpClient *http.Client) *RolesClient {
	return &RolesClient{
		resource: newResource[dato.Role](httpClient, nil, rolesPath, dato.TypeRole, dato.RoleRelationships),
	}
}

// List implements dato.RolesClient.List.
func (c *RolesClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.Role], error) {
	return c.resource.list(ctx, rolesPath, params)
}

// Find implements dato.RolesClient.Find.
func (c *RolesClient) Find(ctx context.Context, id string) (*dato.Role, error) {
	return c.resource.find(ctx, id, nil)
}

// Create implements dato.RolesClient.Create.
func (c *RolesClient) Create(ctx context.Context, request *dato.RoleCreateRequest) (*dato.Role, error) {
	return c.resource.create(ctx, rolesPath, request)
}

// Update implements dato.RolesClient.Update.
func (c *RolesClient) Update(ctx context.Context, id string, request *dato.RoleUpdateRequest) (*dato.Role, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.RolesClient.Destroy.
func (c *RolesClient) Destroy(ctx context.Context, id string) (*dato.Role, error) {
	return c.resource.destroy(ctx, id)
}
