package client

import (
	"context"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const usersPath = "/users"

// UsersClient implements dato.UsersClient.
type UsersClient struct {
	resource *resource[dato.User]
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{
		resource: newResource[dato.User](httpClient, nil, usersPath, dato.TypeUser, dato.UserRelationships),
	}
}

// List implements dato.UsersClient.List.
func (c *UsersClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.User], error) {
	return c.resource.list(ctx, usersPath, params)
}

// Find implements dato.UsersClient.Find.
func (c *UsersClient) Find(ctx context.Context, id string) (*dato.User, error) {
	return c.resource.find(ctx, id, nil)
}

// Update implements dato.UsersClient.Update.
func (c *UsersClient) Update(ctx context.Context, id string, request *dato.UserUpdateRequest) (*dato.User, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.UsersClient.Destroy.
func (c *UsersClient) Destroy(ctx context.Context, id string) (*dato.User, error) {
	return c.resource.destroy(ctx, id)
}
