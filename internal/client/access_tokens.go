package client

import (
	"context"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const accessTokensPath = "/access_tokens"

// AccessTokensClient implements dato.AccessTokensClient.
type AccessTokensClient struct {
	resource *resource[dato.AccessToken]
}

// NewAccessTokensClient creates a new access tokens client.
func NewAccessTokensClient(httpClient *http.Client) *AccessTokensClient {
	return &AccessTokensClient{
		resource: newResource[dato.AccessToken](httpClient, nil, accessTokensPath, dato.TypeAccessToken, dato.AccessTokenRelationships),
	}
}

// List implements dato.AccessTokensClient.List.
func (c *AccessTokensClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.AccessToken], error) {
	return c.resource.list(ctx, accessTokensPath, params)
}

// Find implements dato.AccessTokensClient.Find.
func (c *AccessTokensClient) Find(ctx context.Context, id string) (*dato.AccessToken, error) {
	return c.resource.find(ctx, id, nil)
}

// Create implements dato.AccessTokensClient.Create.
func (c *AccessTokensClient) Create(ctx context.Context, request *dato.AccessTokenCreateRequest) (*dato.AccessToken, error) {
	return c.resource.create(ctx, accessTokensPath, request)
}

// Update implements dato.AccessTokensClient.Update.
func (c *AccessTokensClient) Update(ctx context.Context, id string, request *dato.AccessTokenUpdateRequest) (*dato.AccessToken, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.AccessTokensClient.Destroy.
func (c *AccessTokensClient) Destroy(ctx context.Context, id string) (*dato.AccessToken, error) {
	return c.resource.destroy(ctx, id)
}

// Regenerate implements dato.AccessTokensClient.Regenerate.
func (c *AccessTokensClient) Regenerate(ctx context.Context, id string) (*dato.AccessToken, error) {
	err := c.resource.requireID(id)
	if err != nil {
		return nil, err
	}

	return c.resource.action(ctx, "regenerating", &http.Request{
		Method: "POST",
		Path:   c.resource.memberPath(id, "regenerate_token"),
	})
}
