package client

import (
	"context"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const webhooksPath = "/webhooks"

// WebhooksClient implements dato.WebhooksClient.
type WebhooksClient struct {
	resource *resource[dato.Webhook]
}

// NewWebhooksClient creates a new webhooks client.
func NewWebhooksClient(httpClient *http.Client) *WebhooksClient {
	return &WebhooksClient{
		resource: newResource[dato.Webhook](httpClient, nil, webhooksPath, dato.TypeWebhook, nil),
	}
}

// List implements dato.WebhooksClient.List.
func (c *WebhooksClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.Webhook], error) {
	return c.resource.list(ctx, webhooksPath, params)
}

// Find implements dato.WebhooksClient.Find.
func (c *WebhooksClient) Find(ctx context.Context, id string) (*dato.Webhook, error) {
	return c.resource.find(ctx, id, nil)
}

// Create implements dato.WebhooksClient.Create.
func (c *WebhooksClient) Create(ctx context.Context, request *dato.WebhookCreateRequest) (*dato.Webhook, error) {
	return c.resource.create(ctx, webhooksPath, request)
}

// Update implements dato.WebhooksClient.Update.
func (c *WebhooksClient) Update(ctx context.Context, id string, request *dato.WebhookUpdateRequest) (*dato.Webhook, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.WebhooksClient.Destroy.
func (c *WebhooksClient) Destroy(ctx context.Context, id string) (*dato.Webhook, error) {
	return c.resource.destroy(ctx, id)
}
