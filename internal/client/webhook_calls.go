package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const webhookCallsPath = "/webhook_calls"

// WebhookCallsClient implements dato.WebhookCallsClient.
type WebhookCallsClient struct {
	httpClient *http.Client
	resource   *resource[dato.WebhookCall]
}

// NewWebhookCallsClient creates a new webhook calls client.
func NewWebhookCallsClient(httpClient *http.Client) *WebhookCallsClient {
	return &WebhookCallsClient{
		httpClient: httpClient,
		resource:   newResource[dato.WebhookCall](httpClient, nil, webhookCallsPath, dato.TypeWebhookCall, []string{"webhook"}),
	}
}

// List implements dato.WebhookCallsClient.List.
func (c *WebhookCallsClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.WebhookCall], error) {
	return c.resource.list(ctx, webhookCallsPath, params)
}

// ListPagedIterator implements dato.WebhookCallsClient.ListPagedIterator.
func (c *WebhookCallsClient) ListPagedIterator(ctx context.Context, params *dato.QueryParams) *dato.PaginationIterator[dato.WebhookCall] {
	return c.resource.iterator(ctx, params)
}

// Find implements dato.WebhookCallsClient.Find.
func (c *WebhookCallsClient) Find(ctx context.Context, id string) (*dato.WebhookCall, error) {
	return c.resource.find(ctx, id, nil)
}

// Resend implements dato.WebhookCallsClient.Resend.
func (c *WebhookCallsClient) Resend(ctx context.Context, id string) error {
	err := c.resource.requireID(id)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Post(ctx, c.resource.memberPath(id, "resend_webhook"), nil)
	if err != nil {
		return fmt.Errorf("resending webhook call %s: %w", id, err)
	}

	return nil
}
