package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

// FieldsClient implements dato.FieldsClient.
type FieldsClient struct {
	resource *resource[dato.Field]
}

// NewFieldsClient creates a new fields client.
func NewFieldsClient(httpClient *http.Client, jobs *JobResultsClient) *FieldsClient {
	return &FieldsClient{
		resource: newResource[dato.Field](httpClient, jobs, "/fields", dato.TypeField, dato.FieldRelationships),
	}
}

func itemTypeFieldsPath(itemTypeID string) string {
	return itemTypesPath + "/" + url.PathEscape(itemTypeID) + "/fields"
}

// List implements dato.FieldsClient.List.
func (c *FieldsClient) List(ctx context.Context, itemTypeID string) (*dato.ListResponse[dato.Field], error) {
	if itemTypeID == "" {
		return nil, fmt.Errorf("item type: %w", dato.ErrIDRequired)
	}

	return c.resource.list(ctx, itemTypeFieldsPath(itemTypeID), nil)
}

// Find implements dato.FieldsClient.Find.
func (c *FieldsClient) Find(ctx context.Context, id string) (*dato.Field, error) {
	return c.resource.find(ctx, id, nil)
}

// Create implements dato.FieldsClient.Create.
func (c *FieldsClient) Create(ctx context.Context, itemTypeID string, request *dato.FieldCreateRequest) (*dato.Field, error) {
	if itemTypeID == "" {
		return nil, fmt.Errorf("item type: %w", dato.ErrIDRequired)
	}

	return c.resource.create(ctx, itemTypeFieldsPath(itemTypeID), request)
}

// Update implements dato.FieldsClient.Update.
func (c *FieldsClient) Update(ctx context.Context, id string, request *dato.FieldUpdateRequest) (*dato.Field, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.FieldsClient.Destroy.
func (c *FieldsClient) Destroy(ctx context.Context, id string) (*dato.Field, error) {
	return c.resource.destroy(ctx, id)
}
