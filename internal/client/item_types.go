package client

import (
	"context"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const itemTypesPath = "/item-types"

// ItemTypesClient implements dato.ItemTypesClient.
type ItemTypesClient struct {
	resource *resource[dato.ItemType]
}

// NewItemTypesClient creates a new item types client.
func NewItemTypesClient(httpClient *http.Client, jobs *JobResultsClient) *ItemTypesClient {
	return &ItemTypesClient{
		resource: newResource[dato.ItemType](httpClient, jobs, itemTypesPath, dato.TypeItemType, dato.ItemTypeRelationships),
	}
}

// List implements dato.ItemTypesClient.List.
func (c *ItemTypesClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.ItemType], error) {
	return c.resource.list(ctx, itemTypesPath, params)
}

// ListPagedIterator implements dato.ItemTypesClient.ListPagedIterator.
func (c *ItemTypesClient) ListPagedIterator(ctx context.Context, params *dato.QueryParams) *dato.PaginationIterator[dato.ItemType] {
	return c.resource.iterator(ctx, params)
}

// Find implements dato.ItemTypesClient.Find.
func (c *ItemTypesClient) Find(ctx context.Context, id string) (*dato.ItemType, error) {
	return c.resource.find(ctx, id, nil)
}

// Create implements dato.ItemTypesClient.Create.
func (c *ItemTypesClient) Create(ctx context.Context, request *dato.ItemTypeCreateRequest) (*dato.ItemType, error) {
	return c.resource.create(ctx, itemTypesPath, request)
}

// Update implements dato.ItemTypesClient.Update.
func (c *ItemTypesClient) Update(ctx context.Context, id string, request *dato.ItemTypeUpdateRequest) (*dato.ItemType, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.ItemTypesClient.Destroy.
func (c *ItemTypesClient) Destroy(ctx context.Context, id string) (*dato.ItemType, error) {
	return c.resource.destroy(ctx, id)
}
