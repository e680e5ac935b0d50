package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/internal/jsonapi"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const itemsPath = "/items"

// ItemsClient implements dato.ItemsClient.
type ItemsClient struct {
	httpClient *http.Client
	jobs       *JobResultsClient
	resource   *resource[dato.Item]
	versions   *resource[dato.ItemVersion]
}

// NewItemsClient creates a new items client.
func NewItemsClient(httpClient *http.Client, jobs *JobResultsClient) *ItemsClient {
	return &ItemsClient{
		httpClient: httpClient,
		jobs:       jobs,
		resource:   newResource[dato.Item](httpClient, jobs, itemsPath, dato.TypeItem, dato.ItemRelationships),
		versions:   newResource[dato.ItemVersion](httpClient, jobs, itemVersionsPath, dato.TypeItemVersion, nil),
	}
}

// List implements dato.ItemsClient.List.
func (c *ItemsClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.Item], error) {
	return c.resource.list(ctx, itemsPath, params)
}

// ListPagedIterator implements dato.ItemsClient.ListPagedIterator.
func (c *ItemsClient) ListPagedIterator(ctx context.Context, params *dato.QueryParams) *dato.PaginationIterator[dato.Item] {
	return c.resource.iterator(ctx, params)
}

// Find implements dato.ItemsClient.Find.
func (c *ItemsClient) Find(ctx context.Context, id string) (*dato.Item, error) {
	return c.resource.find(ctx, id, nil)
}

// FindWithParams implements dato.ItemsClient.FindWithParams.
// Only the version and nested parameters are meaningful for a single record.
func (c *ItemsClient) FindWithParams(ctx context.Context, id string, params *dato.QueryParams) (*dato.Item, error) {
	return c.resource.find(ctx, id, params)
}

// Create implements dato.ItemsClient.Create.
func (c *ItemsClient) Create(ctx context.Context, request *dato.ItemCreateRequest) (*dato.Item, error) {
	return c.resource.create(ctx, itemsPath, request)
}

// Update implements dato.ItemsClient.Update.
func (c *ItemsClient) Update(ctx context.Context, id string, request *dato.ItemUpdateRequest) (*dato.Item, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.ItemsClient.Destroy.
func (c *ItemsClient) Destroy(ctx context.Context, id string) (*dato.Item, error) {
	return c.resource.destroy(ctx, id)
}

// Duplicate implements dato.ItemsClient.Duplicate.
func (c *ItemsClient) Duplicate(ctx context.Context, id string) (*dato.Item, error) {
	err := c.resource.requireID(id)
	if err != nil {
		return nil, err
	}

	return c.resource.action(ctx, "duplicating", &http.Request{
		Method: "POST",
		Path:   c.resource.memberPath(id, "duplicate"),
	})
}

// Publish implements dato.ItemsClient.Publish.
func (c *ItemsClient) Publish(ctx context.Context, id string, request *dato.ItemPublishRequest) (*dato.Item, error) {
	err := c.resource.requireID(id)
	if err != nil {
		return nil, err
	}

	req := &http.Request{
		Method: "PUT",
		Path:   c.resource.memberPath(id, "publish"),
	}

	if request != nil {
		req.Body, err = jsonapi.Marshal(dato.TypeSelectiveItemPublication, "", request, nil)
		if err != nil {
			return nil, fmt.Errorf("encoding publication: %w", err)
		}
	}

	return c.resource.action(ctx, "publishing", req)
}

// Unpublish implements dato.ItemsClient.Unpublish.
func (c *ItemsClient) Unpublish(ctx context.Context, id string, request *dato.ItemUnpublishRequest) (*dato.Item, error) {
	err := c.resource.requireID(id)
	if err != nil {
		return nil, err
	}

	req := &http.Request{
		Method: "PUT",
		Path:   c.resource.memberPath(id, "unpublish"),
	}

	if request != nil {
		req.Body, err = jsonapi.Marshal(dato.TypeSelectiveItemUnpublish, "", request, nil)
		if err != nil {
			return nil, fmt.Errorf("encoding unpublication: %w", err)
		}
	}

	return c.resource.action(ctx, "unpublishing", req)
}

// BulkPublish implements dato.ItemsClient.BulkPublish.
func (c *ItemsClient) BulkPublish(ctx context.Context, ids []string) error {
	return bulk(ctx, c.httpClient, c.jobs, itemsPath+"/bulk/publish",
		dato.TypeItemBulkPublish, "items", dato.Refs(dato.TypeItem, ids...), nil)
}

// BulkUnpublish implements dato.ItemsClient.BulkUnpublish.
func (c *ItemsClient) BulkUnpublish(ctx context.Context, ids []string) error {
	return bulk(ctx, c.httpClient, c.jobs, itemsPath+"/bulk/unpublish",
		dato.TypeItemBulkUnpublish, "items", dato.Refs(dato.TypeItem, ids...), nil)
}

// BulkDestroy implements dato.ItemsClient.BulkDestroy.
func (c *ItemsClient) BulkDestroy(ctx context.Context, ids []string) error {
	return bulk(ctx, c.httpClient, c.jobs, itemsPath+"/bulk/destroy",
		dato.TypeItemBulkDestroy, "items", dato.Refs(dato.TypeItem, ids...), nil)
}

// BulkMoveToStage implements dato.ItemsClient.BulkMoveToStage.
func (c *ItemsClient) BulkMoveToStage(ctx context.Context, stage string, ids []string) error {
	return bulk(ctx, c.httpClient, c.jobs, itemsPath+"/bulk/move-to-stage",
		dato.TypeItemBulkMoveToStage, "items", dato.Refs(dato.TypeItem, ids...),
		map[string]interface{}{"stage": stage})
}

// ListVersions implements dato.ItemsClient.ListVersions.
func (c *ItemsClient) ListVersions(ctx context.Context, itemID string, params *dato.QueryParams) (*dato.ListResponse[dato.ItemVersion], error) {
	err := c.resource.requireID(itemID)
	if err != nil {
		return nil, err
	}

	return c.versions.list(ctx, c.resource.memberPath(itemID, "versions"), params)
}
