package client

import (
	"context"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const itemVersionsPath = "/versions"

// ItemVersionsClient implements dato.ItemVersionsClient.
type ItemVersionsClient struct {
	resource *resource[dato.ItemVersion]
	items    *resource[dato.Item]
}

// NewItemVersionsClient creates a new item versions client.
func NewItemVersionsClient(httpClient *http.Client, jobs *JobResultsClient) *ItemVersionsClient {
	return &ItemVersionsClient{
		resource: newResource[dato.ItemVersion](httpClient, jobs, itemVersionsPath, dato.TypeItemVersion, nil),
		items:    newResource[dato.Item](httpClient, jobs, itemVersionsPath, dato.TypeItem, nil),
	}
}

// Find implements dato.ItemVersionsClient.Find.
func (c *ItemVersionsClient) Find(ctx context.Context, id string) (*dato.ItemVersion, error) {
	return c.resource.find(ctx, id, nil)
}

// Restore implements dato.ItemVersionsClient.Restore. The job payload holds
// both the restored record and the new version; the record is returned.
func (c *ItemVersionsClient) Restore(ctx context.Context, id string) (*dato.Item, error) {
	err := c.items.requireID(id)
	if err != nil {
		return nil, err
	}

	return c.items.action(ctx, "restoring", &http.Request{
		Method: "POST",
		Path:   c.items.memberPath(id, "restore"),
	})
}
