package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/internal/jsonapi"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const environmentsPath = "/environments"

// EnvironmentsClient implements dato.EnvironmentsClient.
type EnvironmentsClient struct {
	resource *resource[dato.Environment]
}

// NewEnvironmentsClient creates a new environments client.
func NewEnvironmentsClient(httpClient *http.Client, jobs *JobResultsClient) *EnvironmentsClient {
	return &EnvironmentsClient{
		resource: newResource[dato.Environment](httpClient, jobs, environmentsPath, dato.TypeEnvironment, nil),
	}
}

// List implements dato.EnvironmentsClient.List.
func (c *EnvironmentsClient) List(ctx context.Context) (*dato.ListResponse[dato.Environment], error) {
	return c.resource.list(ctx, environmentsPath, nil)
}

// Find implements dato.EnvironmentsClient.Find.
func (c *EnvironmentsClient) Find(ctx context.Context, id string) (*dato.Environment, error) {
	return c.resource.find(ctx, id, nil)
}

// Fork implements dato.EnvironmentsClient.Fork. Unless ImmediateReturn is set
// the call waits for the fork job and returns the ready environment.
func (c *EnvironmentsClient) Fork(ctx context.Context, sourceID, newID string, options *dato.EnvironmentForkOptions) (*dato.Environment, error) {
	err := c.resource.requireID(sourceID)
	if err != nil {
		return nil, err
	}

	err = c.resource.requireID(newID)
	if err != nil {
		return nil, err
	}

	body, err := jsonapi.Marshal(dato.TypeEnvironment, newID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("encoding environment: %w", err)
	}

	query := url.Values{}

	if options != nil {
		if options.ImmediateReturn {
			query.Set("immediate_return", strconv.FormatBool(true))
		}

		if options.Fast {
			query.Set("fast", strconv.FormatBool(true))
		}

		if options.Force {
			query.Set("force", strconv.FormatBool(true))
		}
	}

	return c.resource.action(ctx, "forking", &http.Request{
		Method: "POST",
		Path:   c.resource.memberPath(sourceID, "fork"),
		Query:  query,
		Body:   body,
	})
}

// Promote implements dato.EnvironmentsClient.Promote.
func (c *EnvironmentsClient) Promote(ctx context.Context, id string) (*dato.Environment, error) {
	err := c.resource.requireID(id)
	if err != nil {
		return nil, err
	}

	return c.resource.action(ctx, "promoting", &http.Request{
		Method: "PUT",
		Path:   c.resource.memberPath(id, "promote"),
	})
}

// Rename implements dato.EnvironmentsClient.Rename.
func (c *EnvironmentsClient) Rename(ctx context.Context, id, newID string) (*dato.Environment, error) {
	err := c.resource.requireID(id)
	if err != nil {
		return nil, err
	}

	err = c.resource.requireID(newID)
	if err != nil {
		return nil, err
	}

	body, err := jsonapi.Marshal(dato.TypeEnvironment, newID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("encoding environment: %w", err)
	}

	return c.resource.action(ctx, "renaming", &http.Request{
		Method: "PUT",
		Path:   c.resource.memberPath(id, "rename"),
		Body:   body,
	})
}

// Destroy implements dato.EnvironmentsClient.Destroy.
func (c *EnvironmentsClient) Destroy(ctx context.Context, id string) (*dato.Environment, error) {
	return c.resource.destroy(ctx, id)
}
