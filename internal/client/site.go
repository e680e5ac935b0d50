package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/internal/jsonapi"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const sitePath = "/site"

// SiteClient implements dato.SiteClient.
type SiteClient struct {
	httpClient *http.Client
	jobs       *JobResultsClient
}

// NewSiteClient creates a new site client.
func NewSiteClient(httpClient *http.Client, jobs *JobResultsClient) *SiteClient {
	return &SiteClient{
		httpClient: httpClient,
		jobs:       jobs,
	}
}

// Find implements dato.SiteClient.Find.
func (c *SiteClient) Find(ctx context.Context) (*dato.Site, error) {
	resp, err := c.httpClient.Get(ctx, sitePath, nil)
	if err != nil {
		return nil, fmt.Errorf("getting site: %w", err)
	}

	return decodeResource[dato.Site](resp.Body, dato.TypeSite)
}

// Update implements dato.SiteClient.Update. Changing locales runs as a job.
func (c *SiteClient) Update(ctx context.Context, request *dato.SiteUpdateRequest) (*dato.Site, error) {
	body, err := jsonapi.Marshal(dato.TypeSite, "", request, nil)
	if err != nil {
		return nil, fmt.Errorf("encoding site: %w", err)
	}

	resp, err := c.httpClient.Put(ctx, sitePath, body)
	if err != nil {
		return nil, fmt.Errorf("updating site: %w", err)
	}

	payload, err := awaitJob(ctx, c.jobs, resp.Body)
	if err != nil {
		return nil, err
	}

	return decodeResource[dato.Site](payload, dato.TypeSite)
}
