package client

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

// JobResultsClient implements dato.JobResultsClient.
type JobResultsClient struct {
	httpClient   *http.Client
	pollInterval time.Duration
	maxInterval  time.Duration
	pollTimeout  time.Duration
}

// NewJobResultsClient creates a new job results client.
func NewJobResultsClient(httpClient *http.Client) *JobResultsClient {
	return &JobResultsClient{
		httpClient:   httpClient,
		pollInterval: constants.DefaultPollInterval,
		maxInterval:  constants.MaxPollInterval,
		pollTimeout:  constants.DefaultJobPollTimeout,
	}
}

// Find implements dato.JobResultsClient.Find.
func (c *JobResultsClient) Find(ctx context.Context, id string) (*dato.JobResult, error) {
	if id == "" {
		return nil, fmt.Errorf("job result: %w", dato.ErrIDRequired)
	}

	resp, err := c.httpClient.Get(ctx, "/job-results/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("getting job result: %w", err)
	}

	return decodeResource[dato.JobResult](resp.Body, dato.TypeJobResult)
}

// Wait implements dato.JobResultsClient.Wait.
// The job result endpoint answers 404 until the job has finished.
func (c *JobResultsClient) Wait(ctx context.Context, id string) (*dato.JobResult, error) {
	pollCtx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	interval := c.pollInterval

	for {
		result, err := c.Find(pollCtx, id)
		if err == nil {
			return result, nil
		}

		if !dato.IsNotFound(err) {
			return nil, fmt.Errorf("waiting for job %s: %w", id, err)
		}

		timer := time.NewTimer(interval)

		select {
		case <-pollCtx.Done():
			timer.Stop()

			return nil, fmt.Errorf("timeout waiting for job %s: %w", id, pollCtx.Err())
		case <-timer.C:
		}

		interval = min(interval*2, c.maxInterval)
	}
}
