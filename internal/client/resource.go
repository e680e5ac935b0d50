package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/internal/jsonapi"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

// resource is the generic CRUD core shared by the resource clients. Payloads
// go through the jsonapi codec; 202 job responses are awaited transparently.
type resource[T any] struct {
	httpClient    *http.Client
	jobs          *JobResultsClient
	basePath      string
	resourceType  string
	relationships []string
}

func newResource[T any](httpClient *http.Client, jobs *JobResultsClient, basePath, resourceType string, relationships []string) *resource[T] {
	return &resource[T]{
		httpClient:    httpClient,
		jobs:          jobs,
		basePath:      basePath,
		resourceType:  resourceType,
		relationships: relationships,
	}
}

func (r *resource[T]) memberPath(id string, action ...string) string {
	path := r.basePath + "/" + url.PathEscape(id)
	if len(action) > 0 {
		path += "/" + strings.Join(action, "/")
	}

	return path
}

func (r *resource[T]) requireID(id string) error {
	if id == "" {
		return fmt.Errorf("%s: %w", r.resourceType, dato.ErrIDRequired)
	}

	return nil
}

func (r *resource[T]) find(ctx context.Context, id string, params *dato.QueryParams) (*T, error) {
	err := r.requireID(id)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Get(ctx, r.memberPath(id), toQuery(params))
	if err != nil {
		return nil, fmt.Errorf("finding %s %s: %w", r.resourceType, id, err)
	}

	return r.decode(ctx, resp)
}

func (r *resource[T]) list(ctx context.Context, path string, params *dato.QueryParams) (*dato.ListResponse[T], error) {
	resp, err := r.httpClient.Get(ctx, path, toQuery(params))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.resourceType, err)
	}

	return decodeList[T](resp.Body)
}

func (r *resource[T]) iterator(ctx context.Context, params *dato.QueryParams) *dato.PaginationIterator[T] {
	return dato.NewPaginationIterator(ctx, func(ctx context.Context, page *dato.QueryParams) (*dato.ListResponse[T], error) {
		return r.list(ctx, r.basePath, page)
	}, params)
}

func (r *resource[T]) create(ctx context.Context, path string, request interface{}) (*T, error) {
	body, err := jsonapi.Marshal(r.resourceType, "", request, r.relationships)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", r.resourceType, err)
	}

	resp, err := r.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", r.resourceType, err)
	}

	return r.decode(ctx, resp)
}

func (r *resource[T]) update(ctx context.Context, id string, request interface{}) (*T, error) {
	err := r.requireID(id)
	if err != nil {
		return nil, err
	}

	body, err := jsonapi.Marshal(r.resourceType, id, request, r.relationships)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", r.resourceType, err)
	}

	resp, err := r.httpClient.Put(ctx, r.memberPath(id), body)
	if err != nil {
		return nil, fmt.Errorf("updating %s %s: %w", r.resourceType, id, err)
	}

	return r.decode(ctx, resp)
}

func (r *resource[T]) destroy(ctx context.Context, id string) (*T, error) {
	err := r.requireID(id)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Delete(ctx, r.memberPath(id))
	if err != nil {
		return nil, fmt.Errorf("destroying %s %s: %w", r.resourceType, id, err)
	}

	return r.decode(ctx, resp)
}

// action sends a request to a custom endpoint and decodes the resource it returns.
func (r *resource[T]) action(ctx context.Context, verb string, req *http.Request) (*T, error) {
	resp, err := r.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", verb, r.resourceType, err)
	}

	return r.decode(ctx, resp)
}

func (r *resource[T]) decode(ctx context.Context, resp *http.Response) (*T, error) {
	body, err := awaitJob(ctx, r.jobs, resp.Body)
	if err != nil {
		return nil, err
	}

	return decodeResource[T](body, r.resourceType)
}

// awaitJob waits for the job a 202 body refers to and returns the job payload,
// or returns body unchanged when it is not a job.
func awaitJob(ctx context.Context, jobs *JobResultsClient, body []byte) ([]byte, error) {
	resourceType, jobID, ok := jsonapi.ResourceTypeOf(body)
	if !ok || resourceType != constants.ResourceTypeJob {
		return body, nil
	}

	if jobs == nil {
		return nil, dato.ErrUnexpectedJobResponse
	}

	result, err := jobs.Wait(ctx, jobID)
	if err != nil {
		return nil, err
	}

	err = result.Err()
	if err != nil {
		return nil, fmt.Errorf("%w: job %s: %w", dato.ErrJobFailed, jobID, err)
	}

	return result.Payload, nil
}

func decodeResource[T any](body []byte, resourceType string) (*T, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, dato.ErrEmptyResponse
	}

	var value T

	var err error
	if resourceType == "" {
		err = jsonapi.Unmarshal(body, &value)
	} else {
		err = jsonapi.UnmarshalOfType(body, resourceType, &value)
	}

	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", resourceType, err)
	}

	return &value, nil
}

func decodeList[T any](body []byte) (*dato.ListResponse[T], error) {
	doc, err := jsonapi.ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	result := dato.ListResponse[T]{Data: []T{}}

	if !doc.IsNull() {
		err = doc.UnmarshalData(&result.Data)
		if err != nil {
			return nil, fmt.Errorf("parsing list response: %w", err)
		}
	}

	err = doc.UnmarshalMeta(&result.Meta)
	if err != nil {
		return nil, fmt.Errorf("parsing list meta: %w", err)
	}

	return &result, nil
}

// bulk posts a bulk operation over refs and waits for its job.
func bulk(ctx context.Context, httpClient *http.Client, jobs *JobResultsClient, path, operationType, relationship string, refs []dato.Ref, attributes map[string]interface{}) error {
	payload := make(map[string]interface{}, len(attributes)+1)
	for key, value := range attributes {
		payload[key] = value
	}

	payload[relationship] = refs

	body, err := jsonapi.Marshal(operationType, "", payload, []string{relationship})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", operationType, err)
	}

	resp, err := httpClient.Post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("running %s: %w", operationType, err)
	}

	_, err = awaitJob(ctx, jobs, resp.Body)

	return err
}

func toQuery(params *dato.QueryParams) url.Values {
	if params == nil {
		return nil
	}

	return params.ToValues()
}
