package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const uploadsPath = "/uploads"

// UploadsClient implements dato.UploadsClient.
type UploadsClient struct {
	httpClient     *http.Client
	jobs           *JobResultsClient
	resource       *resource[dato.Upload]
	uploadRequests *UploadRequestsClient
}

// NewUploadsClient creates a new uploads client.
func NewUploadsClient(httpClient *http.Client, jobs *JobResultsClient, uploadRequests *UploadRequestsClient) *UploadsClient {
	return &UploadsClient{
		httpClient:     httpClient,
		jobs:           jobs,
		resource:       newResource[dato.Upload](httpClient, jobs, uploadsPath, dato.TypeUpload, dato.UploadRelationships),
		uploadRequests: uploadRequests,
	}
}

// List implements dato.UploadsClient.List.
func (c *UploadsClient) List(ctx context.Context, params *dato.QueryParams) (*dato.ListResponse[dato.Upload], error) {
	return c.resource.list(ctx, uploadsPath, params)
}

// ListPagedIterator implements dato.UploadsClient.ListPagedIterator.
func (c *UploadsClient) ListPagedIterator(ctx context.Context, params *dato.QueryParams) *dato.PaginationIterator[dato.Upload] {
	return c.resource.iterator(ctx, params)
}

// Find implements dato.UploadsClient.Find.
func (c *UploadsClient) Find(ctx context.Context, id string) (*dato.Upload, error) {
	return c.resource.find(ctx, id, nil)
}

// Create implements dato.UploadsClient.Create. request.Path must point to a
// file already stored through an upload request.
func (c *UploadsClient) Create(ctx context.Context, request *dato.UploadCreateRequest) (*dato.Upload, error) {
	return c.resource.create(ctx, uploadsPath, request)
}

// Update implements dato.UploadsClient.Update.
func (c *UploadsClient) Update(ctx context.Context, id string, request *dato.UploadUpdateRequest) (*dato.Upload, error) {
	return c.resource.update(ctx, id, request)
}

// Destroy implements dato.UploadsClient.Destroy.
func (c *UploadsClient) Destroy(ctx context.Context, id string) (*dato.Upload, error) {
	return c.resource.destroy(ctx, id)
}

// BulkTag implements dato.UploadsClient.BulkTag.
func (c *UploadsClient) BulkTag(ctx context.Context, tags []string, ids []string) error {
	if len(tags) == 0 {
		return constants.ErrNoTagsGiven
	}

	return bulk(ctx, c.httpClient, c.jobs, uploadsPath+"/bulk/tag",
		dato.TypeUploadBulkTag, "uploads", dato.Refs(dato.TypeUpload, ids...),
		map[string]interface{}{"tags": tags})
}

// BulkDestroy implements dato.UploadsClient.BulkDestroy.
func (c *UploadsClient) BulkDestroy(ctx context.Context, ids []string) error {
	return bulk(ctx, c.httpClient, c.jobs, uploadsPath+"/bulk/destroy",
		dato.TypeUploadBulkDestroy, "uploads", dato.Refs(dato.TypeUpload, ids...), nil)
}

// CreateFromReader implements dato.UploadsClient.CreateFromReader.
func (c *UploadsClient) CreateFromReader(ctx context.Context, filename string, reader io.Reader, size int64, request *dato.UploadCreateRequest) (*dato.Upload, error) {
	uploadRequest, err := c.uploadRequests.Create(ctx, &dato.UploadRequestCreateRequest{Filename: filename})
	if err != nil {
		return nil, err
	}

	_, err = c.httpClient.Do(ctx, &http.Request{
		Method:        "PUT",
		Path:          uploadRequest.URL,
		RawBody:       reader,
		ContentLength: size,
		Headers:       uploadRequest.RequestHeaders,
		SkipAuth:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("storing %s: %w", filename, err)
	}

	create := dato.UploadCreateRequest{}
	if request != nil {
		create = *request
	}

	create.Path = uploadRequest.ID

	return c.Create(ctx, &create)
}

// CreateFromFile implements dato.UploadsClient.CreateFromFile.
func (c *UploadsClient) CreateFromFile(ctx context.Context, path string, request *dato.UploadCreateRequest) (*dato.Upload, error) {
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", cleanPath, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", constants.ErrNotRegularFile, cleanPath)
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cleanPath, err)
	}

	defer func() { _ = file.Close() }()

	return c.CreateFromReader(ctx, filepath.Base(cleanPath), file, info.Size(), request)
}
