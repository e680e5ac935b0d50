package client

import (
	"context"

	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const uploadRequestsPath = "/upload-requests"

// UploadRequestsClient implements dato.UploadRequestsClient.
type UploadRequestsClient struct {
	resource *resource[dato.UploadRequest]
}

// NewUploadRequestsClient creates a new upload requests client.
func NewUploadRequestsClient(httpClient *http.Client) *UploadRequestsClient {
	return &UploadRequestsClient{
		resource: newResource[dato.UploadRequest](httpClient, nil, uploadRequestsPath, dato.TypeUploadRequest, nil),
	}
}

// Create implements dato.UploadRequestsClient.Create. The returned ID is the
// storage path to pass as UploadCreateRequest.Path once the file is stored.
func (c *UploadRequestsClient) Create(ctx context.Context, request *dato.UploadRequestCreateRequest) (*dato.UploadRequest, error) {
	return c.resource.create(ctx, uploadRequestsPath, request)
}
