package dato

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"golang.org/x/sync/errgroup"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType  = errors.New("unsupported resource type")
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrInvalidBatchData         = errors.New("invalid data type for batch operation")
	ErrTransactionFailed        = errors.New("transaction failed")
	ErrRollbackFailed           = errors.New("rollback failed")
)

// Batch resources.
const (
	BatchResourceItem    = "item"
	BatchResourceUpload  = "upload"
	BatchResourceWebhook = "webhook"
	BatchResourceRole    = "role"
)

// UpdateData pairs an id with an update request.
type UpdateData[T any] struct {
	ID      string
	Request *T
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // create, update, destroy, find, publish, unpublish
	Resource string // item, upload, webhook, role
	// Data is a create request, an *UpdateData[...] or a resource id, depending on Type.
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// resourceClientOps is the CRUD surface shared by the batchable resource clients.
type resourceClientOps[TCreate, TUpdate, TResource any] interface {
	Find(ctx context.Context, id string) (*TResource, error)
	Create(ctx context.Context, request *TCreate) (*TResource, error)
	Update(ctx context.Context, id string, request *TUpdate) (*TResource, error)
	Destroy(ctx context.Context, id string) (*TResource, error)
}

func runCRUD[TCreate, TUpdate, TResource any](
	ctx context.Context,
	operation BatchOperation,
	client resourceClientOps[TCreate, TUpdate, TResource],
) (interface{}, error) {
	switch operation.Type {
	case constants.OperationCreate:
		if request, ok := operation.Data.(*TCreate); ok {
			return client.Create(ctx, request)
		}
	case constants.OperationUpdate:
		if data, ok := operation.Data.(*UpdateData[TUpdate]); ok {
			return client.Update(ctx, data.ID, data.Request)
		}
	case constants.OperationDestroy:
		if id, ok := operation.Data.(string); ok {
			return client.Destroy(ctx, id)
		}
	case constants.OperationFind:
		if id, ok := operation.Data.(string); ok {
			return client.Find(ctx, id)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	return nil, fmt.Errorf("%w: %s %s", ErrInvalidBatchData, operation.Resource, operation.Type)
}

// BatchExecutor executes batch operations with bounded concurrency.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultBatchConcurrency
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs all operations and returns their results in input order.
// Individual failures are reported in the results, not as an error.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.concurrency)

	for index, operation := range operations {
		group.Go(func() error {
			results[index] = *b.run(groupCtx, operation)

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return results, fmt.Errorf("executing batch: %w", err)
	}

	return results, ctx.Err()
}

func (b *BatchExecutor) run(ctx context.Context, operation BatchOperation) *BatchResult {
	opCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	data, err := b.executeOperation(opCtx, operation)

	result := &BatchResult{
		ID:       operation.ID,
		Success:  err == nil,
		Data:     data,
		Error:    err,
		Duration: time.Since(start),
	}

	if operation.Callback != nil {
		operation.Callback(result)
	}

	return result
}

func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) (interface{}, error) {
	switch operation.Resource {
	case BatchResourceItem:
		return b.executeItemOperation(ctx, operation)
	case BatchResourceUpload:
		return runCRUD[UploadCreateRequest, UploadUpdateRequest, Upload](ctx, operation, b.client.Uploads())
	case BatchResourceWebhook:
		return runCRUD[WebhookCreateRequest, WebhookUpdateRequest, Webhook](ctx, operation, b.client.Webhooks())
	case BatchResourceRole:
		return runCRUD[RoleCreateRequest, RoleUpdateRequest, Role](ctx, operation, b.client.Roles())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource)
	}
}

func (b *BatchExecutor) executeItemOperation(ctx context.Context, operation BatchOperation) (interface{}, error) {
	items := b.client.Items()

	switch operation.Type {
	case constants.OperationPublish:
		if id, ok := operation.Data.(string); ok {
			return items.Publish(ctx, id, nil)
		}

		return nil, fmt.Errorf("%w: item publish", ErrInvalidBatchData)
	case constants.OperationUnpublish:
		if id, ok := operation.Data.(string); ok {
			return items.Unpublish(ctx, id, nil)
		}

		return nil, fmt.Errorf("%w: item unpublish", ErrInvalidBatchData)
	default:
		return runCRUD[ItemCreateRequest, ItemUpdateRequest, Item](ctx, operation, items)
	}
}

// ExecuteTransaction runs operations one by one and stops at the first failure.
// Records and assets created before the failure are destroyed again when
// rollback is true. The results hold every operation that was attempted,
// followed by the rollback destroys; failed destroys are joined into the error.
func (b *BatchExecutor) ExecuteTransaction(ctx context.Context, operations []BatchOperation, rollback bool) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(operations))

	for _, operation := range operations {
		result := b.run(ctx, operation)
		results = append(results, *result)

		if result.Success {
			continue
		}

		err := fmt.Errorf("%w at operation %s: %w", ErrTransactionFailed, operation.ID, result.Error)

		if rollback {
			attempted := len(results) - 1

			undone, rollbackErr := b.rollback(ctx, operations[:attempted], results[:attempted])
			results = append(results, undone...)
			err = errors.Join(err, rollbackErr)
		}

		return results, err
	}

	return results, nil
}

// rollback destroys what the successful create operations produced, newest first.
// It runs even when ctx is done, each destroy bounded by the operation timeout.
func (b *BatchExecutor) rollback(ctx context.Context, operations []BatchOperation, results []BatchResult) ([]BatchResult, error) {
	ctx = context.WithoutCancel(ctx)

	var (
		undone []BatchResult
		errs   []error
	)

	for i := len(results) - 1; i >= 0; i-- {
		if operations[i].Type != constants.OperationCreate || !results[i].Success {
			continue
		}

		id := createdID(results[i].Data)
		if id == "" {
			continue
		}

		result := b.run(ctx, BatchOperation{
			ID:       "rollback_" + operations[i].ID,
			Type:     constants.OperationDestroy,
			Resource: operations[i].Resource,
			Data:     id,
		})
		undone = append(undone, *result)

		if !result.Success {
			errs = append(errs, fmt.Errorf("%w: %s %s left behind: %w", ErrRollbackFailed, operations[i].Resource, id, result.Error))
		}
	}

	return undone, errors.Join(errs...)
}

func createdID(data interface{}) string {
	switch resource := data.(type) {
	case *Item:
		return resource.ID
	case *Upload:
		return resource.ID
	case *Webhook:
		return resource.ID
	case *Role:
		return resource.ID
	default:
		return ""
	}
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

func (b *BatchBuilder) add(id, operationType, resource string, data interface{}) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     operationType,
		Resource: resource,
		Data:     data,
	})

	return b
}

// AddCreateItem adds a record creation.
func (b *BatchBuilder) AddCreateItem(id string, request *ItemCreateRequest) *BatchBuilder {
	return b.add(id, constants.OperationCreate, BatchResourceItem, request)
}

// AddUpdateItem adds a record update.
func (b *BatchBuilder) AddUpdateItem(id, itemID string, request *ItemUpdateRequest) *BatchBuilder {
	return b.add(id, constants.OperationUpdate, BatchResourceItem, &UpdateData[ItemUpdateRequest]{ID: itemID, Request: request})
}

// AddDestroyItem adds a record deletion.
func (b *BatchBuilder) AddDestroyItem(id, itemID string) *BatchBuilder {
	return b.add(id, constants.OperationDestroy, BatchResourceItem, itemID)
}

// AddPublishItem adds a record publication.
func (b *BatchBuilder) AddPublishItem(id, itemID string) *BatchBuilder {
	return b.add(id, constants.OperationPublish, BatchResourceItem, itemID)
}

// AddUnpublishItem adds a record unpublication.
func (b *BatchBuilder) AddUnpublishItem(id, itemID string) *BatchBuilder {
	return b.add(id, constants.OperationUnpublish, BatchResourceItem, itemID)
}

// AddUpdateUpload adds an asset metadata update.
func (b *BatchBuilder) AddUpdateUpload(id, uploadID string, request *UploadUpdateRequest) *BatchBuilder {
	return b.add(id, constants.OperationUpdate, BatchResourceUpload, &UpdateData[UploadUpdateRequest]{ID: uploadID, Request: request})
}

// AddDestroyUpload adds an asset deletion.
func (b *BatchBuilder) AddDestroyUpload(id, uploadID string) *BatchBuilder {
	return b.add(id, constants.OperationDestroy, BatchResourceUpload, uploadID)
}

// AddCreateWebhook adds a webhook creation.
func (b *BatchBuilder) AddCreateWebhook(id string, request *WebhookCreateRequest) *BatchBuilder {
	return b.add(id, constants.OperationCreate, BatchResourceWebhook, request)
}

// AddCreateRole adds a role creation.
func (b *BatchBuilder) AddCreateRole(id string, request *RoleCreateRequest) *BatchBuilder {
	return b.add(id, constants.OperationCreate, BatchResourceRole, request)
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}
