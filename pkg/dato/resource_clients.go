package dato

import (
	"context"
	"io"
)

// SiteClient manages the project settings.
type SiteClient interface {
	Find(ctx context.Context) (*Site, error)
	Update(ctx context.Context, request *SiteUpdateRequest) (*Site, error)
}

// ItemTypesClient manages models and block models.
type ItemTypesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[ItemType], error)
	ListPagedIterator(ctx context.Context, params *QueryParams) *PaginationIterator[ItemType]
	Find(ctx context.Context, id string) (*ItemType, error)
	Create(ctx context.Context, request *ItemTypeCreateRequest) (*ItemType, error)
	Update(ctx context.Context, id string, request *ItemTypeUpdateRequest) (*ItemType, error)
	Destroy(ctx context.Context, id string) (*ItemType, error)
}

// FieldsClient manages the fields of a model.
type FieldsClient interface {
	List(ctx context.Context, itemTypeID string) (*ListResponse[Field], error)
	Find(ctx context.Context, id string) (*Field, error)
	Create(ctx context.Context, itemTypeID string, request *FieldCreateRequest) (*Field, error)
	Update(ctx context.Context, id string, request *FieldUpdateRequest) (*Field, error)
	Destroy(ctx context.Context, id string) (*Field, error)
}

// ItemPublishRequest selects what a publication covers. A nil request publishes everything.
type ItemPublishRequest struct {
	ContentInLocales    []string `json:"content_in_locales,omitempty"    yaml:"content_in_locales,omitempty"`
	NonLocalizedContent bool     `json:"non_localized_content,omitempty" yaml:"non_localized_content,omitempty"`
}

// ItemUnpublishRequest selects the locales to unpublish. A nil request unpublishes everything.
type ItemUnpublishRequest struct {
	ContentInLocales []string `json:"content_in_locales,omitempty" yaml:"content_in_locales,omitempty"`
}

// ItemsClient manages records.
type ItemsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Item], error)
	ListPagedIterator(ctx context.Context, params *QueryParams) *PaginationIterator[Item]
	Find(ctx context.Context, id string) (*Item, error)
	FindWithParams(ctx context.Context, id string, params *QueryParams) (*Item, error)
	Create(ctx context.Context, request *ItemCreateRequest) (*Item, error)
	Update(ctx context.Context, id string, request *ItemUpdateRequest) (*Item, error)
	Destroy(ctx context.Context, id string) (*Item, error)
	Duplicate(ctx context.Context, id string) (*Item, error)
	Publish(ctx context.Context, id string, request *ItemPublishRequest) (*Item, error)
	Unpublish(ctx context.Context, id string, request *ItemUnpublishRequest) (*Item, error)
	BulkPublish(ctx context.Context, ids []string) error
	BulkUnpublish(ctx context.Context, ids []string) error
	BulkDestroy(ctx context.Context, ids []string) error
	BulkMoveToStage(ctx context.Context, stage string, ids []string) error
	ListVersions(ctx context.Context, itemID string, params *QueryParams) (*ListResponse[ItemVersion], error)
}

// ItemVersionsClient reads and restores record versions.
type ItemVersionsClient interface {
	Find(ctx context.Context, id string) (*ItemVersion, error)
	Restore(ctx context.Context, id string) (*Item, error)
}

// UploadsClient manages assets.
type UploadsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Upload], error)
	ListPagedIterator(ctx context.Context, params *QueryParams) *PaginationIterator[Upload]
	Find(ctx context.Context, id string) (*Upload, error)
	Create(ctx context.Context, request *UploadCreateRequest) (*Upload, error)
	Update(ctx context.Context, id string, request *UploadUpdateRequest) (*Upload, error)
	Destroy(ctx context.Context, id string) (*Upload, error)
	BulkTag(ctx context.Context, tags []string, ids []string) error
	BulkDestroy(ctx context.Context, ids []string) error
	// CreateFromReader obtains an upload request, stores size bytes from reader
	// and creates the asset. request may carry metadata; its Path is ignored.
	CreateFromReader(ctx context.Context, filename string, reader io.Reader, size int64, request *UploadCreateRequest) (*Upload, error)
	CreateFromFile(ctx context.Context, path string, request *UploadCreateRequest) (*Upload, error)
}

// UploadRequestsClient creates pre-signed storage targets.
type UploadRequestsClient interface {
	Create(ctx context.Context, request *UploadRequestCreateRequest) (*UploadRequest, error)
}

// UsersClient manages collaborators.
type UsersClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[User], error)
	Find(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, request *UserUpdateRequest) (*User, error)
	Destroy(ctx context.Context, id string) (*User, error)
}

// RolesClient manages roles.
type RolesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Role], error)
	Find(ctx context.Context, id string) (*Role, error)
	Create(ctx context.Context, request *RoleCreateRequest) (*Role, error)
	Update(ctx context.Context, id string, request *RoleUpdateRequest) (*Role, error)
	Destroy(ctx context.Context, id string) (*Role, error)
}

// AccessTokensClient manages API tokens.
type AccessTokensClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[AccessToken], error)
	Find(ctx context.Context, id string) (*AccessToken, error)
	Create(ctx context.Context, request *AccessTokenCreateRequest) (*AccessToken, error)
	Update(ctx context.Context, id string, request *AccessTokenUpdateRequest) (*AccessToken, error)
	Destroy(ctx context.Context, id string) (*AccessToken, error)
	Regenerate(ctx context.Context, id string) (*AccessToken, error)
}

// EnvironmentsClient manages primary and sandbox environments.
type EnvironmentsClient interface {
	List(ctx context.Context) (*ListResponse[Environment], error)
	Find(ctx context.Context, id string) (*Environment, error)
	Fork(ctx context.Context, sourceID, newID string, options *EnvironmentForkOptions) (*Environment, error)
	Promote(ctx context.Context, id string) (*Environment, error)
	Rename(ctx context.Context, id, newID string) (*Environment, error)
	Destroy(ctx context.Context, id string) (*Environment, error)
}

// WebhooksClient manages webhooks.
type WebhooksClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Webhook], error)
	Find(ctx context.Context, id string) (*Webhook, error)
	Create(ctx context.Context, request *WebhookCreateRequest) (*Webhook, error)
	Update(ctx context.Context, id string, request *WebhookUpdateRequest) (*Webhook, error)
	Destroy(ctx context.Context, id string) (*Webhook, error)
}

// WebhookCallsClient reads the webhook delivery log.
type WebhookCallsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[WebhookCall], error)
	ListPagedIterator(ctx context.Context, params *QueryParams) *PaginationIterator[WebhookCall]
	Find(ctx context.Context, id string) (*WebhookCall, error)
	Resend(ctx context.Context, id string) error
}

// MaintenanceModeClient toggles read-only mode.
type MaintenanceModeClient interface {
	Find(ctx context.Context) (*MaintenanceMode, error)
	Activate(ctx context.Context, force bool) (*MaintenanceMode, error)
	Deactivate(ctx context.Context) (*MaintenanceMode, error)
}

// PluginsClient manages installed plugins.
type PluginsClient interface {
	List(ctx context.Context) (*ListResponse[Plugin], error)
	Find(ctx context.Context, id string) (*Plugin, error)
	Create(ctx context.Context, request *PluginCreateRequest) (*Plugin, error)
	Update(ctx context.Context, id string, request *PluginUpdateRequest) (*Plugin, error)
	Destroy(ctx context.Context, id string) (*Plugin, error)
}

// JobResultsClient reads the outcome of asynchronous jobs.
type JobResultsClient interface {
	// Find returns the job result, or an APIError for which IsNotFound holds
	// while the job is still running.
	Find(ctx context.Context, id string) (*JobResult, error)
	// Wait polls until the job completes, ctx is done or the poll timeout elapses.
	Wait(ctx context.Context, id string) (*JobResult, error)
}

// AccountClient reads the Dashboard account.
type AccountClient interface {
	Find(ctx context.Context) (*Account, error)
}

// DashboardSitesClient manages projects through the Dashboard API.
type DashboardSitesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[DashboardSite], error)
	Find(ctx context.Context, id string) (*DashboardSite, error)
	Create(ctx context.Context, request *DashboardSiteCreateRequest) (*DashboardSite, error)
	Update(ctx context.Context, id string, request *DashboardSiteUpdateRequest) (*DashboardSite, error)
	Destroy(ctx context.Context, id string) (*DashboardSite, error)
}
