package dato

import (
	"time"
)

// SchemaClients provides access to project settings and schema resources.
type SchemaClients interface {
	Site() SiteClient
	ItemTypes() ItemTypesClient
	Fields() FieldsClient
	Plugins() PluginsClient
}

// ContentClients provides access to records and assets.
type ContentClients interface {
	Items() ItemsClient
	ItemVersions() ItemVersionsClient
	Uploads() UploadsClient
	UploadRequests() UploadRequestsClient
}

// ProjectClients provides access to collaborators, permissions and environments.
type ProjectClients interface {
	Users() UsersClient
	Roles() RolesClient
	AccessTokens() AccessTokensClient
	Environments() EnvironmentsClient
	MaintenanceMode() MaintenanceModeClient
}

// IntegrationClients provides access to webhooks and asynchronous jobs.
type IntegrationClients interface {
	Webhooks() WebhooksClient
	WebhookCalls() WebhookCallsClient
	JobResults() JobResultsClient
}

// Client is a Content Management API client bound to one project and environment.
type Client interface {
	SchemaClients
	ContentClients
	ProjectClients
	IntegrationClients

	// Environment returns the environment requests are sent to, or "" for the primary one.
	Environment() string
	// ForEnvironment returns a client sharing this client's transport settings
	// that targets another environment.
	ForEnvironment(environment string) (Client, error)
}

// DashboardClient is a Dashboard API client bound to one account.
type DashboardClient interface {
	Account() AccountClient
	Sites() DashboardSitesClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}

// Config represents client configuration for building a dato.Client.
//
// # Authentication
//
// APIToken is sent as a Bearer token on every request. Full-access tokens are
// needed for schema changes; read-only tokens work for listing and finding.
//
// # Environments
//
// Requests go to the primary environment unless Environment names a sandbox,
// in which case the X-Environment header is added to every request.
//
// # Timeouts, retries, and rate limits
//
// Per-request timeouts should generally be controlled via context passed to
// client methods. Connection errors, 429 and 5xx responses are retried up to
// RetryMax times. On 429 the client waits for the number of seconds given in
// the X-RateLimit-Reset header, capped at RetryWaitMax. RequestsPerSecond adds
// a client-side limiter on top of that.
type Config struct {
	// APIToken: CMA (or Dashboard) API token. Required.
	APIToken string
	// Environment: sandbox environment name. Empty means the primary environment.
	Environment string
	// BaseURL: CMA endpoint. datocms.New defaults it to https://site-api.datocms.com,
	// trims a trailing slash and adds "https://" if no scheme is present.
	BaseURL string
	// DashboardBaseURL: Dashboard API endpoint, normalized like BaseURL.
	DashboardBaseURL string
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// ExtraHeaders are added to every request.
	ExtraHeaders map[string]string

	// HTTPTimeout: per-attempt HTTP timeout. Zero uses the default.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, a sensible default is used by the client.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries, including rate-limit waits.
	RetryWaitMax time.Duration
	// RequestsPerSecond: client-side request rate limit. Zero disables it.
	RequestsPerSecond float64

	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and helpers.
	Logger Logger
	// Cache: optional response cache for GET requests. Nil disables caching.
	Cache *CacheConfig
	// Interceptors: optional request/response interceptors run around every request.
	Interceptors *InterceptorChain
}
