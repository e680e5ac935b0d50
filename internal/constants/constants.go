package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoints and protocol.
const (
	// DefaultBaseURL is the Content Management API endpoint.
	DefaultBaseURL = "https://site-api.datocms.com"

	// DefaultDashboardBaseURL is the Dashboard (account) API endpoint.
	DefaultDashboardBaseURL = "https://account-api.datocms.com"

	// APIVersion is sent in the X-Api-Version header.
	APIVersion = "3"

	// JSONAPIContentType is the request body media type.
	JSONAPIContentType = "application/vnd.api+json"

	// DefaultUserAgent identifies the client.
	DefaultUserAgent = "dato-client-go"

	// HeaderEnvironment selects a sandbox environment.
	HeaderEnvironment = "X-Environment"

	// HeaderAPIVersion carries APIVersion.
	HeaderAPIVersion = "X-Api-Version"

	// HeaderRateLimitReset is the number of seconds to wait after a 429.
	HeaderRateLimitReset = "X-RateLimit-Reset"

	// HeaderCache marks responses served from the local cache.
	HeaderCache = "X-Cache"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations such as file uploads.
	ExtendedHTTPTimeout = 5 * time.Minute

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 5

	// LowRetryMax is used for operations that should retry fewer times.
	LowRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used when the server asks for long rate-limit pauses.
	ExtendedRetryWaitMax = 30 * time.Second

	// DefaultConcurrencyLimit limits concurrent operations.
	DefaultConcurrencyLimit = 3

	// DefaultBatchConcurrency is the default batch executor parallelism.
	DefaultBatchConcurrency = 5

	// BufferSize is the default buffer size for channels.
	BufferSize = 100

	// SmallBufferSize is used for smaller buffers.
	SmallBufferSize = 10
)

// HTTP status codes commonly used.
const (
	HTTPStatusOK                  = 200
	HTTPStatusAccepted            = 202
	HTTPStatusBadRequest          = 400
	HTTPStatusTooManyRequests     = 429
	HTTPStatusInternalServerError = 500
	HTTPStatusNotImplemented      = 501
)

// Job polling.
const (
	// DefaultPollInterval is the first wait between job-result polls.
	DefaultPollInterval = 1 * time.Second

	// MaxPollInterval caps the growing job-result poll interval.
	MaxPollInterval = 5 * time.Second

	// QuickPollInterval is used by tests and fast polling.
	QuickPollInterval = 10 * time.Millisecond

	// DefaultJobPollTimeout bounds how long a job is awaited.
	DefaultJobPollTimeout = 10 * time.Minute

	// ResourceTypeJob is the JSON:API type of a pending job.
	ResourceTypeJob = "job"
)

// Pagination and display limits.
const (
	// DefaultPageSize is the page size used when none is given.
	DefaultPageSize = 30

	// MaxItemsPageSize is the largest page the records endpoint accepts.
	MaxItemsPageSize = 500

	// StandardPageSize is the common page size for CLI listings.
	StandardPageSize = 100

	// MaxDemoItems limits items shown in examples.
	MaxDemoItems = 5
)

// Cache.
const (
	// DefaultCacheSize is the default number of entries kept by the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long cached GET responses live.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheCleanupInterval is how often expired memory entries are purged.
	DefaultCacheCleanupInterval = 1 * time.Minute

	// DefaultRedisKeyPrefix namespaces Redis cache keys.
	DefaultRedisKeyPrefix = "dato:cache:"

	// DefaultNATSBucket is the JetStream KV bucket used for caching.
	DefaultNATSBucket = "dato_cache"
)

// Circuit breaker defaults.
const (
	CircuitBreakerThreshold        = 5
	CircuitBreakerTimeout          = 30 * time.Second
	CircuitBreakerSuccessThreshold = 2
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// EnvAPIToken is the conventional environment variable for a CMA token.
	EnvAPIToken = "DATOCMS_API_TOKEN"
)

// Webhook receiver.
const (
	// DefaultWebhookAddr is where `dato webhooks serve` listens.
	DefaultWebhookAddr = ":8080"

	// DefaultWebhookPath is the receiver route.
	DefaultWebhookPath = "/webhooks"

	// DefaultWebhookSubjectPrefix prefixes NATS subjects.
	DefaultWebhookSubjectPrefix = "datocms.webhooks"

	// MaxWebhookBodyBytes caps accepted payloads.
	MaxWebhookBodyBytes = 10 << 20
)

// UI and display constants.
const (
	// CheckMarkSymbol is used to indicate current/active items.
	CheckMarkSymbol = "✓"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the indent used by JSON/YAML output.
	JSONIndentSize = 2

	// TimeFormat is how timestamps are rendered in tables.
	TimeFormat = "2006-01-02 15:04:05"
)

// State and status constants.
const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
	StatusClosed   = "closed"
	StatusOpen     = "open"
	StatusHalfOpen = "half-open"
)

// Boolean string constants.
const (
	BooleanTrue  = "true"
	BooleanFalse = "false"
)

// Format constants.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Batch operation types.
const (
	OperationCreate    = "create"
	OperationUpdate    = "update"
	OperationDestroy   = "destroy"
	OperationFind      = "find"
	OperationPublish   = "publish"
	OperationUnpublish = "unpublish"
)

// CLI.
const (
	// MinimumArgumentCount is the argument count of KEY VALUE commands.
	MinimumArgumentCount = 2

	// ConfigDirName is the directory under $HOME holding the CLI configuration.
	ConfigDirName = ".dato"

	// ConfigFileName is the CLI configuration file.
	ConfigFileName = "config.yml"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "DATO"
)

// Content versions for record queries.
const (
	VersionPublished = "published"
	VersionCurrent   = "current"
)
