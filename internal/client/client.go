package client

import (
	"context"
	"errors"

	"github.com/fivetwenty-io/dato-client/internal/auth"
	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

var (
	_ dato.Client          = (*Client)(nil)
	_ dato.DashboardClient = (*DashboardClient)(nil)
)

// Client implements the dato.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	logger       dato.Logger

	// Resource clients
	site            *SiteClient
	itemTypes       *ItemTypesClient
	fields          *FieldsClient
	plugins         *PluginsClient
	items           *ItemsClient
	itemVersions    *ItemVersionsClient
	uploads         *UploadsClient
	uploadRequests  *UploadRequestsClient
	users           *UsersClient
	roles           *RolesClient
	accessTokens    *AccessTokensClient
	environments    *EnvironmentsClient
	maintenanceMode *MaintenanceModeClient
	webhooks        *WebhooksClient
	webhookCalls    *WebhookCallsClient
	jobResults      *JobResultsClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *dato.Config) ([]http.Option, error) {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.Environment != "" {
		httpOpts = append(httpOpts, http.WithEnvironment(config.Environment))
	}

	if len(config.ExtraHeaders) > 0 {
		httpOpts = append(httpOpts, http.WithHeaders(config.ExtraHeaders))
	}

	if config.Interceptors != nil || config.RequestsPerSecond > 0 {
		chain := dato.NewInterceptorChain()
		if config.Interceptors != nil {
			chain = config.Interceptors.Clone()
		}

		if config.RequestsPerSecond > 0 {
			chain.AddRequestInterceptor(dato.RateLimitInterceptor(config.RequestsPerSecond, 1))
		}

		httpOpts = append(httpOpts, http.WithInterceptors(chain))
	}

	if config.Cache != nil && config.Cache.Type != dato.CacheTypeNone {
		manager, policy, err := dato.NewCacheManagerFromConfig(config.Cache)
		if err != nil {
			return nil, err
		}

		httpOpts = append(httpOpts, http.WithCache(manager, policy))
	}

	return httpOpts, nil
}

// New creates a new Content Management API client authenticated with config.APIToken.
func New(ctx context.Context, config *dato.Config) (*Client, error) {
	if config == nil {
		return nil, dato.ErrConfigRequired
	}

	if config.APIToken == "" {
		return nil, dato.ErrAPITokenRequired
	}

	return NewWithTokenManager(config, auth.NewStaticTokenManager(config.APIToken))
}

// NewWithTokenManager creates a new Content Management API client with a custom token manager.
func NewWithTokenManager(config *dato.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, dato.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, dato.ErrBaseURLRequired
	}

	if tokenManager == nil {
		return nil, ErrNoTokenManagerConfigured
	}

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.BaseURL, tokenManager, httpOpts...)

	return newClient(httpClient, tokenManager, config.Logger), nil
}

func newClient(httpClient *http.Client, tokenManager auth.TokenManager, logger dato.Logger) *Client {
	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		logger:       logger,
	}

	client.initializeResourceClients()

	return client
}

func (c *Client) initializeResourceClients() {
	c.jobResults = NewJobResultsClient(c.httpClient)
	c.site = NewSiteClient(c.httpClient, c.jobResults)
	c.itemTypes = NewItemTypesClient(c.httpClient, c.jobResults)
	c.fields = NewFieldsClient(c.httpClient, c.jobResults)
	c.plugins = NewPluginsClient(c.httpClient)
	c.items = NewItemsClient(c.httpClient, c.jobResults)
	c.itemVersions = NewItemVersionsClient(c.httpClient, c.jobResults)
	c.uploadRequests = NewUploadRequestsClient(c.httpClient)
	c.uploads = NewUploadsClient(c.httpClient, c.jobResults, c.uploadRequests)
	c.users = NewUsersClient(c.httpClient)
	c.roles = NewRolesClient(c.httpClient)
	c.accessTokens = NewAccessTokensClient(c.httpClient)
	c.environments = NewEnvironmentsClient(c.httpClient, c.jobResults)
	c.maintenanceMode = NewMaintenanceModeClient(c.httpClient)
	c.webhooks = NewWebhooksClient(c.httpClient)
	c.webhookCalls = NewWebhookCallsClient(c.httpClient)
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current API token.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	return c.tokenManager.GetToken(ctx)
}

// Environment implements dato.Client.Environment.
func (c *Client) Environment() string {
	return c.httpClient.Environment()
}

// ForEnvironment implements dato.Client.ForEnvironment. The returned client
// shares the transport, token manager, interceptors and cache.
func (c *Client) ForEnvironment(environment string) (dato.Client, error) {
	httpClient := c.httpClient.Clone(http.WithEnvironment(environment))

	return newClient(httpClient, c.tokenManager, c.logger), nil
}

// Resource client accessors

// Site implements dato.Client.Site.
func (c *Client) Site() dato.SiteClient {
	return c.site
}

// ItemTypes implements dato.Client.ItemTypes.
func (c *Client) ItemTypes() dato.ItemTypesClient {
	return c.itemTypes
}

// Fields implements dato.Client.Fields.
func (c *Client) Fields() dato.FieldsClient {
	return c.fields
}

// Plugins implements dato.Client.Plugins.
func (c *Client) Plugins() dato.PluginsClient {
	return c.plugins
}

// Items implements dato.Client.Items.
func (c *Client) Items() dato.ItemsClient {
	return c.items
}

// ItemVersions implements dato.Client.ItemVersions.
func (c *Client) ItemVersions() dato.ItemVersionsClient {
	return c.itemVersions
}

// Uploads implements dato.Client.Uploads.
func (c *Client) Uploads() dato.UploadsClient {
	return c.uploads
}

// UploadRequests implements dato.Client.UploadRequests.
func (c *Client) UploadRequests() dato.UploadRequestsClient {
	return c.uploadRequests
}

// Users implements dato.Client.Users.
func (c *Client) Users() dato.UsersClient {
	return c.users
}

// Roles implements dato.Client.Roles.
func (c *Client) Roles() dato.RolesClient {
	return c.roles
}

// AccessTokens implements dato.Client.AccessTokens.
func (c *Client) AccessTokens() dato.AccessTokensClient {
	return c.accessTokens
}

// Environments implements dato.Client.Environments.
func (c *Client) Environments() dato.EnvironmentsClient {
	return c.environments
}

// MaintenanceMode implements dato.Client.MaintenanceMode.
func (c *Client) MaintenanceMode() dato.MaintenanceModeClient {
	return c.maintenanceMode
}

// Webhooks implements dato.Client.Webhooks.
func (c *Client) Webhooks() dato.WebhooksClient {
	return c.webhooks
}

// WebhookCalls implements dato.Client.WebhookCalls.
func (c *Client) WebhookCalls() dato.WebhookCallsClient {
	return c.webhookCalls
}

// JobResults implements dato.Client.JobResults.
func (c *Client) JobResults() dato.JobResultsClient {
	return c.jobResults
}

// DashboardClient implements the dato.DashboardClient interface.
type DashboardClient struct {
	httpClient *http.Client
	account    *AccountClient
	sites      *DashboardSitesClient
}

// NewDashboard creates a Dashboard API client. config.DashboardBaseURL is used
// as the endpoint; the environment setting does not apply.
func NewDashboard(config *dato.Config) (*DashboardClient, error) {
	if config == nil {
		return nil, dato.ErrConfigRequired
	}

	if config.APIToken == "" {
		return nil, dato.ErrAPITokenRequired
	}

	if config.DashboardBaseURL == "" {
		return nil, dato.ErrBaseURLRequired
	}

	dashboardConfig := *config
	dashboardConfig.Environment = ""

	httpOpts, err := createHTTPClientOptions(&dashboardConfig)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.DashboardBaseURL, auth.NewStaticTokenManager(config.APIToken), httpOpts...)

	return &DashboardClient{
		httpClient: httpClient,
		account:    NewAccountClient(httpClient),
		sites:      NewDashboardSitesClient(httpClient),
	}, nil
}

// Account implements dato.DashboardClient.Account.
func (c *DashboardClient) Account() dato.AccountClient {
	return c.account
}

// Sites implements dato.DashboardClient.Sites.
func (c *DashboardClient) Sites() dato.DashboardSitesClient {
	return c.sites
}
