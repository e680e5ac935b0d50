package client

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dato-client/internal/auth"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *dato.Config
		wantErr error
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: dato.ErrConfigRequired,
		},
		{
			name:    "missing token",
			config:  &dato.Config{BaseURL: "https://site-api.datocms.com"},
			wantErr: dato.ErrAPITokenRequired,
		},
		{
			name:    "missing base URL",
			config:  &dato.Config{APIToken: testToken},
			wantErr: dato.ErrBaseURLRequired,
		},
		{
			name:   "valid",
			config: &dato.Config{APIToken: testToken, BaseURL: "https://site-api.datocms.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := New(t.Context(), tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, client.Site())
			assert.NotNil(t, client.ItemTypes())
			assert.NotNil(t, client.Fields())
			assert.NotNil(t, client.Plugins())
			assert.NotNil(t, client.Items())
			assert.NotNil(t, client.ItemVersions())
			assert.NotNil(t, client.Uploads())
			assert.NotNil(t, client.UploadRequests())
			assert.NotNil(t, client.Users())
			assert.NotNil(t, client.Roles())
			assert.NotNil(t, client.AccessTokens())
			assert.NotNil(t, client.Environments())
			assert.NotNil(t, client.MaintenanceMode())
			assert.NotNil(t, client.Webhooks())
			assert.NotNil(t, client.WebhookCalls())
			assert.NotNil(t, client.JobResults())
			assert.Empty(t, client.Environment())
		})
	}
}

func TestNewWithTokenManager(t *testing.T) {
	t.Parallel()

	_, err := NewWithTokenManager(&dato.Config{BaseURL: "https://site-api.datocms.com"}, nil)
	require.ErrorIs(t, err, ErrNoTokenManagerConfigured)

	var authorization atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization.Store(r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, `{"data":{"id":"1","type":"site","attributes":{"name":"Blog"}}}`)
	}))
	defer server.Close()

	tokenManager := auth.NewStaticTokenManager("custom-token")

	client, err := NewWithTokenManager(&dato.Config{BaseURL: server.URL}, tokenManager)
	require.NoError(t, err)
	assert.Same(t, tokenManager, client.GetTokenManager())

	site, err := client.Site().Find(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Blog", site.Name)
	assert.Equal(t, "Bearer custom-token", authorization.Load())

	token, err := client.GetToken(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "custom-token", token)
}

func TestClient_ForEnvironment(t *testing.T) {
	t.Parallel()

	var environments []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		environments = append(environments, r.Header.Get("X-Environment"))
		writeJSON(t, w, http.StatusOK, `{"data":{"id":"1","type":"site","attributes":{"name":"Blog"}}}`)
	})

	sandbox, err := client.ForEnvironment("staging")
	require.NoError(t, err)
	assert.Equal(t, "staging", sandbox.Environment())
	assert.Empty(t, client.Environment())

	_, err = sandbox.Site().Find(t.Context())
	require.NoError(t, err)

	_, err = client.Site().Find(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"staging", ""}, environments)
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "sandbox", r.Header.Get("X-Environment"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		assert.Equal(t, "my-agent", r.Header.Get("User-Agent"))
		writeJSON(t, w, http.StatusOK, `{"data":{"id":"1","type":"site","attributes":{"name":"Blog"}}}`)
	}))
	defer server.Close()

	collector := dato.NewMetricsCollector()
	chain := dato.NewInterceptorChain()
	chain.AddRequestInterceptor(dato.MetricsRequestInterceptor(collector))
	chain.AddResponseInterceptor(dato.MetricsResponseInterceptor(collector))

	client, err := New(t.Context(), &dato.Config{
		APIToken:          testToken,
		BaseURL:           server.URL,
		Environment:       "sandbox",
		UserAgent:         "my-agent",
		ExtraHeaders:      map[string]string{"X-Extra": "yes"},
		RequestsPerSecond: 100,
		Interceptors:      chain,
		Cache:             dato.DefaultCacheConfig(),
	})
	require.NoError(t, err)

	for range 3 {
		_, err = client.Site().Find(t.Context())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), requests.Load(), "repeated reads are served from the cache")

	metrics := collector.GetMetrics("GET /site")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(3), metrics.TotalRequests)

	requestInterceptors, _ := chain.Len()
	assert.Equal(t, 1, requestInterceptors, "the caller's chain is not modified")
}

func TestNew_InvalidCache(t *testing.T) {
	t.Parallel()

	_, err := New(t.Context(), &dato.Config{
		APIToken: testToken,
		BaseURL:  "https://site-api.datocms.com",
		Cache:    &dato.CacheConfig{Type: dato.CacheTypeRedis},
	})
	require.ErrorIs(t, err, dato.ErrRedisConfigRequired)
}

func TestNewDashboard(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-Environment"))

		switch r.URL.Path {
		case "/account":
			writeJSON(t, w, http.StatusOK, `{"data":{"id":"42","type":"account","attributes":{"email":"me@example.com","first_name":"Ada"}}}`)
		case "/sites":
			writeJSON(t, w, http.StatusOK, `{"data":[{"id":"1","type":"site","attributes":{"name":"Blog","internal_domain":"blog.admin.datocms.com"}}],"meta":{"total_count":1}}`)
		default:
			writeJSON(t, w, http.StatusNotFound, notFoundBody)
		}
	}))
	defer server.Close()

	_, err := NewDashboard(&dato.Config{APIToken: testToken})
	require.ErrorIs(t, err, dato.ErrBaseURLRequired)

	dashboard, err := NewDashboard(&dato.Config{
		APIToken:         testToken,
		DashboardBaseURL: server.URL,
		Environment:      "ignored",
	})
	require.NoError(t, err)

	account, err := dashboard.Account().Find(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "42", account.ID)
	assert.Equal(t, "me@example.com", account.Email)

	sites, err := dashboard.Sites().List(t.Context(), nil)
	require.NoError(t, err)
	require.Len(t, sites.Data, 1)
	assert.Equal(t, "blog.admin.datocms.com", sites.Data[0].InternalDomain)
	assert.Equal(t, 1, sites.Meta.TotalCount)

	_, err = dashboard.Sites().Find(t.Context(), "missing")
	assert.True(t, dato.IsNotFound(err))
}
