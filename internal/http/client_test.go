package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	datohttp "github.com/fivetwenty-io/dato-client/internal/http"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	mu        sync.Mutex
	token     string
	refreshed string
	refreshes int
	err       error
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refreshes++
	if m.refreshed != "" {
		m.token = m.refreshed
	}

	return nil
}

func (m *MockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) add(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.add("error", msg, fields) }

func fastRetries() datohttp.Option {
	return datohttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/items/abc", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "3", request.Header.Get("X-Api-Version"))
			assert.Empty(t, request.Header.Get("X-Environment"))

			_, _ = writer.Write([]byte(`{"data":{"id":"abc","type":"item"}}`))
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := datohttp.NewClient(server.URL, tokenManager)

		req := &datohttp.Request{
			Method: "GET",
			Path:   "/items/abc",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, `{"data":{"id":"abc","type":"item"}}`, string(resp.Body))
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/items", request.URL.Path)
			assert.Equal(t, "page[limit]=2", request.URL.Query().Encode())
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil)

		req := &datohttp.Request{
			Method: "GET",
			Path:   "/items",
			Query:  url.Values{"page[limit]": []string{"2"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/vnd.api+json", request.Header.Get("Content-Type"))

			var body map[string]map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "role", body["data"]["type"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil)

		req := &datohttp.Request{
			Method: "POST",
			Path:   "/roles",
			Body:   map[string]map[string]string{"data": {"type": "role"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"data":[{"id":"e1","type":"api_error","attributes":{"code":"NOT_FOUND","details":{}}}]}`))
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil)

		req := &datohttp.Request{
			Method: "GET",
			Path:   "/items/invalid",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		apiErr := &dato.APIError{}
		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Len(t, apiErr.Errors, 1)
		assert.Equal(t, dato.ErrorCodeNotFound, apiErr.Errors[0].Attributes.Code)
		assert.Equal(t, "GET", apiErr.Method)
		assert.Equal(t, server.URL+"/items/invalid", apiErr.URL)
		assert.True(t, dato.IsNotFound(err))
		require.ErrorIs(t, err, dato.ErrNotFound)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "global", request.Header.Get("X-Global"))
			assert.Equal(t, "my-agent", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil,
			datohttp.WithHeaders(map[string]string{"X-Global": "global"}),
			datohttp.WithUserAgent("my-agent"),
		)

		req := &datohttp.Request{
			Method: "GET",
			Path:   "/site",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("environment header", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "sandbox", request.Header.Get("X-Environment"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil, datohttp.WithEnvironment("sandbox"))
		assert.Equal(t, "sandbox", client.Environment())

		_, err := client.Get(context.Background(), "/site", nil)
		require.NoError(t, err)

		primary := client.Clone(datohttp.WithEnvironment(""))
		assert.Empty(t, primary.Environment())
		assert.Equal(t, "sandbox", client.Environment())
	})

	t.Run("absolute url without auth", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/bucket/file.png", request.URL.Path)
			assert.Empty(t, request.Header.Get("Authorization"))
			assert.Equal(t, "image/png", request.Header.Get("Content-Type"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := datohttp.NewClient("https://site-api.example.com", &MockTokenManager{token: "secret"})

		resp, err := client.Do(context.Background(), &datohttp.Request{
			Method:   "PUT",
			Path:     server.URL + "/bucket/file.png",
			RawBody:  strings.NewReader("png-bytes"),
			Headers:  map[string]string{"Content-Type": "image/png"},
			SkipAuth: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := datohttp.NewClient(server.URL, nil, datohttp.WithLogger(logger), datohttp.WithDebug(true))

		req := &datohttp.Request{
			Method: "GET",
			Path:   "/items",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		// Should have logged request and response
		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*datohttp.Client, context.Context) (*datohttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *datohttp.Client, ctx context.Context) (*datohttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *datohttp.Client, ctx context.Context) (*datohttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *datohttp.Client, ctx context.Context) (*datohttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *datohttp.Client, ctx context.Context) (*datohttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *datohttp.Client, ctx context.Context) (*datohttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := datohttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil, fastRetries())

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.Header().Set("X-RateLimit-Reset", "60")
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := datohttp.NewClient(server.URL, nil, fastRetries(), datohttp.WithLogger(logger))

		start := time.Now()
		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
		// the reset header is clamped to the configured maximum wait
		assert.Less(t, time.Since(start), 5*time.Second)
		require.Len(t, logger.logs, 1)
		assert.Equal(t, "retrying request", logger.logs[0]["msg"])
		assert.Equal(t, "warn", logger.logs[0]["level"])
	})

	t.Run("rate limit error carries reset", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("X-RateLimit-Reset", "1")
			writer.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil, datohttp.WithRetryConfig(0, time.Millisecond, time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 429, resp.StatusCode)
		assert.True(t, dato.IsRateLimited(err))

		apiErr := &dato.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 1, apiErr.RateLimitReset)
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil, fastRetries())

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load()) // Should not retry
	})

	t.Run("does not retry not implemented", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusNotImplemented)
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil, fastRetries())

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.True(t, dato.IsServerError(err))
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("returns last response after exhausting retries", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := datohttp.NewClient(server.URL, nil, fastRetries())

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, int32(4), attempts.Load())
	})
}

func TestClient_TokenRefresh(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attempts.Add(1)

		if request.Header.Get("Authorization") != "Bearer fresh" {
			writer.WriteHeader(http.StatusUnauthorized)

			return
		}

		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tokenManager := &MockTokenManager{token: "stale", refreshed: "fresh"}
	client := datohttp.NewClient(server.URL, tokenManager)

	resp, err := client.Get(context.Background(), "/site", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, 1, tokenManager.refreshes)
}

func TestClient_TokenRefreshReplaysOnce(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attempts.Add(1)
		writer.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := datohttp.NewClient(server.URL, &MockTokenManager{token: "revoked"})

	resp, err := client.Get(context.Background(), "/site", nil)
	require.Error(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.True(t, dato.IsUnauthorized(err))
	assert.Equal(t, int32(2), attempts.Load())
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Cache(t *testing.T) {
	t.Parallel()

	t.Run("serves repeated GET from cache", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			hits.Add(1)
			_, _ = writer.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		manager := dato.NewCacheManager(dato.NewMemoryCache(10), dato.DefaultCacheOptions())
		client := datohttp.NewClient(server.URL, nil, datohttp.WithCache(manager, nil))

		first, err := client.Get(context.Background(), "/items", nil)
		require.NoError(t, err)

		second, err := client.Get(context.Background(), "/items", nil)
		require.NoError(t, err)

		assert.Equal(t, int32(1), hits.Load())
		assert.Equal(t, first.Body, second.Body)
		assert.Equal(t, "HIT", second.Headers.Get("X-Cache"))
		assert.Equal(t, int64(1), manager.GetStats().Hits)
	})

	t.Run("mutation clears cache", func(t *testing.T) {
		t.Parallel()

		var gets atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodGet {
				gets.Add(1)
			}

			_, _ = writer.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		manager := dato.NewCacheManager(nil, dato.DefaultCacheOptions())
		client := datohttp.NewClient(server.URL, nil, datohttp.WithCache(manager, nil))

		_, err := client.Get(context.Background(), "/items", nil)
		require.NoError(t, err)

		_, err = client.Post(context.Background(), "/items", map[string]string{"a": "b"})
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "/items", nil)
		require.NoError(t, err)

		assert.Equal(t, int32(2), gets.Load())
	})

	t.Run("tokens sharing a backend get their own responses", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			hits.Add(1)

			site := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer token-")
			_, _ = writer.Write([]byte(`{"data":{"id":"site-` + site + `","type":"site"}}`))
		}))
		defer server.Close()

		backend := dato.NewMemoryCache(10)
		clientA := datohttp.NewClient(server.URL, &MockTokenManager{token: "token-a"},
			datohttp.WithCache(dato.NewCacheManager(backend, dato.DefaultCacheOptions()), nil))
		clientB := datohttp.NewClient(server.URL, &MockTokenManager{token: "token-b"},
			datohttp.WithCache(dato.NewCacheManager(backend, dato.DefaultCacheOptions()), nil))

		respA, err := clientA.Get(context.Background(), "/site", nil)
		require.NoError(t, err)
		assert.Contains(t, string(respA.Body), `"site-a"`)

		respB, err := clientB.Get(context.Background(), "/site", nil)
		require.NoError(t, err)
		assert.Contains(t, string(respB.Body), `"site-b"`)
		assert.Empty(t, respB.Headers.Get("X-Cache"))

		again, err := clientA.Get(context.Background(), "/site", nil)
		require.NoError(t, err)
		assert.Contains(t, string(again.Body), `"site-a"`)
		assert.Equal(t, "HIT", again.Headers.Get("X-Cache"))

		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("excluded paths and errors are not cached", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			hits.Add(1)
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		manager := dato.NewCacheManager(nil, dato.DefaultCacheOptions())
		client := datohttp.NewClient(server.URL, nil, datohttp.WithCache(manager, nil))

		for range 2 {
			resp, err := client.Get(context.Background(), "/job-results/1", nil)
			require.Error(t, err)
			assert.Equal(t, 404, resp.StatusCode)
		}

		for range 2 {
			resp, err := client.Get(context.Background(), "/items/missing", nil)
			require.Error(t, err)
			assert.Equal(t, 404, resp.StatusCode)
		}

		assert.Equal(t, int32(4), hits.Load())
	})
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "intercepted", request.Header.Get("X-Trace"))
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	collector := dato.NewMetricsCollector()
	chain := dato.NewInterceptorChain()
	chain.AddRequestInterceptor(dato.HeaderInterceptor(map[string]string{"X-Trace": "intercepted"}))
	chain.AddRequestInterceptor(dato.MetricsRequestInterceptor(collector))
	chain.AddResponseInterceptor(dato.MetricsResponseInterceptor(collector))

	client := datohttp.NewClient(server.URL, nil,
		datohttp.WithInterceptors(chain),
		datohttp.WithRetryConfig(0, time.Millisecond, time.Millisecond),
	)

	_, err := client.Get(context.Background(), "/site", nil)
	require.Error(t, err)

	metrics := collector.GetMetrics("GET /site")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(1), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
}

func TestClient_RequiresMethod(t *testing.T) {
	t.Parallel()

	client := datohttp.NewClient("http://localhost", nil)
	_, err := client.Do(context.Background(), &datohttp.Request{Path: "/site"})
	require.ErrorIs(t, err, datohttp.ErrMethodRequired)
}
