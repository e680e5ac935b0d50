package dato_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

var errRejected = errors.New("rejected")

type recordingLogger struct {
	dato.NopLogger

	debug []string
	errs  []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.debug = append(l.debug, msg)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.errs = append(l.errs, msg)
}

func TestInterceptorChain(t *testing.T) {
	t.Parallel()

	chain := dato.NewInterceptorChain()

	var order []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *dato.Request) error {
		order = append(order, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *dato.Request) error {
		order = append(order, "second")

		return nil
	})
	chain.AddResponseInterceptor(func(ctx context.Context, req *dato.Request, resp *dato.Response) error {
		order = append(order, "response")

		return nil
	})

	req := &dato.Request{Method: http.MethodGet, Path: "/items"}

	require.NoError(t, chain.ExecuteRequestInterceptors(t.Context(), req))
	require.NoError(t, chain.ExecuteResponseInterceptors(t.Context(), req, &dato.Response{StatusCode: http.StatusOK}))
	assert.Equal(t, []string{"first", "second", "response"}, order)

	requests, responses := chain.Len()
	assert.Equal(t, 2, requests)
	assert.Equal(t, 1, responses)
}

func TestInterceptorChain_StopsOnError(t *testing.T) {
	t.Parallel()

	chain := dato.NewInterceptorChain()
	called := false

	chain.AddRequestInterceptor(func(ctx context.Context, req *dato.Request) error {
		return errRejected
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *dato.Request) error {
		called = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(t.Context(), &dato.Request{})
	require.ErrorIs(t, err, errRejected)
	assert.False(t, called)
}

func TestInterceptorChain_Clone(t *testing.T) {
	t.Parallel()

	chain := dato.NewInterceptorChain()
	chain.AddRequestInterceptor(dato.HeaderInterceptor(map[string]string{"X-A": "1"}))

	clone := chain.Clone()
	clone.AddRequestInterceptor(dato.HeaderInterceptor(map[string]string{"X-B": "2"}))

	requests, _ := chain.Len()
	assert.Equal(t, 1, requests)

	requests, _ = clone.Len()
	assert.Equal(t, 2, requests)
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	req := &dato.Request{}

	err := dato.HeaderInterceptor(map[string]string{"X-Include-Drafts": "true"})(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, "true", req.Headers.Get("X-Include-Drafts"))
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	req := &dato.Request{Method: http.MethodGet, Path: "/site"}

	require.NoError(t, dato.LoggingInterceptor(logger)(t.Context(), req))
	require.NoError(t, dato.LoggingResponseInterceptor(logger)(t.Context(), req, &dato.Response{StatusCode: http.StatusOK}))
	require.NoError(t, dato.LoggingResponseInterceptor(logger)(t.Context(), req, &dato.Response{Error: errRejected}))

	assert.Equal(t, []string{"cma request", "cma response"}, logger.debug)
	assert.Equal(t, []string{"cma response error"}, logger.errs)
}

func TestRateLimitInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := dato.RateLimitInterceptor(1, 1)

	require.NoError(t, interceptor(t.Context(), &dato.Request{}))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	err := interceptor(ctx, &dato.Request{})
	require.Error(t, err)
}

func TestMetricsInterceptors(t *testing.T) {
	t.Parallel()

	collector := dato.NewMetricsCollector()

	var changes int

	collector.SetOnChange(func(endpoint string, metrics dato.Metrics) {
		changes++
	})

	requestInterceptor := dato.MetricsRequestInterceptor(collector)
	responseInterceptor := dato.MetricsResponseInterceptor(collector)

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusOK} {
		req := &dato.Request{Method: http.MethodGet, Path: "/items"}

		require.NoError(t, requestInterceptor(t.Context(), req))
		require.NoError(t, responseInterceptor(t.Context(), req, &dato.Response{StatusCode: status}))
	}

	metrics := collector.GetMetrics("GET /items")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(3), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.False(t, metrics.LastRequestTime.IsZero())
	assert.Equal(t, 3, changes)
	assert.Equal(t, []string{"GET /items"}, collector.Endpoints())
	assert.Nil(t, collector.GetMetrics("DELETE /items"))
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	breaker := dato.NewCircuitBreaker(&dato.CircuitBreakerConfig{
		Threshold:        2,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 1,
	})

	allow := dato.CircuitBreakerRequestInterceptor(breaker)
	observe := dato.CircuitBreakerResponseInterceptor(breaker)
	req := &dato.Request{}

	assert.Equal(t, "closed", breaker.State())

	for range 2 {
		require.NoError(t, allow(t.Context(), req))
		require.NoError(t, observe(t.Context(), req, &dato.Response{StatusCode: http.StatusBadGateway}))
	}

	assert.Equal(t, "open", breaker.State())
	require.ErrorIs(t, allow(t.Context(), req), dato.ErrCircuitBreakerOpen)

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, allow(t.Context(), req))
	assert.Equal(t, "half-open", breaker.State())

	require.NoError(t, observe(t.Context(), req, &dato.Response{StatusCode: http.StatusOK}))
	assert.Equal(t, "closed", breaker.State())
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	breaker := dato.NewCircuitBreaker(nil)
	observe := dato.CircuitBreakerResponseInterceptor(breaker)

	for range 10 {
		require.NoError(t, observe(t.Context(), &dato.Request{}, &dato.Response{StatusCode: http.StatusUnprocessableEntity}))
	}

	assert.Equal(t, "closed", breaker.State())
}
