package dato

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"golang.org/x/time/rate"
)

// Request is the view of an outgoing CMA request given to interceptors.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response is the view of a received response given to interceptors.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor runs before a request is sent. An error aborts the request.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor runs after a response is received, before it is decoded.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain holds the interceptors of a client. It is safe for concurrent use.
type InterceptorChain struct {
	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor appends an interceptor run before each attempt.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor appends an interceptor run after each response.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// Len returns the number of request and response interceptors.
func (c *InterceptorChain) Len() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.requestInterceptors), len(c.responseInterceptors)
}

// Clone returns an independent chain holding the same interceptors.
func (c *InterceptorChain) Clone() *InterceptorChain {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &InterceptorChain{
		requestInterceptors:  append([]RequestInterceptor(nil), c.requestInterceptors...),
		responseInterceptors: append([]ResponseInterceptor(nil), c.responseInterceptors...),
	}
}

// ExecuteRequestInterceptors runs the request interceptors in order, stopping at the first error.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	c.mu.RLock()
	interceptors := c.requestInterceptors
	c.mu.RUnlock()

	for _, interceptor := range interceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs the response interceptors in order, stopping at the first error.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	c.mu.RLock()
	interceptors := c.responseInterceptors
	c.mu.RUnlock()

	for _, interceptor := range interceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Common Interceptors

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("cma request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs the status, at error level when the attempt failed.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			fields["error"] = resp.Error
			logger.Error("cma response error", fields)
		} else {
			logger.Debug("cma response", fields)
		}

		return nil
	}
}

// RateLimitInterceptor limits requests to requestsPerSecond with the given burst.
// Requests wait for a token or fail when ctx is done.
func RateLimitInterceptor(requestsPerSecond float64, burst int) RequestInterceptor {
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(ctx context.Context, req *Request) error {
		err := limiter.Wait(ctx)
		if err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}

		return nil
	}
}

// HeaderInterceptor sets fixed headers, such as X-Include-Drafts, on every request.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// Metrics holds the counters of one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector collects API metrics keyed by "METHOD path".
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics Metrics)
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange registers fn, called with a copy of the endpoint metrics after each request.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a snapshot of the metrics of an endpoint.
func (m *MetricsCollector) GetMetrics(endpoint string) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metrics, ok := m.metrics[endpoint]; ok {
		snapshot := *metrics

		return &snapshot
	}

	return nil
}

// Endpoints returns the endpoints seen so far.
func (m *MetricsCollector) Endpoints() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	endpoints := make([]string, 0, len(m.metrics))
	for endpoint := range m.metrics {
		endpoints = append(endpoints, endpoint)
	}

	return endpoints
}

func (m *MetricsCollector) record(endpoint string, latency time.Duration, failed bool) {
	m.mu.Lock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = time.Now()

	if latency > 0 {
		metrics.TotalLatency += latency
		metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
	}

	if failed {
		metrics.TotalErrors++
	}

	snapshot := *metrics
	onChange := m.onChange
	m.mu.Unlock()

	if onChange != nil {
		onChange(endpoint, snapshot)
	}
}

const metadataStartTime = "start_time"

// MetricsRequestInterceptor stamps the request start in its metadata.
func MetricsRequestInterceptor(collector *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[metadataStartTime] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records latency and failures per endpoint.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		var latency time.Duration

		if startTime, ok := req.Metadata[metadataStartTime].(time.Time); ok {
			latency = time.Since(startTime)
		}

		failed := resp.Error != nil || resp.StatusCode >= constants.HTTPStatusBadRequest
		collector.record(req.Method+" "+req.Path, latency, failed)

		return nil
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	Threshold        int           // consecutive failures that open the circuit
	Timeout          time.Duration // open period before a trial request
	SuccessThreshold int           // trial successes that close it again
}

// CircuitBreaker stops sending requests after repeated server failures.
type CircuitBreaker struct {
	mu          sync.Mutex
	config      *CircuitBreakerConfig
	failures    int
	successes   int
	state       string
	lastFailure time.Time
}

// NewCircuitBreaker creates a closed breaker. A nil config uses the defaults.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = &CircuitBreakerConfig{
			Threshold:        constants.CircuitBreakerThreshold,
			Timeout:          constants.CircuitBreakerTimeout,
			SuccessThreshold: constants.CircuitBreakerSuccessThreshold,
		}
	}

	return &CircuitBreaker{
		config: config,
		state:  constants.StatusClosed,
	}
}

// State returns "closed", "open" or "half-open".
func (b *CircuitBreaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *CircuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != constants.StatusOpen {
		return nil
	}

	if time.Since(b.lastFailure) > b.config.Timeout {
		b.state = constants.StatusHalfOpen
		b.successes = 0

		return nil
	}

	return ErrCircuitBreakerOpen
}

func (b *CircuitBreaker) observe(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if failed {
		b.failures++
		b.lastFailure = time.Now()

		if b.failures >= b.config.Threshold || b.state == constants.StatusHalfOpen {
			b.state = constants.StatusOpen
		}

		return
	}

	switch b.state {
	case constants.StatusHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.state = constants.StatusClosed
			b.failures = 0
		}
	case constants.StatusClosed:
		b.failures = 0
	}
}

// CircuitBreakerRequestInterceptor fails fast while the circuit is open.
func CircuitBreakerRequestInterceptor(breaker *CircuitBreaker) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		return breaker.allow()
	}
}

// CircuitBreakerResponseInterceptor counts transport errors and 5xx responses as failures.
func CircuitBreakerResponseInterceptor(breaker *CircuitBreaker) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		breaker.observe(resp.Error != nil || resp.StatusCode >= constants.HTTPStatusInternalServerError)

		return nil
	}
}
