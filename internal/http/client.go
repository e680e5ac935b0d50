// Package http is the transport used by every resource client.
package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/auth"
	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/hashicorp/go-retryablehttp"
)

// Static errors for err113 compliance.
var (
	ErrMethodRequired = errors.New("request method is required")
)

// Client performs authenticated requests against a DatoCMS API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	logger       dato.Logger
	debug        bool
	userAgent    string
	environment  string
	headers      map[string]string
	interceptors *dato.InterceptorChain
	cache        *dato.CacheManager
	cachePolicy  *dato.CachingPolicy
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger dato.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig sets the retry budget and the bounds of the wait between attempts.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithEnvironment targets a sandbox environment through the X-Environment header.
func WithEnvironment(environment string) Option {
	return func(c *Client) {
		c.environment = environment
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		merged := make(map[string]string, len(c.headers)+len(headers))
		for key, value := range c.headers {
			merged[key] = value
		}

		for key, value := range headers {
			merged[key] = value
		}

		c.headers = merged
	}
}

// WithInterceptors installs an interceptor chain.
func WithInterceptors(chain *dato.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache serves GET requests allowed by policy from manager.
// A nil policy means dato.DefaultCachingPolicy.
func WithCache(manager *dato.CacheManager, policy *dato.CachingPolicy) Option {
	return func(c *Client) {
		if policy == nil {
			policy = dato.DefaultCachingPolicy()
		}

		c.cache = manager
		c.cachePolicy = policy
	}
}

// WithHTTPTimeout bounds each attempt.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// Request is one API call.
type Request struct {
	Method string
	// Path is relative to the base URL, or an absolute URL used verbatim.
	Path  string
	Query url.Values
	// Body is JSON encoded unless it is already []byte or json.RawMessage.
	Body interface{}
	// RawBody is sent as is, e.g. a file streamed to an upload URL.
	RawBody       io.Reader
	ContentLength int64
	Headers       map[string]string
	// SkipAuth omits the Authorization header.
	SkipAuth bool
}

// Response is the outcome of a Request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// NewClient creates a client for baseURL. tokenManager may be nil for unauthenticated use.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.ExtendedRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.CheckRetry = checkRetry
	retryClient.Backoff = rateLimitBackoff
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		logger:       dato.NopLogger{},
		userAgent:    constants.DefaultUserAgent,
		headers:      map[string]string{},
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient.RequestLogHook = client.logRetry

	return client
}

// Clone returns a copy sharing the connection pool and cache, with opts applied.
func (c *Client) Clone(opts ...Option) *Client {
	clone := *c
	clone.headers = make(map[string]string, len(c.headers))

	for key, value := range c.headers {
		clone.headers[key] = value
	}

	for _, opt := range opts {
		opt(&clone)
	}

	return &clone
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Environment returns the targeted environment, empty for the primary one.
func (c *Client) Environment() string {
	return c.environment
}

// Logger returns the configured logger.
func (c *Client) Logger() dato.Logger {
	return c.logger
}

// Cache returns the cache manager, if any.
func (c *Client) Cache() *dato.CacheManager {
	return c.cache
}

// Do executes req. When the API answers with a status of 400 or more, the
// response is returned together with a *dato.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Method == "" {
		return nil, ErrMethodRequired
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	intercepted := &dato.Request{
		Method:   req.Method,
		Path:     req.Path,
		Query:    req.Query,
		Headers:  make(http.Header),
		Body:     body,
		Metadata: map[string]interface{}{},
	}

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	resp, err := c.doCached(ctx, req, intercepted)

	if c.interceptors != nil {
		interceptedResp := &dato.Response{Error: err}
		if resp != nil {
			interceptedResp.StatusCode = resp.StatusCode
			interceptedResp.Headers = resp.Headers
			interceptedResp.Body = resp.Body
		}

		interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, interceptedResp)
		if interceptErr != nil && err == nil {
			err = interceptErr
		}
	}

	if err == nil && c.cache != nil && dato.IsMutation(req.Method) {
		clearErr := c.cache.Clear(ctx)
		if clearErr != nil {
			c.logger.Warn("failed to clear cache", map[string]interface{}{"error": clearErr})
		}
	}

	return resp, err
}

func (c *Client) doCached(ctx context.Context, req *Request, intercepted *dato.Request) (*Response, error) {
	if c.cache == nil || req.RawBody != nil || !c.cachePolicy.ShouldCacheRequest(req.Method, req.Path) {
		return c.execute(ctx, req, intercepted)
	}

	scope, err := c.cacheScope(ctx, req)
	if err != nil {
		return nil, err
	}

	key := c.cache.GetScopedCacheKey(scope, c.environment, req.Method, req.Path, req.Query)
	ttl := c.cachePolicy.TTLFor(req.Path, c.cache.TTL())

	var fresh atomic.Pointer[Response]

	data, hit, err := c.cache.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, bool, error) {
		resp, execErr := c.execute(ctx, req, intercepted)
		fresh.Store(resp)

		if execErr != nil {
			return nil, false, execErr
		}

		return resp.Body, c.cachePolicy.ShouldCache(req.Method, req.Path, resp.StatusCode), nil
	})

	if resp := fresh.Load(); resp != nil {
		return resp, err
	}

	if err != nil {
		apiErr := &dato.APIError{}
		if errors.As(err, &apiErr) {
			return &Response{StatusCode: apiErr.StatusCode}, err
		}

		return nil, err
	}

	headers := make(http.Header)
	if hit {
		headers.Set(constants.HeaderCache, "HIT")

		if c.debug {
			c.logger.Debug("HTTP Response", map[string]interface{}{
				"method": req.Method,
				"url":    req.Path,
				"cache":  "hit",
			})
		}
	}

	return &Response{StatusCode: http.StatusOK, Headers: headers, Body: data}, nil
}

// cacheScope identifies the endpoint and credential of a cached response.
// Projects share an endpoint and differ only by token, so the key carries a
// truncated SHA-256 of the token, never the token itself.
func (c *Client) cacheScope(ctx context.Context, req *Request) (string, error) {
	if c.tokenManager == nil || req.SkipAuth {
		return c.baseURL, nil
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting API token: %w", err)
	}

	sum := sha256.Sum256([]byte(token))

	return c.baseURL + "#" + hex.EncodeToString(sum[:8]), nil
}

// execute sends the request, refreshing the token and replaying once on 401.
func (c *Client) execute(ctx context.Context, req *Request, intercepted *dato.Request) (*Response, error) {
	resp, err := c.send(ctx, req, intercepted)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || req.SkipAuth || c.tokenManager == nil {
		return c.checkStatus(req, resp, err)
	}

	refreshErr := c.tokenManager.RefreshToken(ctx)
	if refreshErr != nil {
		c.logger.Warn("token refresh failed", map[string]interface{}{"error": refreshErr})

		return c.checkStatus(req, resp, err)
	}

	resp, err = c.send(ctx, req, intercepted)

	return c.checkStatus(req, resp, err)
}

func (c *Client) checkStatus(req *Request, resp *Response, err error) (*Response, error) {
	if err != nil {
		return resp, err
	}

	if resp.StatusCode < constants.HTTPStatusBadRequest {
		return resp, nil
	}

	apiErr := dato.ParseAPIError(resp.StatusCode, resp.Body)
	apiErr.Method = req.Method
	apiErr.URL = c.resolveURL(req.Path)

	if reset, ok := rateLimitReset(resp.Headers); ok {
		apiErr.RateLimitReset = reset
	}

	return resp, apiErr
}

func (c *Client) send(ctx context.Context, req *Request, intercepted *dato.Request) (*Response, error) {
	fullURL := c.resolveURL(req.Path)
	if len(intercepted.Query) > 0 {
		fullURL += "?" + intercepted.Query.Encode()
	}

	var rawBody interface{}

	switch {
	case req.RawBody != nil:
		rawBody = req.RawBody
	case intercepted.Body != nil:
		rawBody = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if req.RawBody != nil && req.ContentLength > 0 {
		httpReq.ContentLength = req.ContentLength
	}

	err = c.setHeaders(ctx, httpReq, req, intercepted)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":   req.Method,
			"url":      fullURL,
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request, intercepted *dato.Request) error {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(constants.HeaderAPIVersion, constants.APIVersion)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if intercepted.Body != nil && req.RawBody == nil {
		httpReq.Header.Set("Content-Type", constants.JSONAPIContentType)
	}

	if c.environment != "" {
		httpReq.Header.Set(constants.HeaderEnvironment, c.environment)
	}

	if c.tokenManager != nil && !req.SkipAuth {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("getting API token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	for key, values := range intercepted.Headers {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}

	return nil
}

func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return path
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

func (c *Client) logRetry(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if attempt == 0 {
		return
	}

	c.logger.Warn("retrying request", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"attempt": attempt,
	})
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}

func encodeBody(body interface{}) ([]byte, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return value, nil
	case json.RawMessage:
		return value, nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		return data, nil
	}
}

// checkRetry retries connection errors, 429 and 5xx responses other than 501.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	if resp.StatusCode == constants.HTTPStatusTooManyRequests {
		return true, nil
	}

	if resp.StatusCode == 0 ||
		(resp.StatusCode >= constants.HTTPStatusInternalServerError && resp.StatusCode != constants.HTTPStatusNotImplemented) {
		return true, nil
	}

	return false, nil
}

// rateLimitBackoff waits for X-RateLimit-Reset on 429, bounded by maxWait.
func rateLimitBackoff(minWait, maxWait time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == constants.HTTPStatusTooManyRequests {
		if seconds, ok := rateLimitReset(resp.Header); ok {
			wait := time.Duration(seconds) * time.Second
			if wait > maxWait {
				wait = maxWait
			}

			return wait
		}
	}

	return retryablehttp.DefaultBackoff(minWait, maxWait, attemptNum, resp)
}

func rateLimitReset(headers http.Header) (int, bool) {
	if headers == nil {
		return 0, false
	}

	value := headers.Get(constants.HeaderRateLimitReset)
	if value == "" {
		return 0, false
	}

	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0, false
	}

	return seconds, true
}
