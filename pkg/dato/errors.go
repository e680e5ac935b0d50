package dato

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Status-class sentinels. An *APIError matches the sentinel for its status code
// through errors.Is.
var (
	ErrInvalidParams = errors.New("invalid parameters")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrRateLimited   = errors.New("rate limited")
	ErrServerError   = errors.New("server error")
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrAPITokenRequired      = errors.New("API token is required")
	ErrBaseURLRequired       = errors.New("base URL is required")
	ErrIDRequired            = errors.New("resource id is required")
	ErrCircuitBreakerOpen    = errors.New("circuit breaker is open")
	ErrNoMoreItems           = errors.New("no more items")
	ErrJobFailed             = errors.New("job failed")
	ErrUnexpectedJobResponse = errors.New("unexpected job response")
	ErrEmptyResponse         = errors.New("empty response body")
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")
)

// Error codes returned in the "code" attribute of api_error entities.
const (
	ErrorCodeNotFound                    = "NOT_FOUND"
	ErrorCodeInvalidField                = "INVALID_FIELD"
	ErrorCodeInvalidAuthorizationHeader  = "INVALID_AUTHORIZATION_HEADER"
	ErrorCodeInsufficientPermissions     = "INSUFFICIENT_PERMISSIONS"
	ErrorCodeRateLimitExceeded           = "RATE_LIMIT_EXCEEDED"
	ErrorCodeStaleItemVersion            = "STALE_ITEM_VERSION"
	ErrorCodeItemLocked                  = "ITEM_LOCKED"
	ErrorCodeBatchDataValidationProgress = "BATCH_DATA_VALIDATION_IN_PROGRESS"
	ErrorCodeMaintenanceModeActive       = "MAINTENANCE_MODE_ACTIVE"
	ErrorCodeInvalidEnvironment          = "INVALID_ENVIRONMENT"
)

// ErrorAttributes carries the details of one api_error entity.
type ErrorAttributes struct {
	Code    string                 `json:"code"              yaml:"code"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	DocURL  string                 `json:"doc_url,omitempty" yaml:"doc_url,omitempty"`
}

// ErrorEntity is a single entry of an error document.
type ErrorEntity struct {
	ID         string          `json:"id"         yaml:"id"`
	Type       string          `json:"type"       yaml:"type"`
	Attributes ErrorAttributes `json:"attributes" yaml:"attributes"`
}

// errorDocument is the body of a failed request.
type errorDocument struct {
	Data []ErrorEntity `json:"data"`
}

// APIError represents a failed API call.
type APIError struct {
	StatusCode int           `json:"status_code" yaml:"status_code"`
	Method     string        `json:"method"      yaml:"method"`
	URL        string        `json:"url"         yaml:"url"`
	Errors     []ErrorEntity `json:"errors"      yaml:"errors"`
	// RateLimitReset is the X-RateLimit-Reset value in seconds, when sent.
	RateLimitReset int `json:"rate_limit_reset,omitempty" yaml:"rate_limit_reset,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var builder strings.Builder

	if e.Method != "" || e.URL != "" {
		builder.WriteString(strings.TrimSpace(e.Method + " " + e.URL))
		builder.WriteString(": ")
	}

	fmt.Fprintf(&builder, "%d %s", e.StatusCode, http.StatusText(e.StatusCode))

	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, entity := range e.Errors {
			parts = append(parts, formatErrorEntity(entity))
		}

		builder.WriteString(" (")
		builder.WriteString(strings.Join(parts, "; "))
		builder.WriteString(")")
	}

	return builder.String()
}

func formatErrorEntity(entity ErrorEntity) string {
	if len(entity.Attributes.Details) == 0 {
		return entity.Attributes.Code
	}

	details, err := json.Marshal(entity.Attributes.Details)
	if err != nil {
		return entity.Attributes.Code
	}

	return fmt.Sprintf("%s %s", entity.Attributes.Code, details)
}

// Is reports whether target is the status-class sentinel matching this error.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrInvalidParams:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusUnprocessableEntity
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrServerError:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// FirstError returns the first error entity or nil.
func (e *APIError) FirstError() *ErrorEntity {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// FindError returns the first entity whose code is one of codes.
func (e *APIError) FindError(codes ...string) *ErrorEntity {
	for i := range e.Errors {
		for _, code := range codes {
			if e.Errors[i].Attributes.Code == code {
				return &e.Errors[i]
			}
		}
	}

	return nil
}

// ParseAPIError builds an APIError from a status code and a response body.
// Bodies that are not an error document still produce an APIError without entities.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	if len(body) == 0 {
		return apiErr
	}

	var doc errorDocument

	err := json.Unmarshal(body, &doc)
	if err == nil {
		apiErr.Errors = doc.Data
	}

	return apiErr
}

func statusOf(err error) (int, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}

	return 0, false
}

// IsNotFound checks if the error is a 404.
func IsNotFound(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401.
func IsUnauthorized(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusUnauthorized
}

// IsForbidden checks if the error is a 403.
func IsForbidden(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusForbidden
}

// IsInvalidParams checks if the error is a 400.
func IsInvalidParams(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusBadRequest
}

// IsValidation checks if the error is a 422.
func IsValidation(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusUnprocessableEntity
}

// IsRateLimited checks if the error is a 429.
func IsRateLimited(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusTooManyRequests
}

// IsServerError checks if the error is a 5xx.
func IsServerError(err error) bool {
	status, ok := statusOf(err)

	return ok && status >= http.StatusInternalServerError
}

// HasErrorCode checks if err is an APIError carrying one of codes.
func HasErrorCode(err error, codes ...string) bool {
	apiErr := &APIError{}
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.FindError(codes...) != nil
}
