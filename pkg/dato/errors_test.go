package dato_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const validationErrorBody = `{
  "data": [
    {
      "id": "5b7a2c",
      "type": "api_error",
      "attributes": {
        "code": "INVALID_FIELD",
        "details": {"field": "title", "code": "VALIDATION_REQUIRED"},
        "doc_url": "https://www.datocms.com/docs/content-management-api/errors#INVALID_FIELD"
      }
    },
    {
      "id": "9f1e0d",
      "type": "api_error",
      "attributes": {"code": "STALE_ITEM_VERSION"}
    }
  ]
}`

func TestParseAPIError(t *testing.T) {
	t.Parallel()

	apiErr := dato.ParseAPIError(http.StatusUnprocessableEntity, []byte(validationErrorBody))

	require.Len(t, apiErr.Errors, 2)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, dato.ErrorCodeInvalidField, apiErr.FirstError().Attributes.Code)
	assert.Equal(t, "title", apiErr.FirstError().Attributes.Details["field"])

	found := apiErr.FindError(dato.ErrorCodeStaleItemVersion, dato.ErrorCodeItemLocked)
	require.NotNil(t, found)
	assert.Equal(t, "9f1e0d", found.ID)
	assert.Nil(t, apiErr.FindError(dato.ErrorCodeNotFound))
}

func TestParseAPIError_NotAnErrorDocument(t *testing.T) {
	t.Parallel()

	apiErr := dato.ParseAPIError(http.StatusBadGateway, []byte("<html>bad gateway</html>"))
	assert.Empty(t, apiErr.Errors)
	assert.Nil(t, apiErr.FirstError())
	assert.Equal(t, "502 Bad Gateway", apiErr.Error())

	assert.Empty(t, dato.ParseAPIError(http.StatusNotFound, nil).Errors)
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	apiErr := dato.ParseAPIError(http.StatusUnprocessableEntity, []byte(validationErrorBody))
	apiErr.Method = http.MethodPost
	apiErr.URL = "https://site-api.datocms.com/items"

	message := apiErr.Error()
	assert.Contains(t, message, "POST https://site-api.datocms.com/items: 422 Unprocessable Entity")
	assert.Contains(t, message, `INVALID_FIELD {"code":"VALIDATION_REQUIRED","field":"title"}`)
	assert.Contains(t, message, "; STALE_ITEM_VERSION")
}

func TestAPIError_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   int
		sentinel error
		check    func(error) bool
	}{
		{http.StatusBadRequest, dato.ErrInvalidParams, dato.IsInvalidParams},
		{http.StatusUnauthorized, dato.ErrUnauthorized, dato.IsUnauthorized},
		{http.StatusForbidden, dato.ErrForbidden, dato.IsForbidden},
		{http.StatusNotFound, dato.ErrNotFound, dato.IsNotFound},
		{http.StatusUnprocessableEntity, dato.ErrValidation, dato.IsValidation},
		{http.StatusTooManyRequests, dato.ErrRateLimited, dato.IsRateLimited},
		{http.StatusServiceUnavailable, dato.ErrServerError, dato.IsServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			err := fmt.Errorf("finding record: %w", &dato.APIError{StatusCode: tt.status})

			require.ErrorIs(t, err, tt.sentinel)
			assert.True(t, tt.check(err))
			assert.NotErrorIs(t, err, dato.ErrConfigRequired)
		})
	}

	assert.NotErrorIs(t, &dato.APIError{StatusCode: http.StatusNotFound}, dato.ErrForbidden)
	assert.False(t, dato.IsNotFound(dato.ErrNotFound))
}

func TestHasErrorCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("updating record: %w", dato.ParseAPIError(http.StatusUnprocessableEntity, []byte(validationErrorBody)))

	assert.True(t, dato.HasErrorCode(err, dato.ErrorCodeStaleItemVersion))
	assert.False(t, dato.HasErrorCode(err, dato.ErrorCodeMaintenanceModeActive))
	assert.False(t, dato.HasErrorCode(dato.ErrJobFailed, dato.ErrorCodeInvalidField))
}

func TestJobResult_Err(t *testing.T) {
	t.Parallel()

	succeeded := &dato.JobResult{Status: http.StatusOK}
	assert.True(t, succeeded.Succeeded())
	require.NoError(t, succeeded.Err())

	failed := &dato.JobResult{Status: http.StatusUnprocessableEntity, Payload: []byte(validationErrorBody)}
	assert.False(t, failed.Succeeded())

	err := failed.Err()
	require.ErrorIs(t, err, dato.ErrValidation)
	assert.True(t, dato.HasErrorCode(err, dato.ErrorCodeInvalidField))
}
