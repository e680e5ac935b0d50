package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

const testToken = "test-token"

// newTestClient starts a server for handler and returns a client that polls jobs quickly.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(t.Context(), &dato.Config{
		APIToken: testToken,
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	client.jobResults.pollInterval = constants.QuickPollInterval
	client.jobResults.maxInterval = constants.QuickPollInterval

	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := io.WriteString(w, body)
	require.NoError(t, err)
}

// requestDocument decodes a request body as a JSON:API document.
type requestDocument struct {
	Data struct {
		ID            string                     `json:"id"`
		Type          string                     `json:"type"`
		Attributes    map[string]json.RawMessage `json:"attributes"`
		Relationships map[string]struct {
			Data json.RawMessage `json:"data"`
		} `json:"relationships"`
		Meta map[string]json.RawMessage `json:"meta"`
	} `json:"data"`
}

func decodeRequest(t *testing.T, r *http.Request) requestDocument {
	t.Helper()

	var doc requestDocument

	err := json.NewDecoder(r.Body).Decode(&doc)
	require.NoError(t, err)

	return doc
}

const notFoundBody = `{"data":[{"id":"1","type":"api_error","attributes":{"code":"NOT_FOUND","details":{}}}]}`
