package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the JSON body every API response is wrapped in
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// ErrorCode returns the error code, or "" for a successful response
func (e Envelope) ErrorCode() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Code
}

// APIClient drives an http.Handler as one principal using the X-User-ID and
// X-User-Role headers
type APIClient struct {
	t       *testing.T
	handler http.Handler
	userID  uuid.UUID
	role    string
}

// NewAPIClient creates a client acting as userID with role
func NewAPIClient(t *testing.T, handler http.Handler, userID uuid.UUID, role string) *APIClient {
	return &APIClient{t: t, handler: handler, userID: userID, role: role}
}

// As returns a client for another principal on the same handler
func (c *APIClient) As(userID uuid.UUID, role string) *APIClient {
	return NewAPIClient(c.t, c.handler, userID, role)
}

// Do sends body (JSON encoded when non-nil) and decodes the envelope
func (c *APIClient) Do(method, path string, body any) (int, Envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.userID != uuid.Nil {
		req.Header.Set("X-User-ID", c.userID.String())
		req.Header.Set("X-User-Role", c.role)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	var env Envelope
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

// DoInto is Do followed by decoding the data field into out. It fails the
// test unless the status is want.
func (c *APIClient) DoInto(method, path string, body any, want int, out any) Envelope {
	c.t.Helper()
	code, env := c.Do(method, path, body)
	require.Equal(c.t, want, code, "unexpected status, error=%s", env.ErrorCode())
	if out != nil {
		require.NoError(c.t, json.Unmarshal(env.Data, out))
	}
	return env
}
