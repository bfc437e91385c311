package testutils

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/api/middleware"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils/response"
	"github.com/stretchr/testify/require"
)

func CreateTestRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

// CreateTestRequestWithSession adds what the bearer session middleware
// would have put in the context.
func CreateTestRequestWithSession(method, target string, body io.Reader, claims *models.Claims, token string) *http.Request {
	req := CreateTestRequest(method, target, body, nil)

	ctx := context.WithValue(req.Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.TokenKey, token)

	return req.WithContext(ctx)
}

// DecodeData unwraps the success envelope into dest and returns the envelope.
func DecodeData(t *testing.T, body []byte, dest any) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(body, &resp))

	if dest != nil && resp.Data != nil {
		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}

	return resp
}
