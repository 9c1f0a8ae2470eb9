package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-auth-sessions/internal/service"
	"github.com/pribylovaa/go-auth-sessions/internal/session"
)

func wrap(err error) error { return fmt.Errorf("service.session.Refresh: %w", err) }

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_identity", wrap(service.ErrInvalidIdentity), http.StatusBadRequest, "invalid_argument"},
		{"invalid_argument", ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"too_large", ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "payload_too_large"},
		{"mismatch", wrap(service.ErrCredentialMismatch), http.StatusUnauthorized, "unauthorized"},
		{"malformed", wrap(service.ErrInvalidCredential), http.StatusForbidden, "forbidden"},
		{"canceled", wrap(context.Canceled), StatusClientClosedRequest, "canceled"},
		{"deadline", wrap(context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"unavailable", wrap(session.ErrUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{"encoding", wrap(service.ErrEncoding), http.StatusInternalServerError, "internal"},
		{"unknown", stderrors.New("redis: connection refused"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_DoesNotLeakDetails(t *testing.T) {
	_, resp := ToHTTP(stderrors.New("dial tcp 10.0.0.7:6379: connection refused"))
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_SetsRequestIDAndContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("X-Request-Id", "rid-1")

	WriteError(rr, req, wrap(service.ErrCredentialMismatch))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "unauthorized", body.Error.Code)
	require.Equal(t, "rid-1", body.Error.RequestID)
}
