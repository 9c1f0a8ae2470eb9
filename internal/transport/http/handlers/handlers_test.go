package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/pribylovaa/go-auth-sessions/internal/errors"
	"github.com/pribylovaa/go-auth-sessions/internal/models"
	"github.com/pribylovaa/go-auth-sessions/internal/service"
	"github.com/pribylovaa/go-auth-sessions/internal/transport/http/handlers/mocks"
	"github.com/pribylovaa/go-auth-sessions/internal/transport/http/middleware"
)

func newHandlers(t *testing.T) (*Handlers, *mocks.MockSessionService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockSessionService(ctrl)
	return New(svc), svc
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) apierrors.ErrorResponse {
	t.Helper()
	var env apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func samplePair() *models.TokenPair {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &models.TokenPair{
		AccessToken:      "a0",
		RefreshToken:     "r0",
		AccessExpiresAt:  at.Add(time.Hour),
		RefreshExpiresAt: at.Add(24 * time.Hour),
	}
}

func TestLoginUser_OK(t *testing.T) {
	h, svc := newHandlers(t)

	svc.EXPECT().
		Login(gomock.Any(), models.Identity{UserID: "u1", Email: "a@x.com"}).
		Return(samplePair(), nil)

	rr := httptest.NewRecorder()
	h.LoginUser(rr, postJSON("/auth/login", `{"userId":"u1","email":"a@x.com"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var out models.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, models.AuthFromPair(samplePair()), out)
}

func TestLoginUser_BadJSON_400_NoServiceCall(t *testing.T) {
	for _, body := range []string{
		``,
		`{`,
		`{"userId":"u1","email":"a@x.com","password":"x"}`,
		`{"userId":"u1","email":"a@x.com"} {}`,
	} {
		h, _ := newHandlers(t)

		rr := httptest.NewRecorder()
		h.LoginUser(rr, postJSON("/auth/login", body))

		require.Equal(t, http.StatusBadRequest, rr.Code, body)
		require.Equal(t, "invalid_argument", decodeErr(t, rr).Error.Code)
	}
}

func TestRefreshToken_BodyTooLarge_413_NoServiceCall(t *testing.T) {
	h, _ := newHandlers(t)

	body := `{"refreshToken":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`

	rr := httptest.NewRecorder()
	h.RefreshToken(rr, postJSON("/auth/refresh", body))

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.Equal(t, "payload_too_large", decodeErr(t, rr).Error.Code)
}

func TestLoginUser_InvalidIdentity_400(t *testing.T) {
	h, svc := newHandlers(t)

	svc.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("op: %w", service.ErrInvalidIdentity))

	rr := httptest.NewRecorder()
	h.LoginUser(rr, postJSON("/auth/login", `{"userId":"","email":"a@x.com"}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefreshToken_ErrorMapping(t *testing.T) {
	tcs := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"malformed", service.ErrInvalidCredential, http.StatusForbidden, "forbidden"},
		{"mismatch", service.ErrCredentialMismatch, http.StatusUnauthorized, "unauthorized"},
		{"encoding", service.ErrEncoding, http.StatusInternalServerError, "internal"},
		{"store", errors.New("redis: i/o timeout"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			h, svc := newHandlers(t)

			svc.EXPECT().Refresh(gomock.Any(), "r0").
				Return(nil, fmt.Errorf("service.session.Refresh: %w", tc.err))

			rr := httptest.NewRecorder()
			req := postJSON("/auth/refresh", `{"refreshToken":"r0"}`)
			req.Header.Set("X-Request-Id", "rid-9")
			h.RefreshToken(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			env := decodeErr(t, rr)
			require.Equal(t, tc.wantCode, env.Error.Code)
			require.Equal(t, "rid-9", env.Error.RequestID)
		})
	}
}

func TestRefreshToken_OK(t *testing.T) {
	h, svc := newHandlers(t)

	svc.EXPECT().Refresh(gomock.Any(), "r0").Return(samplePair(), nil)

	rr := httptest.NewRecorder()
	h.RefreshToken(rr, postJSON("/auth/refresh", `{"refreshToken":"r0"}`))

	require.Equal(t, http.StatusOK, rr.Code)

	var out models.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, "r0", out.RefreshToken)
}

func TestValidateToken(t *testing.T) {
	payload := models.TokenPayload{UserID: "u1", Email: "a@x.com"}

	t.Run("valid", func(t *testing.T) {
		h, svc := newHandlers(t)
		svc.EXPECT().ValidateAccess(gomock.Any(), "a0").Return(payload, nil)

		rr := httptest.NewRecorder()
		h.ValidateToken(rr, postJSON("/auth/validate", `{"accessToken":"a0"}`))

		require.Equal(t, http.StatusOK, rr.Code)
		var out models.AuthValidateResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		require.Equal(t, models.AuthValidateResponse{Valid: true, UserID: "u1", Email: "a@x.com"}, out)
	})

	for _, verr := range []error{service.ErrInvalidCredential, service.ErrCredentialMismatch} {
		t.Run("invalid_"+verr.Error(), func(t *testing.T) {
			h, svc := newHandlers(t)
			svc.EXPECT().ValidateAccess(gomock.Any(), "bad").Return(models.TokenPayload{}, verr)

			rr := httptest.NewRecorder()
			h.ValidateToken(rr, postJSON("/auth/validate", `{"accessToken":"bad"}`))

			require.Equal(t, http.StatusOK, rr.Code)
			var out models.AuthValidateResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
			require.False(t, out.Valid)
			require.Empty(t, out.UserID)
		})
	}

	t.Run("encoding_is_500", func(t *testing.T) {
		h, svc := newHandlers(t)
		svc.EXPECT().ValidateAccess(gomock.Any(), "a0").Return(models.TokenPayload{}, service.ErrEncoding)

		rr := httptest.NewRecorder()
		h.ValidateToken(rr, postJSON("/auth/validate", `{"accessToken":"a0"}`))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestMe_WithoutPayload_401(t *testing.T) {
	h, _ := newHandlers(t)

	rr := httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMe_BehindAuthBearer(t *testing.T) {
	h, svc := newHandlers(t)
	payload := models.TokenPayload{UserID: "u1", Email: "a@x.com"}

	svc.EXPECT().ValidateAccess(gomock.Any(), "a0").Return(payload, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer a0")

	rr := httptest.NewRecorder()
	middleware.Chain(http.HandlerFunc(h.Me), middleware.AuthBearer(svc)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var out models.AuthMeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, models.AuthMeResponse{UserID: "u1", Email: "a@x.com"}, out)
}
