package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/go-auth-sessions/internal/errors"
	"github.com/pribylovaa/go-auth-sessions/internal/models"
	"github.com/pribylovaa/go-auth-sessions/internal/service"
)

// AccessValidator проверяет access-токен. Реализуется service.Service.
type AccessValidator interface {
	ValidateAccess(ctx context.Context, accessToken string) (models.TokenPayload, error)
}

// AuthBearer требует заголовок "Authorization: Bearer <access>", проверяет токен
// через v и кладёт полезную нагрузку в контекст (PayloadFrom).
// Отсутствующий или непроверяемый токен — 401.
func AuthBearer(v AccessValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="auth"`)
				apierrors.WriteError(w, r, service.ErrCredentialMismatch)
				return
			}

			payload, err := v.ValidateAccess(r.Context(), raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="auth", error="invalid_token"`)
				apierrors.WriteError(w, r, bearerError(err))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPayload, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerError сводит отказ по токену к 401; инфраструктурные ошибки проходят как есть.
func bearerError(err error) error {
	if errors.Is(err, service.ErrInvalidCredential) || errors.Is(err, service.ErrCredentialMismatch) {
		return service.ErrCredentialMismatch
	}
	return err
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
