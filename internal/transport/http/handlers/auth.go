package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/pribylovaa/go-auth-sessions/internal/errors"
	"github.com/pribylovaa/go-auth-sessions/internal/models"
	"github.com/pribylovaa/go-auth-sessions/internal/service"
	"github.com/pribylovaa/go-auth-sessions/internal/transport/http/middleware"
)

// LoginUser выпускает пару токенов для идентичности, уже аутентифицированной вызывающей стороной.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in models.AuthLoginRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pair, err := h.Sessions.Login(r.Context(), in.Identity())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthFromPair(pair))
}

// RefreshToken обменивает refresh-токен на новую пару: 403 для неразбираемого
// токена, 401 для отозванного/истёкшего/поддельного.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in models.AuthRefreshRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pair, err := h.Sessions.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthFromPair(pair))
}

// ValidateToken отвечает {valid:false} на любой непроверяемый токен;
// ошибкой завершаются только инфраструктурные сбои.
func (h *Handlers) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var in models.AuthValidateRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	payload, err := h.Sessions.ValidateAccess(r.Context(), in.AccessToken)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, models.AuthValidateFromPayload(payload, true))
	case errors.Is(err, service.ErrInvalidCredential), errors.Is(err, service.ErrCredentialMismatch):
		writeJSON(w, http.StatusOK, models.AuthValidateFromPayload(payload, false))
	default:
		apierrors.WriteError(w, r, err)
	}
}

// Me возвращает владельца access-токена. Требует middleware.AuthBearer.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	payload, ok := middleware.PayloadFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrCredentialMismatch)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthMeFromPayload(payload))
}
