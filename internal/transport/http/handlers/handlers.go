package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apierrors "github.com/pribylovaa/go-auth-sessions/internal/errors"
	"github.com/pribylovaa/go-auth-sessions/internal/models"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/pribylovaa/go-auth-sessions/internal/transport/http/handlers SessionService

// maxBodyBytes — предел тела запроса; токены и идентичности заведомо меньше.
const maxBodyBytes = 64 << 10

// SessionService — операции жизненного цикла сессий, нужные HTTP-слою.
// Реализуется service.Service.
type SessionService interface {
	Login(ctx context.Context, id models.Identity) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	ValidateAccess(ctx context.Context, accessToken string) (models.TokenPayload, error)
}

// Handlers агрегирует зависимости.
type Handlers struct {
	Sessions SessionService
}

func New(s SessionService) *Handlers {
	return &Handlers{Sessions: s}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля и хвост после объекта.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", apierrors.ErrPayloadTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidArgument, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: trailing data", apierrors.ErrInvalidArgument)
	}

	return nil
}
