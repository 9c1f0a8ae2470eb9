package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/go-auth-sessions/internal/metrics"
	"github.com/pribylovaa/go-auth-sessions/internal/models"
	"github.com/pribylovaa/go-auth-sessions/internal/pkg/log"
	"github.com/pribylovaa/go-auth-sessions/internal/pkg/redact"
	"github.com/pribylovaa/go-auth-sessions/internal/token"
)

// Login выпускает новую пару токенов для уже аутентифицированной идентичности
// и сохраняет refresh-токен под её e-mail, перезаписывая предыдущую сессию.
//
// Срок refresh-токена и TTL записи в хранилище отсчитываются от текущего
// момента и равны cfg.RefreshTTL().
func (s *Service) Login(ctx context.Context, id models.Identity) (*models.TokenPair, error) {
	const op = "service.session.Login"

	lg := log.From(ctx)

	if strings.TrimSpace(id.UserID) == "" || strings.TrimSpace(id.Email) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidIdentity)
	}

	payload := id.Payload()

	accessToken, accessExp, err := s.codec.Sign(payload, token.Access, s.cfg.AccessTTL())
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrEncoding, err)
	}

	refreshToken, refreshExp, err := s.codec.Sign(payload, token.Refresh, s.cfg.RefreshTTL())
	if err != nil {
		lg.Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrEncoding, err)
	}

	if err := s.store.SetWithExpiry(ctx, payload.Email, refreshToken, s.cfg.RefreshTTL()); err != nil {
		lg.Error("session_store_failed",
			slog.String("op", op),
			slog.String("email", redact.Email(payload.Email)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.IncLogin()
	lg.Debug("session_issued",
		slog.String("op", op),
		slog.String("user_id", payload.UserID),
		slog.String("email", redact.Email(payload.Email)),
		slog.String("refresh", redact.Token(refreshToken)),
	)

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh обменивает действующий refresh-токен на новую пару.
//
// Порядок проверок:
//  1. структурный разбор — иначе ErrInvalidCredential;
//  2. подпись refresh-секретом и срок — иначе ErrCredentialMismatch;
//  3. точное совпадение с сохранённым для e-mail токеном — иначе ErrCredentialMismatch.
//
// При совпадении выполняется Login с идентичностью из токена; старый
// refresh-токен отзывается перезаписью записи.
func (s *Service) Refresh(ctx context.Context, presented string) (*models.TokenPair, error) {
	const op = "service.session.Refresh"

	lg := log.From(ctx)

	payload, err := s.codec.Decode(presented)
	if err != nil {
		s.metrics.IncRefresh(metrics.RefreshMalformed)
		lg.Warn("refresh_malformed",
			slog.String("op", op),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredential)
	}

	if _, err := s.codec.Verify(presented, token.Refresh); err != nil {
		if errors.Is(err, token.ErrEncoding) {
			s.metrics.IncRefresh(metrics.RefreshError)
			lg.Error("refresh_verify_misconfigured",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return nil, fmt.Errorf("%s: %w: %w", op, ErrEncoding, err)
		}

		s.metrics.IncRefresh(metrics.RefreshMismatch)
		lg.Warn("refresh_rejected",
			slog.String("op", op),
			slog.String("email", redact.Email(payload.Email)),
			slog.String("reason", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrCredentialMismatch)
	}

	stored, ok, err := s.store.Get(ctx, payload.Email)
	if err != nil {
		s.metrics.IncRefresh(metrics.RefreshStoreError)
		lg.Error("session_lookup_failed",
			slog.String("op", op),
			slog.String("email", redact.Email(payload.Email)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !ok || subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		s.metrics.IncRefresh(metrics.RefreshMismatch)
		lg.Warn("refresh_mismatch",
			slog.String("op", op),
			slog.String("email", redact.Email(payload.Email)),
			slog.Bool("session_found", ok),
			slog.String("presented", redact.Token(presented)),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrCredentialMismatch)
	}

	pair, err := s.Login(ctx, payload.Identity())
	if err != nil {
		s.metrics.IncRefresh(metrics.RefreshError)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.IncRefresh(metrics.RefreshRotated)

	return pair, nil
}

// ValidateAccess проверяет access-токен и возвращает полезную нагрузку.
// Хранилище не используется: access-токен самодостаточен до истечения срока.
func (s *Service) ValidateAccess(ctx context.Context, accessToken string) (models.TokenPayload, error) {
	const op = "service.session.ValidateAccess"

	payload, err := s.codec.Verify(accessToken, token.Access)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrEncoding):
			log.From(ctx).Error("access_verify_misconfigured",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return models.TokenPayload{}, fmt.Errorf("%s: %w: %w", op, ErrEncoding, err)
		case errors.Is(err, token.ErrMalformed):
			return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrInvalidCredential)
		default:
			return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrCredentialMismatch)
		}
	}

	return payload, nil
}
