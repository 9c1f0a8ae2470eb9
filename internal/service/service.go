// service содержит бизнес-логику жизненного цикла токенов:
// выпуск пары access/refresh при входе, хранение refresh-токена
// и его проверку с ротацией при обновлении.
//
// Основные аспекты:
//   - Service не хранит состояние сессий в памяти; источник истины о действующем
//     refresh-токене — session.Store. Экземпляр безопасен для конкурентного
//     использования при потокобезопасном хранилище;
//   - На один e-mail хранится ровно один refresh-токен; новый вход или ротация
//     перезаписывают запись и тем самым отзывают предыдущий токен;
//   - Ротация не атомарна: параллельные обновления одним токеном могут пройти
//     оба, в хранилище останется последняя запись;
//   - Ошибки возвращаются обёрнутыми и маппятся транспортом на HTTP-коды
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-auth-sessions/internal/config"
	"github.com/pribylovaa/go-auth-sessions/internal/metrics"
	"github.com/pribylovaa/go-auth-sessions/internal/session"
	"github.com/pribylovaa/go-auth-sessions/internal/token"
)

var (
	// ErrEncoding — сбой подписи/проверки из-за конфигурации (нет секрета, неверный TTL).
	// Транспорт: HTTP 500.
	ErrEncoding = errors.New("token encoding failed")

	// ErrInvalidCredential — предъявленный токен не разбирается как JWT с userId/email.
	// Транспорт: HTTP 403 (forbidden).
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrCredentialMismatch — токен не совпадает с сохранённым для этого e-mail,
	// записи нет, подпись не сходится или срок истёк. "Истёк" и "отозван"
	// намеренно не различаются. Транспорт: HTTP 401 (unauthorized).
	ErrCredentialMismatch = errors.New("credential mismatch")

	// ErrInvalidIdentity — у идентичности пустой userId или e-mail.
	// Транспорт: HTTP 400.
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Service — менеджер жизненного цикла токенов.
type Service struct {
	store   session.Store
	codec   *token.Codec
	cfg     config.AuthConfig
	metrics *metrics.Metrics
}

// Option настраивает Service.
type Option func(*Service)

// WithCodec подменяет кодек токенов (например, с фиксированными часами в тестах).
func WithCodec(c *token.Codec) Option {
	return func(s *Service) { s.codec = c }
}

// WithMetrics подключает Prometheus-метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New создаёт новый экземпляр Service. По умолчанию кодек строится из секретов cfg.
func New(store session.Store, cfg config.AuthConfig, opts ...Option) *Service {
	s := &Service{
		store: store,
		cfg:   cfg,
		codec: token.NewCodec(cfg.JWTSecret, cfg.JWTRefreshSecret),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
