// token инкапсулирует подпись и разбор JWT: секреты и алгоритм не выходят
// за пределы пакета, бизнес-логика оперирует только models.TokenPayload.
//
// Разбор разделён на две явные операции:
//   - Decode — только структурный разбор, без проверки подписи и срока;
//   - Verify — проверка подписи, алгоритма (HS256) и срока действия.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-auth-sessions/internal/models"
)

// Kind — вид токена. Виды отличаются только секретом и временем жизни.
type Kind int

const (
	Access Kind = iota
	Refresh
)

func (k Kind) String() string {
	switch k {
	case Access:
		return "access"
	case Refresh:
		return "refresh"
	default:
		return "unknown"
	}
}

var (
	// ErrEncoding — инфраструктурная ошибка подписи (нет секрета, неверный TTL).
	ErrEncoding = errors.New("token encoding failed")
	// ErrMalformed — строка не является JWT или в нём нет userId/email.
	ErrMalformed = errors.New("malformed token")
	// ErrSignature — подпись не сходится с секретом или алгоритм не HS256.
	ErrSignature = errors.New("invalid token signature")
	// ErrExpired — срок действия токена истёк.
	ErrExpired = errors.New("token expired")
)

const defaultLeeway = 5 * time.Second

type claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (c *claims) payload() (models.TokenPayload, bool) {
	if c.UserID == "" || c.Email == "" {
		return models.TokenPayload{}, false
	}

	return models.TokenPayload{UserID: c.UserID, Email: c.Email}, true
}

// Codec подписывает и разбирает токены двумя независимыми секретами.
// Экземпляр неизменяем после создания и безопасен для конкурентного использования.
type Codec struct {
	secrets map[Kind][]byte
	now     func() time.Time
	leeway  time.Duration
}

// Option настраивает Codec.
type Option func(*Codec)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithLeeway задаёт допуск рассинхронизации часов при проверке срока.
func WithLeeway(d time.Duration) Option {
	return func(c *Codec) { c.leeway = d }
}

// NewCodec создаёт Codec. Пустой секрет не приводит к ошибке сразу:
// Sign/Verify для соответствующего вида вернут ErrEncoding.
func NewCodec(accessSecret, refreshSecret string, opts ...Option) *Codec {
	c := &Codec{
		secrets: map[Kind][]byte{
			Access:  []byte(accessSecret),
			Refresh: []byte(refreshSecret),
		},
		now:    time.Now,
		leeway: defaultLeeway,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Codec) secret(kind Kind) ([]byte, error) {
	s, ok := c.secrets[kind]
	if !ok || len(s) == 0 {
		return nil, fmt.Errorf("%s secret is not configured: %w", kind, ErrEncoding)
	}

	return s, nil
}

// Sign подписывает payload секретом вида kind; срок действия — now+ttl.
// Возвращает токен и момент его истечения (UTC, с точностью до секунды).
//
// Результат не детерминирован при фиксированных секрете и часах: каждый токен
// получает случайный jti, поэтому две пары, выпущенные в одну секунду для одной
// идентичности, различаются. Момент истечения от jti не зависит.
func (c *Codec) Sign(p models.TokenPayload, kind Kind, ttl time.Duration) (string, time.Time, error) {
	const op = "token.Codec.Sign"

	secret, err := c.secret(kind)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("%s: non-positive ttl %s: %w", op, ttl, ErrEncoding)
	}

	now := c.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	cl := claims{
		UserID: p.UserID,
		Email:  p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %v: %w", op, err, ErrEncoding)
	}

	return signed, expiresAt, nil
}

// Decode разбирает структуру токена без проверки подписи и срока действия.
// Просроченный, но корректно сформированный токен разбирается успешно.
func (c *Codec) Decode(tokenStr string) (models.TokenPayload, error) {
	const op = "token.Codec.Decode"

	if tokenStr == "" {
		return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	var cl claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &cl); err != nil {
		return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	p, ok := cl.payload()
	if !ok {
		return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	return p, nil
}

// Verify проверяет подпись (секрет вида kind), алгоритм и срок действия.
func (c *Codec) Verify(tokenStr string, kind Kind) (models.TokenPayload, error) {
	const op = "token.Codec.Verify"

	secret, err := c.secret(kind)
	if err != nil {
		return models.TokenPayload{}, fmt.Errorf("%s: %w", op, err)
	}

	var cl claims
	_, err = jwt.ParseWithClaims(tokenStr, &cl,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrMalformed)
		case errors.Is(err, jwt.ErrTokenExpired):
			return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrExpired)
		default:
			return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrSignature)
		}
	}

	p, ok := cl.payload()
	if !ok {
		return models.TokenPayload{}, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	return p, nil
}
