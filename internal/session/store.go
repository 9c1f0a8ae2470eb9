// session описывает хранилище записей сессий: e-mail → актуальный refresh-токен.
// Хранилище — единственный источник истины о том, какой refresh-токен действителен;
// все записи безусловно перезаписываются (SET ... EX), без CAS и блокировок.
package session

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/pribylovaa/go-auth-sessions/internal/session Store

// ErrUnavailable — хранилище недоступно (сетевые ошибки, таймауты подключения).
var ErrUnavailable = errors.New("session store unavailable")

// Store — минимальный контракт хранилища сессий.
type Store interface {
	// Get возвращает сохранённый refresh-токен и признак наличия записи.
	Get(ctx context.Context, email string) (string, bool, error)
	// SetWithExpiry безусловно перезаписывает запись с TTL на стороне хранилища.
	SetWithExpiry(ctx context.Context, email, refreshToken string, ttl time.Duration) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
	// Close освобождает соединения.
	Close() error
}
