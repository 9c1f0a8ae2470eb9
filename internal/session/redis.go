package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/pribylovaa/go-auth-sessions/internal/config"
)

const defaultPrefix = "auth:session:"

// RedisStore хранит записи сессий в Redis строковыми ключами <prefix><email>.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore оборачивает готовый клиент. Если prefix пустой — используется "auth:session:".
func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Connect создаёт клиент по конфигурации и дожидается доступности Redis:
// несколько попыток PING с экспоненциальной паузой, затем fail-fast.
func Connect(ctx context.Context, cfg config.RedisConfig, attempts uint64) (*RedisStore, error) {
	const op = "session.Connect"

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	backoff := retry.WithMaxRetries(attempts, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	return NewRedisStore(rdb, cfg.KeyPrefix), nil
}

func (s *RedisStore) key(email string) string { return s.prefix + email }

// Get выполняет GET <prefix><email>; отсутствие ключа не является ошибкой.
func (s *RedisStore) Get(ctx context.Context, email string) (string, bool, error) {
	const op = "session.RedisStore.Get"

	val, err := s.rdb.Get(ctx, s.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	return val, true, nil
}

// SetWithExpiry выполняет SET <prefix><email> <token> EX <ttl>.
func (s *RedisStore) SetWithExpiry(ctx context.Context, email, refreshToken string, ttl time.Duration) error {
	const op = "session.RedisStore.SetWithExpiry"

	if ttl < time.Second {
		return fmt.Errorf("%s: ttl %s is below one second", op, ttl)
	}

	if err := s.rdb.Set(ctx, s.key(email), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Ping проверяет соединение с Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	const op = "session.RedisStore.Ping"

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	return nil
}

// Close закрывает клиент Redis.
func (s *RedisStore) Close() error { return s.rdb.Close() }

// Проверка на соответствие интерфейсу Store.
var _ Store = (*RedisStore)(nil)
