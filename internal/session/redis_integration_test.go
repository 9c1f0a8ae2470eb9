package session

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-auth-sessions/internal/config"
)

// Интеграционные тесты RedisStore на реальном Redis (testcontainers-go, redis:7-alpine).
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/session -run Integration -v -count=1

// startRedis — поднимает временный Redis и возвращает подключённое хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startRedis(t *testing.T) (*RedisStore, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	port, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)

	st, err := Connect(ctx, config.RedisConfig{Host: host, Port: port, KeyPrefix: "it:"}, 5)
	require.NoError(t, err)

	cleanup := func() {
		_ = st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// TestIntegration_SetGet_Overwrite_Expire — happy-path, перезапись и истечение на реальном Redis.
func TestIntegration_SetGet_Overwrite_Expire(t *testing.T) {
	st, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, st.SetWithExpiry(ctx, "a@x.com", "rt-1", time.Hour))
	require.NoError(t, st.SetWithExpiry(ctx, "a@x.com", "rt-2", 2*time.Second))

	got, ok, err := st.Get(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "rt-2", got)

	ttl, err := st.rdb.TTL(ctx, "it:a@x.com").Result()
	require.NoError(t, err)
	require.LessOrEqual(t, ttl, 2*time.Second)

	require.Eventually(t, func() bool {
		_, ok, err := st.Get(ctx, "a@x.com")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}

// TestIntegration_Get_ContextCanceled — отменённый контекст прерывает запрос к хранилищу.
func TestIntegration_Get_ContextCanceled(t *testing.T) {
	st, cleanup := startRedis(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := st.Get(ctx, "a@x.com")
	require.ErrorIs(t, err, context.Canceled)
}
