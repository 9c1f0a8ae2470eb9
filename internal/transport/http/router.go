package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/pribylovaa/go-auth-sessions/internal/metrics"
	"github.com/pribylovaa/go-auth-sessions/internal/transport/http/handlers"
	"github.com/pribylovaa/go-auth-sessions/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger      *slog.Logger
	Timeout     time.Duration
	BasePath    string   // например, "/api"; если пустой — роуты регистрируются на корне.
	CORSOrigins []string // пусто — CORS не подключается.

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler // обычно promhttp.HandlerFor(reg, ...); nil — /metrics не публикуется.

	// Ready — флаг готовности процесса; nil трактуется как "готов".
	Ready *atomic.Bool
	// Ping — проверка зависимостей для /healthz (хранилище сессий).
	Ping func(ctx context.Context) error
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.SessionService, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний). Recover — самый внутренний: 500 после
	// паники проходит через Logging и Metrics, лог паники несёт request_id.
	root.Use(
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Metrics),
		middleware.Recover(),
	)
	if len(opts.CORSOrigins) > 0 {
		root.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))
	}

	registerProbes(root, opts)

	h := handlers.New(svc)
	api := func(r chi.Router) {
		if opts.Timeout > 0 {
			r.Use(middleware.Timeout(opts.Timeout))
		}
		registerRoutes(r, h, svc)
	}

	if opts.BasePath != "" {
		root.Route(opts.BasePath, api)
		return root
	}

	root.Group(api)
	return root
}

// registerRoutes — единая точка регистрации REST-эндпойнтов сессий.
func registerRoutes(r chi.Router, h *handlers.Handlers, v middleware.AccessValidator) {
	r.Post("/auth/login", h.LoginUser)
	r.Post("/auth/refresh", h.RefreshToken)
	r.Post("/auth/validate", h.ValidateToken)

	r.With(middleware.AuthBearer(v)).Get("/auth/me", h.Me)
}

// registerProbes — liveness/readiness и экспорт метрик.
func registerProbes(r chi.Router, opts Options) {
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if opts.Ready != nil && !opts.Ready.Load() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			if err := opts.Ping(ctx); err != nil {
				http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
}
