// metrics содержит Prometheus-метрики сервиса сессий.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты обновления сессии (значения метки result).
const (
	RefreshRotated    = "rotated"
	RefreshMalformed  = "malformed"
	RefreshMismatch   = "mismatch"
	RefreshStoreError = "store_error"
	RefreshError      = "error"
)

// Metrics — набор метрик сервиса. Нулевой указатель допустим: все методы — no-op.
type Metrics struct {
	Logins       prometheus.Counter
	Refreshes    *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of issued sessions (login calls that stored a refresh token)",
		}),
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_refresh_total",
				Help: "Total number of refresh attempts by result",
			},
			[]string{"result"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auth_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(m.Logins, m.Refreshes, m.HTTPRequests, m.HTTPDuration)

	return m
}

// IncLogin учитывает выпущенную сессию.
func (m *Metrics) IncLogin() {
	if m == nil {
		return
	}
	m.Logins.Inc()
}

// IncRefresh учитывает попытку обновления с результатом result.
func (m *Metrics) IncRefresh(result string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(result).Inc()
}

// ObserveHTTP учитывает завершённый HTTP-запрос.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}
