// internal/server/metrics.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 為 HTTP 介面的 Prometheus 指標。
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Operations      *prometheus.CounterVec
	AuthFailures    prometheus.Counter
	Accounts        prometheus.Gauge
}

// NewMetrics 以指定的 Registerer 註冊指標；nil 時使用預設 registry。
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cashit_http_requests_total",
			Help: "The total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cashit_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cashit_ledger_operations_total",
			Help: "The total number of ledger operations by type and result",
		}, []string{"type", "result"}),
		AuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashit_auth_failures_total",
			Help: "The total number of rejected credentials",
		}),
		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cashit_accounts",
			Help: "The current number of accounts, admin included",
		}),
	}
}

// instrument 記錄每個請求的路由樣式、狀態碼與耗時。
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) operation(kind string, err error) {
	result := "ok"
	if err != nil {
		_, result = classify(err)
	}
	m.Operations.WithLabelValues(kind, result).Inc()
}
