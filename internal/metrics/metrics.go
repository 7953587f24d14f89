// Package metrics — Prometheus-коллекторы шлюза.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests — входящие запросы по методу, шаблону маршрута и статусу.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forum_gateway",
		Name:      "http_requests_total",
		Help:      "Incoming HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	// BackendRequests — исходящие вызовы REST-бэкенда по методу/маршруту и классу статуса.
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forum_gateway",
		Name:      "backend_requests_total",
		Help:      "Outgoing backend requests by method, route and status class.",
	}, []string{"method", "route", "status"})

	// BackendDuration — длительность исходящих вызовов.
	BackendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "forum_gateway",
		Name:      "backend_request_duration_seconds",
		Help:      "Outgoing backend request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ThreadActions — действия пользователя над страницей (toggle/like/submit/...) и их исход.
	ThreadActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forum_gateway",
		Name:      "thread_actions_total",
		Help:      "Thread page actions by kind and outcome.",
	}, []string{"action", "outcome"})

	// ActiveSessions — число страниц в памяти.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "forum_gateway",
		Name:      "active_sessions",
		Help:      "Thread pages currently held in memory.",
	})
)

// Outcome — метка исхода по ошибке.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
