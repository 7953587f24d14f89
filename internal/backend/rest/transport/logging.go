package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/forum-gateway/internal/metrics"
	"github.com/pribylovaa/forum-gateway/internal/pkg/log"
)

// Logging — логирование исходящих вызовов.
// Логгер берётся из контекста запроса (с op и атрибутами операции),
// base — только если в контексте логгера нет.
// Поведение:
//   - берёт X-Request-Id из заголовка (или генерирует новый и добавляет);
//   - пишет одну финальную запись уровня Info: msg="http_out", status, dur
//     (Warn — при транспортной ошибке или 5xx).
//
// Безопасность: не логирует тело и Authorization.
func Logging(base *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			rid := r.Header.Get("X-Request-Id")
			if rid == "" {
				rid = uuid.NewString()
				r = r.Clone(r.Context())
				r.Header.Set("X-Request-Id", rid)
			}

			lg, ok := log.Lookup(r.Context())
			if !ok {
				lg = base
			}
			if lg == nil {
				lg = log.From(r.Context())
			}
			lg = lg.With(
				slog.String("request_id", rid),
				slog.String("method", r.Method),
				slog.String("route", RouteFrom(r.Context())),
			)

			resp, err := next.RoundTrip(r)
			dur := time.Since(start)

			switch {
			case err != nil:
				lg.Warn("http_out", slog.String("err", err.Error()), slog.Duration("dur", dur))
			case resp.StatusCode >= http.StatusInternalServerError:
				lg.Warn("http_out", slog.Int("status", resp.StatusCode), slog.Duration("dur", dur))
			default:
				lg.Info("http_out", slog.Int("status", resp.StatusCode), slog.Duration("dur", dur))
			}

			return resp, err
		})
	}
}

// Metrics считает исходящие вызовы и их длительность.
func Metrics() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			route := RouteFrom(r.Context())
			start := time.Now()

			resp, err := next.RoundTrip(r)

			metrics.BackendDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			metrics.BackendRequests.WithLabelValues(r.Method, route, statusClass(resp, err)).Inc()

			return resp, err
		})
	}
}

func statusClass(resp *http.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}

	switch {
	case resp.StatusCode >= 500:
		return "5xx"
	case resp.StatusCode >= 400:
		return "4xx"
	case resp.StatusCode >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
