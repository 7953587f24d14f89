// Package transport предоставляет цепочку http.RoundTripper для исходящих вызовов
// REST-бэкенда: metadata -> timeout -> logging -> metrics.
package transport

import (
	"context"
	"net/http"
)

type CtxKey string

const (
	CtxRequestID CtxKey = "request_id"
	CtxAuthToken CtxKey = "auth_token"
	ctxRoute     CtxKey = "route"
)

// RoundTripperFunc — адаптер функции к http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Middleware оборачивает RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain применяет мидлвары в порядке перечисления: первый — самый внешний.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}

	return base
}

// WithRoute помечает запрос шаблоном маршрута (для логов и меток метрик без id в пути).
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, ctxRoute, route)
}

// RouteFrom возвращает шаблон маршрута или "other".
func RouteFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRoute).(string); ok && v != "" {
		return v
	}

	return "other"
}
