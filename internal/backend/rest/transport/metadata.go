package transport

import (
	"net/http"
)

// WithMetadata добавляет в исходящий запрос заголовки:
//   - X-Request-Id (если есть в контексте);
//   - Authorization: Bearer <token> — токен пользователя из контекста,
//     иначе сервисный fallbackToken (если задан);
//   - User-Agent (если передан параметром).
//
// Уже выставленные вызывающим заголовки не переписываются.
func WithMetadata(userAgent, fallbackToken string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			ctx := r.Context()
			r = r.Clone(ctx)

			if rid, _ := ctx.Value(CtxRequestID).(string); rid != "" && r.Header.Get("X-Request-Id") == "" {
				r.Header.Set("X-Request-Id", rid)
			}

			if r.Header.Get("Authorization") == "" {
				tok, _ := ctx.Value(CtxAuthToken).(string)
				if tok == "" {
					tok = fallbackToken
				}
				if tok != "" {
					r.Header.Set("Authorization", "Bearer "+tok)
				}
			}

			if userAgent != "" {
				r.Header.Set("User-Agent", userAgent)
			}

			return next.RoundTrip(r)
		})
	}
}
