package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/forum-gateway/internal/backend/rest/transport"
)

// AuthBearer извлекает Bearer-токен пользователя из Authorization и кладёт его
// в контекст по ключу transport.CtxAuthToken: вызовы бэкенда идут от имени пользователя.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
				if token := strings.TrimSpace(auth[len(prefix):]); token != "" {
					r = r.WithContext(context.WithValue(r.Context(), transport.CtxAuthToken, token))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
