package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/forum-gateway/internal/backend/rest/transport"
)

// RequestID обеспечивает наличие X-Request-Id:
//  1. берёт заголовок X-Request-Id, если он есть;
//  2. иначе генерирует uuid v4;
//  3. кладёт id в заголовки ответа и запроса, а в контекст по ключу
//     transport.CtxRequestID, откуда его читает исходящая цепочка к бэкенду.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
				// errors.WriteError берёт id из запроса.
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			ctx := context.WithValue(r.Context(), transport.CtxRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
