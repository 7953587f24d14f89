// errors стандартизирует ответы об ошибках HTTP-слоя forum-gateway.
// На вход он принимает ошибку (сентинелы backend/thread/session, обёрнутые через %w),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/forum-gateway/internal/backend"
	"github.com/pribylovaa/forum-gateway/internal/session"
	"github.com/pribylovaa/forum-gateway/internal/thread"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrInvalidArgument — локальная ошибка разбора входа HTTP-хендлером.
var ErrInvalidArgument = stderrors.New("invalid argument")

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil - программная ошибка вызова: 500/internal;
//   - известный сентинел (через errors.Is) - маппинг по таблице kindOf();
//   - прочее - 500/internal без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	httpStatus, code, msg := kindOf(err)
	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// kindOf — таблица маппинга:
//   - ErrInvalidArgument, backend.ErrInvalidArgument, thread.ErrInvalidArgument -> 400
//   - backend.ErrUnauthorized -> 401
//   - session.ErrNotFound, backend.ErrNotFound, thread.ErrUnknownTopic -> 404
//   - thread.ErrNotLoaded -> 409 (страница ещё не загружена)
//   - context.Canceled -> 499
//   - context.DeadlineExceeded -> 504
//   - backend.ErrUnavailable -> 503
//   - backend.ErrInternal -> 502 (ошибка апстрима)
//   - прочее -> 500/internal
func kindOf(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case stderrors.Is(err, ErrInvalidArgument), stderrors.Is(err, backend.ErrInvalidArgument),
		stderrors.Is(err, thread.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, backend.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case stderrors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "session_not_found", "session not found"
	case stderrors.Is(err, backend.ErrNotFound), stderrors.Is(err, thread.ErrUnknownTopic):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, thread.ErrNotLoaded):
		return http.StatusConflict, "not_loaded", "page is not loaded"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case stderrors.Is(err, backend.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case stderrors.Is(err, backend.ErrInternal):
		return http.StatusBadGateway, "upstream_error", "upstream error"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
