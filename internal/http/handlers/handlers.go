package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/forum-gateway/internal/errors"
	"github.com/pribylovaa/forum-gateway/internal/models"
	"github.com/pribylovaa/forum-gateway/internal/session"
	"github.com/pribylovaa/forum-gateway/internal/thread"
)

// PageFactory создаёт пустую страницу; scope — ключ автосохранения черновиков ("" — выключено).
type PageFactory func(scope string) *thread.Manager

// Handlers агрегирует зависимости: реестр сессий и фабрику страниц.
type Handlers struct {
	Sessions *session.Store
	NewPage  PageFactory
}

func New(sessions *session.Store, newPage PageFactory) *Handlers {
	return &Handlers{Sessions: sessions, NewPage: newPage}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// page достаёт страницу сессии {sid}; при ошибке ответ уже записан.
func (h *Handlers) page(w http.ResponseWriter, r *http.Request) (*thread.Manager, string, bool) {
	sid := chi.URLParam(r, "sid")
	if sid == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return nil, "", false
	}

	p, err := h.Sessions.Get(sid)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return nil, "", false
	}

	return p, sid, true
}

// mutate выполняет действие над страницей сессии и отвечает свежим снимком
// вместе с ожидающим уведомлением пользователя.
func (h *Handlers) mutate(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, p *thread.Manager) error) {
	p, sid, ok := h.page(w, r)
	if !ok {
		return
	}

	if err := action(r.Context(), p); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot(sid, p))
}

func snapshot(sid string, p *thread.Manager) models.PageResponse {
	v := p.View()
	v.Alert = p.TakeAlert()

	return models.PageResponse{SessionID: sid, Page: v}
}
