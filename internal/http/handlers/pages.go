package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/forum-gateway/internal/errors"
	"github.com/pribylovaa/forum-gateway/internal/models"
	"github.com/pribylovaa/forum-gateway/internal/thread"
)

// CreatePage — POST /pages: новая сессия + загрузка пакета и тем.
// Неудачная загрузка сессию не создаёт и отвечает ошибкой бэкенда.
func (h *Handlers) CreatePage(w http.ResponseWriter, r *http.Request) {
	var in models.CreatePageRequest
	if err := decodeStrict(r, &in); err != nil || strings.TrimSpace(in.PackageID) == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	p := h.NewPage(strings.TrimSpace(in.ClientID))
	if err := p.LoadPackageAndTopics(r.Context(), in.PackageID, in.TopicID); err != nil {
		p.Close()
		apierrors.WriteError(w, r, err)
		return
	}

	sid := h.Sessions.Create(p)
	writeJSON(w, http.StatusCreated, snapshot(sid, p))
}

func (h *Handlers) GetPage(w http.ResponseWriter, r *http.Request) {
	p, sid, ok := h.page(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, snapshot(sid, p))
}

func (h *Handlers) DeletePage(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(chi.URLParam(r, "sid")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ToggleTopic(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topic_id")
	h.mutate(w, r, func(ctx context.Context, p *thread.Manager) error {
		return p.ToggleTopic(ctx, topicID)
	})
}

func (h *Handlers) ToggleTopicLike(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topic_id")
	h.mutate(w, r, func(ctx context.Context, p *thread.Manager) error {
		return p.ToggleTopicLike(ctx, topicID)
	})
}

func (h *Handlers) SetDraft(w http.ResponseWriter, r *http.Request) {
	var in models.SetDraftRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	topicID := chi.URLParam(r, "topic_id")
	h.mutate(w, r, func(ctx context.Context, p *thread.Manager) error {
		return p.SetDraft(ctx, topicID, in.Text)
	})
}

func (h *Handlers) SubmitComment(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topic_id")
	h.mutate(w, r, func(ctx context.Context, p *thread.Manager) error {
		return p.SubmitComment(ctx, topicID)
	})
}

func (h *Handlers) BeginReply(w http.ResponseWriter, r *http.Request) {
	var in models.BeginReplyRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	topicID := chi.URLParam(r, "topic_id")
	h.mutate(w, r, func(ctx context.Context, p *thread.Manager) error {
		return p.BeginReply(ctx, topicID, in.CommentID, in.Author)
	})
}

func (h *Handlers) CancelReply(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topic_id")
	commentID := r.URL.Query().Get("comment_id")
	h.mutate(w, r, func(ctx context.Context, p *thread.Manager) error {
		return p.CancelReply(ctx, topicID, commentID)
	})
}

func (h *Handlers) ToggleReplies(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "comment_id")
	h.mutate(w, r, func(ctx context.Context, p *thread.Manager) error {
		return p.ToggleReplies(ctx, commentID)
	})
}
