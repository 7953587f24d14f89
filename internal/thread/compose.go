package thread

import (
	"context"
	"strings"

	"github.com/pribylovaa/forum-gateway/internal/drafts"
	"github.com/pribylovaa/forum-gateway/internal/metrics"
	"github.com/pribylovaa/forum-gateway/internal/models"
	"github.com/pribylovaa/forum-gateway/internal/pkg/log"
)

// compose — состояние поля ввода темы:
//
//	Idle | ComposingTop(text) | ComposingReply(replyTo, text)
//
// Нулевое значение — Idle.
type compose struct {
	mode    models.ComposeMode
	text    string
	replyTo string
}

func idle() compose { return compose{mode: models.ComposeIdle} }

func composingTop(text string) compose {
	return compose{mode: models.ComposeTop, text: text}
}

func composingReply(commentID, text string) compose {
	return compose{mode: models.ComposeReply, text: text, replyTo: commentID}
}

// Text — текст черновика ("" для Idle).
func (c compose) Text() string { return c.text }

// Target — id комментария-адресата ("" вне режима ответа).
func (c compose) Target() string {
	if c.mode != models.ComposeReply {
		return ""
	}

	return c.replyTo
}

// withText меняет текст, сохраняя адресата ответа.
func (c compose) withText(text string) compose {
	if c.mode == models.ComposeReply {
		return composingReply(c.replyTo, text)
	}
	if text == "" {
		return idle()
	}

	return composingTop(text)
}

func (c compose) view() models.ComposeView {
	mode := c.mode
	if mode == "" {
		mode = models.ComposeIdle
	}

	return models.ComposeView{Mode: mode, Text: c.text, ReplyTarget: c.Target()}
}

func (c compose) draft() drafts.Draft {
	return drafts.Draft{Text: c.text, ReplyTo: c.Target()}
}

// DraftText — текст поля ввода темы.
func (m *Manager) DraftText(topicID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ts, ok := m.state[topicID]; ok {
		return ts.compose.Text()
	}

	return ""
}

// ReplyTarget — комментарий, на который сейчас отвечают в теме ("" если никто).
func (m *Manager) ReplyTarget(topicID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ts, ok := m.state[topicID]; ok {
		return ts.compose.Target()
	}

	return ""
}

// RepliesVisible — раскрыты ли ответы комментария.
func (m *Manager) RepliesVisible(commentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.replyVisible[commentID]
}

// SetDraft — ввод текста в поле темы. В режиме ответа адресат сохраняется.
func (m *Manager) SetDraft(ctx context.Context, topicID, text string) error {
	const op = "thread/SetDraft"

	m.mu.Lock()
	ts, err := m.topicLocked(topicID)
	if err != nil {
		m.mu.Unlock()
		return wrap(op, err)
	}
	ts.compose = ts.compose.withText(text)
	d := ts.compose.draft()
	m.mu.Unlock()

	m.saveDraft(ctx, op, topicID, d)
	metrics.ThreadActions.WithLabelValues("set_draft", "ok").Inc()

	return nil
}

// BeginReply открывает ответ на commentID. Прежний адресат и текст темы
// молча заменяются на "@<author> ", ответы комментария раскрываются.
func (m *Manager) BeginReply(ctx context.Context, topicID, commentID, authorName string) error {
	const op = "thread/BeginReply"

	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return wrap(op, ErrInvalidArgument)
	}

	m.mu.Lock()
	ts, err := m.topicLocked(topicID)
	if err != nil {
		m.mu.Unlock()
		return wrap(op, err)
	}

	prev := ts.compose.Target()
	ts.compose = composingReply(commentID, "@"+authorName+" ")
	m.replyVisible[commentID] = true
	d := ts.compose.draft()
	m.mu.Unlock()

	log.From(ctx).Debug("reply_begin",
		"op", op,
		"topic_id", topicID,
		"comment_id", commentID,
		"replaced", prev,
	)

	m.saveDraft(ctx, op, topicID, d)
	metrics.ThreadActions.WithLabelValues("begin_reply", "ok").Inc()

	return nil
}

// CancelReply сбрасывает поле темы в Idle. Если передан commentID,
// его ответы сворачиваются.
func (m *Manager) CancelReply(ctx context.Context, topicID, commentID string) error {
	const op = "thread/CancelReply"

	m.mu.Lock()
	ts, err := m.topicLocked(topicID)
	if err != nil {
		m.mu.Unlock()
		return wrap(op, err)
	}

	ts.compose = idle()
	if commentID = strings.TrimSpace(commentID); commentID != "" {
		m.replyVisible[commentID] = false
	}
	m.mu.Unlock()

	m.deleteDraft(ctx, op, topicID)
	metrics.ThreadActions.WithLabelValues("cancel_reply", "ok").Inc()

	return nil
}

// ToggleReplies переключает видимость ответов комментария.
func (m *Manager) ToggleReplies(ctx context.Context, commentID string) error {
	const op = "thread/ToggleReplies"

	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return wrap(op, ErrInvalidArgument)
	}

	m.mu.Lock()
	if m.status != models.PageReady {
		m.mu.Unlock()
		return wrap(op, ErrNotLoaded)
	}
	m.replyVisible[commentID] = !m.replyVisible[commentID]
	visible := m.replyVisible[commentID]
	m.mu.Unlock()

	log.From(ctx).Debug("replies_toggled", "op", op, "comment_id", commentID, "visible", visible)
	metrics.ThreadActions.WithLabelValues("toggle_replies", "ok").Inc()

	return nil
}

// saveDraft — автосохранение; ошибки только логируются.
func (m *Manager) saveDraft(ctx context.Context, op, topicID string, d drafts.Draft) {
	if m.drafts == nil {
		return
	}

	if err := m.drafts.Save(ctx, m.draftScope, topicID, d); err != nil {
		log.From(ctx).Warn("draft_save_failed", "op", op, "topic_id", topicID, "err", err)
	}
}

func (m *Manager) deleteDraft(ctx context.Context, op, topicID string) {
	if m.drafts == nil {
		return
	}

	if err := m.drafts.Delete(ctx, m.draftScope, topicID); err != nil {
		log.From(ctx).Warn("draft_delete_failed", "op", op, "topic_id", topicID, "err", err)
	}
}
