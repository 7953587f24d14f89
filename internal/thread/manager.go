package thread

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pribylovaa/forum-gateway/internal/backend"
	"github.com/pribylovaa/forum-gateway/internal/drafts"
	"github.com/pribylovaa/forum-gateway/internal/metrics"
	"github.com/pribylovaa/forum-gateway/internal/models"
	"github.com/pribylovaa/forum-gateway/internal/pkg/log"
)

func wrap(op string, err error) error { return fmt.Errorf("%s: %w", op, err) }

// LoadPackageAndTopics загружает пакет и его темы (параллельно).
//
// Поведение:
//   - загрузка начинает новую жизнь страницы: прежнее UI-состояние сбрасывается;
//   - при любой ошибке частичные данные не сохраняются, статус NotFound (404) или Failed;
//   - при успехе восстанавливаются черновики тем, тема focusTopicID раскрывается,
//     её комментарии подгружаются, и только после этого запускается таймер
//     одной прокрутки через scrollDelay; до срабатывания цель видна в View().ScrollTarget;
//   - флаг loading сбрасывается в любом случае.
func (m *Manager) LoadPackageAndTopics(ctx context.Context, packageID, focusTopicID string) error {
	const op = "thread/LoadPackageAndTopics"

	ctx, lg := log.With(ctx, "op", op, "package_id", packageID, "focus_topic_id", focusTopicID)

	packageID = strings.TrimSpace(packageID)
	if packageID == "" {
		lg.Warn("invalid argument: empty package_id")
		return wrap(op, ErrInvalidArgument)
	}

	m.mu.Lock()
	m.resetLocked()
	m.status = models.PageLoading
	m.loading = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	var (
		pkg    *models.Package
		topics []models.Topic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := m.svc.ArticleByID(gctx, packageID)
		if err != nil {
			return err
		}
		if p == nil {
			return backend.ErrNotFound
		}
		pkg = p
		return nil
	})
	g.Go(func() error {
		ts, err := m.svc.TopicsByPackageID(gctx, packageID)
		topics = ts
		return err
	})

	if err := g.Wait(); err != nil {
		status := models.PageFailed
		if errors.Is(err, backend.ErrNotFound) {
			status = models.PageNotFound
			lg.Warn("package_not_found")
		} else {
			lg.Error("package_load_failed", "err", err)
		}

		m.mu.Lock()
		m.status = status
		m.mu.Unlock()

		metrics.ThreadActions.WithLabelValues("load", "error").Inc()
		return wrap(op, err)
	}

	ids := make([]string, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	restored := m.loadDrafts(ctx, ids)

	focus := strings.TrimSpace(focusTopicID)

	m.mu.Lock()
	m.pkg = pkg
	m.syncTopicsLocked(topics)
	m.status = models.PageReady

	for id, d := range restored {
		ts, ok := m.state[id]
		if !ok {
			continue
		}
		if d.ReplyTo != "" {
			ts.compose = composingReply(d.ReplyTo, d.Text)
			m.replyVisible[d.ReplyTo] = true
		} else {
			ts.compose = ts.compose.withText(d.Text)
		}
	}

	fetchFocus := false
	if focus != "" {
		if ts, ok := m.state[focus]; ok {
			ts.expanded = true
			fetchFocus = true
			m.scrollTarget = focus
		} else {
			lg.Warn("focus_topic_not_in_package")
		}
	}
	m.mu.Unlock()

	lg.Info("package_loaded", "topics", len(topics), "drafts_restored", len(restored))
	metrics.ThreadActions.WithLabelValues("load", "ok").Inc()

	if fetchFocus {
		_ = m.fetchComments(ctx, focus)

		m.mu.Lock()
		m.scheduleScrollLocked(focus)
		m.mu.Unlock()
	}

	return nil
}

// resetLocked начинает новую жизнь страницы.
func (m *Manager) resetLocked() {
	if m.scrollTimer != nil {
		m.scrollTimer.Stop()
		m.scrollTimer = nil
	}

	m.pkg = nil
	m.topics = nil
	m.state = make(map[string]*topicState)
	m.replyVisible = make(map[string]bool)
	m.scrollTarget = ""
	m.alert = ""
}

// scheduleScrollLocked — одна попытка прокрутки после scrollDelay, без повторов.
// Ничего не делает, если цель уже сменилась (страницу перезагрузили) или страница закрыта.
func (m *Manager) scheduleScrollLocked(topicID string) {
	if m.closed || m.scrollTarget != topicID || m.scrollTimer != nil {
		return
	}

	m.scrollTimer = time.AfterFunc(m.scrollDelay, func() {
		m.mu.Lock()
		if m.closed || m.scrollTarget != topicID {
			m.mu.Unlock()
			return
		}
		m.scrollTarget = ""
		m.scrollTimer = nil
		s := m.scroller
		m.mu.Unlock()

		if s == nil {
			m.log.Debug("scroll_into_view", "topic_id", topicID)
			return
		}
		s.ScrollTo(topicID)
	})
}

func (m *Manager) loadDrafts(ctx context.Context, topicIDs []string) map[string]drafts.Draft {
	if m.drafts == nil || len(topicIDs) == 0 {
		return nil
	}

	got, err := m.drafts.Load(ctx, m.draftScope, topicIDs)
	if err != nil {
		log.From(ctx).Warn("draft_restore_failed", "err", err)
		return nil
	}

	return got
}

// ToggleTopic переключает раскрытие темы. При первом раскрытии
// (в кэше нет записи по теме) подгружает комментарии. Сворачивание кэш не трогает.
func (m *Manager) ToggleTopic(ctx context.Context, topicID string) error {
	const op = "thread/ToggleTopic"

	m.mu.Lock()
	ts, err := m.topicLocked(topicID)
	if err != nil {
		m.mu.Unlock()
		return wrap(op, err)
	}

	ts.expanded = !ts.expanded
	expanded := ts.expanded
	needFetch := ts.expanded && !ts.loaded
	m.mu.Unlock()

	log.From(ctx).Debug("topic_toggled", "op", op, "topic_id", topicID, "expanded", expanded, "fetch", needFetch)

	if needFetch {
		err = m.fetchComments(ctx, topicID)
	}
	metrics.ThreadActions.WithLabelValues("toggle_topic", metrics.Outcome(err)).Inc()

	return nil
}

// detached — контекст общего (склеенного) вызова: отмена запроса-инициатора
// не должна ронять остальных ожидающих. Значения контекста (логгер, токен) сохраняются.
func (m *Manager) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if m.callTimeout > 0 {
		return context.WithTimeout(ctx, m.callTimeout)
	}

	return ctx, func() {}
}

// fetchComments лениво подгружает комментарии темы. Одновременные запросы
// по одной теме склеиваются. Ответ пишется в текущий слот кэша.
func (m *Manager) fetchComments(ctx context.Context, topicID string) error {
	const op = "thread/fetchComments"

	v, err, shared := m.sf.Do("comments:"+topicID, func() (any, error) {
		cctx, cancel := m.detached(ctx)
		defer cancel()

		return m.svc.TopicComments(cctx, topicID)
	})
	if err != nil {
		log.From(ctx).Warn("topic_comments_fetch_failed", "op", op, "topic_id", topicID, "err", err)
		return err
	}

	comments, _ := v.([]models.Comment)

	m.mu.Lock()
	if ts, ok := m.state[topicID]; ok {
		ts.comments = comments
		ts.loaded = true
	}
	m.mu.Unlock()

	log.From(ctx).Debug("topic_comments_fetched", "op", op, "topic_id", topicID, "count", len(comments), "shared", shared)

	return nil
}

// refetchComments перечитывает комментарии темы целиком, перезаписывая кэш.
// Не склеивается с ленивой загрузкой: та могла начаться до изменения на бэкенде.
func (m *Manager) refetchComments(ctx context.Context, topicID string) {
	const op = "thread/refetchComments"

	comments, err := m.svc.TopicComments(ctx, topicID)
	if err != nil {
		log.From(ctx).Warn("topic_comments_refetch_failed", "op", op, "topic_id", topicID, "err", err)
		return
	}

	m.mu.Lock()
	if ts, ok := m.state[topicID]; ok {
		ts.comments = comments
		ts.loaded = true
	}
	m.mu.Unlock()
}

// refreshTopics перечитывает список тем пакета ради актуальных счётчиков.
func (m *Manager) refreshTopics(ctx context.Context, packageID string) {
	const op = "thread/refreshTopics"

	v, err, _ := m.sf.Do("topics:"+packageID, func() (any, error) {
		cctx, cancel := m.detached(ctx)
		defer cancel()

		return m.svc.TopicsByPackageID(cctx, packageID)
	})
	if err != nil {
		log.From(ctx).Warn("topics_refresh_failed", "op", op, "package_id", packageID, "err", err)
		return
	}

	topics, _ := v.([]models.Topic)

	m.mu.Lock()
	if m.pkg != nil && m.pkg.ID == packageID {
		m.syncTopicsLocked(topics)
	}
	m.mu.Unlock()
}

// ToggleTopicLike ставит или снимает лайк темы по локальному флагу
// (изначально false, с сервера не подтягивается), переворачивает флаг
// независимо от исхода вызова и перечитывает список тем.
// Повторное нажатие, пока предыдущее не завершилось, игнорируется.
func (m *Manager) ToggleTopicLike(ctx context.Context, topicID string) error {
	const op = "thread/ToggleTopicLike"

	m.mu.Lock()
	_, err := m.topicLocked(topicID)
	m.mu.Unlock()
	if err != nil {
		return wrap(op, err)
	}

	key := "like:" + topicID
	if !m.tryAcquire(key) {
		log.From(ctx).Debug("like_in_flight", "op", op, "topic_id", topicID)
		metrics.ThreadActions.WithLabelValues("like", "coalesced").Inc()
		return nil
	}
	defer m.release(key)

	// Флаг читаем только под занятым ключом.
	m.mu.Lock()
	ts, err := m.topicLocked(topicID)
	if err != nil {
		m.mu.Unlock()
		return wrap(op, err)
	}
	liked := ts.liked
	packageID := m.pkg.ID
	m.mu.Unlock()

	if liked {
		err = m.svc.UnlikeTopic(ctx, topicID)
	} else {
		err = m.svc.LikeTopic(ctx, topicID)
	}

	m.mu.Lock()
	ts.liked = !liked
	m.mu.Unlock()

	if err != nil {
		log.From(ctx).Warn("topic_like_failed", "op", op, "topic_id", topicID, "unlike", liked, "err", err)
	}
	metrics.ThreadActions.WithLabelValues("like", metrics.Outcome(err)).Inc()

	m.refreshTopics(ctx, packageID)

	return nil
}

// SubmitComment отправляет черновик темы.
//
// Поведение:
//   - пустой черновик (или из одних пробелов) — no-op;
//   - есть адресат ответа — CreateReply(адресат, текст), иначе CreateComment(тема, текст);
//   - успех: поле ввода сбрасывается, комментарии темы и список тем перечитываются,
//     автосохранённый черновик удаляется;
//   - ошибка: лог + alert SubmitFailedAlert, поле ввода не меняется;
//   - повторная отправка, пока предыдущая не завершилась, игнорируется.
func (m *Manager) SubmitComment(ctx context.Context, topicID string) error {
	const op = "thread/SubmitComment"

	m.mu.Lock()
	ts, err := m.topicLocked(topicID)
	if err != nil {
		m.mu.Unlock()
		return wrap(op, err)
	}
	c := ts.compose
	packageID := m.pkg.ID
	m.mu.Unlock()

	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}

	ctx, lg := log.With(ctx, "op", op, "topic_id", topicID, "reply_to", c.Target())

	key := "submit:" + topicID
	if !m.tryAcquire(key) {
		lg.Debug("submit_in_flight")
		metrics.ThreadActions.WithLabelValues("submit", "coalesced").Inc()
		return nil
	}
	defer m.release(key)

	if target := c.Target(); target != "" {
		_, err = m.svc.CreateReply(ctx, target, text)
	} else {
		_, err = m.svc.CreateComment(ctx, topicID, text)
	}
	metrics.ThreadActions.WithLabelValues("submit", metrics.Outcome(err)).Inc()

	if err != nil {
		lg.Error("comment_submit_failed", "err", err)
		m.notify(SubmitFailedAlert)
		return nil
	}

	m.mu.Lock()
	ts.compose = idle()
	m.mu.Unlock()

	lg.Info("comment_submitted")

	m.deleteDraft(ctx, op, topicID)
	m.refetchComments(ctx, topicID)
	m.refreshTopics(ctx, packageID)

	return nil
}
