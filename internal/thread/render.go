package thread

import (
	"sort"

	"github.com/pribylovaa/forum-gateway/internal/models"
)

// sortTopLevel оставляет только комментарии верхнего уровня и упорядочивает их:
// сначала AI-seed, затем остальные; внутри группы по возрастанию CreatedAt.
// Сортировка стабильная, вход не меняется.
func sortTopLevel(comments []models.Comment) []models.Comment {
	out := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.IsTopLevel() {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Author.IsAISeed != b.Author.IsAISeed {
			return a.Author.IsAISeed
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return out
}

// TopLevelComments — отсортированные комментарии верхнего уровня из кэша темы.
// Пересчитывается при каждом вызове.
func (m *Manager) TopLevelComments(topicID string) []models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts, ok := m.state[topicID]
	if !ok {
		return nil
	}

	return sortTopLevel(ts.comments)
}

// RenderCommentTree строит узел комментария с отступом depth*indentStep.
// Поле ответа открыто, только если комментарий — текущий адресат темы.
// Ответы разворачиваются, только если их видимость включена. Порядок ответов
// сохраняется как у бэкенда. Повторно встреченные id пропускаются.
func (m *Manager) RenderCommentTree(comment models.Comment, topicID string, depth int) models.CommentNode {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.renderLocked(comment, m.targetLocked(topicID), depth, make(map[string]struct{}))
}

func (m *Manager) targetLocked(topicID string) string {
	if ts, ok := m.state[topicID]; ok {
		return ts.compose.Target()
	}

	return ""
}

func (m *Manager) renderLocked(c models.Comment, target string, depth int, seen map[string]struct{}) models.CommentNode {
	seen[c.ID] = struct{}{}

	visible := m.replyVisible[c.ID]
	node := models.CommentNode{
		ID:             c.ID,
		ParentID:       c.ParentID,
		AuthorName:     c.Author.Name,
		IsAISeed:       c.Author.IsAISeed,
		Content:        c.Content,
		CreatedAt:      c.CreatedAt.Unix(),
		LikeCount:      c.LikeCount(),
		Depth:          depth,
		Indent:         depth * m.indentStep,
		ReplyCount:     len(c.Replies),
		ReplyBoxOpen:   target != "" && target == c.ID,
		RepliesVisible: visible,
	}

	if !visible {
		return node
	}

	for _, r := range c.Replies {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		node.Replies = append(node.Replies, m.renderLocked(r, target, depth+1, seen))
	}

	return node
}

// View — снимок страницы для фронта. Деревья строятся только для раскрытых тем.
func (m *Manager) View() models.PageView {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := models.PageView{
		Status:       m.status,
		Loading:      m.loading,
		Topics:       make([]models.TopicView, 0, len(m.topics)),
		ScrollTarget: m.scrollTarget,
	}

	if m.pkg != nil {
		v.Package = &models.PackageView{
			ID:        m.pkg.ID,
			Title:     m.pkg.Title,
			Excerpt:   m.pkg.Excerpt,
			Category:  m.pkg.Category,
			Source:    m.pkg.Source,
			CreatedAt: m.pkg.CreatedAt.Unix(),
		}
	}

	for _, t := range m.topics {
		tv := models.TopicView{
			ID:            t.ID,
			Title:         t.Title,
			EssayPrompt:   t.EssayPrompt,
			ExamID:        t.ExamID,
			TotalLikes:    t.Stats.TotalLikes,
			TotalComments: t.Stats.TotalComments,
			CreatedAt:     t.CreatedAt.Unix(),
			Compose:       idle().view(),
		}

		if ts, ok := m.state[t.ID]; ok {
			tv.Expanded = ts.expanded
			tv.CommentsLoaded = ts.loaded
			tv.Liked = ts.liked
			tv.Compose = ts.compose.view()

			if ts.expanded {
				target := ts.compose.Target()
				seen := make(map[string]struct{})
				for _, c := range sortTopLevel(ts.comments) {
					if _, dup := seen[c.ID]; dup {
						continue
					}
					tv.Comments = append(tv.Comments, m.renderLocked(c, target, 0, seen))
				}
			}
		}

		v.Topics = append(v.Topics, tv)
	}

	return v
}
