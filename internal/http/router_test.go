package http

// Сквозные тесты роутера: chi + middleware + handlers + thread.Manager
// поверх мока бэкенда.

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/forum-gateway/internal/backend"
	"github.com/pribylovaa/forum-gateway/internal/drafts"
	"github.com/pribylovaa/forum-gateway/internal/models"
	"github.com/pribylovaa/forum-gateway/internal/session"
	"github.com/pribylovaa/forum-gateway/internal/thread"
	"github.com/pribylovaa/forum-gateway/mocks"
)

type env struct {
	srv      *httptest.Server
	svc      *mocks.MockService
	sessions *session.Store
}

func newEnv(t *testing.T, basePath string) *env {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	sessions := session.New(time.Minute)
	t.Cleanup(sessions.Close)

	h := NewRouter(Deps{
		Backend:     svc,
		Sessions:    sessions,
		Drafts:      drafts.NewMemory(),
		PageOptions: []thread.Option{thread.WithScrollDelay(time.Hour)},
	}, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  5 * time.Second,
		BasePath: basePath,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &env{srv: srv, svc: svc, sessions: sessions}
}

func (e *env) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, buf.Bytes()
}

func decodePage(t *testing.T, raw []byte) models.PageResponse {
	t.Helper()

	var out models.PageResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func errCode(t *testing.T, raw []byte) string {
	t.Helper()

	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.Error.Code
}

func fixtureTopics() []models.Topic {
	return []models.Topic{
		{ID: "t1", Title: "Chủ đề 1", PackageID: "p1"},
		{ID: "t2", Title: "Chủ đề 2", PackageID: "p1"},
	}
}

func (e *env) expectLoad() {
	e.svc.EXPECT().ArticleByID(gomock.Any(), "p1").Return(&models.Package{ID: "p1", Title: "Đề thi"}, nil)
	e.svc.EXPECT().TopicsByPackageID(gomock.Any(), "p1").Return(fixtureTopics(), nil)
}

func TestRouter_FullThreadFlow(t *testing.T) {
	e := newEnv(t, "")
	e.expectLoad()
	e.svc.EXPECT().TopicComments(gomock.Any(), "t1").Return([]models.Comment{
		{ID: "c-human", TopicID: "t1", Author: models.Author{Name: "Bob"}, CreatedAt: time.Unix(100, 0),
			Replies: []models.Comment{{ID: "r1", ParentID: "c-human", Author: models.Author{Name: "Eve"}}}},
		{ID: "c-ai", TopicID: "t1", Author: models.Author{Name: "AI", IsAISeed: true}, CreatedAt: time.Unix(200, 0)},
	}, nil)

	// Открытие страницы с темой из query.
	resp, raw := e.do(t, http.MethodPost, "/pages", models.CreatePageRequest{PackageID: "p1", TopicID: "t1", ClientID: "browser-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	pr := decodePage(t, raw)
	sid := pr.SessionID
	require.NotEmpty(t, sid)
	require.Equal(t, models.PageReady, pr.Page.Status)
	require.Equal(t, "p1", pr.Page.Package.ID)
	require.Equal(t, "t1", pr.Page.ScrollTarget)

	t1 := pr.Page.Topics[0]
	require.True(t, t1.Expanded)
	require.Len(t, t1.Comments, 2)
	require.Equal(t, "c-ai", t1.Comments[0].ID, "AI-seed первым")
	require.Empty(t, t1.Comments[1].Replies, "ответы свёрнуты")

	// Ответ на комментарий Bob.
	resp, raw = e.do(t, http.MethodPost, "/pages/"+sid+"/topics/t1/reply", models.BeginReplyRequest{CommentID: "c-human", Author: "Bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	t1 = decodePage(t, raw).Page.Topics[0]
	require.Equal(t, models.ComposeReply, t1.Compose.Mode)
	require.Equal(t, "@Bob ", t1.Compose.Text)
	require.True(t, t1.Comments[1].ReplyBoxOpen)
	require.Len(t, t1.Comments[1].Replies, 1)
	require.Equal(t, thread.DefaultIndentStep, t1.Comments[1].Replies[0].Indent)

	resp, _ = e.do(t, http.MethodPut, "/pages/"+sid+"/topics/t1/draft", models.SetDraftRequest{Text: "@Bob đồng ý"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Отправка: CreateReply без темы, затем перечитывание.
	gomock.InOrder(
		e.svc.EXPECT().CreateReply(gomock.Any(), "c-human", "@Bob đồng ý").Return(nil, nil),
		e.svc.EXPECT().TopicComments(gomock.Any(), "t1").Return(nil, nil),
		e.svc.EXPECT().TopicsByPackageID(gomock.Any(), "p1").Return(fixtureTopics(), nil),
	)
	resp, raw = e.do(t, http.MethodPost, "/pages/"+sid+"/topics/t1/comments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pr = decodePage(t, raw)
	require.Empty(t, pr.Page.Alert)
	require.Equal(t, models.ComposeIdle, pr.Page.Topics[0].Compose.Mode)

	// GET отдаёт тот же снимок.
	resp, raw = e.do(t, http.MethodGet, "/pages/"+sid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, sid, decodePage(t, raw).SessionID)

	// Удаление сессии.
	resp, _ = e.do(t, http.MethodDelete, "/pages/"+sid, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = e.do(t, http.MethodGet, "/pages/"+sid, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "session_not_found", errCode(t, raw))
}

func TestRouter_SubmitFailure_ReturnsAlert(t *testing.T) {
	e := newEnv(t, "/api")
	e.expectLoad()

	_, raw := e.do(t, http.MethodPost, "/api/pages", models.CreatePageRequest{PackageID: "p1"})
	sid := decodePage(t, raw).SessionID

	e.do(t, http.MethodPut, "/api/pages/"+sid+"/topics/t2/draft", models.SetDraftRequest{Text: "xin chào"})

	e.svc.EXPECT().CreateComment(gomock.Any(), "t2", "xin chào").Return(nil, backend.ErrUnavailable)

	resp, raw := e.do(t, http.MethodPost, "/api/pages/"+sid+"/topics/t2/comments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	pr := decodePage(t, raw)
	require.Equal(t, thread.SubmitFailedAlert, pr.Page.Alert)
	require.Equal(t, "xin chào", pr.Page.Topics[1].Compose.Text, "черновик сохранён")

	// Alert показывается один раз.
	_, raw = e.do(t, http.MethodGet, "/api/pages/"+sid, nil)
	require.Empty(t, decodePage(t, raw).Page.Alert)
}

func TestRouter_LikeToggleAndReplies(t *testing.T) {
	e := newEnv(t, "")
	e.expectLoad()

	_, raw := e.do(t, http.MethodPost, "/pages", models.CreatePageRequest{PackageID: "p1"})
	sid := decodePage(t, raw).SessionID

	e.svc.EXPECT().LikeTopic(gomock.Any(), "t2").Return(nil)
	e.svc.EXPECT().TopicsByPackageID(gomock.Any(), "p1").Return(fixtureTopics(), nil)

	resp, raw := e.do(t, http.MethodPost, "/pages/"+sid+"/topics/t2/like", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, decodePage(t, raw).Page.Topics[1].Liked)

	e.svc.EXPECT().TopicComments(gomock.Any(), "t2").Return(nil, nil)
	resp, raw = e.do(t, http.MethodPost, "/pages/"+sid+"/topics/t2/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, decodePage(t, raw).Page.Topics[1].Expanded)

	resp, _ = e.do(t, http.MethodPost, "/pages/"+sid+"/comments/c1/replies/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = e.do(t, http.MethodDelete, "/pages/"+sid+"/topics/t2/reply?comment_id=c1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, models.ComposeIdle, decodePage(t, raw).Page.Topics[1].Compose.Mode)
}

func TestRouter_Errors(t *testing.T) {
	e := newEnv(t, "")

	// Битое тело и пустой package_id.
	resp, raw := e.do(t, http.MethodPost, "/pages", map[string]any{"package_id": "p1", "extra": 1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_argument", errCode(t, raw))

	resp, _ = e.do(t, http.MethodPost, "/pages", models.CreatePageRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Пакет не найден — сессия не создаётся.
	e.svc.EXPECT().ArticleByID(gomock.Any(), "p404").Return(nil, backend.ErrNotFound)
	e.svc.EXPECT().TopicsByPackageID(gomock.Any(), "p404").Return(nil, nil).AnyTimes()
	resp, raw = e.do(t, http.MethodPost, "/pages", models.CreatePageRequest{PackageID: "p404"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "not_found", errCode(t, raw))
	require.Equal(t, 0, e.sessions.Len())

	// Бэкенд недоступен.
	e.svc.EXPECT().ArticleByID(gomock.Any(), "p503").Return(nil, backend.ErrUnavailable)
	e.svc.EXPECT().TopicsByPackageID(gomock.Any(), "p503").Return(nil, nil).AnyTimes()
	resp, _ = e.do(t, http.MethodPost, "/pages", models.CreatePageRequest{PackageID: "p503"})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// Неизвестная сессия и тема.
	resp, raw = e.do(t, http.MethodPost, "/pages/nope/topics/t1/toggle", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "session_not_found", errCode(t, raw))

	e.expectLoad()
	_, raw = e.do(t, http.MethodPost, "/pages", models.CreatePageRequest{PackageID: "p1"})
	sid := decodePage(t, raw).SessionID

	resp, raw = e.do(t, http.MethodPost, "/pages/"+sid+"/topics/ghost/toggle", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "not_found", errCode(t, raw))

	resp, _ = e.do(t, http.MethodPost, "/pages/"+sid+"/topics/t1/reply", models.BeginReplyRequest{CommentID: " "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
