package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/forum-gateway/internal/backend"
	"github.com/pribylovaa/forum-gateway/internal/drafts"
	"github.com/pribylovaa/forum-gateway/internal/http/handlers"
	"github.com/pribylovaa/forum-gateway/internal/http/middleware"
	"github.com/pribylovaa/forum-gateway/internal/session"
	"github.com/pribylovaa/forum-gateway/internal/thread"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// Deps — зависимости страниц.
type Deps struct {
	Backend  backend.Service
	Sessions *session.Store
	// Drafts — хранилище автосохранения; nil — автосохранение выключено.
	Drafts drafts.Store
	// PageOptions применяются к каждой новой странице.
	PageOptions []thread.Option
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(deps Deps, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования: id попадает в request-scoped логгер
		middleware.Logging(opts.Logger),
		middleware.AuthBearer(), // токен пользователя уходит в вызовы бэкенда
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	h := handlers.New(deps.Sessions, pageFactory(deps))

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

func pageFactory(deps Deps) handlers.PageFactory {
	return func(scope string) *thread.Manager {
		opts := append([]thread.Option(nil), deps.PageOptions...)
		if deps.Drafts != nil && scope != "" {
			opts = append(opts, thread.WithDrafts(deps.Drafts, scope))
		}

		return thread.New(deps.Backend, opts...)
	}
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Post("/pages", h.CreatePage)

	r.Route("/pages/{sid}", func(r chi.Router) {
		r.Get("/", h.GetPage)
		r.Delete("/", h.DeletePage)

		// темы
		r.Post("/topics/{topic_id}/toggle", h.ToggleTopic)
		r.Post("/topics/{topic_id}/like", h.ToggleTopicLike)

		// поле ввода
		r.Put("/topics/{topic_id}/draft", h.SetDraft)
		r.Post("/topics/{topic_id}/comments", h.SubmitComment)
		r.Post("/topics/{topic_id}/reply", h.BeginReply)
		r.Delete("/topics/{topic_id}/reply", h.CancelReply)

		// ответы
		r.Post("/comments/{comment_id}/replies/toggle", h.ToggleReplies)
	})
}
