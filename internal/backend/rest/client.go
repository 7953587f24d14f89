// Package rest реализует backend.Service поверх HTTP/JSON-контракта бэкенда.
//
// Контракт ответа: {"success": bool, "data": <payload>, "message": string}.
//
// Маппинг HTTP-статусов в ошибки порта:
//
//	404             -> backend.ErrNotFound
//	401, 403        -> backend.ErrUnauthorized
//	400, 422        -> backend.ErrInvalidArgument
//	502, 503, 504   -> backend.ErrUnavailable (как и транспортные ошибки)
//	прочие не-2xx   -> backend.ErrInternal
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/forum-gateway/internal/backend"
	"github.com/pribylovaa/forum-gateway/internal/backend/rest/transport"
	"github.com/pribylovaa/forum-gateway/internal/models"
)

// maxBodyBytes — верхняя граница читаемого тела ответа.
const maxBodyBytes = 4 << 20

// Options — параметры клиента.
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	Logger    *slog.Logger
	// Base — нижний транспорт; nil -> http.DefaultTransport.
	Base http.RoundTripper
}

// Client — REST-клиент бэкенда.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ backend.Service = (*Client)(nil)

// New собирает клиента с цепочкой транспорта: metadata -> timeout -> logging -> metrics.
func New(opts Options) (*Client, error) {
	const op = "backend/rest/New"

	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid base url %q", op, opts.BaseURL)
	}

	rt := transport.Chain(opts.Base,
		transport.WithMetadata(opts.UserAgent, opts.Token),
		transport.WithTimeout(opts.Timeout),
		transport.Logging(opts.Logger),
		transport.Metrics(),
	)

	return &Client{
		base: u,
		http: &http.Client{Transport: rt},
	}, nil
}

// envelope — обёртка ответа бэкенда.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// ArticleByID — GET /articles/{id}. Пустой data считается отсутствием пакета.
func (c *Client) ArticleByID(ctx context.Context, packageID string) (*models.Package, error) {
	const op = "backend/rest/ArticleByID"

	var dto *packageDTO
	if err := c.do(ctx, http.MethodGet, "/articles/{id}", []string{packageID}, nil, &dto); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if dto == nil {
		return nil, fmt.Errorf("%s: %w", op, backend.ErrNotFound)
	}

	p := dto.toModel()
	return &p, nil
}

// TopicsByPackageID — GET /packages/{id}/topics.
func (c *Client) TopicsByPackageID(ctx context.Context, packageID string) ([]models.Topic, error) {
	const op = "backend/rest/TopicsByPackageID"

	var dtos []topicDTO
	if err := c.do(ctx, http.MethodGet, "/packages/{id}/topics", []string{packageID}, nil, &dtos); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.Topic, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel())
	}

	return out, nil
}

// TopicComments — GET /topics/{id}/comments.
func (c *Client) TopicComments(ctx context.Context, topicID string) ([]models.Comment, error) {
	const op = "backend/rest/TopicComments"

	var dtos []commentDTO
	if err := c.do(ctx, http.MethodGet, "/topics/{id}/comments", []string{topicID}, nil, &dtos); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return commentsToModel(dtos, topicID), nil
}

// LikeTopic — POST /topics/{id}/like.
func (c *Client) LikeTopic(ctx context.Context, topicID string) error {
	const op = "backend/rest/LikeTopic"

	if err := c.do(ctx, http.MethodPost, "/topics/{id}/like", []string{topicID}, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UnlikeTopic — DELETE /topics/{id}/like.
func (c *Client) UnlikeTopic(ctx context.Context, topicID string) error {
	const op = "backend/rest/UnlikeTopic"

	if err := c.do(ctx, http.MethodDelete, "/topics/{id}/like", []string{topicID}, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type contentRequest struct {
	Content string `json:"content"`
}

// CreateComment — POST /topics/{id}/comments.
func (c *Client) CreateComment(ctx context.Context, topicID, content string) (*models.Comment, error) {
	const op = "backend/rest/CreateComment"

	var dto *commentDTO
	if err := c.do(ctx, http.MethodPost, "/topics/{id}/comments", []string{topicID}, contentRequest{Content: content}, &dto); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if dto == nil {
		return nil, nil
	}

	m := dto.toModel(topicID)
	return &m, nil
}

// CreateReply — POST /comments/{id}/replies. Тема не передаётся: бэкенд знает её по родителю.
func (c *Client) CreateReply(ctx context.Context, parentCommentID, content string) (*models.Comment, error) {
	const op = "backend/rest/CreateReply"

	var dto *commentDTO
	if err := c.do(ctx, http.MethodPost, "/comments/{id}/replies", []string{parentCommentID}, contentRequest{Content: content}, &dto); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if dto == nil {
		return nil, nil
	}

	m := dto.toModel(dto.TopicID)
	return &m, nil
}

// do выполняет запрос по шаблону маршрута route, подставляя ids вместо {id} по порядку.
// Непустое тело всегда проверяется на success; out == nil — data не разбирается.
func (c *Client) do(ctx context.Context, method, route string, ids []string, in, out any) error {
	path := route
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return backend.ErrInvalidArgument
		}
		path = strings.Replace(path, "{id}", url.PathEscape(id), 1)
	}

	u := *c.base
	u.Path = c.base.Path + path

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(transport.WithRoute(ctx, route), method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", backend.ErrUnavailable, err)
		}

		return fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", backend.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", backend.ErrInternal, err)
	}

	if !env.Success {
		return fmt.Errorf("%w: %s", backend.ErrInternal, env.Message)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", backend.ErrInternal, err)
	}

	return nil
}

// statusError переводит не-2xx статус в сентинел порта, сохраняя message бэкенда.
func statusError(code int, raw []byte) error {
	var env envelope
	_ = json.Unmarshal(raw, &env)

	msg := env.Message
	if msg == "" {
		msg = http.StatusText(code)
	}

	var kind error
	switch code {
	case http.StatusNotFound:
		kind = backend.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = backend.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = backend.ErrInvalidArgument
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		kind = backend.ErrUnavailable
	default:
		kind = backend.ErrInternal
	}

	return fmt.Errorf("%w: status %d: %s", kind, code, msg)
}
