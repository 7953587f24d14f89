// Package backend описывает порт REST-бэкенда экзаменационной платформы,
// которым пользуется страница обсуждений.
package backend

import (
	"context"
	"errors"

	"github.com/pribylovaa/forum-gateway/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует (404).
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized — токен отсутствует или не принят бэкендом (401/403).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument — бэкенд отверг входные данные (400/422).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable — бэкенд недоступен или не ответил вовремя.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrInternal — прочие ошибки бэкенда.
	ErrInternal = errors.New("backend internal error")
)

// Service — операции бэкенда, нужные странице пакета.
//
//go:generate mockgen -source=backend.go -destination=../../mocks/backend.go -package=mocks
type Service interface {
	// ArticleByID возвращает пакет (статью). 404 -> ErrNotFound.
	ArticleByID(ctx context.Context, packageID string) (*models.Package, error)

	// TopicsByPackageID возвращает темы пакета в порядке бэкенда.
	TopicsByPackageID(ctx context.Context, packageID string) ([]models.Topic, error)

	// TopicComments возвращает комментарии темы вместе с вложенными ответами.
	TopicComments(ctx context.Context, topicID string) ([]models.Comment, error)

	// LikeTopic / UnlikeTopic — идемпотентность на стороне клиента не гарантируется.
	LikeTopic(ctx context.Context, topicID string) error
	UnlikeTopic(ctx context.Context, topicID string) error

	// CreateComment создаёт комментарий верхнего уровня.
	// Бэкенд может вернуть nil-комментарий: вызывающий всё равно перечитывает тему.
	CreateComment(ctx context.Context, topicID, content string) (*models.Comment, error)

	// CreateReply создаёт ответ на комментарий. Идентификатор темы не передаётся.
	CreateReply(ctx context.Context, parentCommentID, content string) (*models.Comment, error)
}
