// Package drafts — порт автосохранения черновиков поля ввода тем.
//
// Черновики группируются по scope (клиент/браузер) и ключуются id темы.
// Ошибки хранилища не должны ломать действие пользователя: вызывающий их только логирует.
package drafts

import (
	"context"
	"strings"
	"sync"
)

// Draft — сохранённое состояние поля ввода темы.
// ReplyTo пуст для черновика комментария верхнего уровня.
type Draft struct {
	Text    string
	ReplyTo string
}

// Store — контракт хранилища черновиков.
//
//go:generate mockgen -source=drafts.go -destination=../../mocks/drafts.go -package=mocks
type Store interface {
	// Save перезаписывает черновик темы.
	Save(ctx context.Context, scope, topicID string, d Draft) error
	// Load возвращает черновики только для найденных тем из topicIDs.
	Load(ctx context.Context, scope string, topicIDs []string) (map[string]Draft, error)
	// Delete удаляет черновик темы; отсутствие записи не ошибка.
	Delete(ctx context.Context, scope, topicID string) error
}

// Memory — Store в памяти процесса; живёт, пока жив шлюз.
type Memory struct {
	mu sync.RWMutex
	m  map[string]map[string]Draft
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{m: make(map[string]map[string]Draft)}
}

func (s *Memory) Save(ctx context.Context, scope, topicID string, d Draft) error {
	if strings.TrimSpace(d.Text) == "" && d.ReplyTo == "" {
		return s.Delete(ctx, scope, topicID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.m[scope]
	if !ok {
		bucket = make(map[string]Draft)
		s.m[scope] = bucket
	}
	bucket[topicID] = d

	return nil
}

func (s *Memory) Load(_ context.Context, scope string, topicIDs []string) (map[string]Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Draft)
	bucket := s.m[scope]
	for _, id := range topicIDs {
		if d, ok := bucket[id]; ok {
			out[id] = d
		}
	}

	return out, nil
}

func (s *Memory) Delete(_ context.Context, scope, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.m[scope]
	if !ok {
		return nil
	}

	delete(bucket, topicID)
	if len(bucket) == 0 {
		delete(s.m, scope)
	}

	return nil
}
