// Package session хранит страницы (thread.Manager) по идентификатору сессии.
// Страница живёт, пока к ней обращаются: после ttl простоя её вычищает Sweep.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/forum-gateway/internal/metrics"
	"github.com/pribylovaa/forum-gateway/internal/thread"
)

// ErrNotFound — сессии нет или она истекла.
var ErrNotFound = errors.New("session not found")

type entry struct {
	page     *thread.Manager
	lastSeen time.Time
}

// Store — реестр страниц в памяти процесса.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[string]*entry
}

// Option — настройка Store.
type Option func(*Store)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*entry),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create регистрирует страницу и возвращает id новой сессии.
func (s *Store) Create(page *thread.Manager) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.items[id] = &entry{page: page, lastSeen: s.now()}
	s.mu.Unlock()

	metrics.ActiveSessions.Inc()

	return id
}

// Get возвращает страницу и продлевает жизнь сессии.
func (s *Store) Get(id string) (*thread.Manager, error) {
	const op = "session/Get"

	s.mu.Lock()
	e, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	now := s.now()
	if s.expired(e, now) {
		delete(s.items, id)
		s.mu.Unlock()

		e.page.Close()
		metrics.ActiveSessions.Dec()
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	e.lastSeen = now
	s.mu.Unlock()

	return e.page, nil
}

// Delete закрывает страницу и удаляет сессию.
func (s *Store) Delete(id string) error {
	const op = "session/Delete"

	s.mu.Lock()
	e, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	e.page.Close()
	metrics.ActiveSessions.Dec()

	return nil
}

// Len — число живых (в том числе ещё не вычищенных) сессий.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

// Sweep удаляет истёкшие сессии и возвращает их число.
func (s *Store) Sweep() int {
	now := s.now()

	var evicted []*thread.Manager

	s.mu.Lock()
	for id, e := range s.items {
		if s.expired(e, now) {
			delete(s.items, id)
			evicted = append(evicted, e.page)
		}
	}
	s.mu.Unlock()

	for _, p := range evicted {
		p.Close()
	}
	metrics.ActiveSessions.Sub(float64(len(evicted)))

	return len(evicted)
}

// Run периодически вызывает Sweep до отмены ctx.
func (s *Store) Run(ctx context.Context, interval time.Duration, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				log.Info("sessions_evicted", "count", n, "active", s.Len())
			}
		}
	}
}

// Close закрывает все страницы (при остановке сервиса).
func (s *Store) Close() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range items {
		e.page.Close()
	}
	metrics.ActiveSessions.Sub(float64(len(items)))
}
