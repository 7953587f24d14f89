package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/forum-gateway/internal/thread"
	"github.com/pribylovaa/forum-gateway/mocks"
)

// fakeClock — управляемое время для проверки TTL.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newPage(t *testing.T) *thread.Manager {
	t.Helper()
	return thread.New(mocks.NewMockService(gomock.NewController(t)))
}

func TestStore_CreateGetDelete(t *testing.T) {
	t.Parallel()

	s := New(time.Minute)
	page := newPage(t)

	id := s.Create(page)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	require.Same(t, page, got)
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(id))
	require.Equal(t, 0, s.Len())

	_, err = s.Get(id)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Delete(id), ErrNotFound)
}

func TestStore_GetExpired(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	s := New(10*time.Minute, WithClock(clk.Now))

	id := s.Create(newPage(t))

	clk.Advance(9 * time.Minute)
	_, err := s.Get(id)
	require.NoError(t, err, "обращение продлевает жизнь")

	clk.Advance(9 * time.Minute)
	_, err = s.Get(id)
	require.NoError(t, err)

	clk.Advance(11 * time.Minute)
	_, err = s.Get(id)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 0, s.Len())
}

func TestStore_Sweep(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	s := New(time.Minute, WithClock(clk.Now))

	old := s.Create(newPage(t))
	clk.Advance(50 * time.Second)
	fresh := s.Create(newPage(t))

	clk.Advance(20 * time.Second)
	require.Equal(t, 1, s.Sweep())

	_, err := s.Get(old)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh)
	require.NoError(t, err)

	require.Equal(t, 0, s.Sweep())
}

func TestStore_ZeroTTL_NeverExpires(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Now()}
	s := New(0, WithClock(clk.Now))
	id := s.Create(newPage(t))

	clk.Advance(24 * time.Hour)
	require.Equal(t, 0, s.Sweep())
	_, err := s.Get(id)
	require.NoError(t, err)
}

func TestStore_RunEvictsUntilCanceled(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Now()}
	s := New(time.Minute, WithClock(clk.Now))
	s.Create(newPage(t))
	clk.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestStore_Close(t *testing.T) {
	t.Parallel()

	s := New(time.Minute)
	s.Create(newPage(t))
	s.Create(newPage(t))

	s.Close()
	require.Equal(t, 0, s.Len())
}
