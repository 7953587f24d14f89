// Package thread держит состояние страницы пакета: темы, их раскрытие,
// лениво загружаемые комментарии, поле ввода каждой темы и видимость ответов.
//
// Manager безопасен для конкурентного использования. Мьютекс не удерживается
// во время вызовов бэкенда, поэтому пока идёт запрос по одной теме, остальные
// темы остаются доступны.
//
// Ошибки бэкенда при работе с уже загруженной страницей поглощаются на границе
// операции: пишутся в лог, отражаются в состоянии страницы (а для отправки
// комментария ещё и в alert). Наружу операции возвращают только ошибки вызова:
// ErrNotLoaded, ErrUnknownTopic, ErrInvalidArgument. Исключение —
// LoadPackageAndTopics, который возвращает причину неудачной загрузки.
package thread

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/forum-gateway/internal/backend"
	"github.com/pribylovaa/forum-gateway/internal/drafts"
	"github.com/pribylovaa/forum-gateway/internal/models"
)

var (
	// ErrNotLoaded — страница не загружена (или загрузка не удалась).
	ErrNotLoaded = errors.New("page not loaded")
	// ErrUnknownTopic — темы нет в списке тем пакета.
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrInvalidArgument — неверные параметры операции.
	ErrInvalidArgument = errors.New("invalid argument")
)

// SubmitFailedAlert — текст блокирующего уведомления при неудачной отправке.
const SubmitFailedAlert = "Không thể gửi bình luận. Vui lòng thử lại."

const (
	DefaultIndentStep  = 24
	DefaultScrollDelay = 300 * time.Millisecond
)

// Scroller прокручивает страницу к теме. Вызывается не более одного раза после загрузки.
type Scroller interface {
	ScrollTo(topicID string)
}

// ScrollerFunc — адаптер функции к Scroller.
type ScrollerFunc func(topicID string)

func (f ScrollerFunc) ScrollTo(topicID string) { f(topicID) }

// Notifier показывает пользователю блокирующее сообщение.
type Notifier interface {
	Alert(msg string)
}

// NotifierFunc — адаптер функции к Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Alert(msg string) { f(msg) }

// topicState — UI-состояние одной темы.
type topicState struct {
	expanded bool
	// liked — локальный флаг, с сервера не подтягивается.
	liked   bool
	compose compose
	// loaded — в кэше есть запись для темы (возможно, пустая).
	loaded   bool
	comments []models.Comment
}

// Manager — состояние одной страницы пакета.
type Manager struct {
	svc backend.Service
	log *slog.Logger

	indentStep  int
	scrollDelay time.Duration
	callTimeout time.Duration
	scroller    Scroller
	notifier    Notifier
	drafts      drafts.Store
	draftScope  string

	sf singleflight.Group

	mu           sync.Mutex
	status       models.PageStatus
	loading      bool
	pkg          *models.Package
	topics       []models.Topic
	state        map[string]*topicState
	replyVisible map[string]bool
	busy         map[string]struct{}
	scrollTarget string
	scrollTimer  *time.Timer
	alert        string
	closed       bool
}

// Option — настройка Manager.
type Option func(*Manager)

// WithLogger задаёт логгер для фоновых событий (таймер прокрутки).
// Операции логируют через логгер из контекста.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithIndentStep — отступ одного уровня вложенности; значения <= 0 игнорируются.
func WithIndentStep(step int) Option {
	return func(m *Manager) {
		if step > 0 {
			m.indentStep = step
		}
	}
}

// WithScrollDelay — задержка перед прокруткой к теме из запроса.
func WithScrollDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.scrollDelay = d
		}
	}
}

// WithCallTimeout ограничивает общие (склеенные) вызовы бэкенда, которые
// выполняются без отмены от запроса-инициатора. 0 — без ограничения.
func WithCallTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.callTimeout = d
		}
	}
}

func WithScroller(s Scroller) Option {
	return func(m *Manager) { m.scroller = s }
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithDrafts включает автосохранение черновиков в store под ключом scope.
func WithDrafts(store drafts.Store, scope string) Option {
	return func(m *Manager) {
		m.drafts = store
		m.draftScope = scope
	}
}

// New создаёт пустую страницу. Данные появляются после LoadPackageAndTopics.
func New(svc backend.Service, opts ...Option) *Manager {
	m := &Manager{
		svc:          svc,
		log:          slog.Default(),
		indentStep:   DefaultIndentStep,
		scrollDelay:  DefaultScrollDelay,
		status:       models.PageIdle,
		state:        make(map[string]*topicState),
		replyVisible: make(map[string]bool),
		busy:         make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Close останавливает отложенную прокрутку. Повторный вызов безопасен.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.scrollTimer != nil {
		m.scrollTimer.Stop()
		m.scrollTimer = nil
	}
}

// TakeAlert возвращает и сбрасывает ожидающее уведомление пользователя.
func (m *Manager) TakeAlert() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.alert
	m.alert = ""

	return a
}

// PackageID — id загруженного пакета ("" до успешной загрузки).
func (m *Manager) PackageID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pkg == nil {
		return ""
	}

	return m.pkg.ID
}

// topicLocked — состояние темы; вызывается под m.mu.
func (m *Manager) topicLocked(topicID string) (*topicState, error) {
	if m.status != models.PageReady {
		return nil, ErrNotLoaded
	}

	ts, ok := m.state[topicID]
	if !ok {
		return nil, ErrUnknownTopic
	}

	return ts, nil
}

// syncTopicsLocked заводит состояние для новых тем из свежего списка.
// Состояние исчезнувших тем не трогаем: ответ мог прийти со старыми данными.
func (m *Manager) syncTopicsLocked(topics []models.Topic) {
	m.topics = topics
	for _, t := range topics {
		if _, ok := m.state[t.ID]; !ok {
			m.state[t.ID] = &topicState{}
		}
	}
}

// tryAcquire помечает действие key как выполняющееся; false — уже выполняется.
func (m *Manager) tryAcquire(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.busy[key]; ok {
		return false
	}
	m.busy[key] = struct{}{}

	return true
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.busy, key)
}

func (m *Manager) notify(msg string) {
	m.mu.Lock()
	m.alert = msg
	n := m.notifier
	m.mu.Unlock()

	if n != nil {
		n.Alert(msg)
	}
}
