// Package messenger is the view-state holder of the Messenger client. It
// keeps favorites, search, profile-edit and chat state for one signed-in user
// and synchronizes it with the REST API. Every mutation is followed by a full
// re-fetch; nothing is inserted optimistically.
package messenger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/auth"
	"github.com/matheus3301/msgr/internal/bus"
	"github.com/matheus3301/msgr/internal/store"
	"github.com/matheus3301/msgr/internal/uistate"
	"go.uber.org/zap"
)

var (
	// ErrEmptyText is returned when a text to send is blank after trimming.
	ErrEmptyText = errors.New("text is empty")
	// ErrFeatureDisabled is returned for operations the layout does not offer.
	ErrFeatureDisabled = errors.New("feature disabled in this layout")
	// ErrNotAuthenticated is returned when no token is held.
	ErrNotAuthenticated = auth.ErrNotAuthenticated
	// ErrNoChatSelected is returned by chat operations without a chat.
	ErrNoChatSelected = errors.New("no chat selected")
	// ErrNotImage is returned when an avatar file is not an image.
	ErrNotImage = errors.New("avatar must be an image")
)

// Auth is the collaborator that owns the signed-in user.
type Auth interface {
	User() *api.User
	Token() string
	API() *api.Client
	FetchUserProfile(ctx context.Context) (*api.User, error)
	Logout(ctx context.Context) error
}

// Cache persists the last good snapshot between runs. store.DB implements it.
type Cache interface {
	ReplaceFavorites(owner string, favs []api.Favorite) error
	ListFavorites(owner string) ([]api.Favorite, error)
	AddChat(owner, nick string) (bool, error)
	ListChats(owner string) ([]store.Chat, error)
	SetUnread(owner string, counts map[string]int) error
	DeleteOwner(owner string) error
}

// Messenger holds the state of one Messenger view.
type Messenger struct {
	layout Layout
	auth   Auth
	cache  Cache
	logger *zap.Logger
	bus    *bus.Bus

	Settings *uistate.Machine[uistate.Settings]
	Search   *uistate.Machine[uistate.Search]
	Tab      *uistate.Machine[uistate.Tab]

	mu             sync.RWMutex
	favorites      []api.Favorite
	favsFetched    bool
	draft          string
	query          string
	results        []api.SearchResult
	nickDraft      string
	chats          []string
	unread         map[string]int
	selected       string
	conversation api.Conversation
}

// Option configures a Messenger.
type Option func(*Messenger)

// WithCache enables the snapshot cache.
func WithCache(c Cache) Option {
	return func(m *Messenger) { m.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Messenger) { m.logger = l }
}

// WithBus publishes state changes on b.
func WithBus(b *bus.Bus) Option {
	return func(m *Messenger) { m.bus = b }
}

// New creates a Messenger for the given layout.
func New(layout Layout, a Auth, opts ...Option) *Messenger {
	m := &Messenger{
		layout: layout,
		auth:   a,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(m)
	}
	initialTab := uistate.TabFavorites
	if layout.Has(FeatureChats) {
		initialTab = uistate.TabChats
	}
	m.Settings = uistate.NewSettings(m.bus)
	m.Search = uistate.NewSearch(m.bus)
	m.Tab = uistate.NewTab(initialTab, m.bus)
	m.logger = m.logger.With(zap.String("layout", string(layout)))
	return m
}

// Layout returns the active layout.
func (m *Messenger) Layout() Layout { return m.layout }

// Auth returns the auth collaborator.
func (m *Messenger) Auth() Auth { return m.auth }

func (m *Messenger) require(f Feature) error {
	if !m.layout.Has(f) {
		return fmt.Errorf("%s: %w", f, ErrFeatureDisabled)
	}
	return nil
}

// session returns the token and client, or ErrNotAuthenticated.
func (m *Messenger) session() (string, *api.Client, error) {
	token := m.auth.Token()
	if token == "" {
		return "", nil, ErrNotAuthenticated
	}
	return token, m.auth.API(), nil
}

// Favorites returns a copy of the favorites list in display order.
func (m *Messenger) Favorites() []api.Favorite {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.favorites)
}

// Draft returns the message draft.
func (m *Messenger) Draft() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.draft
}

// SetDraft replaces the message draft.
func (m *Messenger) SetDraft(text string) {
	m.mu.Lock()
	m.draft = text
	m.mu.Unlock()
	m.bus.Emit(bus.KindDraftChanged, text)
}

// Query returns the last search query.
func (m *Messenger) Query() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.query
}

// Results returns a copy of the current search results.
func (m *Messenger) Results() []api.SearchResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.results)
}

// NickDraft returns the nickname being edited.
func (m *Messenger) NickDraft() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nickDraft
}

// SetNickDraft replaces the nickname draft. Only valid while editing.
func (m *Messenger) SetNickDraft(text string) error {
	if !m.Settings.Is(uistate.SettingsEditingNick) {
		return &uistate.TransitionError{Machine: m.Settings.Name(), From: string(m.Settings.Current()), To: string(uistate.SettingsEditingNick)}
	}
	m.mu.Lock()
	m.nickDraft = text
	m.mu.Unlock()
	return nil
}

// Restore seeds favorites and chats from the snapshot cache. It never
// overrides data that has already been fetched.
func (m *Messenger) Restore(ctx context.Context) error {
	if m.cache == nil {
		return nil
	}
	owner := m.auth.Token()
	if owner == "" {
		return ErrNotAuthenticated
	}

	if m.layout.Has(FeatureFavorites) {
		favs, err := m.cache.ListFavorites(owner)
		if err != nil {
			m.logger.Warn("restore favorites", zap.Error(err))
			return fmt.Errorf("restore favorites: %w", err)
		}
		m.mu.Lock()
		restored := !m.favsFetched
		if restored {
			m.favorites = favs
		}
		m.mu.Unlock()
		if restored {
			m.bus.Emit(bus.KindFavoritesRestore, slices.Clone(favs))
		}
	}

	if m.layout.Has(FeatureChats) {
		chats, err := m.cache.ListChats(owner)
		if err != nil {
			m.logger.Warn("restore chats", zap.Error(err))
			return fmt.Errorf("restore chats: %w", err)
		}
		m.mu.Lock()
		for _, c := range chats {
			if !slices.Contains(m.chats, c.Nick) {
				m.chats = append(m.chats, c.Nick)
			}
			if c.UnreadCount > 0 {
				if m.unread == nil {
					m.unread = make(map[string]int)
				}
				m.unread[c.Nick] = c.UnreadCount
			}
		}
		m.mu.Unlock()
		m.bus.Emit(bus.KindChatsChanged, m.Chats())
	}

	m.logger.Debug("restored from cache")
	return ctx.Err()
}

// Reset discards all transient state, as on logout.
func (m *Messenger) Reset() {
	m.mu.Lock()
	m.favorites = nil
	m.favsFetched = false
	m.draft = ""
	m.query = ""
	m.results = nil
	m.nickDraft = ""
	m.chats = nil
	m.unread = nil
	m.selected = ""
	m.conversation = api.Conversation{}
	m.mu.Unlock()

	m.Settings.Reset()
	m.Search.Reset()
	m.Tab.Reset()
}

// Logout signs out through the auth collaborator, forgets the cached
// snapshot of the user and resets the view.
func (m *Messenger) Logout(ctx context.Context) error {
	owner := m.auth.Token()
	err := m.auth.Logout(ctx)
	if m.cache != nil && owner != "" {
		if cerr := m.cache.DeleteOwner(owner); cerr != nil {
			m.logger.Warn("drop cached snapshot", zap.Error(cerr))
		}
	}
	m.Reset()
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
