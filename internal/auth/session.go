// Package auth owns the signed-in user: token, profile and the credentials
// file that survives restarts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/bus"
	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned by operations that need a token when none
// is held.
var ErrNotAuthenticated = errors.New("not authenticated")

// ProfileCache keeps the last fetched profile for offline start-up.
type ProfileCache interface {
	SaveProfile(u *api.User) error
	GetProfile(owner string) (*api.User, error)
}

// Session is the auth collaborator of the messenger component.
type Session struct {
	client   *api.Client
	credPath string
	cache    ProfileCache
	logger   *zap.Logger
	bus      *bus.Bus

	mu       sync.RWMutex
	token    string
	email    string
	user     *api.User
	onLogout []func()
}

// NewSession creates a signed-out session. cache may be nil.
func NewSession(client *api.Client, credPath string, cache ProfileCache, logger *zap.Logger, b *bus.Bus) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client:   client,
		credPath: credPath,
		cache:    cache,
		logger:   logger,
		bus:      b,
	}
}

// Restore loads a saved token and, when available, the cached profile.
// It reports whether a token was found.
func (s *Session) Restore() (bool, error) {
	creds, err := LoadCredentials(s.credPath)
	if err != nil {
		return false, err
	}

	var cached *api.User
	if s.cache != nil {
		cached, err = s.cache.GetProfile(creds.Token)
		if err != nil {
			s.logger.Warn("read cached profile", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.token = creds.Token
	s.email = creds.Email
	s.user = cached
	s.mu.Unlock()
	s.logger.Info("session restored", zap.Bool("cached_profile", cached != nil))
	return true, nil
}

// Login exchanges credentials for a token, saves it and fetches the profile.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.email = email
	s.user = nil
	s.mu.Unlock()

	creds := &Credentials{Token: token, Email: email, APIBase: s.client.BaseURL(), SavedAt: time.Now()}
	if err := SaveCredentials(s.credPath, creds); err != nil {
		s.logger.Warn("save credentials", zap.String("path", s.credPath), zap.Error(err))
	}
	s.logger.Info("logged in", zap.String("email", email))

	_, err = s.FetchUserProfile(ctx)
	return err
}

// Register creates an account and signs into it.
func (s *Session) Register(ctx context.Context, nick, email, password string) error {
	if _, err := s.client.Register(ctx, nick, email, password); err != nil {
		s.logger.Warn("register failed", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("register: %w", err)
	}
	return s.Login(ctx, email, password)
}

// FetchUserProfile refreshes the profile from GET /me.
func (s *Session) FetchUserProfile(ctx context.Context) (*api.User, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	u, err := s.client.Me(ctx, token)
	if err != nil {
		s.logger.Warn("fetch profile failed", zap.Error(err))
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if u.UserID == "" {
		u.UserID = token
	}

	s.mu.Lock()
	if s.token != token {
		// Logged out or switched accounts while the request was in flight.
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	s.user = u
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SaveProfile(u); err != nil {
			s.logger.Warn("cache profile", zap.Error(err))
		}
	}
	s.bus.Emit(bus.KindProfileUpdated, *u)
	cp := *u
	return &cp, nil
}

// User returns a copy of the current profile, or nil.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

// Token returns the session token ("" when signed out).
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Email returns the address used to sign in, if known.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// API returns the REST client bound to this session's API base.
func (s *Session) API() *api.Client {
	return s.client
}

// OnLogout registers fn to run after Logout clears the session.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

// Logout forgets the token, removes saved credentials and runs logout hooks.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.email = ""
	s.user = nil
	hooks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()

	err := RemoveCredentials(s.credPath)
	if err != nil {
		s.logger.Warn("remove credentials", zap.Error(err))
	}
	for _, fn := range hooks {
		fn()
	}
	s.bus.Emit(bus.KindSessionReset, nil)
	s.logger.Info("logged out")
	return err
}
