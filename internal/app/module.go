// Package app wires the client components together with fx.
package app

import (
	"context"
	"errors"
	"os"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/auth"
	"github.com/matheus3301/msgr/internal/bus"
	"github.com/matheus3301/msgr/internal/lock"
	"github.com/matheus3301/msgr/internal/logging"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/session"
	"github.com/matheus3301/msgr/internal/store"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Params holds the resolved settings passed to the fx module.
type Params struct {
	SessionName string
	APIBase     string
	Layout      messenger.Layout
	Owner       string // written to the lock file, e.g. "msgrtui"
	Exclusive   bool   // hold the session lock while running
	Console     bool   // tee logs to stderr
	Level       zapcore.Level
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("msgr",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideClient,
			provideSession,
			provideMessenger,
		),
		fx.Invoke(registerLifecycle),
	)
}

// Start builds and starts the application, filling targets (pointers to
// provided types) via fx.Populate. The returned func stops it.
func Start(ctx context.Context, p Params, targets ...any) (func(context.Context) error, error) {
	a := fx.New(
		Module(p),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Populate(targets...),
	)
	if err := a.Err(); err != nil {
		return nil, err
	}
	if err := a.Start(ctx); err != nil {
		return nil, err
	}
	return a.Stop, nil
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	return logging.New(session.LogPath(p.SessionName), p.SessionName, logging.Options{Console: p.Console, Level: p.Level})
}

func provideBus() *bus.Bus {
	return bus.New()
}

// provideLock returns a nil lock for non-exclusive hosts; Release is nil-safe.
func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if !p.Exclusive {
		return nil, nil
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.LockPath(p.SessionName), p.Owner)
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	path := session.CachePath(p.SessionName)
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Debug("migrations up to date", zap.Uint("version", result.Version))
	}
	return db, nil
}

func provideClient(p Params, logger *zap.Logger) *api.Client {
	logger.Info("api endpoint", zap.String("base", p.APIBase))
	return api.New(p.APIBase, nil, logger.Named("api"))
}

func provideSession(p Params, client *api.Client, db *store.DB, b *bus.Bus, logger *zap.Logger) *auth.Session {
	s := auth.NewSession(client, session.CredentialsPath(p.SessionName), db, logger.Named("auth"), b)
	if _, err := s.Restore(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("no saved credentials, login required")
		} else {
			logger.Warn("restore credentials", zap.Error(err))
		}
	}
	return s
}

func provideMessenger(p Params, s *auth.Session, db *store.DB, b *bus.Bus, logger *zap.Logger) *messenger.Messenger {
	return messenger.New(p.Layout, s,
		messenger.WithCache(db),
		messenger.WithBus(b),
		messenger.WithLogger(logger.Named("messenger")),
	)
}

func registerLifecycle(lc fx.Lifecycle, m *messenger.Messenger, s *auth.Session, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if s.Authenticated() {
				if err := m.Restore(ctx); err != nil {
					logger.Warn("restore snapshot", zap.Error(err))
				}
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn("error closing cache", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
