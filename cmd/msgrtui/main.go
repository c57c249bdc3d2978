package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/msgr/internal/app"
	"github.com/matheus3301/msgr/internal/auth"
	"github.com/matheus3301/msgr/internal/bus"
	"github.com/matheus3301/msgr/internal/config"
	"github.com/matheus3301/msgr/internal/lock"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/session"
	"github.com/matheus3301/msgr/internal/tui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	apiFlag := flag.String("api", "", "API base URL (overrides config api_base)")
	layoutFlag := flag.String("layout", "", "view layout: classic, favorites or full")
	debugFlag := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfgPath := session.ConfigPath()
	cfg := config.LoadOrDefault(cfgPath)

	sessionName := session.Resolve(*sessionFlag, cfg)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	layoutName := *layoutFlag
	if layoutName == "" {
		layoutName = cfg.Layout
	}
	layout, err := messenger.ParseLayout(layoutName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := zapcore.InfoLevel
	if *debugFlag {
		level = zapcore.DebugLevel
	}

	var (
		m      *messenger.Messenger
		sess   *auth.Session
		b      *bus.Bus
		logger *zap.Logger
	)
	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	stop, err := app.Start(startCtx, app.Params{
		SessionName: sessionName,
		APIBase:     cfg.API(*apiFlag),
		Layout:      layout,
		Owner:       "msgrtui",
		Exclusive:   true,
		Level:       level,
	}, &m, &sess, &b, &logger)
	cancel()
	if err != nil {
		var held *lock.LockHeldError
		if errors.As(err, &held) {
			fmt.Fprintf(os.Stderr, "session %q is already open in another msgrtui (pid %d)\n", sessionName, held.PID)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	ui := tui.NewApp(m, sess, b, logger, tui.Options{
		SessionName: sessionName,
		Email:       cfg.Email,
		OnLogin: func(email string) {
			if email == cfg.Email {
				return
			}
			cfg.Email = email
			if err := config.Save(cfgPath, cfg); err != nil {
				logger.Warn("remember email", zap.Error(err))
			}
		},
	})
	runErr := ui.Run()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStop()
	if err := stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
