package app

import (
	"context"
	"errors"
	"testing"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/api/apitest"
	"github.com/matheus3301/msgr/internal/auth"
	"github.com/matheus3301/msgr/internal/lock"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/session"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestModuleWiresMessenger(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := apitest.New(t)
	srv.AddUser("alice#0001", "alice@example.com", "pw")
	srv.SeedFavorites(srv.AddUser("bob#2", "bob@example.com", "pw"), api.Favorite{Type: api.FavoriteText, Text: "not mine"})

	var (
		m    *messenger.Messenger
		sess *auth.Session
	)
	p := Params{SessionName: "test", APIBase: srv.APIBase(), Layout: messenger.LayoutFull, Owner: "test", Exclusive: true}
	a := fxtest.New(t, Module(p), fx.Populate(&m, &sess))
	a.RequireStart()

	ctx := context.Background()
	if err := sess.Login(ctx, "alice@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	m.SetDraft("hello")
	if err := m.AddToFavorites(ctx); err != nil {
		t.Fatalf("AddToFavorites: %v", err)
	}
	if got := m.Favorites(); len(got) != 1 || got[0].Text != "hello" {
		t.Errorf("favorites = %+v", got)
	}
	a.RequireStop()
}

func TestRestartRestoresSnapshot(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := apitest.New(t)
	token := srv.AddUser("alice#0001", "alice@example.com", "pw")
	srv.SeedFavorites(token, api.Favorite{Type: api.FavoriteText, Text: "cached", Timestamp: 1})
	p := Params{SessionName: "test", APIBase: srv.APIBase(), Layout: messenger.LayoutFull}
	ctx := context.Background()

	var (
		m    *messenger.Messenger
		sess *auth.Session
	)
	first := fxtest.New(t, Module(p), fx.Populate(&m, &sess))
	first.RequireStart()
	if err := sess.Login(ctx, "alice@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := m.LoadFavorites(ctx); err != nil {
		t.Fatal(err)
	}
	first.RequireStop()

	srv.Fail("GET", "/favorites", 500)
	srv.ResetCalls()

	var m2 *messenger.Messenger
	var sess2 *auth.Session
	second := fxtest.New(t, Module(p), fx.Populate(&m2, &sess2))
	second.RequireStart()
	defer second.RequireStop()

	if !sess2.Authenticated() {
		t.Fatal("credentials not restored")
	}
	if u := sess2.User(); u == nil || u.Nick != "alice#0001" {
		t.Errorf("cached profile = %+v", u)
	}
	if got := m2.Favorites(); len(got) != 1 || got[0].Text != "cached" {
		t.Errorf("restored favorites = %+v", got)
	}
	if n := len(srv.Calls()); n != 0 {
		t.Errorf("start-up made %d requests", n)
	}
}

func TestExclusiveLockRejectsSecondInstance(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := session.EnsureDir("test"); err != nil {
		t.Fatal(err)
	}
	held, err := lock.Acquire(session.LockPath("test"), "msgrtui")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = held.Release() }()

	p := Params{SessionName: "test", APIBase: "http://127.0.0.1:1/api", Layout: messenger.LayoutFull, Owner: "msgrtui", Exclusive: true}
	var m *messenger.Messenger
	_, err = Start(context.Background(), p, &m)
	var lockErr *lock.LockHeldError
	if !errors.As(err, &lockErr) {
		t.Fatalf("err = %v, want LockHeldError", err)
	}
	if lockErr.Owner != "msgrtui" {
		t.Errorf("owner = %q", lockErr.Owner)
	}
}
