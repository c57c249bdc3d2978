package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/api/apitest"
	"go.uber.org/zap"
)

func newClient(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	return api.New(srv.APIBase(), srv.Client(), zap.NewNop()), srv
}

func TestFavoritesDecodesCamelCaseURLs(t *testing.T) {
	c, srv := newClient(t)
	token := srv.AddUser("alice#0001", "alice@example.com", "pw")
	srv.SeedFavorites(token,
		api.Favorite{Type: api.FavoriteText, Text: "hello", Timestamp: 1700000000.5},
		api.Favorite{Type: api.FavoriteFile, Text: "File: a.pdf", FileURL: "/static/uploads/1_a.pdf", Timestamp: 1700000001},
		api.Favorite{Type: api.FavoriteVoice, VoiceURL: "/static/voice/1.ogg", Timestamp: 1700000002},
	)

	favs, err := c.Favorites(context.Background(), token)
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if len(favs) != 3 {
		t.Fatalf("len = %d, want 3", len(favs))
	}
	if favs[0].Text != "hello" || favs[0].Timestamp != 1700000000.5 {
		t.Errorf("favs[0] = %+v", favs[0])
	}
	if favs[1].FileURL != "/static/uploads/1_a.pdf" {
		t.Errorf("FileURL = %q", favs[1].FileURL)
	}
	if favs[2].VoiceURL != "/static/voice/1.ogg" {
		t.Errorf("VoiceURL = %q", favs[2].VoiceURL)
	}
	if favs[0].From != "me" {
		t.Errorf("From = %q, want me", favs[0].From)
	}
}

func TestAddFavoriteSendsSnakeCaseBody(t *testing.T) {
	c, srv := newClient(t)
	token := srv.AddUser("alice#0001", "alice@example.com", "pw")

	err := c.AddFavorite(context.Background(), token, api.NewFavorite{
		Type:    api.FavoriteFile,
		Text:    "File: a.txt",
		FileURL: "/static/uploads/1_a.txt",
	})
	if err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	calls := srv.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if !strings.Contains(string(calls[0].Body), `"file_url":"/static/uploads/1_a.txt"`) {
		t.Errorf("body = %s", calls[0].Body)
	}
	if got := calls[0].Query.Get("token"); got != token {
		t.Errorf("token = %q, want %q", got, token)
	}
	favs := srv.Favorites(token)
	if len(favs) != 1 || favs[0].FileURL != "/static/uploads/1_a.txt" {
		t.Errorf("stored = %+v", favs)
	}
}

func TestSearchNotFound(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.Search(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error")
	}
	if !api.IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
	var se *api.StatusError
	if !errors.As(err, &se) || se.Detail != "user not found" {
		t.Errorf("err = %#v", err)
	}
}

func TestSearchFound(t *testing.T) {
	c, srv := newClient(t)
	srv.AddUser("bob#4242", "bob@example.com", "pw")

	res, err := c.Search(context.Background(), "bob#4242")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Nick != "bob#4242" || res.UserID == "" {
		t.Errorf("res = %+v", res)
	}
	if !res.Online {
		t.Error("fresh user should be online")
	}
	if res.LastOnline == nil {
		t.Error("LastOnline missing")
	}
}

func TestUploadImageSetsAvatar(t *testing.T) {
	c, srv := newClient(t)
	token := srv.AddUser("alice#0001", "alice@example.com", "pw")

	link, err := c.Upload(context.Background(), token, "/tmp/me.png", strings.NewReader("\x89PNG"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if link != "/static/uploads/1_me.png" {
		t.Errorf("url = %q", link)
	}
	if got := srv.Avatar(token); got != link {
		t.Errorf("avatar = %q, want %q", got, link)
	}
}

func TestUploadNonImageKeepsAvatar(t *testing.T) {
	c, srv := newClient(t)
	token := srv.AddUser("alice#0001", "alice@example.com", "pw")

	if _, err := c.Upload(context.Background(), token, "notes.txt", strings.NewReader("hi")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got := srv.Avatar(token); got != "" {
		t.Errorf("avatar = %q, want empty", got)
	}
}

func TestLoginAndMe(t *testing.T) {
	c, srv := newClient(t)
	want := srv.AddUser("alice#0001", "alice@example.com", "secret")
	ctx := context.Background()

	if _, err := c.Login(ctx, "alice@example.com", "wrong"); !api.IsUnauthorized(err) {
		t.Fatalf("wrong password: err = %v, want 401", err)
	}

	token, err := c.Login(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != want {
		t.Errorf("token = %q, want %q", token, want)
	}

	u, err := c.Me(ctx, token)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if u.Nick != "alice#0001" || u.UserID != token || u.Avatar != "" {
		t.Errorf("me = %+v", u)
	}
}

func TestRegisterThenUpdateProfile(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()

	u, err := c.Register(ctx, "carol#7", "carol@example.com", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.UserID == "" || u.Nick != "carol#7" {
		t.Fatalf("registered = %+v", u)
	}
	if err := c.UpdateProfile(ctx, u.UserID, "caroline#7"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got := srv.Nick(u.UserID); got != "caroline#7" {
		t.Errorf("nick = %q", got)
	}
}

func TestMessagesAndUnread(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	alice := srv.AddUser("alice#1", "a@example.com", "pw")
	bob := srv.AddUser("bob#2", "b@example.com", "pw")
	srv.SeedMessage(bob, alice, "hey")
	srv.SeedMessage(bob, alice, "you there?")

	unread, err := c.UnreadChats(ctx, alice)
	if err != nil {
		t.Fatalf("UnreadChats: %v", err)
	}
	if unread["bob#2"] != 2 {
		t.Errorf("unread = %v", unread)
	}

	if err := c.SendMessage(ctx, alice, "bob#2", "yes"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	conv, err := c.Messages(ctx, alice, "bob#2")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(conv.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(conv.Messages))
	}
	if conv.Messages[2].From != "alice#1" || conv.Messages[2].Text != "yes" {
		t.Errorf("last = %+v", conv.Messages[2])
	}

	unread, err = c.UnreadChats(ctx, alice)
	if err != nil {
		t.Fatalf("UnreadChats: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("unread after read = %v", unread)
	}
}

func TestRequestIDHeader(t *testing.T) {
	seen := make(chan string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get(api.RequestIDHeader)
		_, _ = w.Write([]byte(`{"favorites":[]}`))
	}))
	defer ts.Close()

	c := api.New(ts.URL, ts.Client(), zap.NewNop())
	if _, err := c.Favorites(context.Background(), "t"); err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if id := <-seen; len(id) != 36 {
		t.Errorf("request id = %q", id)
	}
}

func TestValidationDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","text"],"msg":"field required"}]}`))
	}))
	defer ts.Close()

	c := api.New(ts.URL, ts.Client(), zap.NewNop())
	err := c.AddFavorite(context.Background(), "t", api.NewFavorite{Type: api.FavoriteText})
	var se *api.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if se.Status != http.StatusUnprocessableEntity || se.Detail != "field required" {
		t.Errorf("se = %+v", se)
	}
}

func TestMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer ts.Close()

	c := api.New(ts.URL, ts.Client(), zap.NewNop())
	if _, err := c.Favorites(context.Background(), "t"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestResolveURL(t *testing.T) {
	c := api.New("http://127.0.0.1:8001/api", nil, nil)
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/static/uploads/a.png", "http://127.0.0.1:8001/static/uploads/a.png"},
		{"https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
	}
	for _, tt := range tests {
		if got := c.ResolveURL(tt.in); got != tt.want {
			t.Errorf("ResolveURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
