// Package apitest runs an in-memory stand-in for the Messenger REST API so
// client code can be tested end to end over real HTTP.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/matheus3301/msgr/internal/api"
)

// Call is one request the server received.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

type user struct {
	id         string
	nick       string
	email      string
	password   string
	avatar     string
	lastOnline time.Time
}

type message struct {
	from, to string
	text     string
	at       time.Time
	read     bool
}

// Server is a fake API mounted under /api.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     map[string]*user
	favorites map[string][]api.Favorite
	uploads   map[string][]byte
	messages  []*message
	calls     []Call
	failures  map[string]int
	now       func() time.Time
}

// New starts a fake server that is closed when the test ends.
func New(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		users:     make(map[string]*user),
		favorites: make(map[string][]api.Favorite),
		uploads:   make(map[string][]byte),
		failures:  make(map[string]int),
		now:       time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.injectFailures)
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/me", s.handleMe)
		r.Get("/search", s.handleSearch)
		r.Get("/favorites", s.handleListFavorites)
		r.Post("/favorites", s.handleAddFavorite)
		r.Post("/upload", s.handleUpload)
		r.Post("/update_profile", s.handleUpdateProfile)
		r.Get("/messages", s.handleListMessages)
		r.Post("/messages", s.handleSendMessage)
		r.Get("/unread_chats", s.handleUnread)
	})

	s.Server = httptest.NewServer(r)
	tb.Cleanup(s.Close)
	return s
}

// APIBase returns the base URL clients should use.
func (s *Server) APIBase() string {
	return s.URL + "/api"
}

// AddUser registers an account directly and returns its token (the user id).
func (s *Server) AddUser(nick, email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{id: uuid.NewString(), nick: nick, email: email, password: password, lastOnline: s.now()}
	s.users[u.id] = u
	return u.id
}

// SetAvatar sets a user's avatar URL.
func (s *Server) SetAvatar(token, avatar string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.users[token]; u != nil {
		u.avatar = avatar
	}
}

// SetLastOnline moves a user's last activity.
func (s *Server) SetLastOnline(token string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.users[token]; u != nil {
		u.lastOnline = at
	}
}

// Nick returns the current nick of a user.
func (s *Server) Nick(token string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.users[token]; u != nil {
		return u.nick
	}
	return ""
}

// Avatar returns the current avatar of a user.
func (s *Server) Avatar(token string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.users[token]; u != nil {
		return u.avatar
	}
	return ""
}

// SeedFavorites appends favorites for a user without recording calls.
func (s *Server) SeedFavorites(token string, favs ...api.Favorite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites[token] = append(s.favorites[token], favs...)
}

// Favorites returns the favorites stored for a user.
func (s *Server) Favorites(token string) []api.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Favorite(nil), s.favorites[token]...)
}

// Uploads returns the number of stored files.
func (s *Server) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

// SeedMessage stores a direct message between two users.
func (s *Server) SeedMessage(fromToken, toToken, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, &message{from: fromToken, to: toToken, text: text, at: s.now()})
}

// Fail makes every following request to method+path answer status until
// cleared with status 0.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = status
}

// Calls returns every request received so far, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo counts requests to method+path (path without the /api prefix).
func (s *Server) CallsTo(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Sequence returns "METHOD /path" for every call, in order.
func (s *Server) Sequence() []string {
	calls := s.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method + " " + c.Path
	}
	return out
}

// ResetCalls forgets recorded calls.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, "/api"),
			Query:  r.URL.Query(),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failures[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]
		s.mu.Unlock()
		if status != 0 {
			writeDetail(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	for _, u := range s.users {
		if u.nick == req.Username || u.email == req.Email {
			s.mu.Unlock()
			writeDetail(w, http.StatusBadRequest, "user already exists")
			return
		}
	}
	u := &user{id: uuid.NewString(), nick: req.Username, email: req.Email, password: req.Password, lastOnline: s.now()}
	s.users[u.id] = u
	s.mu.Unlock()
	writeJSON(w, map[string]any{"user_id": u.id, "nick": u.nick})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.email == req.Email && u.password == req.Password {
			u.lastOnline = s.now()
			writeJSON(w, map[string]any{"token": u.id})
			return
		}
	}
	writeDetail(w, http.StatusUnauthorized, "invalid email or password")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.users[r.URL.Query().Get("token")]
	s.mu.Unlock()
	if u == nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, map[string]any{"nick": u.nick, "user_id": u.id, "avatar": nullable(u.avatar)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	nick := strings.ToLower(r.URL.Query().Get("nick"))
	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.nick), nick) {
			found = u
			break
		}
	}
	now := s.now()
	s.mu.Unlock()
	if found == nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, map[string]any{
		"user_id":     found.id,
		"nick":        found.nick,
		"avatar":      nullable(found.avatar),
		"online":      now.Sub(found.lastOnline) < time.Minute,
		"last_online": float64(found.lastOnline.UnixMilli()) / 1000,
	})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	favs := s.favorites[r.URL.Query().Get("token")]
	out := make([]map[string]any, 0, len(favs))
	for _, f := range favs {
		out = append(out, map[string]any{
			"type":      f.Type,
			"text":      nullable(f.Text),
			"fileUrl":   nullable(f.FileURL),
			"voiceUrl":  nullable(f.VoiceURL),
			"timestamp": f.Timestamp,
			"from":      "me",
		})
	}
	s.mu.Unlock()
	writeJSON(w, map[string]any{"favorites": out})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req api.NewFavorite
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.Type == "" {
		req.Type = api.FavoriteText
	}
	token := r.URL.Query().Get("token")
	s.mu.Lock()
	s.favorites[token] = append(s.favorites[token], api.Favorite{
		Type:      req.Type,
		Text:      req.Text,
		FileURL:   req.FileURL,
		VoiceURL:  req.VoiceURL,
		Timestamp: float64(s.now().UnixMilli()) / 1000,
	})
	s.mu.Unlock()
	writeJSON(w, map[string]any{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeDetail(w, http.StatusUnauthorized, "no token")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	name := fmt.Sprintf("%d_%s", len(s.uploads)+1, header.Filename)
	s.uploads[name] = data
	link := "/static/uploads/" + name
	if strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		if u := s.users[token]; u != nil {
			u.avatar = link
		}
	}
	s.mu.Unlock()
	writeJSON(w, map[string]any{"url": link})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewUsername string `json:"new_username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	token := r.URL.Query().Get("token")
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[token]
	if u == nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	for _, other := range s.users {
		if other.id != token && other.nick == req.NewUsername {
			writeDetail(w, http.StatusBadRequest, "username taken")
			return
		}
	}
	u.nick = req.NewUsername
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	me := q.Get("user_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	friend := s.userByNick(q.Get("friend_nick"))
	if friend == nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	if u := s.users[me]; u != nil {
		u.lastOnline = s.now()
	}
	out := make([]map[string]any, 0)
	for _, m := range s.messages {
		if (m.from == me && m.to == friend.id) || (m.from == friend.id && m.to == me) {
			if m.to == me {
				m.read = true
			}
			sender := s.users[m.from]
			out = append(out, map[string]any{
				"from":      sender.nick,
				"text":      m.text,
				"timestamp": float64(m.at.UnixMilli()) / 1000,
				"avatar":    nullable(sender.avatar),
			})
		}
	}
	writeJSON(w, map[string]any{
		"messages":           out,
		"friend_online":      s.now().Sub(friend.lastOnline) < time.Minute,
		"friend_last_online": float64(friend.lastOnline.UnixMilli()) / 1000,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string `json:"user_id"`
		FriendNick string `json:"friend_nick"`
		Text       string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	friend := s.userByNick(req.FriendNick)
	if friend == nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	s.messages = append(s.messages, &message{from: req.UserID, to: friend.id, text: req.Text, at: s.now()})
	writeJSON(w, map[string]any{"status": "ok"})
}

func (s *Server) handleUnread(w http.ResponseWriter, r *http.Request) {
	me := r.URL.Query().Get("user_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int)
	for _, m := range s.messages {
		if m.to == me && !m.read {
			if sender := s.users[m.from]; sender != nil {
				counts[sender.nick]++
			}
		}
	}
	writeJSON(w, counts)
}

func (s *Server) userByNick(nick string) *user {
	for _, u := range s.users {
		if u.nick == nick {
			return u
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
