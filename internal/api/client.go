package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-request id that is also logged.
const RequestIDHeader = "X-Request-ID"

// Client talks to the Messenger REST API.
type Client struct {
	base    string
	http    *http.Client
	logger  *zap.Logger
	parsers fastjson.ParserPool
}

// New creates a client for the API rooted at base (e.g. http://host/api).
// A nil httpClient uses http.DefaultClient.
func New(base string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   httpClient,
		logger: logger,
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.base
}

// ResolveURL turns a server-relative path such as /static/uploads/x into an
// absolute URL on the API host.
func (c *Client) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	b, err := url.Parse(c.base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// Favorites fetches the signed-in user's favorites in display order.
func (c *Client) Favorites(ctx context.Context, token string) ([]Favorite, error) {
	var favs []Favorite
	err := c.call(ctx, http.MethodGet, "/favorites", url.Values{"token": {token}}, nil, "", func(v *fastjson.Value) error {
		favs = decodeFavorites(v)
		return nil
	})
	return favs, err
}

// AddFavorite stores a new favorite.
func (c *Client) AddFavorite(ctx context.Context, token string, fav NewFavorite) error {
	return c.postJSON(ctx, "/favorites", url.Values{"token": {token}}, fav, nil)
}

// Upload sends a file as multipart/form-data and returns the URL it was
// stored under. Images also become the user's avatar server-side.
func (c *Client) Upload(ctx context.Context, token, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(name)))
	h.Set("Content-Type", ContentType(name))
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	var uploaded string
	err = c.call(ctx, http.MethodPost, "/upload", url.Values{"token": {token}}, &buf, w.FormDataContentType(), func(v *fastjson.Value) error {
		uploaded = str(v, "url")
		return nil
	})
	return uploaded, err
}

// Search looks a user up by nick. A miss is a 404 StatusError.
func (c *Client) Search(ctx context.Context, nick string) (*SearchResult, error) {
	var res *SearchResult
	err := c.call(ctx, http.MethodGet, "/search", url.Values{"nick": {nick}}, nil, "", func(v *fastjson.Value) error {
		res = decodeSearchResult(v)
		return nil
	})
	return res, err
}

// UpdateProfile renames the signed-in user.
func (c *Client) UpdateProfile(ctx context.Context, token, newUsername string) error {
	body := struct {
		NewUsername string `json:"new_username"`
	}{newUsername}
	return c.postJSON(ctx, "/update_profile", url.Values{"token": {token}}, body, nil)
}

// Me fetches the profile that owns token.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var u *User
	err := c.call(ctx, http.MethodGet, "/me", url.Values{"token": {token}}, nil, "", func(v *fastjson.Value) error {
		u = decodeUser(v)
		return nil
	})
	return u, err
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var token string
	err := c.postJSON(ctx, "/login", nil, body, func(v *fastjson.Value) error {
		token = str(v, "token")
		if token == "" {
			return fmt.Errorf("login: empty token in response")
		}
		return nil
	})
	return token, err
}

// Register creates an account and returns its id and nick.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{username, email, password}
	var u *User
	err := c.postJSON(ctx, "/register", nil, body, func(v *fastjson.Value) error {
		u = decodeUser(v)
		return nil
	})
	return u, err
}

// Messages fetches the conversation between userID and friendNick.
func (c *Client) Messages(ctx context.Context, userID, friendNick string) (*Conversation, error) {
	var conv *Conversation
	q := url.Values{"user_id": {userID}, "friend_nick": {friendNick}}
	err := c.call(ctx, http.MethodGet, "/messages", q, nil, "", func(v *fastjson.Value) error {
		conv = decodeConversation(v)
		return nil
	})
	return conv, err
}

// SendMessage posts a direct message.
func (c *Client) SendMessage(ctx context.Context, userID, friendNick, text string) error {
	body := struct {
		UserID     string `json:"user_id"`
		FriendNick string `json:"friend_nick"`
		Text       string `json:"text"`
	}{userID, friendNick, text}
	return c.postJSON(ctx, "/messages", nil, body, nil)
}

// UnreadChats returns unread counts keyed by sender nick.
func (c *Client) UnreadChats(ctx context.Context, userID string) (map[string]int, error) {
	var counts map[string]int
	err := c.call(ctx, http.MethodGet, "/unread_chats", url.Values{"user_id": {userID}}, nil, "", func(v *fastjson.Value) error {
		counts = decodeUnread(v)
		return nil
	})
	return counts, err
}

func (c *Client) postJSON(ctx context.Context, path string, query url.Values, body any, decode func(*fastjson.Value) error) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}
	return c.call(ctx, http.MethodPost, path, query, bytes.NewReader(data), "application/json", decode)
}

// call performs one round trip. decode runs while the pooled parser is still
// checked out, so it must not retain *fastjson.Value.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, decode func(*fastjson.Value) error) error {
	endpoint := method + " " + path
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("endpoint", endpoint),
			zap.String("request_id", reqID),
			zap.Error(err))
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", endpoint, err)
	}

	c.logger.Debug("api request",
		zap.String("endpoint", endpoint),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: endpoint, Status: resp.StatusCode, Detail: decodeDetail(data)}
	}
	if decode == nil {
		return nil
	}

	p := c.parsers.Get()
	defer c.parsers.Put(p)
	v, err := p.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("%s: malformed response: %w", endpoint, err)
	}
	return decode(v)
}

// ContentType guesses a MIME type from the file extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
