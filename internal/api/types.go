package api

import "time"

// FavoriteType is the payload shape of a favorite entry.
type FavoriteType string

const (
	FavoriteText  FavoriteType = "text"
	FavoriteFile  FavoriteType = "file"
	FavoriteVoice FavoriteType = "voice"
)

// Favorite is a saved message as returned by GET /favorites.
type Favorite struct {
	Type      FavoriteType `json:"type"`
	Text      string       `json:"text,omitempty"`
	FileURL   string       `json:"file_url,omitempty"`
	VoiceURL  string       `json:"voice_url,omitempty"`
	Timestamp float64      `json:"timestamp"`
	From      string       `json:"from,omitempty"`
}

// Time converts the epoch-seconds timestamp.
func (f Favorite) Time() time.Time {
	return Epoch(f.Timestamp)
}

// NewFavorite is the body of POST /favorites.
type NewFavorite struct {
	Type     FavoriteType `json:"type"`
	Text     string       `json:"text,omitempty"`
	FileURL  string       `json:"file_url,omitempty"`
	VoiceURL string       `json:"voice_url,omitempty"`
}

// User is the signed-in profile returned by GET /me.
type User struct {
	Nick   string `json:"nick"`
	Avatar string `json:"avatar,omitempty"`
	UserID string `json:"user_id"`
}

// SearchResult is the single user returned by GET /search.
type SearchResult struct {
	UserID     string   `json:"user_id"`
	Nick       string   `json:"nick"`
	Avatar     string   `json:"avatar,omitempty"`
	Online     bool     `json:"online"`
	LastOnline *float64 `json:"last_online,omitempty"`
}

// Message is one line of a direct conversation.
type Message struct {
	From      string  `json:"from"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
	Avatar    string  `json:"avatar,omitempty"`
}

// Time converts the epoch-seconds timestamp.
func (m Message) Time() time.Time {
	return Epoch(m.Timestamp)
}

// Conversation is the response of GET /messages.
type Conversation struct {
	Messages         []Message `json:"messages"`
	FriendOnline     bool      `json:"friend_online"`
	FriendLastOnline *float64  `json:"friend_last_online,omitempty"`
}

// Epoch converts float epoch seconds as sent by the server.
func Epoch(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
