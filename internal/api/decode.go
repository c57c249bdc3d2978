package api

import (
	"github.com/valyala/fastjson"
)

// The server is not consistent about key casing (GET /favorites answers with
// fileUrl/voiceUrl while POST takes file_url), so lookups accept aliases.

func str(v *fastjson.Value, keys ...string) string {
	for _, k := range keys {
		if b := v.GetStringBytes(k); b != nil {
			return string(b)
		}
	}
	return ""
}

func optFloat(v *fastjson.Value, key string) *float64 {
	f := v.Get(key)
	if f == nil || f.Type() != fastjson.TypeNumber {
		return nil
	}
	n := f.GetFloat64()
	return &n
}

func decodeFavorite(v *fastjson.Value) Favorite {
	return Favorite{
		Type:      FavoriteType(str(v, "type")),
		Text:      str(v, "text"),
		FileURL:   str(v, "file_url", "fileUrl"),
		VoiceURL:  str(v, "voice_url", "voiceUrl"),
		Timestamp: v.GetFloat64("timestamp"),
		From:      str(v, "from"),
	}
}

func decodeFavorites(v *fastjson.Value) []Favorite {
	items := v.GetArray("favorites")
	favs := make([]Favorite, 0, len(items))
	for _, item := range items {
		favs = append(favs, decodeFavorite(item))
	}
	return favs
}

func decodeUser(v *fastjson.Value) *User {
	return &User{
		Nick:   str(v, "nick", "username"),
		Avatar: str(v, "avatar"),
		UserID: str(v, "user_id", "id"),
	}
}

func decodeSearchResult(v *fastjson.Value) *SearchResult {
	return &SearchResult{
		UserID:     str(v, "user_id"),
		Nick:       str(v, "nick"),
		Avatar:     str(v, "avatar"),
		Online:     v.GetBool("online"),
		LastOnline: optFloat(v, "last_online"),
	}
}

func decodeConversation(v *fastjson.Value) *Conversation {
	items := v.GetArray("messages")
	conv := &Conversation{
		Messages:         make([]Message, 0, len(items)),
		FriendOnline:     v.GetBool("friend_online"),
		FriendLastOnline: optFloat(v, "friend_last_online"),
	}
	for _, item := range items {
		conv.Messages = append(conv.Messages, Message{
			From:      str(item, "from"),
			Text:      str(item, "text"),
			Timestamp: item.GetFloat64("timestamp"),
			Avatar:    str(item, "avatar"),
		})
	}
	return conv
}

func decodeUnread(v *fastjson.Value) map[string]int {
	counts := make(map[string]int)
	obj, err := v.Object()
	if err != nil {
		return counts
	}
	obj.Visit(func(key []byte, n *fastjson.Value) {
		if c, err := n.Int(); err == nil {
			counts[string(key)] = c
		}
	})
	return counts
}

// decodeDetail extracts a FastAPI-style {"detail": ...} message. Validation
// errors carry a list; their first msg is used.
func decodeDetail(body []byte) string {
	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return ""
	}
	d := v.Get("detail")
	if d == nil {
		return ""
	}
	switch d.Type() {
	case fastjson.TypeString:
		return string(d.GetStringBytes())
	case fastjson.TypeArray:
		if arr := d.GetArray(); len(arr) > 0 {
			return str(arr[0], "msg")
		}
	}
	return d.String()
}
