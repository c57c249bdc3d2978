package messenger

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matheus3301/msgr/internal/api"
)

// InitialsPlaceholder is shown for users without a name.
const InitialsPlaceholder = "??"

// FormatTime renders an epoch-seconds timestamp as local HH:MM.
func FormatTime(ts float64) string {
	return FormatTimeIn(ts, time.Local)
}

// FormatTimeIn renders ts as HH:MM in loc.
func FormatTimeIn(ts float64, loc *time.Location) string {
	return toTime(ts).In(loc).Format("15:04")
}

// FormatDate renders an epoch-seconds timestamp as a local long date.
func FormatDate(ts float64) string {
	return FormatDateIn(ts, time.Local)
}

// FormatDateIn renders ts as "2 January 2006" in loc.
func FormatDateIn(ts float64, loc *time.Location) string {
	return toTime(ts).In(loc).Format("2 January 2006")
}

func toTime(ts float64) time.Time {
	return api.Epoch(ts)
}

// Initials returns the first two characters of the name part of a nick,
// upper-cased.
func Initials(nick string) string {
	name := DisplayName(nick)
	if name == "" {
		return InitialsPlaceholder
	}
	if utf8.RuneCountInString(name) > 2 {
		r := []rune(name)
		name = string(r[:2])
	}
	return strings.ToUpper(name)
}

// RenderKind selects how a favorite is drawn.
type RenderKind string

const (
	RenderText  RenderKind = "text"
	RenderFile  RenderKind = "file"
	RenderVoice RenderKind = "voice"
)

// RenderKindOf picks the presentation of fav. File and voice entries without
// a URL fall back to text.
func RenderKindOf(fav api.Favorite) RenderKind {
	switch {
	case fav.Type == api.FavoriteFile && fav.FileURL != "":
		return RenderFile
	case fav.Type == api.FavoriteVoice && fav.VoiceURL != "":
		return RenderVoice
	default:
		return RenderText
	}
}

// Presence describes a search result's online state.
func Presence(r api.SearchResult) string {
	if r.Online {
		return "online"
	}
	if r.LastOnline == nil {
		return "offline"
	}
	return "last seen " + FormatDate(*r.LastOnline) + " " + FormatTime(*r.LastOnline)
}

// SameDay reports whether two timestamps fall on the same local date. Feeds
// use it to decide where to draw date separators.
func SameDay(a, b float64) bool {
	ya, ma, da := toTime(a).Date()
	yb, mb, db := toTime(b).Date()
	return ya == yb && ma == mb && da == db
}
