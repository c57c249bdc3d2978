package messenger

import (
	"testing"
	"time"

	"github.com/matheus3301/msgr/internal/api"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc#123", "AB"},
		{"", "??"},
		{"#123", "??"},
		{"x", "X"},
		{"élan#1", "ÉL"},
		{"jo", "JO"},
	}
	for _, tt := range tests {
		if got := Initials(tt.in); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderKindOf(t *testing.T) {
	tests := []struct {
		name string
		fav  api.Favorite
		want RenderKind
	}{
		{"text", api.Favorite{Type: api.FavoriteText, Text: "hi"}, RenderText},
		{"file", api.Favorite{Type: api.FavoriteFile, FileURL: "/f"}, RenderFile},
		{"file without url", api.Favorite{Type: api.FavoriteFile, Text: "File: x"}, RenderText},
		{"voice", api.Favorite{Type: api.FavoriteVoice, VoiceURL: "/v"}, RenderVoice},
		{"voice without url", api.Favorite{Type: api.FavoriteVoice}, RenderText},
		{"mismatched url", api.Favorite{Type: api.FavoriteText, FileURL: "/f"}, RenderText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderKindOf(tt.fav); got != tt.want {
				t.Errorf("RenderKindOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatTimeAndDate(t *testing.T) {
	// 2024-03-05 14:07:30.5 UTC
	ts := 1709647650.5

	if got := FormatTimeIn(ts, time.UTC); got != "14:07" {
		t.Errorf("FormatTimeIn = %q", got)
	}
	if got := FormatDateIn(ts, time.UTC); got != "5 March 2024" {
		t.Errorf("FormatDateIn = %q", got)
	}

	tokyo := time.FixedZone("JST", 9*3600)
	if got := FormatTimeIn(ts, tokyo); got != "23:07" {
		t.Errorf("FormatTimeIn(JST) = %q", got)
	}
}

func TestNewNick(t *testing.T) {
	tests := []struct {
		draft, current, want string
	}{
		{"alicia", "alice#0001", "alicia#0001"},
		{" alicia ", "alice#0001", "alicia#0001"},
		{"alicia#9", "alice#0001", "alicia#9"},
		{"alicia", "alice", "alicia"},
		{"alicia", "", "alicia"},
	}
	for _, tt := range tests {
		if got := NewNick(tt.draft, tt.current); got != tt.want {
			t.Errorf("NewNick(%q, %q) = %q, want %q", tt.draft, tt.current, got, tt.want)
		}
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{"", LayoutFull, false},
		{"classic", LayoutClassic, false},
		{" Favorites ", LayoutFavorites, false},
		{"full", LayoutFull, false},
		{"compact", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLayout(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestPresence(t *testing.T) {
	if got := Presence(api.SearchResult{Online: true}); got != "online" {
		t.Errorf("online = %q", got)
	}
	if got := Presence(api.SearchResult{}); got != "offline" {
		t.Errorf("unknown = %q", got)
	}
	ts := 1709647650.0
	want := "last seen " + FormatDate(ts) + " " + FormatTime(ts)
	if got := Presence(api.SearchResult{LastOnline: &ts}); got != want {
		t.Errorf("last seen = %q, want %q", got, want)
	}
}

func TestSameDay(t *testing.T) {
	base := float64(time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local).Unix())
	if !SameDay(base, base+3600) {
		t.Error("an hour later should be the same day")
	}
	if SameDay(base, base+86400) {
		t.Error("a day later should differ")
	}
}
