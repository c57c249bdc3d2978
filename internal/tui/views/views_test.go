package views

import (
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/matheus3301/msgr/internal/uistate"
)

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"👍🏽", "👍"},
		{"👨‍👩", "👨👩"},
		{"❤️", "❤"},
	}
	for _, tt := range tests {
		if got := sanitizeForTerminal(tt.in); got != tt.want {
			t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayEscapesTags(t *testing.T) {
	if got := display("[red]hi"); got == "[red]hi" {
		t.Errorf("display did not escape color tag: %q", got)
	}
}

func TestFeedTextDateSeparators(t *testing.T) {
	day1 := float64(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local).Unix())
	day2 := float64(time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local).Unix())
	favs := []api.Favorite{
		{Type: api.FavoriteText, Text: "one", Timestamp: day1},
		{Type: api.FavoriteText, Text: "two", Timestamp: day1 + 60},
		{Type: api.FavoriteText, Text: "three", Timestamp: day2},
	}
	out := feedText(ui.DefaultTheme(), favs, nil)
	if n := strings.Count(out, "──"); n != 4 {
		t.Errorf("got %d separator marks, want 4 (two date lines):\n%s", n, out)
	}
	if !strings.Contains(out, "1 March 2024") || !strings.Contains(out, "2 March 2024") {
		t.Errorf("missing date lines:\n%s", out)
	}
}

func TestFavoriteLineKinds(t *testing.T) {
	theme := ui.DefaultTheme()
	resolve := func(s string) string { return "http://h" + s }

	file := favoriteLine(theme, api.Favorite{Type: api.FavoriteFile, Text: "File: a.pdf", FileURL: "/static/a.pdf"}, resolve)
	if !strings.Contains(file, "File: a.pdf") || !strings.Contains(file, "http://h/static/a.pdf") {
		t.Errorf("file line = %q", file)
	}

	voice := favoriteLine(theme, api.Favorite{Type: api.FavoriteVoice, VoiceURL: "/v.ogg"}, resolve)
	if !strings.Contains(voice, "Voice message") || !strings.Contains(voice, "http://h/v.ogg") {
		t.Errorf("voice line = %q", voice)
	}

	// A file entry without a link is drawn as its text.
	bare := favoriteLine(theme, api.Favorite{Type: api.FavoriteFile, Text: "lost"}, resolve)
	if bare != "lost" {
		t.Errorf("bare file line = %q, want lost", bare)
	}
}

func TestRenderQR(t *testing.T) {
	out := renderQR("alice#1234")
	if strings.Contains(out, "unavailable") {
		t.Fatalf("renderQR failed: %s", out)
	}
	if lines := strings.Count(out, "\n"); lines < 10 {
		t.Errorf("QR has %d lines, want a full code", lines)
	}
}

func TestChatListByIndex(t *testing.T) {
	cl := NewChatList(ui.DefaultTheme())
	cl.Update([]string{"bob#1", "carol#2"}, map[string]int{"carol#2": 3}, "bob#1")

	if got := cl.ChatByIndex(2); got != "carol#2" {
		t.Errorf("ChatByIndex(2) = %q", got)
	}
	for _, n := range []int{0, 3} {
		if got := cl.ChatByIndex(n); got != "" {
			t.Errorf("ChatByIndex(%d) = %q, want empty", n, got)
		}
	}
	if title := cl.GetTitle(); !strings.Contains(title, "unread: 3") {
		t.Errorf("title = %q", title)
	}
}

func TestSettingsPanelEditorFollowsState(t *testing.T) {
	sp := NewSettingsPanel(ui.DefaultTheme(), nil)
	user := &api.User{Nick: "alice#1234", UserID: "u1"}

	sp.Update(user, uistate.SettingsEditingNick, "alice")
	if !sp.Editing() || sp.NickInput().GetText() != "alice" {
		t.Fatalf("editor not shown with draft: editing=%v text=%q", sp.Editing(), sp.NickInput().GetText())
	}
	sp.Update(user, uistate.SettingsOpen, "")
	if sp.Editing() || sp.GetItemCount() != 1 {
		t.Errorf("editor still shown: editing=%v items=%d", sp.Editing(), sp.GetItemCount())
	}
}

func TestUserSearchSelected(t *testing.T) {
	us := NewUserSearch(ui.DefaultTheme(), nil)
	var queries []string
	us.SetOnQuery(func(q string) { queries = append(queries, q) })

	us.SetQuery("bo")
	if len(queries) != 1 || queries[0] != "bo" {
		t.Errorf("queries = %v", queries)
	}

	us.Update([]api.SearchResult{{Nick: "bob#1", Online: true}})
	if !us.HasResults() {
		t.Fatal("HasResults = false")
	}
	us.Results().Select(1, 0)
	r, ok := us.Selected()
	if !ok || r.Nick != "bob#1" {
		t.Errorf("Selected = %+v, %v", r, ok)
	}
}
