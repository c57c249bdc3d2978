package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestHandleEventPrefersViewBinding(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'r', Description: "reload", Handler: func() { got = "global" }})
	r.AddView("settings", &Action{Key: tcell.KeyRune, Rune: 'r', Description: "rename", Handler: func() { got = "view" }})

	if !r.handle("settings", tcell.KeyRune, 'r') || got != "view" {
		t.Errorf("settings: got %q, want view", got)
	}
	if !r.handle("favorites", tcell.KeyRune, 'r') || got != "global" {
		t.Errorf("favorites: got %q, want global", got)
	}
}

func TestDisabledActionIsSkipped(t *testing.T) {
	r := NewRegistry()
	enabled := false
	ran := false
	r.AddGlobal(&Action{
		Key: tcell.KeyRune, Rune: '/', Description: "search", Visible: true,
		Handler: func() { ran = true },
		Enabled: func() bool { return enabled },
	})

	if r.handle("favorites", tcell.KeyRune, '/') || ran {
		t.Error("disabled action ran")
	}
	if len(r.Hints("favorites")) != 0 {
		t.Error("disabled action shown in hints")
	}

	enabled = true
	if !r.handle("favorites", tcell.KeyRune, '/') || !ran {
		t.Error("enabled action did not run")
	}
}

func TestHintsOrder(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'q', Description: "Quit", Visible: true})
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: '?', Description: "Help", Visible: true})
	r.AddView("chats", &Action{Key: tcell.KeyTab, Label: "Tab", Description: "Favorites", Visible: true})
	r.AddView("chats", &Action{Key: tcell.KeyRune, Rune: 'x', Description: "hidden"})

	hints := r.Hints("chats")
	want := []Hint{{"Tab", "Favorites"}, {"q", "Quit"}, {"?", "Help"}}
	if len(hints) != len(want) {
		t.Fatalf("hints = %v, want %v", hints, want)
	}
	for i := range want {
		if hints[i] != want[i] {
			t.Errorf("hints[%d] = %v, want %v", i, hints[i], want[i])
		}
	}
}

func TestNonRuneKeyNeedsNoRune(t *testing.T) {
	r := NewRegistry()
	ran := false
	r.AddGlobal(&Action{Key: tcell.KeyTab, Label: "Tab", Handler: func() { ran = true }})
	if r.handle("chats", tcell.KeyRune, '\t') {
		t.Error("rune event matched a Tab binding")
	}
	if !r.handle("chats", tcell.KeyTab, 0) || !ran {
		t.Error("Tab binding did not run")
	}
}

func TestHintOnlyActionPassesThrough(t *testing.T) {
	r := NewRegistry()
	r.AddView("chats", &Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Open", Visible: true})
	if r.handle("chats", tcell.KeyEnter, 0) {
		t.Error("hint-only action consumed the event")
	}
	if got := r.ViewHints("chats"); len(got) != 1 || got[0].Key != "Enter" {
		t.Errorf("ViewHints = %v", got)
	}
	if len(r.GlobalHints()) != 0 {
		t.Error("unexpected global hints")
	}
}
