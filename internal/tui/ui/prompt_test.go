package ui

import (
	"slices"
	"strings"
	"testing"
)

func TestCompleteCommand(t *testing.T) {
	names := []string{"chat", "chats", "favorites", "help", "nick"}
	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"ch", []string{"chat", "chats"}},
		{"chat", []string{"chats"}},
		{"chats", nil},
		{"f", []string{"favorites"}},
		{"nick bob", nil},
		{"zz", nil},
	}
	for _, tt := range tests {
		if got := completeCommand(names, tt.text); !slices.Equal(got, tt.want) {
			t.Errorf("completeCommand(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestHistoryBrowse(t *testing.T) {
	var h history
	if _, ok := h.prev(); ok {
		t.Fatal("prev on empty history succeeded")
	}

	h.add("search alice")
	h.add("chat alice")
	h.add("chat alice")

	if len(h.lines) != 2 {
		t.Fatalf("history kept %d lines, want 2 (repeats collapse)", len(h.lines))
	}
	if s, _ := h.prev(); s != "chat alice" {
		t.Errorf("prev = %q, want chat alice", s)
	}
	if s, _ := h.prev(); s != "search alice" {
		t.Errorf("prev = %q, want search alice", s)
	}
	if _, ok := h.prev(); ok {
		t.Error("prev past the oldest entry succeeded")
	}
	if s := h.next(); s != "chat alice" {
		t.Errorf("next = %q, want chat alice", s)
	}
	if s := h.next(); s != "" {
		t.Errorf("next past the newest = %q, want empty", s)
	}
}

func TestHistoryBounded(t *testing.T) {
	var h history
	for i := 0; i <= historySize; i++ {
		h.add("nick n" + strings.Repeat("x", i))
	}
	if len(h.lines) != historySize {
		t.Errorf("len = %d, want %d", len(h.lines), historySize)
	}
	if h.lines[0] != "nick nx" {
		t.Errorf("oldest = %q, want the second entry", h.lines[0])
	}
}

func TestCrumbText(t *testing.T) {
	theme := DefaultTheme()
	got := crumbText(theme, []string{"Chats", "Thread"})
	if !strings.Contains(got, "<chats>") || !strings.Contains(got, "<thread>") {
		t.Errorf("crumbText = %q", got)
	}
	if strings.Index(got, "<chats>") > strings.Index(got, "<thread>") {
		t.Error("trail is not bottom first")
	}
	if crumbText(theme, nil) != "" {
		t.Error("empty stack rendered something")
	}
}
