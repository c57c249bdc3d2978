package ui

import (
	"slices"
	"testing"

	"github.com/rivo/tview"
)

func newTestPages(names ...string) *Pages {
	p := NewPages()
	for _, n := range names {
		p.AddPage(n, tview.NewBox(), true, false)
	}
	return p
}

func TestPagesPushPop(t *testing.T) {
	p := newTestPages("favorites", "search", "settings")
	var changes [][]string
	p.SetOnChange(func(stack []string) { changes = append(changes, stack) })

	p.Push("favorites")
	p.Push("search")
	if got := p.Current(); got != "search" {
		t.Fatalf("Current() = %q, want search", got)
	}
	if got := p.Pop(); got != "search" {
		t.Errorf("Pop() = %q, want search", got)
	}
	if got := p.Pop(); got != "" {
		t.Errorf("Pop() on the last page = %q, want empty", got)
	}
	if p.Depth() != 1 || p.Current() != "favorites" {
		t.Errorf("stack = %v, want [favorites]", p.Stack())
	}
	if len(changes) != 3 {
		t.Errorf("onChange fired %d times, want 3", len(changes))
	}
}

func TestPagesPushExistingUnwinds(t *testing.T) {
	p := newTestPages("chats", "thread", "details")
	p.Push("chats")
	p.Push("thread")
	p.Push("details")

	dropped := p.Push("chats")
	if !slices.Equal(dropped, []string{"details", "thread"}) {
		t.Errorf("dropped = %v, want [details thread]", dropped)
	}
	if !slices.Equal(p.Stack(), []string{"chats"}) {
		t.Errorf("stack = %v, want [chats]", p.Stack())
	}
	if p.Contains("thread") {
		t.Error("thread still on the stack")
	}
}

func TestPagesReset(t *testing.T) {
	p := newTestPages("favorites", "search", "help")
	p.Push("favorites")
	p.Push("search")
	p.Push("help")

	dropped := p.Reset("favorites")
	if !slices.Equal(dropped, []string{"help", "search", "favorites"}) {
		t.Errorf("dropped = %v", dropped)
	}
	if !slices.Equal(p.Stack(), []string{"favorites"}) {
		t.Errorf("stack = %v, want [favorites]", p.Stack())
	}
}

func TestPagesStackIsCopy(t *testing.T) {
	p := newTestPages("a")
	p.Push("a")
	s := p.Stack()
	s[0] = "mutated"
	if p.Current() != "a" {
		t.Error("Stack() exposed internal state")
	}
}
