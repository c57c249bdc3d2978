package ui

import (
	"strings"
	"testing"
)

func TestMenuTextFillsColumnsTopDown(t *testing.T) {
	hints := []MenuHint{
		{Key: "a", Description: "One"},
		{Key: "b", Description: "Two"},
		{Key: "c", Description: "Three"},
	}
	lines := strings.Split(menuText(hints, 2, "blue", "pink"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "<a>") || !strings.Contains(lines[0], "<c>") {
		t.Errorf("first line %q should hold a and c", lines[0])
	}
	if !strings.Contains(lines[1], "<b>") {
		t.Errorf("second line %q should hold b", lines[1])
	}
}

func TestMenuTextNumericColor(t *testing.T) {
	out := menuText([]MenuHint{{Key: "1-9", Description: "Jump", Numeric: true}}, 4, "blue", "pink")
	if !strings.HasPrefix(out, "[pink::b]") {
		t.Errorf("numeric hint not colored: %q", out)
	}
	if strings.Count(out, "\n") != 0 {
		t.Errorf("single hint rendered on several lines: %q", out)
	}
}

func TestMenuTextEmpty(t *testing.T) {
	if got := menuText(nil, 5, "blue", "pink"); got != "" {
		t.Errorf("menuText(nil) = %q", got)
	}
}
