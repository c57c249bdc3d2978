package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // true for 1-9 shortcuts (displayed in a different color)
}

// Component is a page of the TUI. Start runs each time the page comes to the
// front of the stack, Stop when it leaves.
type Component interface {
	tview.Primitive
	Name() string
	Start()
	Stop()
}
