package keys

import (
	"github.com/gdamore/tcell/v2"
)

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Label       string // key as shown in the menu, e.g. "Tab"
	Description string
	Handler     func() // nil for bindings the focused widget handles itself
	Visible     bool
	// Enabled, when set, hides and disables the action while it returns false.
	Enabled func() bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	return a.matches(ev.Key(), ev.Rune())
}

func (a *Action) matches(key tcell.Key, r rune) bool {
	if a.Key != tcell.KeyRune {
		return key == a.Key
	}
	return key == tcell.KeyRune && r == a.Rune
}

func (a *Action) active() bool {
	return a.Enabled == nil || a.Enabled()
}

// Hint is a visible binding for the menu.
type Hint struct {
	Key         string
	Description string
}

// Registry holds keybindings organized by scope, in registration order.
type Registry struct {
	global []*Action
	views  map[string][]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string][]*Action),
	}
}

// AddGlobal registers a global keybinding.
func (r *Registry) AddGlobal(action *Action) {
	r.global = append(r.global, action)
}

// AddView registers a view-specific keybinding.
func (r *Registry) AddView(view string, action *Action) {
	r.views[view] = append(r.views[view], action)
}

// Hints returns visible, enabled bindings for a view: view bindings first,
// then globals.
func (r *Registry) Hints(view string) []Hint {
	return append(r.ViewHints(view), r.GlobalHints()...)
}

// ViewHints returns the visible, enabled bindings registered for view only.
func (r *Registry) ViewHints(view string) []Hint {
	return hints(r.views[view])
}

// GlobalHints returns the visible, enabled global bindings.
func (r *Registry) GlobalHints() []Hint {
	return hints(r.global)
}

func hints(actions []*Action) []Hint {
	var out []Hint
	for _, a := range actions {
		if a.Visible && a.active() {
			out = append(out, Hint{Key: a.label(), Description: a.Description})
		}
	}
	return out
}

func (a *Action) label() string {
	if a.Label != "" || a.Key != tcell.KeyRune {
		return a.Label
	}
	return string(a.Rune)
}

// HandleEvent dispatches a key event to the first matching action, checking
// view bindings before globals. Returns true if a handler ran.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	return r.handle(view, ev.Key(), ev.Rune())
}

func (r *Registry) handle(view string, key tcell.Key, ch rune) bool {
	for _, group := range [][]*Action{r.views[view], r.global} {
		for _, a := range group {
			if a.Handler != nil && a.active() && a.matches(key, ch) {
				a.Handler()
				return true
			}
		}
	}
	return false
}
