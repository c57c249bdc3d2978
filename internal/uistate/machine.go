package uistate

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/msgr/internal/bus"
)

// TransitionError reports a transition the machine's table does not allow.
type TransitionError struct {
	Machine string
	From    string
	To      string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: invalid transition from %s to %s", e.Machine, e.From, e.To)
}

// Change is the payload of ui.state_changed events.
type Change struct {
	Machine string
	From    string
	To      string
}

// Machine tracks one piece of UI state and enforces its transitions.
type Machine[S ~string] struct {
	mu          sync.RWMutex
	name        string
	initial     S
	current     S
	transitions map[S][]S
	bus         *bus.Bus
}

// NewMachine creates a machine in the initial state. transitions lists the
// allowed targets for every state.
func NewMachine[S ~string](name string, initial S, transitions map[S][]S, b *bus.Bus) *Machine[S] {
	return &Machine[S]{
		name:        name,
		initial:     initial,
		current:     initial,
		transitions: transitions,
		bus:         b,
	}
}

// Name returns the machine name used in events and errors.
func (m *Machine[S]) Name() string { return m.name }

// Current returns the current state.
func (m *Machine[S]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is in state s.
func (m *Machine[S]) Is(s S) bool {
	return m.Current() == s
}

// Can reports whether moving to the given state is currently allowed.
func (m *Machine[S]) Can(to S) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(m.transitions[m.current], to)
}

// Transition attempts to move to a new state. Returns *TransitionError if the
// table does not allow it.
func (m *Machine[S]) Transition(to S) error {
	m.mu.Lock()
	from := m.current
	if !slices.Contains(m.transitions[from], to) {
		m.mu.Unlock()
		return &TransitionError{Machine: m.name, From: string(from), To: string(to)}
	}
	m.current = to
	m.mu.Unlock()

	m.bus.Emit(bus.KindUIStateChanged, Change{Machine: m.name, From: string(from), To: string(to)})
	return nil
}

// Reset returns the machine to its initial state without consulting the
// transition table. Used when the owning session is torn down.
func (m *Machine[S]) Reset() {
	m.mu.Lock()
	from := m.current
	m.current = m.initial
	m.mu.Unlock()

	if from != m.initial {
		m.bus.Emit(bus.KindUIStateChanged, Change{Machine: m.name, From: string(from), To: string(m.initial)})
	}
}
