package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Pages keeps a navigation stack over tview.Pages. Only the top of the stack
// is visible and a page name appears on the stack at most once.
type Pages struct {
	*tview.Pages
	stack    []string
	onChange func(stack []string)
}

// NewPages creates an empty page stack.
func NewPages() *Pages {
	return &Pages{Pages: tview.NewPages()}
}

// SetOnChange registers fn to run with a copy of the stack after every change.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push brings name to the top. If name is already on the stack, the pages
// above it are unwound instead of stacking a second copy. The unwound pages
// are returned top first.
func (p *Pages) Push(name string) []string {
	if i := slices.Index(p.stack, name); i >= 0 {
		dropped := p.truncate(i + 1)
		p.front()
		p.notify()
		return dropped
	}
	if top := p.Current(); top != "" {
		p.HidePage(top)
	}
	p.stack = append(p.stack, name)
	p.front()
	p.notify()
	return nil
}

// Pop removes the top page and returns its name. The last page is never
// popped; Pop returns "" in that case.
func (p *Pages) Pop() string {
	if len(p.stack) < 2 {
		return ""
	}
	top := p.truncate(len(p.stack) - 1)
	p.front()
	p.notify()
	return top[0]
}

// Reset makes name the only page on the stack and returns the pages that were
// there before, top first.
func (p *Pages) Reset(name string) []string {
	dropped := p.truncate(0)
	p.stack = append(p.stack, name)
	p.front()
	p.notify()
	return dropped
}

// Current returns the top page, or "" when the stack is empty.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Contains reports whether name is anywhere on the stack.
func (p *Pages) Contains(name string) bool {
	return slices.Contains(p.stack, name)
}

// Stack returns a copy of the stack, bottom first.
func (p *Pages) Stack() []string {
	return slices.Clone(p.stack)
}

// Depth returns the number of stacked pages.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// truncate hides and removes everything from index n up and returns the
// removed names, top first.
func (p *Pages) truncate(n int) []string {
	removed := slices.Clone(p.stack[n:])
	slices.Reverse(removed)
	for _, name := range removed {
		p.HidePage(name)
	}
	p.stack = p.stack[:n]
	return removed
}

func (p *Pages) front() {
	top := p.Current()
	p.ShowPage(top)
	p.SendToFront(top)
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
