package ui

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const historySize = 50

// Prompt is the ':' command line. It remembers submitted commands (Up/Down
// walk them) and completes command names while the first word is typed.
type Prompt struct {
	*tview.InputField
	history  history
	commands []string
	onSubmit func(text string)
	onCancel func()
}

// NewPrompt creates a hidden-by-layout command line.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField().SetLabel(":")
	input.SetBorder(true)
	input.SetTitle(" Command ")
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	p := &Prompt{InputField: input}
	input.SetAutocompleteFunc(func(text string) []string {
		return completeCommand(p.commands, text)
	})
	input.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		// Up/Down belong to the completion list while it has entries.
		if len(completeCommand(p.commands, p.GetText())) > 0 {
			return ev
		}
		switch ev.Key() {
		case tcell.KeyUp:
			if s, ok := p.history.prev(); ok {
				p.SetText(s)
			}
			return nil
		case tcell.KeyDown:
			p.SetText(p.history.next())
			return nil
		}
		return ev
	})
	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := strings.TrimSpace(p.GetText())
			p.SetText("")
			if text == "" {
				if p.onCancel != nil {
					p.onCancel()
				}
				return
			}
			p.history.add(text)
			if p.onSubmit != nil {
				p.onSubmit(text)
			}
		case tcell.KeyEscape:
			p.SetText("")
			if p.onCancel != nil {
				p.onCancel()
			}
		}
	})
	return p
}

// SetOnSubmit sets the callback for a non-empty submitted line.
func (p *Prompt) SetOnSubmit(fn func(text string)) { p.onSubmit = fn }

// SetOnCancel sets the callback for Esc or an empty submit.
func (p *Prompt) SetOnCancel(fn func()) { p.onCancel = fn }

// SetCommands sets the names offered for completion.
func (p *Prompt) SetCommands(names []string) { p.commands = slices.Clone(names) }

// Activate readies the prompt with prefill as the initial text.
func (p *Prompt) Activate(prefill string) {
	p.history.rewind()
	p.SetText(prefill)
}

// completeCommand lists the commands starting with text. Nothing is offered
// once arguments are being typed or when text already names a command.
func completeCommand(names []string, text string) []string {
	if text == "" || strings.Contains(text, " ") {
		return nil
	}
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, text) && n != text {
			out = append(out, n)
		}
	}
	return out
}

// history is a bounded list of submitted lines with a browsing cursor.
type history struct {
	lines  []string
	cursor int
}

func (h *history) add(line string) {
	if n := len(h.lines); n == 0 || h.lines[n-1] != line {
		h.lines = append(h.lines, line)
		if len(h.lines) > historySize {
			h.lines = h.lines[len(h.lines)-historySize:]
		}
	}
	h.rewind()
}

func (h *history) rewind() { h.cursor = len(h.lines) }

// prev steps back one line; ok is false at the oldest entry.
func (h *history) prev() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.lines[h.cursor], true
}

// next steps forward and returns "" once past the newest entry.
func (h *history) next() string {
	if h.cursor < len(h.lines) {
		h.cursor++
	}
	if h.cursor == len(h.lines) {
		return ""
	}
	return h.lines[h.cursor]
}
