package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel is the severity of a status line message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// lifetime is how long a message of each level stays on screen.
var lifetime = map[FlashLevel]time.Duration{
	FlashInfo: 4 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  12 * time.Second,
}

func (l FlashLevel) String() string {
	switch l {
	case FlashWarn:
		return "warn"
	case FlashErr:
		return "error"
	default:
		return "info"
	}
}

// FlashMessage is one status line message.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the latest status message. Every new message is also
// offered on the Watch channel so the bar can redraw right away.
type FlashModel struct {
	mu      sync.Mutex
	current *FlashMessage
	now     func() time.Time
	changed chan struct{}
}

// NewFlashModel creates an empty model.
func NewFlashModel() *FlashModel {
	return &FlashModel{now: time.Now, changed: make(chan struct{}, 1)}
}

// Info shows a confirmation.
func (f *FlashModel) Info(msg string) { f.post(msg, FlashInfo) }

// Warn shows a message about something the user can fix.
func (f *FlashModel) Warn(msg string) { f.post(msg, FlashWarn) }

// Err shows a failed operation. A nil error is ignored.
func (f *FlashModel) Err(err error) {
	if err != nil {
		f.post(err.Error(), FlashErr)
	}
}

// Clear removes the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	f.signal()
}

func (f *FlashModel) post(msg string, level FlashLevel) {
	f.mu.Lock()
	f.current = &FlashMessage{Text: msg, Level: level, Expires: f.now().Add(lifetime[level])}
	f.mu.Unlock()
	f.signal()
}

// signal coalesces notifications; the watcher reads the latest state anyway.
func (f *FlashModel) signal() {
	select {
	case f.changed <- struct{}{}:
	default:
	}
}

// GetMessage returns a copy of the live message, or nil once it expired.
func (f *FlashModel) GetMessage() *FlashMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil || !f.now().Before(f.current.Expires) {
		return nil
	}
	m := *f.current
	return &m
}

// Watch returns a channel that ticks whenever the message changes.
func (f *FlashModel) Watch() <-chan struct{} {
	return f.changed
}

// FlashBar is the status line under the page stack.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates an empty status line.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &FlashBar{TextView: tv, theme: theme}
}

// Update redraws the bar with msg, or clears it when msg is nil.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg != nil {
		_, _ = fmt.Fprint(fb, flashText(fb.theme, msg))
	}
}

func flashText(theme *Theme, msg *FlashMessage) string {
	c := theme.FlashInfoColor
	switch msg.Level {
	case FlashWarn:
		c = theme.FlashWarnColor
	case FlashErr:
		c = theme.FlashErrColor
	}
	text := tview.Escape(msg.Text)
	if msg.Level == FlashErr {
		text = "[::b]" + msg.Level.String() + ":[::-] " + text
	}
	return fmt.Sprintf(" [%s]%s[-]", ColorTag(c), text)
}
