package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Menu displays keyboard shortcut hints in columns of a fixed height.
type Menu struct {
	*tview.TextView
	theme *Theme
	rows  int
}

// NewMenu creates a new menu hint bar that fills columns of rows lines.
func NewMenu(theme *Theme, rows int) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
		rows:     max(rows, 1),
	}
}

// Update renders menu hints top to bottom, then left to right.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, menuText(hints, m.rows, ColorTag(m.theme.MenuKeyColor), ColorTag(m.theme.NumericKeyColor)))
}

func menuText(hints []MenuHint, rows int, keyColor, numColor string) string {
	lines := make([]string, min(rows, len(hints)))
	for i, h := range hints {
		kc := keyColor
		if h.Numeric {
			kc = numColor
		}
		lines[i%rows] += fmt.Sprintf("[%s::b]%-8s[-:-:-]%-14s", kc, "<"+h.Key+">", tview.Escape(h.Description))
	}
	return strings.Join(lines, "\n")
}
