package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo displays a compact ASCII art logo.
type Logo struct {
	*tview.TextView
	theme *Theme
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(1, 0, 1, 0)

	l := &Logo{
		TextView: tv,
		theme:    theme,
	}
	l.render("")
	return l
}

// SetLayout shows the active layout under the logo.
func (l *Logo) SetLayout(layout string) {
	l.render(layout)
}

func (l *Logo) render(layout string) {
	l.Clear()
	titleColor := ColorTag(l.theme.TitleColor)
	fgColor := ColorTag(l.theme.FgColor)

	subtitle := "Messenger"
	if layout != "" {
		subtitle += " · " + layout
	}
	_, _ = fmt.Fprintf(l,
		"[%s::b]╔╦╗╔═╗╔═╗╦═╗[-:-:-]\n"+
			"[%s::b]║║║╚═╗║ ╦╠╦╝[-:-:-]\n"+
			"[%s::b]╩ ╩╚═╝╚═╝╩╚═[-:-:-]\n"+
			"[%s]%s[-:-:-]",
		titleColor, titleColor, titleColor, fgColor, tview.Escape(subtitle),
	)
}
