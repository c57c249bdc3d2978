package views

import (
	"fmt"

	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpSection is one titled group of key or command descriptions.
type HelpSection struct {
	Title string
	Hints []ui.MenuHint
}

// HelpView displays the key binding and command reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	return &HelpView{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Start implements Component.
func (hv *HelpView) Start() { hv.ScrollToBeginning() }

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Update renders the given sections. Empty sections are skipped.
func (hv *HelpView) Update(sections []HelpSection) {
	hv.Clear()
	kc := ui.ColorTag(hv.theme.MenuKeyColor)
	for _, s := range sections {
		if len(s.Hints) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(hv, "\n  [::b]%s[-:-:-]\n\n", s.Title)
		for _, h := range s.Hints {
			_, _ = fmt.Fprintf(hv, "  [%s]%-22s[-:-:-] %s\n", kc, tview.Escape(h.Key), h.Description)
		}
	}
}
