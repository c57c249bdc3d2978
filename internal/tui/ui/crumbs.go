package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Crumbs shows the page stack as a trail, the open page highlighted last.
type Crumbs struct {
	*tview.TextView
	theme *Theme
}

// NewCrumbs creates an empty trail.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &Crumbs{TextView: tv, theme: theme}
}

// Update redraws the trail for the given page titles, bottom first.
func (c *Crumbs) Update(titles []string) {
	c.Clear()
	_, _ = fmt.Fprint(c, crumbText(c.theme, titles))
}

func crumbText(theme *Theme, titles []string) string {
	var sb strings.Builder
	for i, title := range titles {
		fg, bg, attr := theme.CrumbInactiveFg, theme.CrumbInactiveBg, ""
		if i == len(titles)-1 {
			fg, bg, attr = theme.CrumbActiveFg, theme.CrumbActiveBg, "b"
		}
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "[%s:%s:%s] <%s> [-:-:-]", ColorTag(fg), ColorTag(bg), attr, tview.Escape(strings.ToLower(title)))
	}
	return sb.String()
}
