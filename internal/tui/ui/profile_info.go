package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// ProfileData holds what the header shows about the signed-in user.
type ProfileData struct {
	Session   string
	API       string
	Nick      string
	Favorites int
	Chats     int
	Unread    int
	Uptime    time.Duration
}

// ProfileInfo displays session and profile metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the profile info.
func (pi *ProfileInfo) Update(data *ProfileData) {
	pi.Clear()
	if data == nil {
		return
	}

	label := ColorTag(pi.theme.FgColor)
	value := ColorTag(pi.theme.CounterColor)

	nick := data.Nick
	if nick == "" {
		nick = "(signed out)"
	}

	type row struct{ name, val string }
	rows := []row{
		{"Session:", data.Session},
		{"User:", nick},
		{"API:", data.API},
		{"Favs:", fmt.Sprint(data.Favorites)},
	}
	if data.Chats > 0 || data.Unread > 0 {
		rows = append(rows, row{"Chats:", fmt.Sprintf("%d (%d unread)", data.Chats, data.Unread)})
	}
	rows = append(rows, row{"Uptime:", formatDuration(data.Uptime)})

	for i, r := range rows {
		if i > 0 {
			_, _ = fmt.Fprint(pi, "\n")
		}
		_, _ = fmt.Fprintf(pi, "[%s::b]%-8s[-:-:-] [%s]%s[-]", label, r.name, value, tview.Escape(r.val))
	}
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
