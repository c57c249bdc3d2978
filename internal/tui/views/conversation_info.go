package views

import (
	"fmt"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/rivo/tview"
)

// FriendInfo shows details about a user: the open chat partner, or a search
// hit in layouts without chats.
type FriendInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewFriendInfo creates the details page.
func NewFriendInfo(theme *ui.Theme) *FriendInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &FriendInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (fi *FriendInfo) Name() string { return "Details" }

// Start implements Component.
func (fi *FriendInfo) Start() {}

// Stop implements Component.
func (fi *FriendInfo) Stop() {}

// ShowUser renders a search result.
func (fi *FriendInfo) ShowUser(r api.SearchResult) {
	fi.render(r.Nick, r.UserID, messenger.Presence(r), r.Online, -1, 0)
}

// ShowConversation renders the chat partner of conv.
func (fi *FriendInfo) ShowConversation(nick string, conv api.Conversation, unread int) {
	presence := "offline"
	switch {
	case conv.FriendOnline:
		presence = "online"
	case conv.FriendLastOnline != nil:
		presence = "last seen " + messenger.FormatDate(*conv.FriendLastOnline) + " " + messenger.FormatTime(*conv.FriendLastOnline)
	}
	fi.render(nick, "", presence, conv.FriendOnline, len(conv.Messages), unread)
}

func (fi *FriendInfo) render(nick, userID, presence string, online bool, messages, unread int) {
	fi.Clear()
	fg := ui.ColorTag(fi.theme.FgColor)
	ct := ui.ColorTag(fi.theme.CounterColor)
	pc := ui.ColorTag(fi.theme.OfflineColor)
	if online {
		pc = ui.ColorTag(fi.theme.OnlineColor)
	}

	_, _ = fmt.Fprintf(fi, "\n [%s::b] %s [-:-:-]\n\n", ct, messenger.Initials(nick))
	_, _ = fmt.Fprintf(fi, " [%s::b]Nick:[-:-:-]     [%s]%s[-]\n", fg, ct, display(nick))
	if userID != "" {
		_, _ = fmt.Fprintf(fi, " [%s::b]User ID:[-:-:-]  [%s]%s[-]\n", fg, ct, display(userID))
	}
	_, _ = fmt.Fprintf(fi, " [%s::b]Status:[-:-:-]   [%s]%s[-]\n", fg, pc, presence)
	if messages >= 0 {
		_, _ = fmt.Fprintf(fi, " [%s::b]Messages:[-:-:-] [%s]%d[-]\n", fg, ct, messages)
		_, _ = fmt.Fprintf(fi, " [%s::b]Unread:[-:-:-]   [%s]%d[-]\n", fg, ct, unread)
	}
	fi.SetTitle(fmt.Sprintf(" %s ", display(messenger.DisplayName(nick))))
}
