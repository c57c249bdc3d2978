package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatList is the sidebar of the classic layout: one row per friend, with
// unread badges.
type ChatList struct {
	*tview.Table
	theme    *ui.Theme
	chats    []string
	unread   map[string]int
	selected string
}

// NewChatList creates a new chat list table.
func NewChatList(theme *ui.Theme) *ChatList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Chats ")
	table.SetTitleColor(theme.TitleColor)

	cl := &ChatList{
		Table: table,
		theme: theme,
	}
	cl.render()
	return cl
}

// Name implements Component.
func (cl *ChatList) Name() string { return "Chats" }

// Start implements Component.
func (cl *ChatList) Start() {}

// Stop implements Component.
func (cl *ChatList) Stop() {}

// Update refreshes the list. selected is the open conversation, if any.
func (cl *ChatList) Update(chats []string, unread map[string]int, selected string) {
	cl.chats = chats
	cl.unread = unread
	cl.selected = selected
	cl.render()
}

func (cl *ChatList) render() {
	row, _ := cl.GetSelection()
	cl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" ", 0},
		{" NAME", 1},
		{" TAG", 0},
		{" UNREAD", 0},
	}
	for col, h := range headers {
		cl.SetCell(0, col, tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp))
	}

	var total int
	for i, nick := range cl.chats {
		r := i + 1
		fg := cl.theme.FgColor
		if nick == cl.selected {
			fg = cl.theme.OwnMessageColor
		}
		badge := ""
		if n := cl.unread[nick]; n > 0 {
			badge = fmt.Sprintf("(%d)", n)
			total += n
		}
		cl.SetCell(r, 0, tview.NewTableCell(" "+messenger.Initials(nick)).SetTextColor(cl.theme.CounterColor))
		cl.SetCell(r, 1, tview.NewTableCell(" "+display(messenger.DisplayName(nick))).SetExpansion(1).SetTextColor(fg))
		cl.SetCell(r, 2, tview.NewTableCell(" "+display(messenger.Tag(nick))).SetTextColor(cl.theme.DateColor))
		cl.SetCell(r, 3, tview.NewTableCell(badge).SetAlign(tview.AlignRight).SetTextColor(cl.theme.FlashWarnColor))
	}

	if len(cl.chats) == 0 {
		cl.SetCell(1, 1, tview.NewTableCell(" No chats. Press / to find someone.").
			SetSelectable(false).
			SetTextColor(cl.theme.DateColor))
	}
	if total > 0 {
		cl.SetTitle(fmt.Sprintf(" Chats (%d) unread: %d ", len(cl.chats), total))
	} else {
		cl.SetTitle(fmt.Sprintf(" Chats (%d) ", len(cl.chats)))
	}
	if row >= 1 && row <= len(cl.chats) {
		cl.Select(row, 0)
	}
}

// SelectedChat returns the nick under the cursor.
func (cl *ChatList) SelectedChat() string {
	row, _ := cl.GetSelection()
	return cl.ChatByIndex(row)
}

// ChatByIndex returns the Nth chat (1-based), or "".
func (cl *ChatList) ChatByIndex(n int) string {
	if n < 1 || n > len(cl.chats) {
		return ""
	}
	return cl.chats[n-1]
}
