package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays one conversation and a composer. Rows are
// selectable so a message can be saved to favorites.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.Table
	composer *tview.InputField
	nick     string
	rows     map[int]api.Message
	onDraft  func(text string)
	onSend   func()
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	composer := newComposer(theme, " Message (i) ")

	mt := &MessageThread{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(messages, 0, 1, true).
			AddItem(composer, 3, 0, false),
		theme:    theme,
		messages: messages,
		composer: composer,
	}

	composer.SetChangedFunc(func(text string) {
		if mt.onDraft != nil {
			mt.onDraft(text)
		}
	})
	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && mt.onSend != nil {
			mt.onSend()
		}
	})
	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.nick != "" {
		return messenger.DisplayName(mt.nick)
	}
	return "Messages"
}

// Start implements Component.
func (mt *MessageThread) Start() {}

// Stop implements Component.
func (mt *MessageThread) Stop() {}

// SetOnDraft sets the callback fired on every composer edit.
func (mt *MessageThread) SetOnDraft(fn func(text string)) { mt.onDraft = fn }

// SetOnSend sets the callback fired when Enter is pressed in the composer.
func (mt *MessageThread) SetOnSend(fn func()) { mt.onSend = fn }

// SetDraft mirrors the shared draft into the composer.
func (mt *MessageThread) SetDraft(text string) {
	if mt.composer.GetText() != text {
		mt.composer.SetText(text)
	}
}

// Update renders conv as the conversation with nick. me is the signed-in
// user's nick, used to tell own messages apart.
func (mt *MessageThread) Update(nick, me string, conv api.Conversation) {
	followTail := mt.atTail()
	mt.nick = nick
	mt.rows = make(map[int]api.Message, len(conv.Messages))
	mt.messages.Clear()

	presence := "offline"
	if conv.FriendOnline {
		presence = "online"
	} else if conv.FriendLastOnline != nil {
		presence = "last seen " + messenger.FormatTime(*conv.FriendLastOnline)
	}
	mt.messages.SetTitle(fmt.Sprintf(" %s [%s]%s[-] ", display(nick), ui.ColorTag(mt.presenceColor(conv.FriendOnline)), presence))

	row := 0
	for i, m := range conv.Messages {
		if i == 0 || !messenger.SameDay(conv.Messages[i-1].Timestamp, m.Timestamp) {
			mt.messages.SetCell(row, 1, tview.NewTableCell(messenger.FormatDate(m.Timestamp)).
				SetSelectable(false).
				SetAlign(tview.AlignCenter).
				SetTextColor(mt.theme.DateColor))
			row++
		}
		sender := messenger.DisplayName(m.From)
		fg := mt.theme.FgColor
		if m.From == me {
			sender = "You"
			fg = mt.theme.OwnMessageColor
		}
		mt.messages.SetCell(row, 0, tview.NewTableCell(" "+messenger.FormatTime(m.Timestamp)).SetTextColor(mt.theme.DateColor))
		mt.messages.SetCell(row, 1, tview.NewTableCell(" "+display(m.Text)).SetExpansion(1).SetTextColor(fg))
		mt.messages.SetCell(row, 2, tview.NewTableCell(display(sender)+" ").SetAlign(tview.AlignRight).SetTextColor(fg).SetAttributes(tcell.AttrBold))
		mt.rows[row] = m
		row++
	}
	if followTail && row > 0 {
		mt.messages.Select(row-1, 0)
		mt.messages.ScrollToEnd()
	}
}

func (mt *MessageThread) atTail() bool {
	r, _ := mt.messages.GetSelection()
	return r >= mt.messages.GetRowCount()-1
}

func (mt *MessageThread) presenceColor(online bool) tcell.Color {
	if online {
		return mt.theme.OnlineColor
	}
	return mt.theme.OfflineColor
}

// Nick returns the friend this thread shows.
func (mt *MessageThread) Nick() string { return mt.nick }

// SelectedMessage returns the message under the cursor.
func (mt *MessageThread) SelectedMessage() (api.Message, bool) {
	r, _ := mt.messages.GetSelection()
	m, ok := mt.rows[r]
	return m, ok
}

// Messages returns the message table (for focus management).
func (mt *MessageThread) Messages() *tview.Table { return mt.messages }

// Composer returns the composer input (for focus management).
func (mt *MessageThread) Composer() *tview.InputField { return mt.composer }
