package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/matheus3301/msgr/internal/uistate"
	"github.com/rivo/tview"
)

// SettingsPanel shows the profile, a QR code of the nick to share it, and
// the nickname editor.
type SettingsPanel struct {
	*tview.Flex
	theme    *ui.Theme
	info     *tview.TextView
	nick     *tview.InputField
	resolve  func(string) string
	editing  bool
	onDraft  func(text string)
	onCommit func()
}

// NewSettingsPanel creates the settings page.
func NewSettingsPanel(theme *ui.Theme, resolve func(string) string) *SettingsPanel {
	info := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	info.SetBorder(true)
	info.SetBorderColor(theme.BorderColor)
	info.SetBackgroundColor(theme.BgColor)
	info.SetTextColor(theme.FgColor)
	info.SetTitle(" Settings ")
	info.SetTitleColor(theme.TitleColor)

	nick := tview.NewInputField().
		SetLabel(" New name: ").
		SetFieldWidth(0)
	nick.SetBorder(true)
	nick.SetBorderColor(theme.BorderFocusColor)
	nick.SetBackgroundColor(theme.BgColor)
	nick.SetFieldBackgroundColor(theme.BgColor)
	nick.SetFieldTextColor(theme.FgColor)
	nick.SetLabelColor(theme.MenuKeyColor)
	nick.SetTitle(" Edit nickname (Enter save, Esc cancel) ")
	nick.SetTitleColor(theme.TitleColor)

	sp := &SettingsPanel{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(info, 0, 1, true),
		theme:   theme,
		info:    info,
		nick:    nick,
		resolve: resolve,
	}
	nick.SetChangedFunc(func(text string) {
		if sp.editing && sp.onDraft != nil {
			sp.onDraft(text)
		}
	})
	nick.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && sp.onCommit != nil {
			sp.onCommit()
		}
	})
	return sp
}

// Name implements Component.
func (sp *SettingsPanel) Name() string { return "Settings" }

// Start implements Component.
func (sp *SettingsPanel) Start() {}

// Stop implements Component.
func (sp *SettingsPanel) Stop() {}

// SetOnDraft sets the callback fired while the nickname is edited.
func (sp *SettingsPanel) SetOnDraft(fn func(text string)) { sp.onDraft = fn }

// SetOnCommit sets the callback fired when Enter is pressed in the editor.
func (sp *SettingsPanel) SetOnCommit(fn func()) { sp.onCommit = fn }

// NickInput returns the nickname editor (for focus management).
func (sp *SettingsPanel) NickInput() *tview.InputField { return sp.nick }

// Editing reports whether the nickname editor is shown.
func (sp *SettingsPanel) Editing() bool { return sp.editing }

// Update renders the profile and shows or hides the editor according to the
// panel state. The draft is only pushed into the editor when it opens.
func (sp *SettingsPanel) Update(user *api.User, state uistate.Settings, nickDraft string) {
	editing := state == uistate.SettingsEditingNick
	if editing != sp.editing {
		sp.editing = editing
		if editing {
			sp.nick.SetText(nickDraft)
			sp.AddItem(sp.nick, 3, 0, true)
		} else {
			sp.RemoveItem(sp.nick)
		}
	}

	sp.info.Clear()
	if user == nil {
		_, _ = fmt.Fprint(sp.info, "\n  Not signed in.")
		return
	}
	_, _ = fmt.Fprint(sp.info, profileText(sp.theme, user, sp.resolve))
}

func profileText(theme *ui.Theme, user *api.User, resolve func(string) string) string {
	label := ui.ColorTag(theme.FgColor)
	value := ui.ColorTag(theme.CounterColor)

	avatar := "(none)"
	if user.Avatar != "" {
		avatar = user.Avatar
		if resolve != nil {
			avatar = resolve(avatar)
		}
	}
	tag := messenger.Tag(user.Nick)
	if tag == "" {
		tag = "-"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  [%s::b] %s [-:-:-]\n\n", value, messenger.Initials(user.Nick))
	for _, r := range [][2]string{
		{"Name:", messenger.DisplayName(user.Nick)},
		{"Tag:", tag},
		{"User ID:", user.UserID},
		{"Avatar:", avatar},
	} {
		fmt.Fprintf(&sb, "  [%s::b]%-9s[-:-:-] [%s]%s[-]\n", label, r[0], value, display(r[1]))
	}
	fmt.Fprintf(&sb, "\n  [%s]Share your nick:[-]\n\n%s", label, renderQR(user.Nick))
	return sb.String()
}
