package views

import (
	"fmt"

	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView signs in an existing account or registers a new one.
type LoginView struct {
	*tview.Flex
	theme      *ui.Theme
	form       *tview.Form
	status     *tview.TextView
	onLogin    func(email, password string)
	onRegister func(nick, email, password string)
}

const (
	fieldEmail    = "Email"
	fieldPassword = "Password"
	fieldNick     = "Nick (register)"
)

// NewLoginView creates the login page, prefilled with email when known.
func NewLoginView(theme *ui.Theme, email string) *LoginView {
	form := tview.NewForm().
		AddInputField(fieldEmail, email, 40, nil, nil).
		AddPasswordField(fieldPassword, "", 40, '*', nil).
		AddInputField(fieldNick, "", 40, nil, nil)
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.BgColor)
	form.SetFieldTextColor(theme.FgColor)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetButtonBackgroundColor(theme.TableCursorBg)
	form.SetButtonTextColor(theme.TableCursorFg)
	form.SetTitle(" Sign in ")
	form.SetTitleColor(theme.TitleColor)

	status := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	status.SetBackgroundColor(theme.BgColor)

	lv := &LoginView{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(tview.NewFlex().
				AddItem(nil, 0, 1, false).
				AddItem(form, 60, 0, true).
				AddItem(nil, 0, 1, false), 13, 0, true).
			AddItem(status, 2, 0, false).
			AddItem(nil, 0, 1, false),
		theme:  theme,
		form:   form,
		status: status,
	}

	form.AddButton("Login", func() {
		if lv.onLogin != nil {
			lv.onLogin(lv.text(fieldEmail), lv.text(fieldPassword))
		}
	})
	form.AddButton("Register", func() {
		if lv.onRegister != nil {
			lv.onRegister(lv.text(fieldNick), lv.text(fieldEmail), lv.text(fieldPassword))
		}
	})
	return lv
}

func (lv *LoginView) text(label string) string {
	if f, ok := lv.form.GetFormItemByLabel(label).(*tview.InputField); ok {
		return f.GetText()
	}
	return ""
}

// Name implements Component.
func (lv *LoginView) Name() string { return "Login" }

// Start implements Component.
func (lv *LoginView) Start() {}

// Stop drops the typed password.
func (lv *LoginView) Stop() {
	if f, ok := lv.form.GetFormItemByLabel(fieldPassword).(*tview.InputField); ok {
		f.SetText("")
	}
	lv.status.Clear()
}

// SetOnLogin sets the Login button callback.
func (lv *LoginView) SetOnLogin(fn func(email, password string)) { lv.onLogin = fn }

// SetOnRegister sets the Register button callback.
func (lv *LoginView) SetOnRegister(fn func(nick, email, password string)) { lv.onRegister = fn }

// ShowMessage displays a status line under the form.
func (lv *LoginView) ShowMessage(msg string) {
	lv.status.Clear()
	_, _ = fmt.Fprintf(lv.status, "[%s]%s[-]", ui.ColorTag(lv.theme.FlashInfoColor), tview.Escape(msg))
}

// ShowError displays an error under the form.
func (lv *LoginView) ShowError(err error) {
	lv.status.Clear()
	_, _ = fmt.Fprintf(lv.status, "[%s]%s[-]", ui.ColorTag(lv.theme.FlashErrColor), tview.Escape(err.Error()))
}
