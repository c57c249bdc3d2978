package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/rivo/tview"
)

// UserSearch looks users up by nick as the query is typed.
type UserSearch struct {
	*tview.Flex
	theme    *ui.Theme
	input    *tview.InputField
	results  *tview.Table
	data     []api.SearchResult
	resolve  func(string) string
	onQuery  func(query string)
	onSelect func(r api.SearchResult)
}

// NewUserSearch creates the search page.
func NewUserSearch(theme *ui.Theme, resolve func(string) string) *UserSearch {
	input := tview.NewInputField().
		SetLabel(" Nick: ").
		SetFieldWidth(0).
		SetPlaceholder("name or name#tag")
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetTitle(" Find people ")
	input.SetTitleColor(theme.TitleColor)

	results := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	results.SetBorder(true)
	results.SetBorderColor(theme.BorderColor)
	results.SetBackgroundColor(theme.BgColor)
	results.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	results.SetTitle(" Results ")
	results.SetTitleColor(theme.TitleColor)

	us := &UserSearch{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(input, 3, 0, true).
			AddItem(results, 0, 1, false),
		theme:   theme,
		input:   input,
		results: results,
		resolve: resolve,
	}

	input.SetChangedFunc(func(text string) {
		if us.onQuery != nil {
			us.onQuery(text)
		}
	})
	results.SetSelectedFunc(func(row, _ int) {
		if r, ok := us.resultAt(row); ok && us.onSelect != nil {
			us.onSelect(r)
		}
	})
	us.Update(nil)
	return us
}

// Name implements Component.
func (us *UserSearch) Name() string { return "Search" }

// Start implements Component.
func (us *UserSearch) Start() {}

// Stop clears the query so the next visit starts empty.
func (us *UserSearch) Stop() {
	us.input.SetText("")
}

// SetOnQuery sets the callback fired on every keystroke.
func (us *UserSearch) SetOnQuery(fn func(query string)) { us.onQuery = fn }

// SetOnSelect sets the callback fired when a result is chosen.
func (us *UserSearch) SetOnSelect(fn func(r api.SearchResult)) { us.onSelect = fn }

// SetQuery replaces the query text, firing the query callback.
func (us *UserSearch) SetQuery(q string) { us.input.SetText(q) }

// Update renders the results.
func (us *UserSearch) Update(results []api.SearchResult) {
	us.data = results
	us.results.Clear()

	for col, h := range []string{" ", " NICK", " STATUS", " AVATAR"} {
		us.results.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(us.theme.TableHeaderFg).
			SetAttributes(tcell.AttrBold))
	}
	for i, r := range results {
		row := i + 1
		status := us.theme.OfflineColor
		if r.Online {
			status = us.theme.OnlineColor
		}
		avatar := "-"
		if r.Avatar != "" && us.resolve != nil {
			avatar = us.resolve(r.Avatar)
		}
		us.results.SetCell(row, 0, tview.NewTableCell(" "+messenger.Initials(r.Nick)).SetTextColor(us.theme.CounterColor))
		us.results.SetCell(row, 1, tview.NewTableCell(" "+display(r.Nick)).SetExpansion(1).SetTextColor(us.theme.FgColor))
		us.results.SetCell(row, 2, tview.NewTableCell(" "+messenger.Presence(r)).SetTextColor(status))
		us.results.SetCell(row, 3, tview.NewTableCell(" "+display(avatar)).SetTextColor(us.theme.DateColor))
	}
	if len(results) == 0 {
		us.results.SetTitle(" Results ")
	} else {
		us.results.SetTitle(fmt.Sprintf(" Results (%d) ", len(results)))
	}
}

func (us *UserSearch) resultAt(row int) (api.SearchResult, bool) {
	idx := row - 1
	if idx < 0 || idx >= len(us.data) {
		return api.SearchResult{}, false
	}
	return us.data[idx], true
}

// Selected returns the result under the cursor.
func (us *UserSearch) Selected() (api.SearchResult, bool) {
	row, _ := us.results.GetSelection()
	return us.resultAt(row)
}

// HasResults reports whether there is anything to move the focus to.
func (us *UserSearch) HasResults() bool { return len(us.data) > 0 }

// Input returns the query field.
func (us *UserSearch) Input() *tview.InputField { return us.input }

// Results returns the results table.
func (us *UserSearch) Results() *tview.Table { return us.results }
