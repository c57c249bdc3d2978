package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/rivo/tview"
)

// FavoritesFeed shows saved messages grouped by day, with a composer below.
type FavoritesFeed struct {
	*tview.Flex
	theme    *ui.Theme
	feed     *tview.TextView
	composer *tview.InputField
	resolve  func(string) string
	onDraft  func(text string)
	onSubmit func()
}

// NewFavoritesFeed creates the favorites page. resolve turns server-relative
// file links into absolute URLs.
func NewFavoritesFeed(theme *ui.Theme, resolve func(string) string) *FavoritesFeed {
	feed := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	feed.SetBorder(true)
	feed.SetBorderColor(theme.BorderColor)
	feed.SetBackgroundColor(theme.BgColor)
	feed.SetTextColor(theme.FgColor)
	feed.SetTitle(" Favorites ")
	feed.SetTitleColor(theme.TitleColor)

	composer := newComposer(theme, " Save to favorites (i) ")

	ff := &FavoritesFeed{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(feed, 0, 1, true).
			AddItem(composer, 3, 0, false),
		theme:    theme,
		feed:     feed,
		composer: composer,
		resolve:  resolve,
	}
	if ff.resolve == nil {
		ff.resolve = func(s string) string { return s }
	}

	composer.SetChangedFunc(func(text string) {
		if ff.onDraft != nil {
			ff.onDraft(text)
		}
	})
	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && ff.onSubmit != nil {
			ff.onSubmit()
		}
	})
	return ff
}

func newComposer(theme *ui.Theme, title string) *tview.InputField {
	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitle(title)
	composer.SetTitleColor(theme.TitleColor)
	return composer
}

// Name implements Component.
func (ff *FavoritesFeed) Name() string { return "Favorites" }

// Start implements Component.
func (ff *FavoritesFeed) Start() {}

// Stop implements Component.
func (ff *FavoritesFeed) Stop() {}

// SetOnDraft sets the callback fired on every composer edit.
func (ff *FavoritesFeed) SetOnDraft(fn func(text string)) { ff.onDraft = fn }

// SetOnSubmit sets the callback fired when Enter is pressed in the composer.
func (ff *FavoritesFeed) SetOnSubmit(fn func()) { ff.onSubmit = fn }

// Composer returns the composer input (for focus management).
func (ff *FavoritesFeed) Composer() *tview.InputField { return ff.composer }

// Feed returns the feed text view (for focus management).
func (ff *FavoritesFeed) Feed() *tview.TextView { return ff.feed }

// SetDraft mirrors the shared draft into the composer without echoing it back.
func (ff *FavoritesFeed) SetDraft(text string) {
	if ff.composer.GetText() != text {
		ff.composer.SetText(text)
	}
}

// Update redraws the feed. The view stays scrolled to the newest entry.
func (ff *FavoritesFeed) Update(favs []api.Favorite) {
	ff.feed.Clear()
	ff.feed.SetTitle(fmt.Sprintf(" Favorites (%d) ", len(favs)))
	if len(favs) == 0 {
		_, _ = fmt.Fprintf(ff.feed, "\n  [%s]No favorites yet. Press i and write something.[-]", ui.ColorTag(ff.theme.DateColor))
		return
	}
	_, _ = fmt.Fprint(ff.feed, feedText(ff.theme, favs, ff.resolve))
	ff.feed.ScrollToEnd()
}

// feedText renders favorites oldest first, inserting a date line whenever the
// day changes.
func feedText(theme *ui.Theme, favs []api.Favorite, resolve func(string) string) string {
	var sb strings.Builder
	for i, fav := range favs {
		if i == 0 || !messenger.SameDay(favs[i-1].Timestamp, fav.Timestamp) {
			fmt.Fprintf(&sb, "\n[%s::b]── %s ──[-:-:-]\n\n", ui.ColorTag(theme.DateColor), messenger.FormatDate(fav.Timestamp))
		}
		fmt.Fprintf(&sb, "[::d]%s[-:-:-] %s\n", messenger.FormatTime(fav.Timestamp), favoriteLine(theme, fav, resolve))
	}
	return sb.String()
}

func favoriteLine(theme *ui.Theme, fav api.Favorite, resolve func(string) string) string {
	switch messenger.RenderKindOf(fav) {
	case messenger.RenderFile:
		label := fav.Text
		if label == "" {
			label = messenger.FileLabel(fav.FileURL)
		}
		return fmt.Sprintf("[%s]%s[-] [::u]%s[-:-:-]", ui.ColorTag(theme.FileColor), display(label), display(resolve(fav.FileURL)))
	case messenger.RenderVoice:
		return fmt.Sprintf("[%s]Voice message[-] [::u]%s[-:-:-]", ui.ColorTag(theme.VoiceColor), display(resolve(fav.VoiceURL)))
	default:
		return display(fav.Text)
	}
}
