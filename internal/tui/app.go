package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/auth"
	"github.com/matheus3301/msgr/internal/bus"
	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/tui/keys"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/matheus3301/msgr/internal/tui/views"
	"github.com/matheus3301/msgr/internal/uistate"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageLogin     = "login"
	pageFavorites = "favorites"
	pageChats     = "chats"
	pageThread    = "thread"
	pageSearch    = "search"
	pageSettings  = "settings"
	pageDetails   = "details"
	pageHelp      = "help"

	headerRows      = 7
	refreshInterval = 5 * time.Second
)

// Options configures an App.
type Options struct {
	SessionName string
	Email       string             // prefill for the login form
	OnLogin     func(email string) // called after a successful sign-in
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	pages    *ui.Pages
	root     *tview.Flex
	registry *keys.Registry
	flash    *ui.FlashModel

	logo     *ui.Logo
	info     *ui.ProfileInfo
	menu     *ui.Menu
	crumbs   *ui.Crumbs
	flashBar *ui.FlashBar
	prompt   *ui.Prompt

	login      *views.LoginView
	favorites  *views.FavoritesFeed
	chats      *views.ChatList
	thread     *views.MessageThread
	search     *views.UserSearch
	settings   *views.SettingsPanel
	details    *views.FriendInfo
	help       *views.HelpView
	components map[string]ui.Component

	m      *messenger.Messenger
	sess   *auth.Session
	bus    *bus.Bus
	logger *zap.Logger
	opts   Options

	started       time.Time
	promptVisible bool
	threadVisible atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application on top of an already started messenger.
func NewApp(m *messenger.Messenger, sess *auth.Session, b *bus.Bus, logger *zap.Logger, opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()
	resolve := func(ref string) string { return sess.API().ResolveURL(ref) }

	a := &App{
		app:      tview.NewApplication(),
		theme:    theme,
		pages:    ui.NewPages(),
		registry: keys.NewRegistry(),
		flash:    ui.NewFlashModel(),

		logo:     ui.NewLogo(theme),
		info:     ui.NewProfileInfo(theme),
		menu:     ui.NewMenu(theme, headerRows-1),
		crumbs:   ui.NewCrumbs(theme),
		flashBar: ui.NewFlashBar(theme),
		prompt:   ui.NewPrompt(theme),

		login:     views.NewLoginView(theme, opts.Email),
		favorites: views.NewFavoritesFeed(theme, resolve),
		chats:     views.NewChatList(theme),
		thread:    views.NewMessageThread(theme),
		search:    views.NewUserSearch(theme, resolve),
		settings:  views.NewSettingsPanel(theme, resolve),
		details:   views.NewFriendInfo(theme),
		help:      views.NewHelpView(theme),

		m:       m,
		sess:    sess,
		bus:     b,
		logger:  logger.Named("tui"),
		opts:    opts,
		started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
	a.components = map[string]ui.Component{
		pageLogin:     a.login,
		pageFavorites: a.favorites,
		pageChats:     a.chats,
		pageThread:    a.thread,
		pageSearch:    a.search,
		pageSettings:  a.settings,
		pageDetails:   a.details,
		pageHelp:      a.help,
	}
	a.logo.SetLayout(string(m.Layout()))

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func (a *App) has(f messenger.Feature) func() bool {
	return func() bool { return a.sess.Authenticated() && a.m.Layout().Has(f) }
}

func (a *App) setupBindings() {
	authed := a.sess.Authenticated

	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyEscape, Label: "Esc", Description: "Back", Visible: true})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: ':', Description: "Command", Visible: true, Handler: func() { a.showPrompt("") }})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: '/', Description: "Search", Visible: true, Enabled: a.has(messenger.FeatureSearch), Handler: func() { a.openSearch("") }})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyTab, Label: "Tab", Description: "Switch tab", Visible: true, Enabled: a.has(messenger.FeatureChats), Handler: a.toggleTab})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: 'p', Description: "Settings", Visible: true, Enabled: a.has(messenger.FeatureSettings), Handler: a.openSettings})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: 'r', Description: "Reload", Visible: true, Enabled: authed, Handler: a.reload})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: '?', Description: "Help", Visible: true, Handler: a.showHelp})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: 'q', Description: "Quit", Visible: true, Handler: a.Stop})

	a.registry.AddView(pageFavorites, &keys.Action{Key: tcell.KeyRune, Rune: 'i', Description: "Compose", Visible: true, Handler: func() { a.app.SetFocus(a.favorites.Composer()) }})
	a.registry.AddView(pageFavorites, &keys.Action{Key: tcell.KeyRune, Rune: 'u', Description: "Upload file", Visible: true, Enabled: a.has(messenger.FeatureFileUpload), Handler: func() { a.showPrompt("upload ") }})

	a.registry.AddView(pageChats, &keys.Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Open", Visible: true})
	for i := 1; i <= 9; i++ {
		n := i
		a.registry.AddView(pageChats, &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n), Label: "1-9", Description: "Jump",
			Visible: n == 1,
			Handler: func() { a.openChatAt(n) },
		})
	}

	a.registry.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'i', Description: "Compose", Visible: true, Handler: func() { a.app.SetFocus(a.thread.Composer()) }})
	a.registry.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'f', Description: "Favorite", Visible: true, Enabled: a.has(messenger.FeatureFavorites), Handler: a.favoriteSelected})
	a.registry.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'd', Description: "Details", Visible: true, Handler: a.showChatDetails})

	a.registry.AddView(pageSearch, &keys.Action{Key: tcell.KeyEnter, Label: "Enter", Description: "Select", Visible: true})

	a.registry.AddView(pageSettings, &keys.Action{Key: tcell.KeyRune, Rune: 'e', Description: "Edit nick", Visible: true, Handler: a.beginNickEdit})
	a.registry.AddView(pageSettings, &keys.Action{Key: tcell.KeyRune, Rune: 'a', Description: "Avatar", Visible: true, Handler: func() { a.showPrompt("avatar ") }})
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func(stack []string) {
		a.threadVisible.Store(len(stack) > 0 && stack[len(stack)-1] == pageThread)
		a.renderCrumbs()
		a.refreshMenu()
	})

	names := make([]string, 0, len(commands))
	for _, c := range availableCommands(a.m.Layout()) {
		names = append(names, c.name)
	}
	a.prompt.SetCommands(names)
	a.prompt.SetOnSubmit(func(text string) {
		a.hidePrompt()
		a.execute(ParseCommand(text))
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	a.login.SetOnLogin(func(email, password string) {
		if strings.TrimSpace(email) == "" || password == "" {
			a.login.ShowError(errors.New("email and password are required"))
			return
		}
		a.login.ShowMessage("Signing in...")
		go a.signIn(email, func(ctx context.Context) error {
			return a.sess.Login(ctx, strings.TrimSpace(email), password)
		})
	})
	a.login.SetOnRegister(func(nick, email, password string) {
		if strings.TrimSpace(nick) == "" || strings.TrimSpace(email) == "" || password == "" {
			a.login.ShowError(errors.New("nick, email and password are required to register"))
			return
		}
		a.login.ShowMessage("Creating account...")
		go a.signIn(email, func(ctx context.Context) error {
			return a.sess.Register(ctx, strings.TrimSpace(nick), strings.TrimSpace(email), password)
		})
	})

	a.favorites.SetOnDraft(a.m.SetDraft)
	a.favorites.SetOnSubmit(func() { a.do("save favorite", "", a.m.Submit) })

	a.chats.SetSelectedFunc(func(row, _ int) { a.openChatAt(row) })

	a.thread.SetOnDraft(a.m.SetDraft)
	a.thread.SetOnSend(func() { a.do("send message", "", a.m.SendMessage) })

	a.search.SetOnQuery(func(query string) {
		go func() {
			if err := a.m.SearchUsers(a.ctx, query); err != nil {
				a.report("search", err)
			}
		}()
	})
	a.search.Input().SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && a.search.HasResults() {
			a.app.SetFocus(a.search.Results())
		}
	})
	a.search.SetOnSelect(func(r api.SearchResult) {
		if a.m.Layout().Has(messenger.FeatureChats) {
			a.openChat(r.Nick)
			return
		}
		a.details.ShowUser(r)
		a.push(pageDetails)
	})

	a.settings.SetOnDraft(func(text string) {
		if err := a.m.SetNickDraft(text); err != nil {
			a.logger.Debug("nick draft outside edit mode", zap.Error(err))
		}
	})
	a.settings.SetOnCommit(func() {
		a.do("update nickname", "Nickname updated", a.m.UpdateNickname)
	})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.info, 0, 1, false).
		AddItem(a.menu, 0, 2, false).
		AddItem(a.logo, 18, 0, false)

	for name, c := range a.components {
		a.pages.AddPage(name, c, true, false)
	}

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, headerRows, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)
	a.app.SetRoot(a.root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.promptVisible {
			return event
		}
		focused := a.app.GetFocus()
		if event.Key() == tcell.KeyEscape {
			a.back(focused)
			return nil
		}

		// Let text input widgets handle all other keys.
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}
		page := a.pages.Current()
		if page == pageLogin {
			return event
		}
		if a.registry.HandleEvent(page, event) {
			return nil
		}
		return event
	})
}

// Run starts the TUI application and blocks until it quits.
func (a *App) Run() error {
	a.watchBus()
	a.watchFlash()
	a.startRefreshLoop()

	if a.sess.Authenticated() {
		a.reset(a.mainPage())
		a.renderAll()
		go a.loadAll()
	} else {
		a.reset(pageLogin)
	}
	a.renderHeader()
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

func (a *App) mainPage() string {
	if !a.sess.Authenticated() {
		return pageLogin
	}
	if a.m.Layout().Has(messenger.FeatureChats) && a.m.Tab.Is(uistate.TabChats) {
		return pageChats
	}
	return pageFavorites
}

// Navigation. Start runs when a page is shown, Stop when it leaves the stack.

func (a *App) push(name string) {
	if a.pages.Current() == name {
		return
	}
	for _, n := range a.pages.Push(name) {
		a.leave(n)
	}
	a.show(name)
}

func (a *App) pop() {
	if a.pages.Depth() <= 1 {
		return
	}
	a.leave(a.pages.Pop())
	a.app.SetFocus(a.components[a.pages.Current()])
	a.refreshMenu()
}

func (a *App) reset(name string) {
	for _, n := range a.pages.Reset(name) {
		a.leave(n)
	}
	a.show(name)
}

func (a *App) show(name string) {
	c := a.components[name]
	c.Start()
	a.syncDraft()
	a.app.SetFocus(c)
	a.refreshMenu()
}

func (a *App) leave(name string) {
	a.components[name].Stop()
	switch name {
	case pageSearch:
		if a.m.Search.Is(uistate.SearchExpanded) {
			if err := a.m.CollapseSearch(); err != nil {
				a.report("close search", err)
			}
		}
	case pageSettings:
		if !a.m.Settings.Is(uistate.SettingsClosed) {
			if err := a.m.CloseSettings(); err != nil {
				a.report("close settings", err)
			}
			a.renderSettings()
		}
	}
}

// back handles Esc: composers and result lists give focus back first, then
// the page itself is closed.
func (a *App) back(focused tview.Primitive) {
	switch focused {
	case a.favorites.Composer():
		a.app.SetFocus(a.favorites.Feed())
		return
	case a.thread.Composer():
		a.app.SetFocus(a.thread.Messages())
		return
	case a.search.Results():
		a.app.SetFocus(a.search.Input())
		return
	}

	switch a.pages.Current() {
	case pageLogin:
		return
	case pageSettings:
		if a.m.Settings.Is(uistate.SettingsEditingNick) {
			if err := a.m.CancelNicknameEdit(); err != nil {
				a.report("cancel edit", err)
			}
			a.renderSettings()
			a.app.SetFocus(a.settings)
			return
		}
	}
	a.pop()
}

func (a *App) showPrompt(prefill string) {
	a.prompt.Activate(prefill)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.promptVisible = true
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.promptVisible = false
	if c := a.components[a.pages.Current()]; c != nil {
		a.app.SetFocus(c)
	}
}

// Async work. Messenger calls block on the network, so they run off the UI
// goroutine and report through the flash bar; the redraw comes from the bus.

func (a *App) do(what, okMsg string, fn func(ctx context.Context) error) {
	go func() {
		if err := fn(a.ctx); err != nil {
			a.report(what, err)
			return
		}
		if okMsg != "" {
			a.flash.Info(okMsg)
		}
	}()
}

func (a *App) report(what string, err error) {
	if a.ctx.Err() != nil {
		return
	}
	a.logger.Debug("action failed", zap.String("action", what), zap.Error(err))
	switch {
	case errors.Is(err, messenger.ErrEmptyText):
		a.flash.Warn(what + ": nothing to send")
	case errors.Is(err, messenger.ErrFeatureDisabled), errors.Is(err, messenger.ErrNoChatSelected):
		a.flash.Warn(what + ": " + err.Error())
	case api.IsUnauthorized(err):
		a.flash.Err(fmt.Errorf("%s: session rejected by the server, use :logout and sign in again", what))
	default:
		a.flash.Err(fmt.Errorf("%s: %w", what, err))
	}
}

func (a *App) signIn(email string, fn func(ctx context.Context) error) {
	err := fn(a.ctx)
	a.app.QueueUpdateDraw(func() {
		if err != nil {
			a.login.ShowError(err)
			return
		}
		if a.opts.OnLogin != nil {
			a.opts.OnLogin(strings.TrimSpace(email))
		}
		a.flash.Clear()
		a.reset(a.mainPage())
		a.renderAll()
	})
	if err != nil {
		return
	}
	if rerr := a.m.Restore(a.ctx); rerr != nil {
		a.logger.Warn("restore snapshot", zap.Error(rerr))
	}
	a.loadAll()
}

// loadAll fetches profile, favorites and chats. Blocking.
func (a *App) loadAll() {
	if _, err := a.sess.FetchUserProfile(a.ctx); err != nil {
		a.report("load profile", err)
	}
	layout := a.m.Layout()
	if layout.Has(messenger.FeatureFavorites) {
		if err := a.m.LoadFavorites(a.ctx); err != nil {
			a.report("load favorites", err)
		}
	}
	if layout.Has(messenger.FeatureChats) {
		if err := a.m.LoadUnread(a.ctx); err != nil {
			a.report("load chats", err)
		}
		if a.m.SelectedChat() != "" {
			if err := a.m.LoadMessages(a.ctx); err != nil {
				a.report("load messages", err)
			}
		}
	}
}

func (a *App) reload() {
	a.flash.Info("Reloading...")
	a.logger.Debug("reload requested", zap.Uint64("bus_dropped", a.bus.Dropped()))
	go a.loadAll()
}

// watchBus redraws whatever a messenger event touched.
func (a *App) watchBus() {
	events, unsubscribe := a.bus.Subscribe(64)
	go func() {
		defer unsubscribe()
		for {
			select {
			case evt := <-events:
				kind := evt.Kind
				a.app.QueueUpdateDraw(func() { a.apply(kind) })
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

func (a *App) apply(kind string) {
	switch {
	case strings.HasPrefix(kind, "favorites."):
		a.favorites.Update(a.m.Favorites())
	case kind == bus.KindSearchResults:
		a.search.Update(a.m.Results())
	case kind == bus.KindProfileUpdated:
		a.renderSettings()
	case strings.HasPrefix(kind, "chats."):
		a.renderChats()
	case kind == bus.KindDraftChanged:
		a.syncDraft()
	case kind == bus.KindUIStateChanged:
		a.renderSettings()
		a.refreshMenu()
	case kind == bus.KindSessionReset:
		a.signedOut()
	}
	a.renderHeader()
}

func (a *App) watchFlash() {
	go func() {
		for {
			select {
			case <-a.flash.Watch():
				a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.GetMessage()) })
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// startRefreshLoop polls what the server cannot push: unread counts and the
// open conversation. It also expires flash messages and ticks the uptime.
func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(refreshInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.poll()
				a.app.QueueUpdateDraw(func() {
					a.renderHeader()
					a.flashBar.Update(a.flash.GetMessage())
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

func (a *App) poll() {
	if !a.sess.Authenticated() || !a.m.Layout().Has(messenger.FeatureChats) {
		return
	}
	if err := a.m.LoadUnread(a.ctx); err != nil {
		a.logger.Debug("poll unread", zap.Error(err))
	}
	if a.threadVisible.Load() && a.m.SelectedChat() != "" {
		if err := a.m.LoadMessages(a.ctx); err != nil {
			a.logger.Debug("poll messages", zap.Error(err))
		}
	}
}

// Rendering. Always reads the messenger's current state, never event payloads.

func (a *App) renderAll() {
	a.favorites.Update(a.m.Favorites())
	a.search.Update(a.m.Results())
	a.renderChats()
	a.renderSettings()
	a.syncDraft()
	a.renderHeader()
}

func (a *App) renderChats() {
	selected := a.m.SelectedChat()
	a.chats.Update(a.m.Chats(), a.m.Unread(), selected)
	if selected != "" {
		var me string
		if u := a.sess.User(); u != nil {
			me = u.Nick
		}
		a.thread.Update(selected, me, a.m.Conversation())
	}
	a.renderCrumbs()
}

func (a *App) renderSettings() {
	a.settings.Update(a.sess.User(), a.m.Settings.Current(), a.m.NickDraft())
	if !a.settings.Editing() && a.app.GetFocus() == a.settings.NickInput() {
		a.app.SetFocus(a.settings)
	}
}

func (a *App) syncDraft() {
	draft := a.m.Draft()
	a.favorites.SetDraft(draft)
	a.thread.SetDraft(draft)
}

func (a *App) renderHeader() {
	data := &ui.ProfileData{
		Session:   a.opts.SessionName,
		API:       a.sess.API().BaseURL(),
		Favorites: len(a.m.Favorites()),
		Chats:     len(a.m.Chats()),
		Uptime:    time.Since(a.started),
	}
	if u := a.sess.User(); u != nil {
		data.Nick = u.Nick
	}
	for _, n := range a.m.Unread() {
		data.Unread += n
	}
	a.info.Update(data)
}

func (a *App) renderCrumbs() {
	stack := a.pages.Stack()
	names := make([]string, 0, len(stack))
	for _, n := range stack {
		names = append(names, a.components[n].Name())
	}
	a.crumbs.Update(names)
}

func (a *App) refreshMenu() {
	a.menu.Update(menuHints(a.registry.Hints(a.pages.Current())))
}

func menuHints(hints []keys.Hint) []ui.MenuHint {
	out := make([]ui.MenuHint, 0, len(hints))
	for _, h := range hints {
		numeric := h.Key != "" && h.Key[0] >= '0' && h.Key[0] <= '9'
		out = append(out, ui.MenuHint{Key: h.Key, Description: h.Description, Numeric: numeric})
	}
	return out
}

func (a *App) signedOut() {
	a.favorites.Update(nil)
	a.search.Update(nil)
	a.chats.Update(nil, nil, "")
	a.renderSettings()
	a.reset(pageLogin)
	a.login.ShowMessage("Signed out.")
}
