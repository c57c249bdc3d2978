package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matheus3301/msgr/internal/messenger"
	"github.com/matheus3301/msgr/internal/tui/ui"
	"github.com/matheus3301/msgr/internal/tui/views"
	"github.com/matheus3301/msgr/internal/uistate"
)

// execute runs a command typed at the ':' prompt.
func (a *App) execute(cmd Command) {
	spec, ok := lookupCommand(cmd.Name)
	if !ok {
		a.flash.Warn(fmt.Sprintf("unknown command %q, try :help", cmd.Name))
		return
	}
	if spec.feature != "" && !a.m.Layout().Has(spec.feature) {
		a.flash.Warn(fmt.Sprintf(":%s is not available in the %s layout", spec.name, a.m.Layout()))
		return
	}
	if spec.needsArgs && cmd.Args == "" {
		a.flash.Warn("usage: :" + spec.usage)
		return
	}
	if !a.sess.Authenticated() && spec.name != "help" && spec.name != "quit" {
		a.flash.Warn("sign in first")
		return
	}

	switch spec.name {
	case "upload":
		a.uploadFile(cmd.Args, false)
	case "avatar":
		a.uploadFile(cmd.Args, true)
	case "nick":
		a.changeNick(cmd.Args)
	case "search":
		a.openSearch(cmd.Args)
	case "chat":
		a.openChat(cmd.Args)
	case "favorites":
		a.showTab(uistate.TabFavorites)
	case "chats":
		a.showTab(uistate.TabChats)
	case "settings":
		a.openSettings()
	case "reload":
		a.reload()
	case "logout":
		a.do("logout", "Signed out", a.m.Logout)
	case "help":
		a.showHelp()
	case "quit":
		a.Stop()
	}
}

func (a *App) uploadFile(arg string, avatar bool) {
	path, err := expandPath(arg)
	if err != nil {
		a.report("upload", err)
		return
	}
	what, done := "upload "+filepath.Base(path), "Saved "+filepath.Base(path)+" to favorites"
	if avatar {
		what, done = "upload avatar", "Avatar updated"
	}
	a.do(what, done, func(ctx context.Context) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if avatar {
			return a.m.HandleAvatarUpload(ctx, path, f)
		}
		return a.m.HandleFileUpload(ctx, path, f)
	})
}

// changeNick walks the settings panel into edit mode with name as the draft
// and commits it.
func (a *App) changeNick(name string) {
	if a.m.Settings.Is(uistate.SettingsClosed) {
		if err := a.m.OpenSettings(); err != nil {
			a.report("nick", err)
			return
		}
	}
	if !a.m.Settings.Is(uistate.SettingsEditingNick) {
		if err := a.m.BeginNicknameEdit(); err != nil {
			a.report("nick", err)
			return
		}
	}
	if err := a.m.SetNickDraft(name); err != nil {
		a.report("nick", err)
		return
	}
	a.renderSettings()
	a.push(pageSettings)
	a.do("update nickname", "Nickname updated", a.m.UpdateNickname)
}

func (a *App) openSearch(query string) {
	if !a.m.Search.Is(uistate.SearchExpanded) {
		if err := a.m.ExpandSearch(); err != nil {
			a.report("search", err)
			return
		}
	}
	a.push(pageSearch)
	a.app.SetFocus(a.search.Input())
	if query != "" {
		a.search.SetQuery(query)
	}
}

func (a *App) openSettings() {
	if a.m.Settings.Is(uistate.SettingsClosed) {
		if err := a.m.OpenSettings(); err != nil {
			a.report("settings", err)
			return
		}
	}
	a.renderSettings()
	a.push(pageSettings)
}

func (a *App) beginNickEdit() {
	if err := a.m.BeginNicknameEdit(); err != nil {
		a.report("edit nick", err)
		return
	}
	a.renderSettings()
	a.app.SetFocus(a.settings.NickInput())
}

func (a *App) toggleTab() {
	if a.m.Tab.Is(uistate.TabChats) {
		a.showTab(uistate.TabFavorites)
		return
	}
	a.showTab(uistate.TabChats)
}

func (a *App) showTab(tab uistate.Tab) {
	if a.m.Layout().Has(messenger.FeatureChats) {
		if err := a.m.SwitchTab(tab); err != nil {
			a.report("switch tab", err)
			return
		}
	}
	a.reset(a.mainPage())
}

func (a *App) openChatAt(n int) {
	if nick := a.chats.ChatByIndex(n); nick != "" {
		a.openChat(nick)
	}
}

// openChat adds nick to the chat list if needed and shows the conversation.
func (a *App) openChat(nick string) {
	if err := a.m.AddUserToChats(nick); err != nil {
		a.report("open chat", err)
		return
	}
	if !a.m.Tab.Is(uistate.TabChats) {
		if err := a.m.SwitchTab(uistate.TabChats); err != nil {
			a.report("open chat", err)
			return
		}
	}
	a.reset(pageChats)
	a.renderChats()
	a.push(pageThread)
	a.app.SetFocus(a.thread.Composer())
	a.do("load messages", "", a.m.LoadMessages)
}

func (a *App) favoriteSelected() {
	msg, ok := a.thread.SelectedMessage()
	if !ok {
		a.flash.Warn("select a message first")
		return
	}
	a.do("favorite message", "Saved to favorites", func(ctx context.Context) error {
		return a.m.FavoriteMessage(ctx, msg)
	})
}

func (a *App) showChatDetails() {
	nick := a.m.SelectedChat()
	if nick == "" {
		return
	}
	a.details.ShowConversation(nick, a.m.Conversation(), a.m.Unread()[nick])
	a.push(pageDetails)
}

func (a *App) showHelp() {
	current := a.pages.Current()
	if current == pageHelp {
		return
	}
	var cmds []ui.MenuHint
	for _, c := range availableCommands(a.m.Layout()) {
		cmds = append(cmds, ui.MenuHint{Key: ":" + c.usage, Description: c.description})
	}
	a.help.Update([]views.HelpSection{
		{Title: a.components[current].Name(), Hints: menuHints(a.registry.ViewHints(current))},
		{Title: "Global Keys", Hints: menuHints(a.registry.GlobalHints())},
		{Title: "Commands (: mode)", Hints: cmds},
	})
	a.push(pageHelp)
}
