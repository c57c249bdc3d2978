package uistate

import "github.com/matheus3301/msgr/internal/bus"

// Settings is the settings panel state. Nickname editing is a state of the
// open panel, so editing while the panel is closed cannot be represented.
type Settings string

const (
	SettingsClosed      Settings = "closed"
	SettingsOpen        Settings = "open"
	SettingsEditingNick Settings = "editing_nick"
)

var settingsTransitions = map[Settings][]Settings{
	SettingsClosed:      {SettingsOpen},
	SettingsOpen:        {SettingsClosed, SettingsEditingNick},
	SettingsEditingNick: {SettingsOpen, SettingsClosed},
}

// NewSettings returns a closed settings panel machine.
func NewSettings(b *bus.Bus) *Machine[Settings] {
	return NewMachine("settings", SettingsClosed, settingsTransitions, b)
}

// Search is the user search panel state.
type Search string

const (
	SearchCollapsed Search = "collapsed"
	SearchExpanded  Search = "expanded"
)

var searchTransitions = map[Search][]Search{
	SearchCollapsed: {SearchExpanded},
	SearchExpanded:  {SearchCollapsed},
}

// NewSearch returns a collapsed search panel machine.
func NewSearch(b *bus.Bus) *Machine[Search] {
	return NewMachine("search", SearchCollapsed, searchTransitions, b)
}

// Tab is the sidebar tab of the classic layout.
type Tab string

const (
	TabChats     Tab = "chats"
	TabFavorites Tab = "favorites"
)

var tabTransitions = map[Tab][]Tab{
	TabChats:     {TabFavorites},
	TabFavorites: {TabChats},
}

// NewTab returns a tab machine starting on initial.
func NewTab(initial Tab, b *bus.Bus) *Machine[Tab] {
	return NewMachine("tab", initial, tabTransitions, b)
}
