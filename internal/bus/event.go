package bus

import "time"

// Event kinds published by the messenger component. Subscribers filter by
// prefix, e.g. "favorites." or "ui.".
const (
	KindFavoritesLoaded  = "favorites.loaded"
	KindFavoritesRestore = "favorites.restored"
	KindSearchResults    = "search.results"
	KindProfileUpdated   = "profile.updated"
	KindChatsChanged     = "chats.changed"
	KindMessagesLoaded   = "chats.messages_loaded"
	KindUnreadLoaded     = "chats.unread_loaded"
	KindUIStateChanged   = "ui.state_changed"
	KindDraftChanged     = "ui.draft_changed"
	KindSessionReset     = "session.reset"
)

// Event represents a state change published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
