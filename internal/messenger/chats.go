package messenger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/bus"
	"github.com/matheus3301/msgr/internal/uistate"
	"go.uber.org/zap"
)

// Chats returns the nicks in the chat list, in the order they were added.
func (m *Messenger) Chats() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.chats)
}

// Unread returns unread counts keyed by nick.
func (m *Messenger) Unread() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.unread)
}

// SelectedChat returns the nick of the open conversation.
func (m *Messenger) SelectedChat() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selected
}

// Conversation returns the messages of the open chat and the friend's
// presence.
func (m *Messenger) Conversation() api.Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.conversation
	c.Messages = slices.Clone(c.Messages)
	return c
}

// SwitchTab moves the classic sidebar to tab.
func (m *Messenger) SwitchTab(tab uistate.Tab) error {
	if err := m.require(FeatureChats); err != nil {
		return err
	}
	if m.Tab.Is(tab) {
		return nil
	}
	return m.Tab.Transition(tab)
}

// AddUserToChats appends nick to the chat list, if missing, and selects it.
func (m *Messenger) AddUserToChats(nick string) error {
	if err := m.require(FeatureChats); err != nil {
		return err
	}
	nick = strings.TrimSpace(nick)
	if nick == "" {
		return ErrEmptyText
	}

	m.mu.Lock()
	if !slices.Contains(m.chats, nick) {
		m.chats = append(slices.Clone(m.chats), nick)
	}
	m.mu.Unlock()

	if m.cache != nil {
		if owner := m.auth.Token(); owner != "" {
			if _, err := m.cache.AddChat(owner, nick); err != nil {
				m.logger.Warn("cache chat", zap.String("nick", nick), zap.Error(err))
			}
		}
	}
	m.bus.Emit(bus.KindChatsChanged, m.Chats())
	m.selectChat(nick)
	return nil
}

func (m *Messenger) selectChat(nick string) {
	m.mu.Lock()
	changed := m.selected != nick
	m.selected = nick
	if changed {
		m.conversation = api.Conversation{}
	}
	m.mu.Unlock()
	if changed {
		m.bus.Emit(bus.KindChatsChanged, m.Chats())
	}
}

// SelectChat opens the conversation with nick and loads its messages.
func (m *Messenger) SelectChat(ctx context.Context, nick string) error {
	if err := m.require(FeatureChats); err != nil {
		return err
	}
	m.selectChat(nick)
	return m.LoadMessages(ctx)
}

// LoadMessages fetches the open conversation. Reading it marks the friend's
// messages as read server-side.
func (m *Messenger) LoadMessages(ctx context.Context) error {
	if err := m.require(FeatureChats); err != nil {
		return err
	}
	token, client, err := m.session()
	if err != nil {
		return err
	}
	nick := m.SelectedChat()
	if nick == "" {
		return ErrNoChatSelected
	}

	conv, err := client.Messages(ctx, token, nick)
	if err != nil {
		m.logger.Warn("load messages failed", zap.String("chat", nick), zap.Error(err))
		return fmt.Errorf("load messages with %s: %w", nick, err)
	}

	m.mu.Lock()
	if m.selected != nick {
		// Another chat was opened meanwhile.
		m.mu.Unlock()
		return nil
	}
	m.conversation = *conv
	if m.unread != nil {
		delete(m.unread, nick)
	}
	m.mu.Unlock()

	m.bus.Emit(bus.KindMessagesLoaded, nick)
	return nil
}

// SendMessage sends the draft to the open chat, clears the draft and
// re-fetches the conversation.
func (m *Messenger) SendMessage(ctx context.Context) error {
	if err := m.require(FeatureChats); err != nil {
		return err
	}
	token, client, err := m.session()
	if err != nil {
		return err
	}
	nick := m.SelectedChat()
	if nick == "" {
		return ErrNoChatSelected
	}
	text := strings.TrimSpace(m.Draft())
	if text == "" {
		return ErrEmptyText
	}

	if err := client.SendMessage(ctx, token, nick, text); err != nil {
		m.logger.Warn("send message failed", zap.String("chat", nick), zap.Error(err))
		return fmt.Errorf("send to %s: %w", nick, err)
	}
	m.SetDraft("")
	return m.LoadMessages(ctx)
}

// Submit sends the draft where the active tab points: to the open chat on
// the chats tab, to favorites otherwise.
func (m *Messenger) Submit(ctx context.Context) error {
	if m.layout.Has(FeatureChats) && m.Tab.Is(uistate.TabChats) {
		return m.SendMessage(ctx)
	}
	return m.AddToFavorites(ctx)
}

// LoadUnread fetches unread counts. Senders not yet in the chat list are
// appended to it.
func (m *Messenger) LoadUnread(ctx context.Context) error {
	if err := m.require(FeatureChats); err != nil {
		return err
	}
	token, client, err := m.session()
	if err != nil {
		return err
	}

	counts, err := client.UnreadChats(ctx, token)
	if err != nil {
		m.logger.Warn("load unread failed", zap.Error(err))
		return fmt.Errorf("load unread: %w", err)
	}

	senders := slices.Sorted(maps.Keys(counts))

	m.mu.Lock()
	chats := slices.Clone(m.chats)
	for _, nick := range senders {
		if !slices.Contains(chats, nick) {
			chats = append(chats, nick)
		}
	}
	m.chats = chats
	m.unread = counts
	m.mu.Unlock()

	if m.cache != nil {
		if err := m.cache.SetUnread(token, counts); err != nil {
			m.logger.Warn("cache unread", zap.Error(err))
		}
	}
	m.bus.Emit(bus.KindUnreadLoaded, maps.Clone(counts))
	return nil
}
