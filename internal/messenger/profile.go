package messenger

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/uistate"
	"go.uber.org/zap"
)

// DisplayName returns the part of a nick before '#'.
func DisplayName(nick string) string {
	name, _, _ := strings.Cut(nick, "#")
	return name
}

// Tag returns the part of a nick after '#', or "".
func Tag(nick string) string {
	_, tag, _ := strings.Cut(nick, "#")
	return tag
}

// OpenSettings opens the settings panel.
func (m *Messenger) OpenSettings() error {
	if err := m.require(FeatureSettings); err != nil {
		return err
	}
	return m.Settings.Transition(uistate.SettingsOpen)
}

// CloseSettings closes the panel, discarding any nickname draft.
func (m *Messenger) CloseSettings() error {
	if err := m.require(FeatureSettings); err != nil {
		return err
	}
	if err := m.Settings.Transition(uistate.SettingsClosed); err != nil {
		return err
	}
	m.mu.Lock()
	m.nickDraft = ""
	m.mu.Unlock()
	return nil
}

// BeginNicknameEdit enters edit mode with the draft pre-filled from the
// current nick, without its tag.
func (m *Messenger) BeginNicknameEdit() error {
	if err := m.require(FeatureSettings); err != nil {
		return err
	}
	if err := m.Settings.Transition(uistate.SettingsEditingNick); err != nil {
		return err
	}
	var name string
	if u := m.auth.User(); u != nil {
		name = DisplayName(u.Nick)
	}
	m.mu.Lock()
	m.nickDraft = name
	m.mu.Unlock()
	return nil
}

// CancelNicknameEdit returns to the open panel without a request.
func (m *Messenger) CancelNicknameEdit() error {
	if err := m.require(FeatureSettings); err != nil {
		return err
	}
	if !m.Settings.Is(uistate.SettingsEditingNick) {
		return &uistate.TransitionError{Machine: m.Settings.Name(), From: string(m.Settings.Current()), To: string(uistate.SettingsOpen)}
	}
	if err := m.Settings.Transition(uistate.SettingsOpen); err != nil {
		return err
	}
	m.mu.Lock()
	m.nickDraft = ""
	m.mu.Unlock()
	return nil
}

// NewNick combines an edited display name with the tag of the current nick.
// A draft that already carries a '#' is used as is.
func NewNick(draft, current string) string {
	draft = strings.TrimSpace(draft)
	if strings.Contains(draft, "#") {
		return draft
	}
	if tag := Tag(current); tag != "" {
		return draft + "#" + tag
	}
	return draft
}

// UpdateNickname commits the nickname draft. After a successful update the
// profile is re-fetched, and only once that refetch has finished does the
// panel leave edit mode and drop the draft. A failed update stays in edit
// mode with the draft intact.
func (m *Messenger) UpdateNickname(ctx context.Context) error {
	if err := m.require(FeatureSettings); err != nil {
		return err
	}
	if !m.Settings.Is(uistate.SettingsEditingNick) {
		return &uistate.TransitionError{Machine: m.Settings.Name(), From: string(m.Settings.Current()), To: string(uistate.SettingsOpen)}
	}
	draft := strings.TrimSpace(m.NickDraft())
	if draft == "" {
		return ErrEmptyText
	}
	token, client, err := m.session()
	if err != nil {
		return err
	}

	var current string
	if u := m.auth.User(); u != nil {
		current = u.Nick
	}
	nick := NewNick(draft, current)
	if err := client.UpdateProfile(ctx, token, nick); err != nil {
		m.logger.Warn("update nickname failed", zap.String("nick", nick), zap.Error(err))
		return fmt.Errorf("update nickname: %w", err)
	}
	m.logger.Info("nickname updated", zap.String("nick", nick))

	_, fetchErr := m.auth.FetchUserProfile(ctx)

	// The panel may have been closed while the requests were in flight.
	if m.Settings.Is(uistate.SettingsEditingNick) {
		_ = m.Settings.Transition(uistate.SettingsOpen)
	}
	m.mu.Lock()
	m.nickDraft = ""
	m.mu.Unlock()

	if fetchErr != nil {
		m.logger.Warn("refetch profile after nickname update", zap.Error(fetchErr))
		return fmt.Errorf("refresh profile: %w", fetchErr)
	}
	return nil
}

// HandleAvatarUpload uploads an image as the new avatar and re-fetches the
// profile instead of patching it locally.
func (m *Messenger) HandleAvatarUpload(ctx context.Context, name string, r io.Reader) error {
	if err := m.require(FeatureSettings); err != nil {
		return err
	}
	if !strings.HasPrefix(api.ContentType(name), "image/") {
		return fmt.Errorf("%s: %w", filepath.Base(name), ErrNotImage)
	}
	token, client, err := m.session()
	if err != nil {
		return err
	}

	if _, err := client.Upload(ctx, token, name, r); err != nil {
		m.logger.Warn("avatar upload failed", zap.String("file", name), zap.Error(err))
		return fmt.Errorf("upload avatar: %w", err)
	}
	if _, err := m.auth.FetchUserProfile(ctx); err != nil {
		m.logger.Warn("refetch profile after avatar upload", zap.Error(err))
		return fmt.Errorf("refresh profile: %w", err)
	}
	return nil
}
