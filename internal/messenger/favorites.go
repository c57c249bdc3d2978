package messenger

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/bus"
	"go.uber.org/zap"
)

// FileLabel is the text stored with a file favorite.
func FileLabel(name string) string {
	return "File: " + filepath.Base(name)
}

// LoadFavorites replaces the local list with the server's. On failure the
// previous list is kept.
func (m *Messenger) LoadFavorites(ctx context.Context) error {
	if err := m.require(FeatureFavorites); err != nil {
		return err
	}
	token, client, err := m.session()
	if err != nil {
		return err
	}

	favs, err := client.Favorites(ctx, token)
	if err != nil {
		m.logger.Warn("load favorites failed", zap.Error(err))
		return fmt.Errorf("load favorites: %w", err)
	}
	if m.auth.Token() != token {
		return ErrNotAuthenticated
	}

	m.mu.Lock()
	m.favorites = favs
	m.favsFetched = true
	m.mu.Unlock()

	if m.cache != nil {
		if err := m.cache.ReplaceFavorites(token, favs); err != nil {
			m.logger.Warn("cache favorites", zap.Error(err))
		}
	}
	m.logger.Debug("favorites loaded", zap.Int("count", len(favs)))
	m.bus.Emit(bus.KindFavoritesLoaded, slices.Clone(favs))
	return nil
}

// AddToFavorites saves the draft as a text favorite, clears the draft and
// re-fetches the list.
func (m *Messenger) AddToFavorites(ctx context.Context) error {
	if err := m.require(FeatureFavorites); err != nil {
		return err
	}
	text := strings.TrimSpace(m.Draft())
	if text == "" {
		return ErrEmptyText
	}
	if err := m.postFavorite(ctx, api.NewFavorite{Type: api.FavoriteText, Text: text}); err != nil {
		return err
	}
	m.SetDraft("")
	return m.LoadFavorites(ctx)
}

// FavoriteMessage saves an existing chat message as a text favorite. The
// draft is left alone.
func (m *Messenger) FavoriteMessage(ctx context.Context, msg api.Message) error {
	if err := m.require(FeatureFavorites); err != nil {
		return err
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return ErrEmptyText
	}
	if err := m.postFavorite(ctx, api.NewFavorite{Type: api.FavoriteText, Text: text}); err != nil {
		return err
	}
	return m.LoadFavorites(ctx)
}

// HandleFileUpload uploads r and saves it as a file favorite. A failed upload
// never creates a favorite. A favorite that fails after a successful upload
// leaves the uploaded file orphaned on the server.
func (m *Messenger) HandleFileUpload(ctx context.Context, name string, r io.Reader) error {
	if err := m.require(FeatureFileUpload); err != nil {
		return err
	}
	token, client, err := m.session()
	if err != nil {
		return err
	}

	link, err := client.Upload(ctx, token, name, r)
	if err != nil {
		m.logger.Warn("upload failed", zap.String("file", name), zap.Error(err))
		return fmt.Errorf("upload %s: %w", filepath.Base(name), err)
	}
	if link == "" {
		m.logger.Warn("upload returned no url", zap.String("file", name))
		return fmt.Errorf("upload %s: server returned no url", filepath.Base(name))
	}

	fav := api.NewFavorite{Type: api.FavoriteFile, Text: FileLabel(name), FileURL: link}
	if err := m.postFavorite(ctx, fav); err != nil {
		return err
	}
	return m.LoadFavorites(ctx)
}

func (m *Messenger) postFavorite(ctx context.Context, fav api.NewFavorite) error {
	token, client, err := m.session()
	if err != nil {
		return err
	}
	if err := client.AddFavorite(ctx, token, fav); err != nil {
		m.logger.Warn("add favorite failed", zap.String("type", string(fav.Type)), zap.Error(err))
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}
