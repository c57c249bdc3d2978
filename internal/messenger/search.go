package messenger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matheus3301/msgr/internal/api"
	"github.com/matheus3301/msgr/internal/bus"
	"github.com/matheus3301/msgr/internal/uistate"
	"go.uber.org/zap"
)

// SearchUsers looks up query by nick. A blank query clears the results
// without a request. Lookups are neither debounced nor cancelled, so when
// several are in flight the last response to arrive wins.
func (m *Messenger) SearchUsers(ctx context.Context, query string) error {
	if err := m.require(FeatureSearch); err != nil {
		return err
	}
	m.mu.Lock()
	m.query = query
	m.mu.Unlock()

	nick := strings.TrimSpace(query)
	if nick == "" {
		m.setResults(nil)
		return nil
	}

	res, err := m.auth.API().Search(ctx, nick)
	if err != nil {
		m.setResults(nil)
		if api.IsNotFound(err) {
			m.logger.Debug("search miss", zap.String("nick", nick))
			return nil
		}
		m.logger.Warn("search failed", zap.String("nick", nick), zap.Error(err))
		return fmt.Errorf("search %q: %w", nick, err)
	}
	m.setResults([]api.SearchResult{*res})
	return nil
}

func (m *Messenger) setResults(results []api.SearchResult) {
	m.mu.Lock()
	m.results = results
	m.mu.Unlock()
	m.bus.Emit(bus.KindSearchResults, slices.Clone(results))
}

// ExpandSearch opens the search panel.
func (m *Messenger) ExpandSearch() error {
	if err := m.require(FeatureSearch); err != nil {
		return err
	}
	return m.Search.Transition(uistate.SearchExpanded)
}

// CollapseSearch closes the search panel and clears query and results.
func (m *Messenger) CollapseSearch() error {
	if err := m.require(FeatureSearch); err != nil {
		return err
	}
	if err := m.Search.Transition(uistate.SearchCollapsed); err != nil {
		return err
	}
	m.mu.Lock()
	m.query = ""
	m.mu.Unlock()
	m.setResults(nil)
	return nil
}

// ToggleSearch expands a collapsed panel or collapses an expanded one.
func (m *Messenger) ToggleSearch() error {
	if m.Search.Is(uistate.SearchExpanded) {
		return m.CollapseSearch()
	}
	return m.ExpandSearch()
}
