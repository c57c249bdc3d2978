package messenger

import (
	"fmt"
	"strings"
)

// Layout selects which revision of the view is active.
type Layout string

const (
	// LayoutClassic has chat and favorites tabs with direct conversations.
	LayoutClassic Layout = "classic"
	// LayoutFavorites is a favorites-only feed with file attachments.
	LayoutFavorites Layout = "favorites"
	// LayoutFull adds user search and the settings panel to the feed.
	LayoutFull Layout = "full"
)

// DefaultLayout is used when nothing is configured.
const DefaultLayout = LayoutFull

// Feature is a capability that a layout may or may not offer.
type Feature string

const (
	FeatureFavorites  Feature = "favorites"
	FeatureFileUpload Feature = "file_upload"
	FeatureSearch     Feature = "search"
	FeatureSettings   Feature = "settings"
	FeatureChats      Feature = "chats"
)

var layoutFeatures = map[Layout][]Feature{
	LayoutClassic:   {FeatureFavorites, FeatureSearch, FeatureChats},
	LayoutFavorites: {FeatureFavorites, FeatureFileUpload},
	LayoutFull:      {FeatureFavorites, FeatureFileUpload, FeatureSearch, FeatureSettings},
}

// Layouts lists every known layout.
func Layouts() []Layout {
	return []Layout{LayoutClassic, LayoutFavorites, LayoutFull}
}

// ParseLayout validates a layout name. Empty selects DefaultLayout.
func ParseLayout(s string) (Layout, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLayout, nil
	}
	l := Layout(s)
	if _, ok := layoutFeatures[l]; !ok {
		return "", fmt.Errorf("unknown layout %q (want classic, favorites or full)", s)
	}
	return l, nil
}

// Has reports whether the layout offers f.
func (l Layout) Has(f Feature) bool {
	for _, have := range layoutFeatures[l] {
		if have == f {
			return true
		}
	}
	return false
}
