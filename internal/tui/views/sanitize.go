package views

import (
	"strings"

	"github.com/rivo/tview"
)

// display prepares user-supplied text for a dynamic-color view: codepoints
// tcell cannot lay out are dropped, then tview color tags are escaped.
func display(s string) string {
	return tview.Escape(sanitizeForTerminal(s))
}

// sanitizeForTerminal removes codepoints that break cell-width accounting:
// skin tone modifiers, zero width joiners and variation selectors. A thumbs-up
// with a skin tone collapses to the plain two-cell glyph.
func sanitizeForTerminal(s string) string {
	if !strings.ContainsFunc(s, isProblematicRune) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isProblematicRune(r) {
			return -1
		}
		return r
	}, s)
}

func isProblematicRune(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tones
		return true
	case r == 0x200D: // ZWJ
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}
