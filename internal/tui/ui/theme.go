package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme is the msgrtui palette.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TitleColor       tcell.Color
	CounterColor     tcell.Color

	// Tables (chat list, search results, thread).
	TableHeaderFg tcell.Color
	TableHeaderBg tcell.Color
	TableCursorFg tcell.Color
	TableCursorBg tcell.Color

	// Chrome.
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	PromptBorderColor tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color

	// Content.
	OnlineColor     tcell.Color
	OfflineColor    tcell.Color
	FileColor       tcell.Color
	VoiceColor      tcell.Color
	DateColor       tcell.Color
	OwnMessageColor tcell.Color
}

// DefaultTheme returns the dark blue palette used by msgrtui.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorDefault,
		FgColor:          tcell.ColorLightSteelBlue,
		BorderColor:      tcell.ColorRoyalBlue,
		BorderFocusColor: tcell.ColorDeepSkyBlue,
		TitleColor:       tcell.ColorDeepSkyBlue,
		CounterColor:     tcell.ColorWhite,

		TableHeaderFg: tcell.ColorSilver,
		TableHeaderBg: tcell.ColorDefault,
		TableCursorFg: tcell.ColorBlack,
		TableCursorBg: tcell.ColorDeepSkyBlue,

		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorDeepSkyBlue,
		CrumbInactiveFg:   tcell.ColorWhite,
		CrumbInactiveBg:   tcell.ColorRoyalBlue,
		MenuKeyColor:      tcell.ColorDeepSkyBlue,
		NumericKeyColor:   tcell.ColorHotPink,
		PromptBorderColor: tcell.ColorDeepSkyBlue,
		FlashInfoColor:    tcell.ColorLightGreen,
		FlashWarnColor:    tcell.ColorGold,
		FlashErrColor:     tcell.ColorTomato,

		OnlineColor:     tcell.ColorLimeGreen,
		OfflineColor:    tcell.ColorGray,
		FileColor:       tcell.ColorGold,
		VoiceColor:      tcell.ColorMediumPurple,
		DateColor:       tcell.ColorSlateGray,
		OwnMessageColor: tcell.ColorLightSkyBlue,
	}
}

// ColorTag returns c in the form tview color tags accept. The terminal
// default maps to "-".
func ColorTag(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return "-"
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
