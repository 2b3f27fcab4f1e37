package renderer

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/zorforge/internal/input/mode"
)

// Styles holds the colors used for each screen element.
type Styles struct {
	Text          tcell.Style
	Selection     tcell.Style
	Match         tcell.Style
	CurrentMatch  tcell.Style
	Gutter        tcell.Style
	GutterCurrent tcell.Style
	Filler        tcell.Style
	StatusBar     tcell.Style
	Message       tcell.Style
	Error         tcell.Style

	// Modes colors the mode indicator on the status line.
	Modes map[mode.Kind]tcell.Style
}

// DefaultStyles returns the built-in color scheme.
func DefaultStyles() Styles {
	bar := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	return Styles{
		Text:          tcell.StyleDefault,
		Selection:     tcell.StyleDefault.Reverse(true),
		Match:         tcell.StyleDefault.Background(tcell.ColorOlive).Foreground(tcell.ColorBlack),
		CurrentMatch:  tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),
		Gutter:        tcell.StyleDefault.Foreground(tcell.ColorGray),
		GutterCurrent: tcell.StyleDefault.Foreground(tcell.ColorYellow),
		Filler:        tcell.StyleDefault.Foreground(tcell.ColorBlue),
		StatusBar:     bar,
		Message:       tcell.StyleDefault,
		Error:         tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
		Modes: map[mode.Kind]tcell.Style{
			mode.KindNormal:  bar.Background(tcell.ColorBlue).Bold(true),
			mode.KindInsert:  bar.Background(tcell.ColorGreen).Bold(true),
			mode.KindVisual:  bar.Background(tcell.ColorPurple).Bold(true),
			mode.KindCommand: bar.Background(tcell.ColorOlive).Bold(true),
		},
	}
}

// modeStyle returns the indicator style for k.
func (s Styles) modeStyle(k mode.Kind) tcell.Style {
	if st, ok := s.Modes[k]; ok {
		return st
	}
	return s.StatusBar.Bold(true)
}

func cursorShape(c mode.CursorStyle) tcell.CursorStyle {
	switch c {
	case mode.CursorBar:
		return tcell.CursorStyleSteadyBar
	case mode.CursorUnderline:
		return tcell.CursorStyleSteadyUnderline
	default:
		return tcell.CursorStyleSteadyBlock
	}
}
