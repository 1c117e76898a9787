package render

import (
	"github.com/gdamore/tcell/v2"

	"quantum-fen/internal/page"
)

// Theme holds the styles used to draw each kind of block.
type Theme struct {
	Heading   tcell.Style
	Text      tcell.Style
	Slot      tcell.Style
	Button    tcell.Style
	Input     tcell.Style
	Response  tcell.Style
	Spacer    tcell.Style
	Focus     tcell.Style
	Status    tcell.Style
	Separator tcell.Style
	Prompt    tcell.Style
}

// DefaultTheme is a dark terminal theme. Emoji are drawn by the terminal in
// their own colors, so only text blocks are tinted.
var DefaultTheme = Theme{
	Heading:   tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	Text:      tcell.StyleDefault.Foreground(tcell.ColorSilver),
	Slot:      tcell.StyleDefault.Foreground(tcell.ColorWhite),
	Button:    tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true),
	Input:     tcell.StyleDefault.Foreground(tcell.ColorWhite),
	Response:  tcell.StyleDefault.Foreground(tcell.ColorLightYellow),
	Spacer:    tcell.StyleDefault.Foreground(tcell.ColorDimGray),
	Focus:     tcell.StyleDefault.Reverse(true),
	Status:    tcell.StyleDefault.Foreground(tcell.ColorWhite),
	Separator: tcell.StyleDefault.Foreground(tcell.ColorGray),
	Prompt:    tcell.StyleDefault.Foreground(tcell.ColorLightGreen),
}

// blockStyle picks the style for b.
func (t Theme) blockStyle(b *page.Block) tcell.Style {
	switch b.Kind {
	case page.KindHeading:
		return t.Heading
	case page.KindSlot:
		if b.Action {
			return t.Button
		}
		return t.Slot
	case page.KindInput:
		return t.Input
	case page.KindResponse:
		return t.Response
	case page.KindSpacer:
		return t.Spacer
	}
	return t.Text
}
