package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"quantum-fen/internal/page"
)

// StatusRows is the height of the status area below the page.
const StatusRows = 3

// superposed marks a slot nobody has looked at yet.
const superposed = "·"

// Renderer draws a page onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	theme  Theme
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, theme: DefaultTheme}
}

// ViewSize returns the page viewport: the screen minus the status rows.
func (r *Renderer) ViewSize() (width, height int) {
	w, h := r.screen.Size()
	h -= StatusRows
	if h < 1 {
		h = 1
	}
	return w, h
}

// DrawPage renders the rows of p that are in view.
func (r *Renderer) DrawPage(p *page.Page) {
	r.screen.Clear()
	_, viewH := p.Size()
	offset := p.ScrollOffset()
	focused := p.Focused()

	for _, c := range p.Containers() {
		if !c.Shown() {
			continue
		}
		for _, b := range c.Blocks {
			top := b.Top() - offset
			if top+b.Height() <= 0 || top >= viewH {
				continue
			}
			if b.Kind == page.KindSpacer {
				continue
			}
			style := r.theme.blockStyle(b)
			if b == focused {
				style = r.theme.Focus.Foreground(tcell.ColorWhite)
			}
			for i, line := range b.Lines() {
				y := top + i
				if y < 0 || y >= viewH {
					continue
				}
				if b.Kind == page.KindSlot && line == "" && i == 0 {
					line = superposed
				}
				r.drawText(0, y, line, style)
			}
		}
	}
}

// drawText draws text from column x, giving wide runes two columns. Runes
// with no width are dropped.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		r.putGlyph(col, y, string(ch), style)
		col += w
	}
	return col
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
