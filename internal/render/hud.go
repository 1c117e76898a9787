package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Status is what the bottom rows show.
type Status struct {
	Tab     string
	Level   string
	Message string
	Prompt  string // command being typed; shown instead of Message when set
	Editing bool
}

// DrawStatus renders the separator, the status line and the message or
// prompt line, then shows the frame.
func (r *Renderer) DrawStatus(st Status) {
	w, screenH := r.screen.Size()
	statusY := screenH - StatusRows
	if statusY < 0 {
		statusY = 0
	}

	r.drawHLine(statusY, r.theme.Separator)

	line := fmt.Sprintf("[%s]  %s  Tab:focus  Enter:go  Esc:back  ':':command", shortTab(st.Tab), st.Level)
	r.drawText(0, statusY+1, clip(line, w), r.theme.Status)

	if st.Editing {
		end := r.drawText(0, statusY+2, clip(":"+st.Prompt, w-1), r.theme.Prompt)
		r.screen.SetContent(end, statusY+2, '_', nil, r.theme.Prompt)
	} else if st.Message != "" {
		r.drawText(0, statusY+2, clip(st.Message, w), r.theme.Response)
	}

	r.screen.Show()
}

func (r *Renderer) drawHLine(y int, style tcell.Style) {
	w, _ := r.screen.Size()
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// shortTab trims a tab key to something that fits the status line.
func shortTab(id string) string {
	const keep = 12
	if len(id) <= keep {
		return id
	}
	return id[:keep]
}

// clip truncates s to at most width terminal columns.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

// DrawOverlay draws a centred box with a title and body lines over whatever
// is on screen, then shows the frame.
func (r *Renderer) DrawOverlay(title string, lines []string) {
	width := runewidth.StringWidth(title) + 4
	for _, l := range lines {
		if w := runewidth.StringWidth(l) + 4; w > width {
			width = w
		}
	}
	sw, sh := r.screen.Size()
	boxH := len(lines) + 2
	x0 := (sw - width) / 2
	y0 := (sh - boxH) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}

	blank := tcell.StyleDefault
	for row := y0; row < y0+boxH; row++ {
		for col := x0; col < x0+width; col++ {
			r.screen.SetContent(col, row, ' ', nil, blank)
		}
	}
	border := r.theme.Separator
	for col := x0; col < x0+width; col++ {
		r.screen.SetContent(col, y0, '─', nil, border)
		r.screen.SetContent(col, y0+boxH-1, '─', nil, border)
	}
	for row := y0; row < y0+boxH; row++ {
		r.screen.SetContent(x0, row, '│', nil, border)
		r.screen.SetContent(x0+width-1, row, '│', nil, border)
	}
	r.screen.SetContent(x0, y0, '┌', nil, border)
	r.screen.SetContent(x0+width-1, y0, '┐', nil, border)
	r.screen.SetContent(x0, y0+boxH-1, '└', nil, border)
	r.screen.SetContent(x0+width-1, y0+boxH-1, '┘', nil, border)

	hx := x0 + (width-runewidth.StringWidth(title))/2
	r.drawText(hx, y0, title, r.theme.Heading)
	for i, line := range lines {
		r.drawText(x0+2, y0+1+i, line, r.theme.Text)
	}
	r.screen.Show()
}
