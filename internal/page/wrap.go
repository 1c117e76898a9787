package page

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into rows no wider than width terminal columns, splitting
// on spaces where possible. Emoji count as two columns. Explicit newlines
// start new rows. The result always has at least one row.
func Wrap(text string, width int) []string {
	if width < 2 {
		width = 2
	}
	var rows []string
	for _, para := range strings.Split(text, "\n") {
		rows = append(rows, wrapLine(para, width)...)
	}
	return rows
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	var rows []string
	var cur strings.Builder
	curW := 0
	flush := func() {
		rows = append(rows, strings.TrimRight(cur.String(), " "))
		cur.Reset()
		curW = 0
	}
	for _, word := range strings.Fields(line) {
		ww := runewidth.StringWidth(word)
		if curW > 0 && curW+1+ww > width {
			flush()
		}
		if curW > 0 {
			cur.WriteByte(' ')
			curW++
		}
		for ww > width {
			// Hard-break words longer than a row.
			head := runewidth.Truncate(word, width-curW, "")
			if head == "" {
				flush()
				continue
			}
			cur.WriteString(head)
			flush()
			word = strings.TrimPrefix(word, head)
			ww = runewidth.StringWidth(word)
		}
		cur.WriteString(word)
		curW += ww
	}
	if curW > 0 || len(rows) == 0 {
		flush()
	}
	return rows
}
