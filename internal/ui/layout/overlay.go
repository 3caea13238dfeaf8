package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// PlaceOverlay draws fg over bg with its top-left cell at (x, y). Both may
// contain ANSI sequences; splicing is done on display cells. bg is padded
// with blank lines and spaces where fg reaches past it.
func PlaceOverlay(bg, fg string, x, y int) string {
	if fg == "" {
		return bg
	}
	x, y = max(0, x), max(0, y)

	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	for len(bgLines) < y+len(fgLines) {
		bgLines = append(bgLines, "")
	}

	for i, fgLine := range fgLines {
		row := bgLines[y+i]
		w := ansi.StringWidth(row)

		left := ansi.Truncate(row, x, "")
		if w < x {
			left += strings.Repeat(" ", x-w)
		}

		right := ""
		if end := x + ansi.StringWidth(fgLine); end < w {
			right = ansi.TruncateLeft(row, end, "")
		}

		bgLines[y+i] = left + fgLine + ansi.ResetStyle + right
	}
	return strings.Join(bgLines, "\n")
}

// Rows returns the number of lines in s.
func Rows(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
