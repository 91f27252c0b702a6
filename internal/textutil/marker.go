package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayColumn converts a 0-based rune index within line into the 0-based
// terminal column where that rune starts. Tabs advance to the next multiple
// of tabWidth. Indexes past the end continue one column per rune.
func DisplayColumn(line string, runeIndex, tabWidth int) int {
	col, i := 0, 0
	for _, r := range line {
		if i >= runeIndex {
			return col
		}
		if r == '\t' && tabWidth > 0 {
			col += tabWidth - col%tabWidth
		} else {
			col += runewidth.RuneWidth(r)
		}
		i++
	}
	return col + max(runeIndex-i, 0)
}

// Marker underlines runes [start,end) of line with mark, e.g. "    ^^^^^".
// An empty range still gets one mark.
func Marker(line string, start, end, tabWidth int, mark rune) string {
	start = max(start, 0)
	from := DisplayColumn(line, start, tabWidth)
	to := DisplayColumn(line, max(end, start), tabWidth)
	return fill(from) + strings.Repeat(string(mark), max(to-from, 1))
}
