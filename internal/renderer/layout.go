package renderer

import (
	"github.com/mattn/go-runewidth"
)

// RuneWidth returns the number of cells r occupies when drawn at cell x.
// Tabs run to the next multiple of tabSize. Zero-width runes still take a
// cell so the cursor can land on them.
func RuneWidth(r rune, x, tabSize int) int {
	if r == '\t' {
		if tabSize < 1 {
			tabSize = 1
		}
		return tabSize - x%tabSize
	}
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return 1
	}
	return w
}

// DisplayColumn returns the cell offset of rune index col in line.
func DisplayColumn(line []rune, col, tabSize int) int {
	x := 0
	for i, r := range line {
		if i >= col {
			break
		}
		x += RuneWidth(r, x, tabSize)
	}
	if col > len(line) {
		x += col - len(line)
	}
	return x
}

// ColumnAt returns the rune index drawn at cell x. Cells past the end of
// the line map to len(line).
func ColumnAt(line []rune, x, tabSize int) int {
	pos := 0
	for i, r := range line {
		w := RuneWidth(r, pos, tabSize)
		if x < pos+w {
			return i
		}
		pos += w
	}
	return len(line)
}

// StringWidth returns the cell width of s without tab expansion.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most w cells.
func Truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "")
}
