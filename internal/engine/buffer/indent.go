package buffer

import (
	"strings"

	"github.com/dshills/zorforge/internal/engine/history"
)

// IndentLine inserts tab-size spaces at the start of the current line. The
// cursor keeps its place in the text.
func (b *Buffer) IndentLine() {
	b.indentRows(b.cursor.Row, b.cursor.Row)
}

// DedentLine removes up to tab-size leading whitespace runes from the
// current line. It returns false if the line has no leading whitespace.
func (b *Buffer) DedentLine() bool {
	return b.dedentRows(b.cursor.Row, b.cursor.Row)
}

// IndentSelection indents every row touched by the selection, or the
// current line without one.
func (b *Buffer) IndentSelection() {
	first, last := b.selectedRows()
	b.indentRows(first, last)
}

// DedentSelection dedents every row touched by the selection, or the
// current line without one.
func (b *Buffer) DedentSelection() bool {
	first, last := b.selectedRows()
	return b.dedentRows(first, last)
}

func (b *Buffer) selectedRows() (int, int) {
	sel, ok := b.Selection()
	if !ok {
		return b.cursor.Row, b.cursor.Row
	}
	return sel.Start.Row, sel.End.Row
}

func (b *Buffer) indentRows(first, last int) {
	pad := strings.Repeat(" ", b.tabSize)
	b.edit(func() {
		for row := first; row <= last; row++ {
			b.apply(history.Insert(Position{Row: row}, pad))
		}
		if b.cursor.Row >= first && b.cursor.Row <= last {
			b.cursor.Col += b.tabSize
		}
		b.shiftAnchor(first, last, b.tabSize, nil)
	})
}

func (b *Buffer) dedentRows(first, last int) bool {
	removed := make(map[int]int)
	b.edit(func() {
		for row := first; row <= last; row++ {
			line := b.lines[row]
			n := 0
			for n < len(line) && n < b.tabSize && (line[n] == ' ' || line[n] == '\t') {
				n++
			}
			if n == 0 {
				continue
			}
			b.apply(history.Delete(Position{Row: row}, string(line[:n])))
			removed[row] = n
		}
		if n, ok := removed[b.cursor.Row]; ok {
			b.cursor.Col = max(0, b.cursor.Col-n)
		}
		b.shiftAnchor(first, last, 0, removed)
	})
	return len(removed) > 0
}

// shiftAnchor keeps the selection anchor on the same text after an indent
// (delta) or dedent (removed per row).
func (b *Buffer) shiftAnchor(first, last, delta int, removed map[int]int) {
	if !b.hasAnchor || b.anchor.Row < first || b.anchor.Row > last {
		return
	}
	if removed != nil {
		delta = -removed[b.anchor.Row]
	}
	b.anchor.Col = max(0, b.anchor.Col+delta)
}
