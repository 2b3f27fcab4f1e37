package buffer

import (
	"strings"

	"github.com/dshills/zorforge/internal/engine/history"
)

// SelectionMode governs how the anchor and cursor map to a region.
type SelectionMode uint8

const (
	// SelectionChar selects the span between anchor and cursor.
	SelectionChar SelectionMode = iota

	// SelectionLine selects whole lines.
	SelectionLine

	// SelectionBlock selects the same column range on every row.
	SelectionBlock
)

// String returns the mode's name.
func (m SelectionMode) String() string {
	switch m {
	case SelectionChar:
		return "char"
	case SelectionLine:
		return "line"
	case SelectionBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Selection is a normalized selected region. End is exclusive: for
// SelectionChar it is the position after the last selected rune, for
// SelectionBlock the column after the block, and for SelectionLine the end
// of the last selected line.
type Selection struct {
	Start Position
	End   Position
	Mode  SelectionMode
}

// Contains reports whether the cell at (row, col) is inside the selection.
func (s Selection) Contains(row, col int) bool {
	if row < s.Start.Row || row > s.End.Row {
		return false
	}
	switch s.Mode {
	case SelectionLine:
		return true
	case SelectionBlock:
		return col >= s.Start.Col && col < s.End.Col
	default:
		pos := Position{Row: row, Col: col}
		return !pos.Less(s.Start) && pos.Less(s.End)
	}
}

// StartVisual anchors a selection at the cursor.
func (b *Buffer) StartVisual(mode SelectionMode) {
	b.anchor = b.cursor
	b.hasAnchor = true
	b.visualMode = mode
}

// SetVisualMode changes how the selection is interpreted without moving
// the anchor.
func (b *Buffer) SetVisualMode(mode SelectionMode) {
	b.visualMode = mode
}

// VisualMode returns the current selection mode.
func (b *Buffer) VisualMode() SelectionMode {
	return b.visualMode
}

// SetVisualStart moves the anchor to pos, clamped, and activates the
// selection.
func (b *Buffer) SetVisualStart(pos Position) {
	b.anchor = b.clamp(pos)
	b.hasAnchor = true
}

// VisualStart returns the selection anchor.
func (b *Buffer) VisualStart() (Position, bool) {
	return b.anchor, b.hasAnchor
}

// ClearVisual drops the selection.
func (b *Buffer) ClearVisual() {
	b.hasAnchor = false
}

// HasSelection returns true if a selection is active.
func (b *Buffer) HasSelection() bool {
	return b.hasAnchor
}

// Selection returns the normalized selection computed from the anchor and
// the cursor.
func (b *Buffer) Selection() (Selection, bool) {
	if !b.hasAnchor {
		return Selection{}, false
	}
	a, c := b.anchor, b.cursor
	startRow, endRow := min(a.Row, c.Row), max(a.Row, c.Row)

	switch b.visualMode {
	case SelectionLine:
		return Selection{
			Start: Position{Row: startRow},
			End:   Position{Row: endRow, Col: len(b.lines[endRow])},
			Mode:  SelectionLine,
		}, true
	case SelectionBlock:
		return Selection{
			Start: Position{Row: startRow, Col: min(a.Col, c.Col)},
			End:   Position{Row: endRow, Col: max(a.Col, c.Col)},
			Mode:  SelectionBlock,
		}, true
	default:
		start, end := a, c
		if end.Less(start) {
			start, end = end, start
		}
		return Selection{Start: start, End: end, Mode: SelectionChar}, true
	}
}

// SelectedText returns the selected text. Rows are joined by line breaks;
// in block mode rows shorter than the block contribute what they have.
func (b *Buffer) SelectedText() (string, bool) {
	sel, ok := b.Selection()
	if !ok {
		return "", false
	}
	return b.regionText(sel), true
}

func (b *Buffer) regionText(sel Selection) string {
	var parts []string
	for row := sel.Start.Row; row <= sel.End.Row; row++ {
		line := b.lines[row]
		switch sel.Mode {
		case SelectionLine:
			parts = append(parts, string(line))
		case SelectionBlock:
			parts = append(parts, string(line[min(sel.Start.Col, len(line)):min(sel.End.Col, len(line))]))
		default:
			from, to := 0, len(line)
			if row == sel.Start.Row {
				from = sel.Start.Col
			}
			if row == sel.End.Row {
				to = sel.End.Col
			}
			parts = append(parts, string(line[from:to]))
		}
	}
	return strings.Join(parts, "\n")
}

// YankSelection copies the selection to the clipboard. Line selections are
// yanked linewise.
func (b *Buffer) YankSelection() bool {
	sel, ok := b.Selection()
	if !ok {
		return false
	}
	text := b.regionText(sel)
	if sel.Mode == SelectionLine {
		text += "\n"
	}
	b.yank(text)
	return true
}

// DeleteSelection removes the selection, leaves the cursor at its start and
// ends visual selection.
func (b *Buffer) DeleteSelection() bool {
	sel, ok := b.Selection()
	if !ok {
		return false
	}
	b.edit(func() {
		b.deleteRegion(sel)
	})
	b.ClearVisual()
	return true
}

// CutSelection yanks the selection then deletes it.
func (b *Buffer) CutSelection() bool {
	if !b.YankSelection() {
		return false
	}
	return b.DeleteSelection()
}

// deleteRegion removes sel inside an open edit.
func (b *Buffer) deleteRegion(sel Selection) {
	switch sel.Mode {
	case SelectionLine:
		b.deleteRows(sel.Start.Row, sel.End.Row)
		return

	case SelectionBlock:
		for row := sel.Start.Row; row <= sel.End.Row; row++ {
			line := b.lines[row]
			if sel.Start.Col >= len(line) {
				continue
			}
			cut := line[sel.Start.Col:min(sel.End.Col, len(line))]
			b.apply(history.Delete(Position{Row: row, Col: sel.Start.Col}, string(cut)))
		}

	default:
		start := sel.Start
		first := b.lines[start.Row]
		if sel.End.Row == start.Row {
			b.apply(history.Delete(start, string(first[start.Col:sel.End.Col])))
			break
		}
		b.apply(history.Delete(start, string(first[start.Col:])))
		for row := start.Row + 1; row <= sel.End.Row; row++ {
			next := b.lines[start.Row+1]
			b.apply(history.DeleteLine(start, string(next)))
			cut := len(next)
			if row == sel.End.Row {
				cut = sel.End.Col
			}
			b.apply(history.Delete(start, string(next[:cut])))
		}
	}
	b.cursor = b.clamp(sel.Start)
}

// PasteOverSelection replaces the selection with the clipboard's most
// recent entry. The replaced text is not yanked.
func (b *Buffer) PasteOverSelection() bool {
	text, ok := b.peek()
	if !ok {
		return false
	}
	return b.ReplaceSelection(text)
}

// ReplaceSelection replaces the selection with text as one undoable unit.
// In block mode a single-line text is written on every selected row and
// multi-line text is laid out one line per row.
func (b *Buffer) ReplaceSelection(text string) bool {
	sel, ok := b.Selection()
	if !ok {
		return false
	}
	payload := strings.ReplaceAll(text, "\r\n", "\n")

	b.edit(func() {
		switch sel.Mode {
		case SelectionBlock:
			b.deleteRegion(sel)
			b.writeBlock(sel.Start, sel.End.Row, strings.Split(payload, "\n"))
		case SelectionLine:
			parts := strings.Split(strings.TrimSuffix(payload, "\n"), "\n")
			for i, part := range parts {
				row := sel.Start.Row + i
				b.apply(history.NewLine(Position{Row: row}, string(b.lines[row])))
				b.apply(history.Insert(Position{Row: row}, part))
			}
			n := len(parts)
			b.deleteRows(sel.Start.Row+n, sel.End.Row+n)
			b.cursor = Position{Row: sel.Start.Row}
		default:
			b.deleteRegion(sel)
			b.insertLocked(payload)
		}
	})
	b.ClearVisual()
	return true
}

// InsertBlock inserts text at the block's start column on every selected
// row, padding short rows with spaces. Outside block mode it inserts at the
// selection start.
func (b *Buffer) InsertBlock(text string) bool {
	sel, ok := b.Selection()
	if !ok || text == "" {
		return false
	}
	b.edit(func() {
		if sel.Mode != SelectionBlock {
			b.cursor = b.clamp(sel.Start)
			b.insertLocked(text)
			return
		}
		b.writeBlock(sel.Start, sel.End.Row, []string{text})
	})
	b.ClearVisual()
	return true
}

// writeBlock writes parts at column start.Col on rows start.Row..lastRow.
// A single part repeats on every row; otherwise part i goes to row
// start.Row+i. Rows shorter than the column are padded with spaces.
func (b *Buffer) writeBlock(start Position, lastRow int, parts []string) {
	for row := start.Row; row <= lastRow; row++ {
		part := parts[0]
		if len(parts) > 1 {
			i := row - start.Row
			if i >= len(parts) {
				break
			}
			part = parts[i]
		}
		if part == "" {
			continue
		}
		if n := len(b.lines[row]); n < start.Col {
			b.apply(history.Insert(Position{Row: row, Col: n}, strings.Repeat(" ", start.Col-n)))
		}
		b.apply(history.Insert(Position{Row: row, Col: start.Col}, part))
	}
	b.cursor = b.clamp(start)
}
