package buffer

import (
	"strings"

	"github.com/dshills/zorforge/internal/engine/history"
)

// InsertChar inserts r at the cursor and advances the cursor by one.
// A line break rune splits the line instead.
func (b *Buffer) InsertChar(r rune) {
	if r == '\n' || r == '\r' {
		b.InsertNewline()
		return
	}
	b.edit(func() {
		b.apply(history.Insert(b.cursor, string(r)))
		b.cursor.Col++
	})
}

// InsertText inserts text at the cursor, splitting lines at line breaks.
// The cursor ends just after the inserted text.
func (b *Buffer) InsertText(text string) {
	if text == "" {
		return
	}
	b.edit(func() {
		b.insertLocked(text)
	})
}

// insertLocked inserts possibly multi-line text at the cursor inside an
// open edit.
func (b *Buffer) insertLocked(text string) {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, part := range parts {
		if i > 0 {
			tail := string(b.lines[b.cursor.Row][b.cursor.Col:])
			b.apply(history.NewLine(b.cursor, tail))
			b.cursor = Position{Row: b.cursor.Row + 1}
		}
		if part != "" {
			b.apply(history.Insert(b.cursor, part))
			b.cursor.Col += len([]rune(part))
		}
	}
}

// PasteAtCursor inserts text at the cursor, continuing each following line
// with the indentation of the line it splits from.
func (b *Buffer) PasteAtCursor(text string) {
	if text == "" {
		return
	}
	b.edit(func() {
		parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
		for i, part := range parts {
			if i > 0 {
				b.newlineLocked(true)
			}
			if part != "" {
				b.apply(history.Insert(b.cursor, part))
				b.cursor.Col += len([]rune(part))
			}
		}
	})
}

// InsertNewline splits the current line at the cursor. The cursor moves to
// the start of the new line.
func (b *Buffer) InsertNewline() {
	b.edit(func() {
		b.newlineLocked(false)
	})
}

// InsertNewlineAutoIndent splits the current line at the cursor; the new
// line starts with the current line's indentation followed by the text
// that was after the cursor. The cursor lands after the indentation.
func (b *Buffer) InsertNewlineAutoIndent() {
	b.edit(func() {
		b.newlineLocked(true)
	})
}

func (b *Buffer) newlineLocked(indent bool) {
	prefix := ""
	if indent {
		prefix = b.indentation(b.cursor.Row)
	}
	tail := string(b.lines[b.cursor.Row][b.cursor.Col:])
	b.apply(history.NewLine(b.cursor, tail))
	b.cursor = Position{Row: b.cursor.Row + 1}
	if prefix != "" {
		b.apply(history.Insert(b.cursor, prefix))
		b.cursor.Col = len([]rune(prefix))
	}
}

// InsertLineBelow opens a new line below the current one carrying the
// current line's indentation ('o'). The cursor lands after the indentation.
func (b *Buffer) InsertLineBelow() {
	row := b.cursor.Row
	prefix := b.indentation(row)
	b.edit(func() {
		at := Position{Row: row, Col: len(b.lines[row])}
		b.apply(history.NewLine(at, ""))
		b.cursor = Position{Row: row + 1}
		if prefix != "" {
			b.apply(history.Insert(b.cursor, prefix))
			b.cursor.Col = len([]rune(prefix))
		}
	})
}

// InsertLineAbove opens a new line above the current one carrying the
// current line's indentation ('O'). The cursor lands after the indentation.
func (b *Buffer) InsertLineAbove() {
	row := b.cursor.Row
	prefix := b.indentation(row)
	b.edit(func() {
		at := Position{Row: row, Col: 0}
		b.apply(history.NewLine(at, string(b.lines[row])))
		b.cursor = Position{Row: row}
		if prefix != "" {
			b.apply(history.Insert(b.cursor, prefix))
			b.cursor.Col = len([]rune(prefix))
		}
	})
}

// InsertCharReplace overwrites the rune under the cursor with r and
// advances ('R'). At the end of the line it appends.
func (b *Buffer) InsertCharReplace(r rune) {
	if r == '\n' || r == '\r' {
		b.InsertNewline()
		return
	}
	b.edit(func() {
		line := b.lines[b.cursor.Row]
		if b.cursor.Col < len(line) {
			b.apply(history.Delete(b.cursor, string(line[b.cursor.Col])))
		}
		b.apply(history.Insert(b.cursor, string(r)))
		b.cursor.Col++
	})
}

// DeleteChar deletes the rune before the cursor (Backspace). At the start
// of a line it joins the line onto the previous one. It returns false at
// the start of the document.
func (b *Buffer) DeleteChar() bool {
	pos := b.cursor
	switch {
	case pos.Col > 0:
		b.edit(func() {
			b.apply(history.Delete(Position{Row: pos.Row, Col: pos.Col - 1}, string(b.lines[pos.Row][pos.Col-1])))
			b.cursor.Col--
		})
	case pos.Row > 0:
		b.edit(func() {
			col := b.joinLocked(pos.Row - 1)
			b.cursor = Position{Row: pos.Row - 1, Col: col}
		})
	default:
		return false
	}
	return true
}

// DeleteCharForward deletes the rune under the cursor (Delete). At the end
// of a line it joins the next line onto this one. The cursor stays put. It
// returns false at the end of the document.
func (b *Buffer) DeleteCharForward() bool {
	pos := b.cursor
	line := b.lines[pos.Row]
	switch {
	case pos.Col < len(line):
		b.edit(func() {
			b.apply(history.Delete(pos, string(line[pos.Col])))
		})
	case pos.Row < len(b.lines)-1:
		b.edit(func() {
			b.joinLocked(pos.Row)
		})
	default:
		return false
	}
	return true
}

// joinLocked joins row+1 onto row and returns the join column.
func (b *Buffer) joinLocked(row int) int {
	col := len(b.lines[row])
	b.apply(history.DeleteLine(Position{Row: row, Col: col}, string(b.lines[row+1])))
	return col
}

// DeleteWordBackward deletes from the start of the whitespace-delimited
// word before the cursor to the cursor (Ctrl-W), skipping whitespace
// first. At the start of a line it behaves like DeleteChar.
func (b *Buffer) DeleteWordBackward() bool {
	pos := b.cursor
	if pos.Col == 0 {
		return b.DeleteChar()
	}
	line := b.lines[pos.Row]
	start := pos.Col
	for start > 0 && isSpace(line[start-1]) {
		start--
	}
	for start > 0 && !isSpace(line[start-1]) {
		start--
	}
	b.edit(func() {
		b.apply(history.Delete(Position{Row: pos.Row, Col: start}, string(line[start:pos.Col])))
		b.cursor.Col = start
	})
	return true
}

// DeleteToLineStart deletes from the start of the line to the cursor
// (Ctrl-U). It returns false at column 0.
func (b *Buffer) DeleteToLineStart() bool {
	pos := b.cursor
	if pos.Col == 0 {
		return false
	}
	b.edit(func() {
		b.apply(history.Delete(Position{Row: pos.Row}, string(b.lines[pos.Row][:pos.Col])))
		b.cursor.Col = 0
	})
	return true
}

// CutChar removes the rune under the cursor and yanks it ('x'). At the end
// of a line it joins the next line without yanking. It returns false when
// nothing was removed.
func (b *Buffer) CutChar() bool {
	pos := b.cursor
	line := b.lines[pos.Row]
	if pos.Col < len(line) {
		b.yank(string(line[pos.Col]))
	}
	return b.DeleteCharForward()
}

// DeleteLine removes the current line. The last remaining line is emptied
// instead. The cursor moves to the start of the line that takes its place.
func (b *Buffer) DeleteLine() {
	b.deleteRows(b.cursor.Row, b.cursor.Row)
}

// CutLine yanks the current line, linewise, then deletes it ('dd').
func (b *Buffer) CutLine() {
	b.YankLine()
	b.DeleteLine()
}

// YankLine copies the current line to the clipboard as a linewise entry
// ('yy'). Linewise entries end with a line break.
func (b *Buffer) YankLine() {
	b.yank(string(b.lines[b.cursor.Row]) + "\n")
}

// Paste inserts the clipboard's most recent entry ('p'). Linewise entries
// open below the current line with the cursor on the first pasted line;
// other entries go after the rune under the cursor. It returns false if
// the clipboard is empty.
func (b *Buffer) Paste() bool {
	text, ok := b.peek()
	if !ok {
		return false
	}
	if strings.HasSuffix(text, "\n") {
		b.pasteLines(strings.TrimSuffix(text, "\n"))
		return true
	}
	b.edit(func() {
		if b.cursor.Col < len(b.lines[b.cursor.Row]) {
			b.cursor.Col++
		}
		b.insertLocked(text)
	})
	return true
}

// pasteLines opens the lines of text below the current row.
func (b *Buffer) pasteLines(text string) {
	row := b.cursor.Row
	b.edit(func() {
		for i, part := range strings.Split(text, "\n") {
			r := row + i
			b.apply(history.NewLine(Position{Row: r, Col: len(b.lines[r])}, ""))
			b.apply(history.Insert(Position{Row: r + 1}, part))
		}
		b.cursor = Position{Row: row + 1}
	})
}

// deleteRows removes rows [first, last] as one undoable unit, keeping at
// least one line. The cursor moves to column 0 of the row that now holds
// first, clamped to the document.
func (b *Buffer) deleteRows(first, last int) {
	b.checkRow(first)
	b.checkRow(last)
	count := last - first + 1
	b.edit(func() {
		if first > 0 {
			for i := 0; i < count; i++ {
				col := b.joinLocked(first - 1)
				b.apply(history.Delete(Position{Row: first - 1, Col: col}, string(b.lines[first-1][col:])))
			}
		} else {
			for i := 0; i < count; i++ {
				b.apply(history.Delete(Position{}, string(b.lines[0])))
				if len(b.lines) > 1 {
					b.apply(history.DeleteLine(Position{}, string(b.lines[1])))
				}
			}
		}
		b.cursor = b.clamp(Position{Row: first})
	})
}

func (b *Buffer) yank(text string) {
	if b.clipboard != nil {
		b.clipboard.Yank(text)
	}
}

func (b *Buffer) peek() (string, bool) {
	if b.clipboard == nil {
		return "", false
	}
	return b.clipboard.Peek()
}
