package buffer

import "unicode"

// Direction is a cursor motion.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
	FileStart
	FileEnd
)

// String returns the direction's name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	case LineStart:
		return "line-start"
	case LineEnd:
		return "line-end"
	case FileStart:
		return "file-start"
	case FileEnd:
		return "file-end"
	default:
		return "unknown"
	}
}

// MoveCursor moves the cursor one step in d. Vertical moves keep the column
// where the target line is long enough and clamp it otherwise. It returns
// false if the cursor did not move.
func (b *Buffer) MoveCursor(d Direction) bool {
	prev := b.cursor
	pos := b.cursor
	switch d {
	case Left:
		if pos.Col > 0 {
			pos.Col--
		}
	case Right:
		if pos.Col < len(b.lines[pos.Row]) {
			pos.Col++
		}
	case Up:
		if pos.Row > 0 {
			pos.Row--
		}
	case Down:
		if pos.Row < len(b.lines)-1 {
			pos.Row++
		}
	case LineStart:
		pos.Col = 0
	case LineEnd:
		pos.Col = len(b.lines[pos.Row])
	case FileStart:
		pos = Position{}
	case FileEnd:
		last := len(b.lines) - 1
		pos = Position{Row: last, Col: len(b.lines[last])}
	}
	b.cursor = b.clamp(pos)
	return b.cursor != prev
}

// MovePageUp moves the cursor up by n rows.
func (b *Buffer) MovePageUp(n int) {
	b.cursor = b.clamp(Position{Row: b.cursor.Row - n, Col: b.cursor.Col})
}

// MovePageDown moves the cursor down by n rows.
func (b *Buffer) MovePageDown(n int) {
	b.cursor = b.clamp(Position{Row: b.cursor.Row + n, Col: b.cursor.Col})
}

// GotoLine moves the cursor to the start of 1-based line n, clamped.
func (b *Buffer) GotoLine(n int) {
	b.cursor = b.clamp(Position{Row: n - 1})
}

// MoveWordForward skips the rest of the current word and the whitespace
// after it, landing on the next word's first rune or the end of the line.
// Motion stays within the current line.
func (b *Buffer) MoveWordForward() bool {
	line := b.lines[b.cursor.Row]
	col := b.cursor.Col
	for col < len(line) && !isSpace(line[col]) {
		col++
	}
	for col < len(line) && isSpace(line[col]) {
		col++
	}
	moved := col != b.cursor.Col
	b.cursor.Col = col
	return moved
}

// MoveWordBackward scans left from the cursor past the rest of the current
// word and the whitespace before it, landing on the last rune of the
// previous word, or column 0 if there is none. Motion stays within the
// current line.
func (b *Buffer) MoveWordBackward() bool {
	line := b.lines[b.cursor.Row]
	if b.cursor.Col == 0 {
		return false
	}
	i := b.cursor.Col - 1
	for i >= 0 && !isSpace(line[i]) {
		i--
	}
	for i >= 0 && isSpace(line[i]) {
		i--
	}
	b.cursor.Col = max(i, 0)
	return true
}

// PrepareAppend moves the cursor one right unless the line is empty ('a').
func (b *Buffer) PrepareAppend() {
	if len(b.lines[b.cursor.Row]) > 0 {
		b.MoveCursor(Right)
	}
}

// PrepareAppendEndOfLine moves the cursor to the end of the line ('A').
func (b *Buffer) PrepareAppendEndOfLine() {
	b.cursor.Col = len(b.lines[b.cursor.Row])
}

// PrepareInsertStartOfLine moves the cursor to the first non-whitespace
// rune of the line, or column 0 if there is none ('I').
func (b *Buffer) PrepareInsertStartOfLine() {
	line := b.lines[b.cursor.Row]
	b.cursor.Col = 0
	for i, r := range line {
		if !isSpace(r) {
			b.cursor.Col = i
			return
		}
	}
}

type charClass uint8

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classify(r rune) charClass {
	switch {
	case isSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	default:
		return classPunct
	}
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
