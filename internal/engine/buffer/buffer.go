package buffer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/zorforge/internal/engine/clipboard"
	"github.com/dshills/zorforge/internal/engine/history"
)

// Position is a (row, column) location; columns count runes.
type Position = history.Position

// Buffer is a mutable line-oriented document with cursor, visual
// selection, search state and undo/redo history.
type Buffer struct {
	lines  [][]rune
	cursor Position

	// Visual selection anchor; valid iff hasAnchor.
	anchor     Position
	hasAnchor  bool
	visualMode SelectionMode

	search searchState

	log       *history.Log
	lastSaved uint64
	before    Position // cursor at the start of the open edit

	tabSize    int
	maxUndo    int
	lineEnding LineEnding
	clipboard  *clipboard.Clipboard
}

// New creates a buffer holding a single empty line.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lines:   [][]rune{{}},
		tabSize: DefaultTabSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = history.NewLog(b.maxUndo)
	return b
}

// NewFromText creates a buffer holding text. Loading is not undoable and
// the new buffer is clean. The line ending style is detected from text
// unless an option overrides it.
func NewFromText(text string, opts ...Option) *Buffer {
	opts = append([]Option{WithLineEnding(DetectLineEnding(text))}, opts...)
	return NewFromLines(SplitLines(text), opts...)
}

// NewFromLines creates a buffer holding lines. Loading is not undoable and
// the new buffer is clean.
func NewFromLines(lines []string, opts ...Option) *Buffer {
	b := New(opts...)
	if len(lines) > 0 {
		b.lines = make([][]rune, len(lines))
		for i, l := range lines {
			b.lines[i] = []rune(l)
		}
	}
	return b
}

// LineCount returns the number of lines. It is always at least 1.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the text of row i. It panics if i is out of range.
func (b *Buffer) Line(i int) string {
	b.checkRow(i)
	return string(b.lines[i])
}

// LineLen returns the length of row i in runes. It panics if i is out of range.
func (b *Buffer) LineLen(i int) int {
	b.checkRow(i)
	return len(b.lines[i])
}

// LineRunes returns a copy of row i. It panics if i is out of range.
func (b *Buffer) LineRunes(i int) []rune {
	b.checkRow(i)
	return append([]rune(nil), b.lines[i]...)
}

// Lines returns a copy of the content, one string per line.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// Text returns the content joined by the buffer's line ending.
func (b *Buffer) Text() string {
	return strings.Join(b.Lines(), b.lineEnding.Sequence())
}

// LineEnding returns the line ending used by Text.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// IsEmpty returns true if the buffer is a single empty line.
func (b *Buffer) IsEmpty() bool {
	return len(b.lines) == 1 && len(b.lines[0]) == 0
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() Position {
	return b.cursor
}

// SetCursor moves the cursor to pos, clamped to the document.
func (b *Buffer) SetCursor(pos Position) {
	b.cursor = b.clamp(pos)
}

// CharBeforeCursor returns the rune immediately left of the cursor.
func (b *Buffer) CharBeforeCursor() (rune, bool) {
	if b.cursor.Col == 0 {
		return 0, false
	}
	return b.lines[b.cursor.Row][b.cursor.Col-1], true
}

// CharAtCursor returns the rune under the cursor.
func (b *Buffer) CharAtCursor() (rune, bool) {
	line := b.lines[b.cursor.Row]
	if b.cursor.Col >= len(line) {
		return 0, false
	}
	return line[b.cursor.Col], true
}

// TabSize returns the indent width.
func (b *Buffer) TabSize() int {
	return b.tabSize
}

// SetTabSize changes the indent width. Non-positive values are ignored.
func (b *Buffer) SetTabSize(size int) {
	if size > 0 {
		b.tabSize = size
	}
}

// Clipboard returns the attached clipboard, or nil.
func (b *Buffer) Clipboard() *clipboard.Clipboard {
	return b.clipboard
}

// SetClipboard attaches c for cut, yank and paste operations.
func (b *Buffer) SetClipboard(c *clipboard.Clipboard) {
	b.clipboard = c
}

// HasUnsavedChanges reports whether the content differs from the last
// saved state, judged by the id of the most recent change record.
func (b *Buffer) HasUnsavedChanges() bool {
	return b.log.TopID() != b.lastSaved
}

// MarkSaved records the current state as the clean baseline.
func (b *Buffer) MarkSaved() {
	b.lastSaved = b.log.TopID()
}

// CanUndo returns true if undo is available.
func (b *Buffer) CanUndo() bool {
	return b.log.CanUndo()
}

// CanRedo returns true if redo is available.
func (b *Buffer) CanRedo() bool {
	return b.log.CanRedo()
}

// Undo reverts the most recent change and restores the cursor held before
// it. It returns false if there was nothing to undo.
func (b *Buffer) Undo() bool {
	rec, ok := b.log.Undo(b.cursor)
	if !ok {
		return false
	}
	b.restore(rec)
	return true
}

// Redo reapplies the most recently undone change. It returns false if there
// was nothing to redo.
func (b *Buffer) Redo() bool {
	rec, ok := b.log.Redo(b.cursor)
	if !ok {
		return false
	}
	b.restore(rec)
	return true
}

func (b *Buffer) restore(rec history.Record) {
	b.lines = rec.Change.Invert().Apply(b.lines)
	b.cursor = b.clamp(rec.Cursor)
	b.clampAnchor()
	b.refreshSearch()
}

// edit runs fn as one undoable unit and refreshes derived state afterwards.
// Every step fn applies through b.apply lands in a single change record
// carrying the cursor from before the outermost edit.
func (b *Buffer) edit(fn func()) {
	if !b.log.IsGrouping() {
		b.before = b.cursor
	}
	b.log.BeginGroup()
	fn()
	b.log.EndGroup()
	if !b.log.IsGrouping() {
		b.clampAnchor()
		b.refreshSearch()
	}
}

// apply performs one structural step inside an edit.
func (b *Buffer) apply(c history.Change) {
	if c.IsNoop() {
		return
	}
	b.lines = c.Apply(b.lines)
	b.log.Push(c, b.before)
}

func (b *Buffer) checkRow(row int) {
	if row < 0 || row >= len(b.lines) {
		panic(fmt.Sprintf("buffer: row %d out of range [0,%d)", row, len(b.lines)))
	}
}

func (b *Buffer) clamp(pos Position) Position {
	if pos.Row < 0 {
		pos.Row = 0
	}
	if pos.Row >= len(b.lines) {
		pos.Row = len(b.lines) - 1
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	if n := len(b.lines[pos.Row]); pos.Col > n {
		pos.Col = n
	}
	return pos
}

func (b *Buffer) clampAnchor() {
	if b.hasAnchor {
		b.anchor = b.clamp(b.anchor)
	}
}

// indentation returns the leading whitespace of row.
func (b *Buffer) indentation(row int) string {
	line := b.lines[row]
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return string(line[:n])
}

func isBlank(line []rune) bool {
	for _, r := range line {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
