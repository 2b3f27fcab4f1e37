package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectRange(b *Buffer, mode SelectionMode, from, to Position) {
	b.SetCursor(from)
	b.StartVisual(mode)
	b.SetCursor(to)
}

func TestSelectCharDeleteSingleLine(t *testing.T) {
	b := newBuf("abc")
	selectRange(b, SelectionChar, at(0, 0), at(0, 3))

	text, ok := b.SelectedText()
	require.True(t, ok)
	assert.Equal(t, "abc", text)

	require.True(t, b.DeleteSelection())
	assert.Equal(t, []string{""}, b.Lines())
	assert.Equal(t, at(0, 0), b.Cursor())
	assert.False(t, b.HasSelection())
}

func TestSelectionNormalization(t *testing.T) {
	b := newBuf("abcdef", "ghijkl", "mnopqr")

	// Cursor before anchor on a single row.
	selectRange(b, SelectionChar, at(0, 4), at(0, 1))
	sel, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, at(0, 1), sel.Start)
	assert.Equal(t, at(0, 4), sel.End)

	// Multi-row: each column travels with its row.
	selectRange(b, SelectionChar, at(2, 1), at(0, 4))
	sel, _ = b.Selection()
	assert.Equal(t, at(0, 4), sel.Start)
	assert.Equal(t, at(2, 1), sel.End)
	text, _ := b.SelectedText()
	assert.Equal(t, "ef\nghijkl\nm", text)

	b.SetVisualMode(SelectionLine)
	text, _ = b.SelectedText()
	assert.Equal(t, "abcdef\nghijkl\nmnopqr", text)

	b.SetVisualMode(SelectionBlock)
	sel, _ = b.Selection()
	assert.Equal(t, at(0, 1), sel.Start)
	assert.Equal(t, at(2, 4), sel.End)
	text, _ = b.SelectedText()
	assert.Equal(t, "bcd\nhij\nnop", text)
}

func TestSelectionContains(t *testing.T) {
	char := Selection{Start: at(0, 2), End: at(1, 1), Mode: SelectionChar}
	assert.False(t, char.Contains(0, 1))
	assert.True(t, char.Contains(0, 5))
	assert.True(t, char.Contains(1, 0))
	assert.False(t, char.Contains(1, 1))

	block := Selection{Start: at(0, 2), End: at(2, 4), Mode: SelectionBlock}
	assert.True(t, block.Contains(1, 3))
	assert.False(t, block.Contains(1, 4))
	assert.False(t, block.Contains(3, 3))

	line := Selection{Start: at(1, 0), End: at(1, 3), Mode: SelectionLine}
	assert.True(t, line.Contains(1, 40))
}

func TestDeleteSelectionCharMultiLine(t *testing.T) {
	b := newBuf("abc", "def", "ghi")
	selectRange(b, SelectionChar, at(0, 1), at(2, 1))
	require.True(t, b.DeleteSelection())
	assert.Equal(t, []string{"ahi"}, b.Lines())
	assert.Equal(t, at(0, 1), b.Cursor())

	require.True(t, b.Undo())
	assert.Equal(t, []string{"abc", "def", "ghi"}, b.Lines())
	assert.False(t, b.CanUndo(), "selection delete is one undo unit")
}

func TestDeleteSelectionLine(t *testing.T) {
	tests := []struct {
		name     string
		from, to Position
		want     []string
		cursor   Position
	}{
		{"middle", at(1, 2), at(2, 0), []string{"a", "d"}, at(1, 0)},
		{"first", at(0, 1), at(1, 0), []string{"c", "d"}, at(0, 0)},
		{"tail", at(3, 0), at(2, 0), []string{"a", "b"}, at(1, 0)},
		{"all", at(0, 0), at(3, 0), []string{""}, at(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuf("a", "b", "c", "d")
			selectRange(b, SelectionLine, tt.from, tt.to)
			require.True(t, b.DeleteSelection())
			assert.Equal(t, tt.want, b.Lines())
			assert.Equal(t, tt.cursor, b.Cursor())

			require.True(t, b.Undo())
			assert.Equal(t, []string{"a", "b", "c", "d"}, b.Lines())
			assert.Equal(t, tt.to, b.Cursor())
		})
	}
}

func TestDeleteSelectionBlock(t *testing.T) {
	b := newBuf("abcdef", "gh", "ijklmn")
	selectRange(b, SelectionBlock, at(0, 1), at(2, 4))
	require.True(t, b.DeleteSelection())
	assert.Equal(t, []string{"aef", "g", "imn"}, b.Lines())
	assert.Equal(t, at(0, 1), b.Cursor())

	b.Undo()
	assert.Equal(t, []string{"abcdef", "gh", "ijklmn"}, b.Lines())
}

func TestYankSelectionLineIsLinewise(t *testing.T) {
	b := newBuf("one", "two")
	selectRange(b, SelectionLine, at(0, 0), at(0, 2))
	require.True(t, b.YankSelection())
	got, _ := b.Clipboard().Peek()
	assert.Equal(t, "one\n", got)
	assert.True(t, b.HasSelection(), "yank keeps the selection")
}

func TestCutSelection(t *testing.T) {
	b := newBuf("hello world")
	selectRange(b, SelectionChar, at(0, 0), at(0, 6))
	require.True(t, b.CutSelection())
	assert.Equal(t, []string{"world"}, b.Lines())
	got, _ := b.Clipboard().Peek()
	assert.Equal(t, "hello ", got)
}

func TestPasteOverSelectionUsesSnapshot(t *testing.T) {
	b := newBuf("one two three")
	b.Clipboard().Yank("TWO")
	selectRange(b, SelectionChar, at(0, 4), at(0, 7))
	require.True(t, b.PasteOverSelection())
	assert.Equal(t, []string{"one TWO three"}, b.Lines())

	got, _ := b.Clipboard().Peek()
	assert.Equal(t, "TWO", got, "replaced text is not yanked")
	assert.Equal(t, 1, b.Clipboard().Len())

	require.True(t, b.Undo())
	assert.Equal(t, []string{"one two three"}, b.Lines())
	assert.False(t, b.CanUndo(), "paste over selection is one undo unit")
}

func TestPasteOverSelectionEmptyClipboard(t *testing.T) {
	b := newBuf("abc")
	selectRange(b, SelectionChar, at(0, 0), at(0, 2))
	assert.False(t, b.PasteOverSelection())
	assert.Equal(t, []string{"abc"}, b.Lines())
}

func TestReplaceSelectionLine(t *testing.T) {
	b := newBuf("a", "b", "c", "d")
	selectRange(b, SelectionLine, at(1, 0), at(2, 0))
	require.True(t, b.ReplaceSelection("X\nY\nZ\n"))
	assert.Equal(t, []string{"a", "X", "Y", "Z", "d"}, b.Lines())
	assert.Equal(t, at(1, 0), b.Cursor())

	b.Undo()
	assert.Equal(t, []string{"a", "b", "c", "d"}, b.Lines())

	selectRange(b, SelectionLine, at(2, 0), at(3, 0))
	require.True(t, b.ReplaceSelection("Q"))
	assert.Equal(t, []string{"a", "b", "Q"}, b.Lines())
}

func TestReplaceSelectionBlock(t *testing.T) {
	b := newBuf("abcd", "a", "abcd")
	selectRange(b, SelectionBlock, at(0, 2), at(2, 3))
	require.True(t, b.ReplaceSelection("X"))
	assert.Equal(t, []string{"abXd", "a X", "abXd"}, b.Lines())

	b = newBuf("abcd", "efgh", "ijkl")
	selectRange(b, SelectionBlock, at(0, 1), at(2, 2))
	require.True(t, b.ReplaceSelection("1\n2"))
	assert.Equal(t, []string{"a1cd", "e2gh", "ikl"}, b.Lines())
}

func TestInsertBlockPadsShortRows(t *testing.T) {
	b := newBuf("abcdef", "ab", "abcdef")
	selectRange(b, SelectionBlock, at(0, 4), at(2, 4))
	require.True(t, b.InsertBlock("--"))
	assert.Equal(t, []string{"abcd--ef", "ab  --", "abcd--ef"}, b.Lines())
	assert.Equal(t, at(0, 4), b.Cursor())

	b.Undo()
	assert.Equal(t, []string{"abcdef", "ab", "abcdef"}, b.Lines())
}

func TestSelectionClampedAfterUndo(t *testing.T) {
	b := newBuf("abc")
	b.SetCursor(at(0, 3))
	b.InsertText("\nlong line")
	b.StartVisual(SelectionChar)
	b.Undo()
	start, ok := b.VisualStart()
	require.True(t, ok)
	assert.Equal(t, at(0, 3), start)
}
