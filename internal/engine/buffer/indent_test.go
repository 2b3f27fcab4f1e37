package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndentLine(t *testing.T) {
	b := NewFromLines([]string{"code"}, WithTabSize(2))
	b.SetCursor(at(0, 1))
	b.IndentLine()
	assert.Equal(t, []string{"  code"}, b.Lines())
	assert.Equal(t, at(0, 3), b.Cursor())

	require.True(t, b.Undo())
	assert.Equal(t, []string{"code"}, b.Lines())
}

func TestDedentLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		col    int
		want   string
		cursor int
		ok     bool
	}{
		{"full tab", "      x", 6, "  x", 2, true},
		{"partial", "  x", 3, "x", 1, true},
		{"tab rune", "\tx", 1, "x", 0, true},
		{"cursor in whitespace", "    x", 1, "x", 0, true},
		{"nothing to remove", "x  ", 2, "x  ", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromLines([]string{tt.line}, WithTabSize(4))
			b.SetCursor(at(0, tt.col))
			assert.Equal(t, tt.ok, b.DedentLine())
			assert.Equal(t, []string{tt.want}, b.Lines())
			assert.Equal(t, tt.cursor, b.Cursor().Col)
			assert.Equal(t, tt.ok, b.CanUndo())
		})
	}
}

func TestIndentSelection(t *testing.T) {
	b := newBuf("a", "b", "c")
	selectRange(b, SelectionChar, at(0, 1), at(1, 0))
	b.IndentSelection()
	assert.Equal(t, []string{"    a", "    b", "c"}, b.Lines())

	start, _ := b.VisualStart()
	assert.Equal(t, at(0, 5), start, "anchor stays on the same text")
	assert.Equal(t, at(1, 4), b.Cursor())
	assert.True(t, b.HasSelection(), "indent keeps the selection")

	require.True(t, b.DedentSelection())
	assert.Equal(t, []string{"a", "b", "c"}, b.Lines())

	b.IndentSelection()
	b.Undo()
	assert.Equal(t, []string{"a", "b", "c"}, b.Lines(), "selection indent is one undo unit")
}

func TestDedentSelectionMixed(t *testing.T) {
	b := newBuf("  a", "b", "        c")
	selectRange(b, SelectionLine, at(0, 0), at(2, 0))
	require.True(t, b.DedentSelection())
	assert.Equal(t, []string{"a", "b", "    c"}, b.Lines())
}

func TestSetTabSize(t *testing.T) {
	b := New()
	b.SetTabSize(0)
	assert.Equal(t, DefaultTabSize, b.TabSize())
	b.SetTabSize(8)
	b.IndentLine()
	assert.Equal(t, []string{"        "}, b.Lines())
}
