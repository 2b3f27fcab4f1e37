package history

import "fmt"

// Position is a (row, column) location in a line store. Columns count runes.
type Position struct {
	Row int
	Col int
}

// Less reports whether p comes before q in document order.
func (p Position) Less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Kind identifies the variant of a Change.
type Kind uint8

const (
	// KindInsert inserts Text at Pos. Text never contains a line break.
	KindInsert Kind = iota

	// KindDelete removes Text starting at Pos. Text never contains a line break.
	KindDelete

	// KindNewLine splits row Pos.Row at Pos.Col. Text is the remainder moved
	// to the new row below.
	KindNewLine

	// KindDeleteLine joins row Pos.Row+1 onto row Pos.Row, whose length is
	// Pos.Col. Text is the joined row's content.
	KindDeleteLine

	// KindBatch applies Changes in order as one unit.
	KindBatch
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindNewLine:
		return "newline"
	case KindDeleteLine:
		return "deleteline"
	case KindBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Change is one invertible content mutation.
type Change struct {
	Kind    Kind
	Pos     Position
	Text    string
	Changes []Change // KindBatch only
}

// Insert returns a change inserting text at pos.
func Insert(pos Position, text string) Change {
	return Change{Kind: KindInsert, Pos: pos, Text: text}
}

// Delete returns a change removing text at pos.
func Delete(pos Position, text string) Change {
	return Change{Kind: KindDelete, Pos: pos, Text: text}
}

// NewLine returns a change splitting the line at pos; tail is the text that
// moves to the new line.
func NewLine(pos Position, tail string) Change {
	return Change{Kind: KindNewLine, Pos: pos, Text: tail}
}

// DeleteLine returns a change joining the line below pos.Row onto it; tail is
// the joined line's text and pos.Col the length of the upper line.
func DeleteLine(pos Position, tail string) Change {
	return Change{Kind: KindDeleteLine, Pos: pos, Text: tail}
}

// Batch returns a change applying changes in order.
func Batch(changes ...Change) Change {
	return Change{Kind: KindBatch, Changes: changes}
}

// IsNoop returns true if applying the change leaves content unchanged.
func (c Change) IsNoop() bool {
	switch c.Kind {
	case KindInsert, KindDelete:
		return c.Text == ""
	case KindBatch:
		for _, step := range c.Changes {
			if !step.IsNoop() {
				return false
			}
		}
		return true
	}
	return false
}

// Invert returns the change that undoes c.
func (c Change) Invert() Change {
	switch c.Kind {
	case KindInsert:
		return Delete(c.Pos, c.Text)
	case KindDelete:
		return Insert(c.Pos, c.Text)
	case KindNewLine:
		return DeleteLine(c.Pos, c.Text)
	case KindDeleteLine:
		return NewLine(c.Pos, c.Text)
	case KindBatch:
		inv := make([]Change, len(c.Changes))
		for i, step := range c.Changes {
			inv[len(c.Changes)-1-i] = step.Invert()
		}
		return Batch(inv...)
	}
	panic(fmt.Sprintf("history: invert unknown change kind %d", c.Kind))
}

// Apply applies c to lines and returns the resulting line store.
//
// Apply may modify lines in place. Positions outside the store are a
// programming error and cause a panic.
func (c Change) Apply(lines [][]rune) [][]rune {
	switch c.Kind {
	case KindInsert:
		line := lines[c.Pos.Row]
		text := []rune(c.Text)
		out := make([]rune, 0, len(line)+len(text))
		out = append(out, line[:c.Pos.Col]...)
		out = append(out, text...)
		out = append(out, line[c.Pos.Col:]...)
		lines[c.Pos.Row] = out

	case KindDelete:
		line := lines[c.Pos.Row]
		end := c.Pos.Col + len([]rune(c.Text))
		out := make([]rune, 0, len(line)-(end-c.Pos.Col))
		out = append(out, line[:c.Pos.Col]...)
		out = append(out, line[end:]...)
		lines[c.Pos.Row] = out

	case KindNewLine:
		line := lines[c.Pos.Row]
		head := append([]rune(nil), line[:c.Pos.Col]...)
		tail := append([]rune(nil), line[c.Pos.Col:]...)
		lines = append(lines, nil)
		copy(lines[c.Pos.Row+2:], lines[c.Pos.Row+1:])
		lines[c.Pos.Row] = head
		lines[c.Pos.Row+1] = tail

	case KindDeleteLine:
		upper := lines[c.Pos.Row]
		lower := lines[c.Pos.Row+1]
		joined := make([]rune, 0, len(upper)+len(lower))
		joined = append(joined, upper...)
		joined = append(joined, lower...)
		lines[c.Pos.Row] = joined
		lines = append(lines[:c.Pos.Row+1], lines[c.Pos.Row+2:]...)

	case KindBatch:
		for _, step := range c.Changes {
			lines = step.Apply(lines)
		}

	default:
		panic(fmt.Sprintf("history: apply unknown change kind %d", c.Kind))
	}
	return lines
}
