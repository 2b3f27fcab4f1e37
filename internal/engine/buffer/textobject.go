package buffer

// TextObject identifies a cursor-relative span.
type TextObject uint8

const (
	ObjectWord TextObject = iota
	ObjectParagraph
	ObjectParens      // ( )
	ObjectBrackets    // [ ]
	ObjectBraces      // { }
	ObjectAngles      // < >
	ObjectSingleQuote // ' '
	ObjectDoubleQuote // " "
	ObjectBacktick    // ` `
)

// TextObjectFor maps a vim object key (as typed after 'i' or 'a') to its
// text object.
func TextObjectFor(key rune) (TextObject, bool) {
	switch key {
	case 'w':
		return ObjectWord, true
	case 'p':
		return ObjectParagraph, true
	case '(', ')', 'b':
		return ObjectParens, true
	case '[', ']':
		return ObjectBrackets, true
	case '{', '}', 'B':
		return ObjectBraces, true
	case '<', '>':
		return ObjectAngles, true
	case '\'':
		return ObjectSingleQuote, true
	case '"':
		return ObjectDoubleQuote, true
	case '`':
		return ObjectBacktick, true
	}
	return 0, false
}

func (o TextObject) delimiters() (open, close rune) {
	switch o {
	case ObjectParens:
		return '(', ')'
	case ObjectBrackets:
		return '[', ']'
	case ObjectBraces:
		return '{', '}'
	case ObjectAngles:
		return '<', '>'
	case ObjectSingleQuote:
		return '\'', '\''
	case ObjectDoubleQuote:
		return '"', '"'
	case ObjectBacktick:
		return '`', '`'
	}
	return 0, 0
}

// FindTextObject computes the span of obj around the cursor. Inner spans
// exclude the surrounding whitespace or delimiters; around spans include
// one layer of them. Paragraphs yield line selections, everything else
// character selections. It returns false when there is no such object,
// including for unterminated delimiters.
func (b *Buffer) FindTextObject(obj TextObject, around bool) (Selection, bool) {
	switch obj {
	case ObjectWord:
		return b.wordObject(around)
	case ObjectParagraph:
		return b.paragraphObject(around)
	case ObjectSingleQuote, ObjectDoubleQuote, ObjectBacktick:
		q, _ := obj.delimiters()
		return b.quoteObject(q, around)
	default:
		open, close := obj.delimiters()
		return b.pairObject(open, close, around)
	}
}

// SelectTextObject starts a selection covering obj. The anchor lands on the
// span start and the cursor on its end.
func (b *Buffer) SelectTextObject(obj TextObject, around bool) bool {
	sel, ok := b.FindTextObject(obj, around)
	if !ok {
		return false
	}
	b.anchor = sel.Start
	b.hasAnchor = true
	b.visualMode = sel.Mode
	b.cursor = sel.End
	if sel.Mode == SelectionLine {
		b.cursor = Position{Row: sel.End.Row}
	}
	return true
}

// DeleteTextObject yanks and removes obj as one undoable unit, leaving the
// cursor at its start.
func (b *Buffer) DeleteTextObject(obj TextObject, around bool) bool {
	sel, ok := b.FindTextObject(obj, around)
	if !ok {
		return false
	}
	text := b.regionText(sel)
	if sel.Mode == SelectionLine {
		text += "\n"
	}
	b.yank(text)
	b.edit(func() {
		b.deleteRegion(sel)
	})
	return true
}

func (b *Buffer) wordObject(around bool) (Selection, bool) {
	row := b.cursor.Row
	line := b.lines[row]
	if len(line) == 0 {
		return Selection{}, false
	}
	col := min(b.cursor.Col, len(line)-1)
	class := classify(line[col])

	start, end := col, col+1
	for start > 0 && classify(line[start-1]) == class {
		start--
	}
	for end < len(line) && classify(line[end]) == class {
		end++
	}

	if around {
		if class == classSpace {
			// Whitespace plus the word that follows it.
			if end < len(line) {
				next := classify(line[end])
				for end < len(line) && classify(line[end]) == next {
					end++
				}
			}
		} else {
			trail := end
			for trail < len(line) && isSpace(line[trail]) {
				trail++
			}
			if trail > end {
				end = trail
			} else {
				for start > 0 && isSpace(line[start-1]) {
					start--
				}
			}
		}
	}

	return Selection{
		Start: Position{Row: row, Col: start},
		End:   Position{Row: row, Col: end},
		Mode:  SelectionChar,
	}, true
}

func (b *Buffer) paragraphObject(around bool) (Selection, bool) {
	row := b.cursor.Row
	blank := isBlank(b.lines[row])

	first, last := row, row
	for first > 0 && isBlank(b.lines[first-1]) == blank {
		first--
	}
	for last < len(b.lines)-1 && isBlank(b.lines[last+1]) == blank {
		last++
	}

	if around {
		if last < len(b.lines)-1 {
			// Extend over the following run of the opposite kind.
			last++
			for last < len(b.lines)-1 && isBlank(b.lines[last+1]) == !blank {
				last++
			}
		} else if !blank {
			for first > 0 && isBlank(b.lines[first-1]) {
				first--
			}
		}
	}

	return Selection{
		Start: Position{Row: first},
		End:   Position{Row: last, Col: len(b.lines[last])},
		Mode:  SelectionLine,
	}, true
}

// pairObject finds the innermost open/close pair enclosing the cursor,
// scanning across lines and honoring nesting.
func (b *Buffer) pairObject(open, close rune, around bool) (Selection, bool) {
	openPos, ok := b.findOpener(open, close)
	if !ok {
		return Selection{}, false
	}
	closePos, ok := b.findCloser(openPos, open, close)
	if !ok {
		return Selection{}, false
	}

	if around {
		return Selection{
			Start: openPos,
			End:   Position{Row: closePos.Row, Col: closePos.Col + 1},
			Mode:  SelectionChar,
		}, true
	}
	return Selection{
		Start: after(openPos),
		End:   closePos,
		Mode:  SelectionChar,
	}, true
}

// findOpener scans backwards from the cursor for an opener not closed
// before the cursor. An opener under the cursor counts.
func (b *Buffer) findOpener(open, close rune) (Position, bool) {
	pos := b.cursor
	if r, ok := b.runeAt(pos); ok && r == open {
		return pos, true
	}
	depth := 0
	for {
		prev, ok := b.prevPos(pos)
		if !ok {
			return Position{}, false
		}
		pos = prev
		r, ok := b.runeAt(pos)
		if !ok {
			continue
		}
		switch r {
		case close:
			depth++
		case open:
			if depth == 0 {
				return pos, true
			}
			depth--
		}
	}
}

// findCloser scans forward from an opener for its matching closer.
func (b *Buffer) findCloser(openPos Position, open, close rune) (Position, bool) {
	depth := 0
	pos := openPos
	for {
		next, ok := b.nextPos(pos)
		if !ok {
			return Position{}, false
		}
		pos = next
		r, ok := b.runeAt(pos)
		if !ok {
			continue
		}
		switch r {
		case open:
			depth++
		case close:
			if depth == 0 {
				return pos, true
			}
			depth--
		}
	}
}

// quoteObject pairs quote runes on the current line in order and returns
// the pair containing the cursor.
func (b *Buffer) quoteObject(q rune, around bool) (Selection, bool) {
	row := b.cursor.Row
	line := b.lines[row]
	col := b.cursor.Col

	var quotes []int
	for i, r := range line {
		if r == q && (i == 0 || line[i-1] != '\\') {
			quotes = append(quotes, i)
		}
	}
	for i := 0; i+1 < len(quotes); i += 2 {
		open, close := quotes[i], quotes[i+1]
		if col < open || col > close {
			continue
		}
		start, end := open+1, close
		if around {
			start, end = open, close+1
		}
		return Selection{
			Start: Position{Row: row, Col: start},
			End:   Position{Row: row, Col: end},
			Mode:  SelectionChar,
		}, true
	}
	return Selection{}, false
}

func (b *Buffer) runeAt(pos Position) (rune, bool) {
	line := b.lines[pos.Row]
	if pos.Col >= len(line) {
		return 0, false
	}
	return line[pos.Col], true
}

// nextPos returns the following position, moving through the end-of-line
// slot of each line.
func (b *Buffer) nextPos(pos Position) (Position, bool) {
	if pos.Col < len(b.lines[pos.Row]) {
		return Position{Row: pos.Row, Col: pos.Col + 1}, true
	}
	if pos.Row+1 < len(b.lines) {
		return Position{Row: pos.Row + 1}, true
	}
	return Position{}, false
}

// prevPos is the mirror of nextPos.
func (b *Buffer) prevPos(pos Position) (Position, bool) {
	if pos.Col > 0 {
		return Position{Row: pos.Row, Col: pos.Col - 1}, true
	}
	if pos.Row > 0 {
		return Position{Row: pos.Row - 1, Col: len(b.lines[pos.Row-1])}, true
	}
	return Position{}, false
}

// after returns the position right after the rune at pos.
func after(pos Position) Position {
	return Position{Row: pos.Row, Col: pos.Col + 1}
}
