package mode

// Kind identifies the top-level editing mode.
type Kind uint8

const (
	// KindNormal is navigation and command mode.
	KindNormal Kind = iota

	// KindInsert is text input mode.
	KindInsert

	// KindVisual is selection mode.
	KindVisual

	// KindCommand is the command line (ex commands and searches).
	KindCommand
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindInsert:
		return "insert"
	case KindVisual:
		return "visual"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// InsertVariant records how insert mode was entered.
type InsertVariant uint8

const (
	InsertPlain     InsertVariant = iota // 'i'
	InsertAppend                         // 'a'
	InsertAppendEnd                      // 'A'
	InsertLineStart                      // 'I'
	InsertLineBelow                      // 'o'
	InsertLineAbove                      // 'O'
	InsertReplace                        // 'R'
)

// VisualVariant governs the shape of a selection.
type VisualVariant uint8

const (
	// VisualChar is character-wise selection.
	VisualChar VisualVariant = iota

	// VisualLine is line-wise selection.
	VisualLine

	// VisualBlock is block/column selection.
	VisualBlock
)

// String returns a human-readable variant name.
func (v VisualVariant) String() string {
	switch v {
	case VisualChar:
		return "char"
	case VisualLine:
		return "line"
	case VisualBlock:
		return "block"
	default:
		return "unknown"
	}
}

// CommandType distinguishes the uses of the command line.
type CommandType uint8

const (
	CommandRegular  CommandType = iota // ':'
	CommandSearch                      // '/'
	CommandBackward                    // '?'
)

// Mode is the current top-level interaction state.
//
// Mode is a small comparable value: two modes are equal when their kinds and
// variants are equal. The zero value is Normal.
type Mode struct {
	kind    Kind
	insert  InsertVariant
	visual  VisualVariant
	command CommandType
}

// Normal returns normal mode.
func Normal() Mode {
	return Mode{kind: KindNormal}
}

// Insert returns insert mode entered with variant v.
func Insert(v InsertVariant) Mode {
	return Mode{kind: KindInsert, insert: v}
}

// Visual returns visual mode with selection shape v.
func Visual(v VisualVariant) Mode {
	return Mode{kind: KindVisual, visual: v}
}

// Command returns command line mode of type t.
func Command(t CommandType) Mode {
	return Mode{kind: KindCommand, command: t}
}

// Kind returns the top-level kind.
func (m Mode) Kind() Kind { return m.kind }

// IsNormal returns true in normal mode.
func (m Mode) IsNormal() bool { return m.kind == KindNormal }

// IsInsert returns true in any insert variant.
func (m Mode) IsInsert() bool { return m.kind == KindInsert }

// IsVisual returns true in any visual variant.
func (m Mode) IsVisual() bool { return m.kind == KindVisual }

// IsCommand returns true in any command line mode.
func (m Mode) IsCommand() bool { return m.kind == KindCommand }

// InsertVariant returns the insert variant, if in insert mode.
func (m Mode) InsertVariant() (InsertVariant, bool) {
	if m.kind != KindInsert {
		return 0, false
	}
	return m.insert, true
}

// VisualVariant returns the selection shape, if in visual mode.
func (m Mode) VisualVariant() (VisualVariant, bool) {
	if m.kind != KindVisual {
		return 0, false
	}
	return m.visual, true
}

// CommandType returns the command line type, if in command mode.
func (m Mode) CommandType() (CommandType, bool) {
	if m.kind != KindCommand {
		return 0, false
	}
	return m.command, true
}

// IsSearchMode returns true when the command line holds a search pattern.
func (m Mode) IsSearchMode() bool {
	return m.kind == KindCommand && (m.command == CommandSearch || m.command == CommandBackward)
}

// IsReplace returns true in replace ('R') mode.
func (m Mode) IsReplace() bool {
	return m.kind == KindInsert && m.insert == InsertReplace
}

// DisplayName returns the name shown in the status line.
func (m Mode) DisplayName() string {
	switch m.kind {
	case KindNormal:
		return "NORMAL"
	case KindInsert:
		switch m.insert {
		case InsertAppend:
			return "INSERT (APPEND)"
		case InsertAppendEnd:
			return "INSERT (APPEND END)"
		case InsertLineStart:
			return "INSERT (LINE START)"
		case InsertLineBelow:
			return "INSERT (BELOW)"
		case InsertLineAbove:
			return "INSERT (ABOVE)"
		case InsertReplace:
			return "REPLACE"
		default:
			return "INSERT"
		}
	case KindVisual:
		switch m.visual {
		case VisualLine:
			return "VISUAL LINE"
		case VisualBlock:
			return "VISUAL BLOCK"
		default:
			return "VISUAL"
		}
	case KindCommand:
		switch m.command {
		case CommandSearch:
			return "SEARCH"
		case CommandBackward:
			return "SEARCH BACKWARD"
		default:
			return "COMMAND"
		}
	}
	return "UNKNOWN"
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return m.DisplayName()
}

// CommandPrefix returns the command line prefix character for the mode,
// or the empty string outside command mode.
func (m Mode) CommandPrefix() string {
	if m.kind != KindCommand {
		return ""
	}
	switch m.command {
	case CommandSearch:
		return "/"
	case CommandBackward:
		return "?"
	default:
		return ":"
	}
}

// CursorStyle returns the cursor style for the mode.
func (m Mode) CursorStyle() CursorStyle {
	switch m.kind {
	case KindInsert:
		if m.insert == InsertReplace {
			return CursorBlock
		}
		return CursorBar
	case KindCommand:
		return CursorBar
	default:
		return CursorBlock
	}
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a full-cell block cursor (normal mode).
	CursorBlock CursorStyle = iota

	// CursorBar is a thin vertical bar cursor (insert mode).
	CursorBar

	// CursorUnderline is an underline cursor.
	CursorUnderline

	// CursorHidden hides the cursor.
	CursorHidden
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBlock:
		return "block"
	case CursorBar:
		return "bar"
	case CursorUnderline:
		return "underline"
	case CursorHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Permission predicates. These are derived from the mode, never stored, and
// are the only gate the input layer consults before calling a mutator.

// AllowsTextInput reports whether typed characters are inserted.
func (m Mode) AllowsTextInput() bool {
	return m.kind == KindInsert || m.kind == KindCommand
}

// AllowsCursorMovement reports whether the buffer cursor may move.
func (m Mode) AllowsCursorMovement() bool {
	return m.kind != KindCommand
}

// AllowsDeletion reports whether character deletion applies. Visual mode
// deletes through the selection instead.
func (m Mode) AllowsDeletion() bool {
	return m.kind != KindVisual
}

// AllowsCut reports whether cut operations apply.
func (m Mode) AllowsCut() bool {
	return m.kind == KindNormal || m.kind == KindVisual
}

// AllowsUndo reports whether undo and redo apply.
func (m Mode) AllowsUndo() bool {
	return m.kind == KindNormal
}

// AllowsSelection reports whether selection triggers apply.
func (m Mode) AllowsSelection() bool {
	return m.kind != KindCommand
}

// AllowsScrolling reports whether the view may scroll.
func (m Mode) AllowsScrolling() bool {
	return m.kind != KindCommand
}

// AllowsMouse reports whether mouse events apply.
func (m Mode) AllowsMouse() bool {
	return m.kind != KindCommand
}

// AllowsIndent reports whether indent and dedent apply.
func (m Mode) AllowsIndent() bool {
	return m.kind != KindCommand
}

// AllowsWordMovement reports whether word motions apply.
func (m Mode) AllowsWordMovement() bool {
	return m.kind != KindCommand
}

// AllowsPageMovement reports whether page motions apply.
func (m Mode) AllowsPageMovement() bool {
	return m.kind != KindCommand
}
