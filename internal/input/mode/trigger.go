package mode

// Trigger is an abstract input event presented to the mode state machine.
// The input layer derives triggers from raw key and mouse events.
type Trigger uint8

const (
	TriggerNone Trigger = iota

	// Global.
	TriggerEscape
	TriggerEnter

	// Insert entry (from normal mode).
	TriggerInsert
	TriggerInsertAppend
	TriggerInsertAppendEnd
	TriggerInsertLineStart
	TriggerInsertLineBelow
	TriggerInsertLineAbove
	TriggerInsertReplace

	// Visual entry and variant switching.
	TriggerVisualChar
	TriggerVisualLine
	TriggerVisualBlock

	// Command line entry.
	TriggerCommandMode
	TriggerSearchForward
	TriggerSearchBackward

	// Movement.
	TriggerLeft
	TriggerRight
	TriggerUp
	TriggerDown
	TriggerWordForward
	TriggerWordBackward
	TriggerLineStart
	TriggerLineEnd
	TriggerFileStart
	TriggerFileEnd
	TriggerPageUp
	TriggerPageDown

	// System clipboard.
	TriggerSystemCopy
	TriggerSystemPaste
	TriggerSystemCut

	// Scrolling.
	TriggerScrollUp
	TriggerScrollDown

	// Mouse.
	TriggerMouseClick
	TriggerMouseDoubleClick
	TriggerMouseTripleClick
	TriggerMouseDrag

	// Insert operations.
	TriggerInsertChar
	TriggerDeleteBackward
	TriggerDeleteForward
	TriggerDeleteWord
	TriggerDeleteToLineStart
	TriggerInsertTab
	TriggerInsertBackTab
	TriggerInsertNewLine
	TriggerCompletion

	// Visual operations.
	TriggerVisualYank
	TriggerVisualDelete
	TriggerVisualChange
	TriggerVisualIndent
	TriggerVisualDedent

	// Selection extension.
	TriggerSelectLeft
	TriggerSelectRight
	TriggerSelectUp
	TriggerSelectDown
	TriggerSelectWordForward
	TriggerSelectWordBackward

	// Normal mode operations that never change mode.
	TriggerUndo
	TriggerRedo
	TriggerCutChar
	TriggerDeleteLine
	TriggerYankLine
	TriggerPaste
	TriggerIndent
	TriggerDedent
	TriggerNextMatch
	TriggerPrevMatch
)

var triggerNames = map[Trigger]string{
	TriggerNone:               "none",
	TriggerEscape:             "escape",
	TriggerEnter:              "enter",
	TriggerInsert:             "insert",
	TriggerInsertAppend:       "insert-append",
	TriggerInsertAppendEnd:    "insert-append-end",
	TriggerInsertLineStart:    "insert-line-start",
	TriggerInsertLineBelow:    "insert-line-below",
	TriggerInsertLineAbove:    "insert-line-above",
	TriggerInsertReplace:      "insert-replace",
	TriggerVisualChar:         "visual-char",
	TriggerVisualLine:         "visual-line",
	TriggerVisualBlock:        "visual-block",
	TriggerCommandMode:        "command-mode",
	TriggerSearchForward:      "search-forward",
	TriggerSearchBackward:     "search-backward",
	TriggerLeft:               "left",
	TriggerRight:              "right",
	TriggerUp:                 "up",
	TriggerDown:               "down",
	TriggerWordForward:        "word-forward",
	TriggerWordBackward:       "word-backward",
	TriggerLineStart:          "line-start",
	TriggerLineEnd:            "line-end",
	TriggerFileStart:          "file-start",
	TriggerFileEnd:            "file-end",
	TriggerPageUp:             "page-up",
	TriggerPageDown:           "page-down",
	TriggerSystemCopy:         "system-copy",
	TriggerSystemPaste:        "system-paste",
	TriggerSystemCut:          "system-cut",
	TriggerScrollUp:           "scroll-up",
	TriggerScrollDown:         "scroll-down",
	TriggerMouseClick:         "mouse-click",
	TriggerMouseDoubleClick:   "mouse-double-click",
	TriggerMouseTripleClick:   "mouse-triple-click",
	TriggerMouseDrag:          "mouse-drag",
	TriggerInsertChar:         "insert-char",
	TriggerDeleteBackward:     "delete-backward",
	TriggerDeleteForward:      "delete-forward",
	TriggerDeleteWord:         "delete-word",
	TriggerDeleteToLineStart:  "delete-to-line-start",
	TriggerInsertTab:          "insert-tab",
	TriggerInsertBackTab:      "insert-back-tab",
	TriggerInsertNewLine:      "insert-newline",
	TriggerCompletion:         "completion",
	TriggerVisualYank:         "visual-yank",
	TriggerVisualDelete:       "visual-delete",
	TriggerVisualChange:       "visual-change",
	TriggerVisualIndent:       "visual-indent",
	TriggerVisualDedent:       "visual-dedent",
	TriggerSelectLeft:         "select-left",
	TriggerSelectRight:        "select-right",
	TriggerSelectUp:           "select-up",
	TriggerSelectDown:         "select-down",
	TriggerSelectWordForward:  "select-word-forward",
	TriggerSelectWordBackward: "select-word-backward",
	TriggerUndo:               "undo",
	TriggerRedo:               "redo",
	TriggerCutChar:            "cut-char",
	TriggerDeleteLine:         "delete-line",
	TriggerYankLine:           "yank-line",
	TriggerPaste:              "paste",
	TriggerIndent:             "indent",
	TriggerDedent:             "dedent",
	TriggerNextMatch:          "next-match",
	TriggerPrevMatch:          "prev-match",
}

// String returns the trigger's name.
func (t Trigger) String() string {
	if name, ok := triggerNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsMovement reports whether t moves the cursor.
func (t Trigger) IsMovement() bool {
	return t >= TriggerLeft && t <= TriggerPageDown
}

// IsWordMovement reports whether t is a word motion.
func (t Trigger) IsWordMovement() bool {
	return t == TriggerWordForward || t == TriggerWordBackward
}

// IsPageMovement reports whether t is a page motion.
func (t Trigger) IsPageMovement() bool {
	return t == TriggerPageUp || t == TriggerPageDown
}

// IsClipboard reports whether t is a system clipboard operation.
func (t Trigger) IsClipboard() bool {
	return t >= TriggerSystemCopy && t <= TriggerSystemCut
}

// IsScroll reports whether t scrolls the view.
func (t Trigger) IsScroll() bool {
	return t == TriggerScrollUp || t == TriggerScrollDown
}

// IsMouse reports whether t is a mouse event.
func (t Trigger) IsMouse() bool {
	return t >= TriggerMouseClick && t <= TriggerMouseDrag
}

// IsInsertEntry reports whether t enters one of the insert variants.
func (t Trigger) IsInsertEntry() bool {
	return t >= TriggerInsert && t <= TriggerInsertReplace
}

// IsInsertOperation reports whether t edits text while in insert mode.
func (t Trigger) IsInsertOperation() bool {
	return t >= TriggerInsertChar && t <= TriggerCompletion
}

// IsVisualSwitch reports whether t selects a visual variant.
func (t Trigger) IsVisualSwitch() bool {
	return t >= TriggerVisualChar && t <= TriggerVisualBlock
}

// IsSelection reports whether t extends a selection.
func (t Trigger) IsSelection() bool {
	return t >= TriggerSelectLeft && t <= TriggerSelectWordBackward
}
