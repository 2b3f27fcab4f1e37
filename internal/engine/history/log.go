package history

import "time"

// DefaultMaxEntries is the undo depth used when none is configured.
const DefaultMaxEntries = 1000

// Record is one entry on the undo or redo stack.
type Record struct {
	Change Change

	// Cursor is the cursor position immediately before Change was made.
	Cursor Position

	// ID is unique and increases with every record created.
	ID uint64

	Timestamp time.Time
}

// Log manages undo/redo state for one buffer.
//
// Log is not safe for concurrent use; the owning buffer serializes access.
type Log struct {
	undoStack []Record
	redoStack []Record

	counter uint64

	// Grouping state
	depth       int
	groupSteps  []Change
	groupCursor Position

	maxEntries int
}

// NewLog creates a log keeping at most maxEntries undo records.
func NewLog(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{maxEntries: maxEntries}
}

// Push records a new edit made with the cursor at cursor, and clears the
// redo stack. Inside a group the change is collected instead.
func (l *Log) Push(c Change, cursor Position) {
	if l.depth > 0 {
		if len(l.groupSteps) == 0 {
			l.groupCursor = cursor
		}
		l.groupSteps = append(l.groupSteps, c)
		return
	}
	l.pushUndo(c, cursor)
	l.redoStack = nil
}

func (l *Log) pushUndo(c Change, cursor Position) {
	l.undoStack = append(l.undoStack, l.newRecord(c, cursor))

	// Enforce max entries
	if len(l.undoStack) > l.maxEntries {
		excess := len(l.undoStack) - l.maxEntries
		l.undoStack = l.undoStack[excess:]
	}
}

func (l *Log) newRecord(c Change, cursor Position) Record {
	l.counter++
	return Record{
		Change:    c,
		Cursor:    cursor,
		ID:        l.counter,
		Timestamp: time.Now(),
	}
}

// Undo pops the most recent record and returns it. The caller applies
// rec.Change.Invert() and restores rec.Cursor. The inverse is pushed onto the
// redo stack with current, the cursor before the undo, and a fresh id.
func (l *Log) Undo(current Position) (Record, bool) {
	if len(l.undoStack) == 0 {
		return Record{}, false
	}
	rec := l.undoStack[len(l.undoStack)-1]
	l.undoStack = l.undoStack[:len(l.undoStack)-1]
	l.redoStack = append(l.redoStack, l.newRecord(rec.Change.Invert(), current))
	return rec, true
}

// Redo pops the most recently undone record and returns it. The caller
// applies rec.Change.Invert() and restores rec.Cursor, exactly as for Undo.
func (l *Log) Redo(current Position) (Record, bool) {
	if len(l.redoStack) == 0 {
		return Record{}, false
	}
	rec := l.redoStack[len(l.redoStack)-1]
	l.redoStack = l.redoStack[:len(l.redoStack)-1]
	l.pushUndo(rec.Change.Invert(), current)
	return rec, true
}

// BeginGroup starts collecting pushes into a single Batch record.
// Calls nest.
func (l *Log) BeginGroup() {
	l.depth++
}

// EndGroup closes the innermost group. Closing the outermost group pushes
// the collected steps as one Batch record, or nothing if the group is empty.
func (l *Log) EndGroup() {
	if l.depth == 0 {
		return
	}
	l.depth--
	if l.depth > 0 {
		return
	}

	steps := l.groupSteps
	l.groupSteps = nil
	if len(steps) == 0 {
		return
	}
	c := steps[0]
	if len(steps) > 1 {
		c = Batch(steps...)
	}
	l.pushUndo(c, l.groupCursor)
	l.redoStack = nil
}

// IsGrouping returns true if currently in a group.
func (l *Log) IsGrouping() bool {
	return l.depth > 0
}

// TopID returns the id of the most recent undo record, or 0 if there is none.
func (l *Log) TopID() uint64 {
	if len(l.undoStack) == 0 {
		return 0
	}
	return l.undoStack[len(l.undoStack)-1].ID
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	return len(l.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	return len(l.redoStack) > 0
}

// UndoCount returns the number of undo records available.
func (l *Log) UndoCount() int {
	return len(l.undoStack)
}

// RedoCount returns the number of redo records available.
func (l *Log) RedoCount() int {
	return len(l.redoStack)
}

// Clear removes all undo/redo history. Ids keep increasing.
func (l *Log) Clear() {
	l.undoStack = nil
	l.redoStack = nil
	l.depth = 0
	l.groupSteps = nil
}

// MaxEntries returns the maximum number of undo records.
func (l *Log) MaxEntries() int {
	return l.maxEntries
}
