// Package history provides undo/redo functionality for the text buffer.
//
// The history system uses the Command pattern with structural inversion:
// every edit is described by a Change that knows how to apply itself to a
// line store and how to produce its exact inverse.
//
// # Changes
//
// A Change is one of:
//   - Insert: text inserted at a position on one line
//   - Delete: text removed starting at a position on one line
//   - NewLine: a line split in two at a position
//   - DeleteLine: two lines joined at a position (the inverse of NewLine)
//   - Batch: ordered steps undone together as one unit
//
// # Log
//
// The Log holds paired undo and redo stacks of Records. Each record carries
// the cursor position from before its change and a monotonically increasing
// id used for dirty tracking:
//
//	log := NewLog(1000)
//	log.Push(change, cursorBefore)
//
//	rec, ok := log.Undo(cursorNow)
//	lines = rec.Change.Invert().Apply(lines)
//	cursor = rec.Cursor
//
// # Grouping
//
// Several pushes can be combined into a single Batch record:
//
//	log.BeginGroup()
//	// ... multiple pushes ...
//	log.EndGroup()
//
// Groups nest; only the outermost EndGroup produces a record.
package history
