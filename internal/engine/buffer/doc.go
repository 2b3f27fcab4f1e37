// Package buffer provides the line-oriented text buffer at the heart of the
// editor: content, cursor, visual selection, search state and undo/redo.
//
// Content is an ordered list of lines, each stored as a rune slice, so
// columns count Unicode code points. A buffer always holds at least one
// line; an empty document is a single empty line.
//
// Basic usage:
//
//	buf := buffer.NewFromText("hello\nworld", buffer.WithTabSize(4))
//	buf.SetCursor(buffer.Position{Row: 0, Col: 5})
//	buf.InsertChar('!')   // "hello!"
//	buf.Undo()            // "hello", cursor back at (0,5)
//
// # Edits
//
// Every mutating primitive changes content and cursor together and pushes
// exactly one change record, clearing the redo stack. Compound operations
// (auto-indented newlines, selection deletes, pastes) are grouped so one
// undo reverts them entirely. Edits at document boundaries are no-ops that
// push nothing.
//
// # Errors
//
// Buffer methods never return errors. Boundary conditions are reported by
// boolean results; a row index outside the document passed to an accessor
// is a programming error and panics.
//
// # Concurrency
//
// A Buffer is not safe for concurrent use. Callers that share a buffer
// between goroutines must serialize access, as the document manager does.
package buffer
