// Package mode provides the modal editing state machine for zorforge.
//
// The mode system implements Vim-style modal editing with support for:
//   - Normal mode: Navigation and commands
//   - Insert mode: Text input, in seven entry variants (i, a, A, I, o, O, R)
//   - Visual mode: Character, line and block selection
//   - Command mode: Ex command line, forward search and backward search
//
// # Transitions
//
// Transition is a pure function of (current mode, trigger). It never touches
// buffer content; the input layer applies buffer operations itself, gated by
// the permission predicates of the current mode:
//
//	next := mode.Transition(current, mode.TriggerInsertAppend)
//
// Unrecognized (mode, trigger) pairs leave the mode unchanged.
//
// # Manager
//
// The Manager holds the mode of an editor session and notifies callbacks
// when it changes. One mode governs whichever buffer is active.
package mode
