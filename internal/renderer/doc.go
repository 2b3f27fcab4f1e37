// Package renderer draws a buffer, its status line and the message or
// command line onto a tcell screen.
//
// The screen is split top to bottom into the text area, one status line
// and one message line:
//
//	┌──────────────────────────────────┐
//	│  1 text ...                      │
//	│  2 text ...                      │  text area (scrolls to the cursor)
//	│  ~                               │
//	├──────────────────────────────────┤
//	│ NORMAL  main.go [+]       3:7 3/3│  status line
//	│:w                                │  message or command line
//	└──────────────────────────────────┘
//
// Columns are rune indexes in the buffer and display cells on screen.
// Tabs expand to the next tab stop and wide runes take two cells, as
// measured by go-runewidth.
package renderer
