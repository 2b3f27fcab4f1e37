// Package clipboard provides the yank history shared by buffers and the
// editor session.
package clipboard

import (
	"strings"
	"sync"
)

// DefaultMaxHistory is the number of entries kept when no capacity is given.
const DefaultMaxHistory = 10

// Clipboard is a bounded, most-recent-first history of yanked text.
//
// A Clipboard is safe for concurrent use. A single instance is meant to be
// shared by reference between the editor and every buffer that cuts, yanks
// or pastes, so that cross-buffer yank/paste sees one history.
type Clipboard struct {
	mu         sync.RWMutex
	history    []string // history[0] is the most recent entry
	maxHistory int
}

// New creates a clipboard holding at most DefaultMaxHistory entries.
func New() *Clipboard {
	return NewWithCapacity(DefaultMaxHistory)
}

// NewWithCapacity creates a clipboard holding at most maxHistory entries.
// A negative capacity is treated as zero.
func NewWithCapacity(maxHistory int) *Clipboard {
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &Clipboard{
		history:    make([]string, 0, maxHistory),
		maxHistory: maxHistory,
	}
}

// Yank pushes content to the front of the history, dropping the oldest
// entries beyond the capacity. Empty content is ignored.
func (c *Clipboard) Yank(content string) {
	if content == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, "")
	copy(c.history[1:], c.history)
	c.history[0] = content
	c.trimLocked()
}

// YankLines joins lines with line breaks and yanks them as one entry.
func (c *Clipboard) YankLines(lines []string) {
	if len(lines) == 0 {
		return
	}
	c.Yank(strings.Join(lines, "\n"))
}

// Peek returns the most recent entry without removing it.
func (c *Clipboard) Peek() (string, bool) {
	return c.PeekAt(0)
}

// PeekAt returns the entry at index i (0 is the most recent).
func (c *Clipboard) PeekAt(i int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i < 0 || i >= len(c.history) {
		return "", false
	}
	return c.history[i], true
}

// PeekLines returns the most recent entry split on line breaks.
// A single trailing line break does not produce an empty final line.
func (c *Clipboard) PeekLines() ([]string, bool) {
	content, ok := c.Peek()
	if !ok {
		return nil, false
	}
	return SplitLines(content), true
}

// Pop removes and returns the most recent entry.
func (c *Clipboard) Pop() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		return "", false
	}
	front := c.history[0]
	c.history = append(c.history[:0], c.history[1:]...)
	return front, true
}

// Clear removes every entry.
func (c *Clipboard) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = c.history[:0]
}

// Len returns the number of entries.
func (c *Clipboard) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.history)
}

// IsEmpty returns true if there are no entries.
func (c *Clipboard) IsEmpty() bool {
	return c.Len() == 0
}

// MaxHistory returns the capacity.
func (c *Clipboard) MaxHistory() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxHistory
}

// History returns a copy of the entries, most recent first.
func (c *Clipboard) History() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// RotateForward moves the front entry to the back of the history.
func (c *Clipboard) RotateForward() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) < 2 {
		return
	}
	front := c.history[0]
	copy(c.history, c.history[1:])
	c.history[len(c.history)-1] = front
}

// RotateBackward moves the back entry to the front of the history.
// It is the exact inverse of RotateForward.
func (c *Clipboard) RotateBackward() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) < 2 {
		return
	}
	back := c.history[len(c.history)-1]
	copy(c.history[1:], c.history)
	c.history[0] = back
}

// SetMaxHistory changes the capacity, dropping the oldest entries if needed.
func (c *Clipboard) SetMaxHistory(maxHistory int) {
	if maxHistory < 0 {
		maxHistory = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxHistory = maxHistory
	c.trimLocked()
}

func (c *Clipboard) trimLocked() {
	if len(c.history) > c.maxHistory {
		c.history = c.history[:c.maxHistory]
	}
}

// SplitLines splits text on line breaks. A trailing line break does not
// yield an empty final element; empty text yields no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
