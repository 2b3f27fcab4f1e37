package app

import (
	"errors"

	"github.com/dshills/zorforge/internal/engine/buffer"
	"github.com/dshills/zorforge/internal/input/mode"
)

// ScriptHost exposes the active document to scripts. Every call takes the
// document lock on its own, so scripts never run while a lock is held.
type ScriptHost struct {
	e *Editor
}

// ScriptHost returns the script-facing view of the editor.
func (e *Editor) ScriptHost() *ScriptHost {
	return &ScriptHost{e: e}
}

// Source runs the script file at path, as :luafile does.
func (e *Editor) Source(path string) error {
	return e.runScript(func(s ScriptRunner) error { return s.DoFile(path) })
}

func (h *ScriptHost) view(fn func(b *buffer.Buffer)) {
	if doc := h.e.ensureDocument(); doc != nil {
		doc.View(fn)
	}
}

func (h *ScriptHost) edit(fn func(b *buffer.Buffer)) {
	if doc := h.e.ensureDocument(); doc != nil {
		doc.Edit(fn)
	}
}

func (h *ScriptHost) LineCount() int {
	n := 0
	h.view(func(b *buffer.Buffer) { n = b.LineCount() })
	return n
}

func (h *ScriptHost) Line(row int) (string, bool) {
	var (
		s  string
		ok bool
	)
	h.view(func(b *buffer.Buffer) {
		if row >= 0 && row < b.LineCount() {
			s, ok = b.Line(row), true
		}
	})
	return s, ok
}

func (h *ScriptHost) Cursor() (int, int) {
	var pos buffer.Position
	h.view(func(b *buffer.Buffer) { pos = b.Cursor() })
	return pos.Row, pos.Col
}

func (h *ScriptHost) SetCursor(row, col int) {
	h.edit(func(b *buffer.Buffer) { b.SetCursor(buffer.Position{Row: row, Col: col}) })
}

func (h *ScriptHost) Insert(text string) {
	h.edit(func(b *buffer.Buffer) { b.InsertText(text) })
}

// InsertBlock writes text into the current selection and leaves visual
// mode when it succeeds.
func (h *ScriptHost) InsertBlock(text string) bool {
	var ok bool
	h.edit(func(b *buffer.Buffer) { ok = b.InsertBlock(text) })
	if ok && h.e.Mode().IsVisual() {
		h.e.modes.Set(mode.Normal())
	}
	return ok
}

func (h *ScriptHost) Search(query string) bool {
	n := 0
	h.edit(func(b *buffer.Buffer) {
		n = b.Search(query, !h.e.ignoreCase)
		if n > 0 {
			h.e.reportMatch(b)
		}
	})
	return n > 0
}

func (h *ScriptHost) Undo() bool {
	var ok bool
	h.edit(func(b *buffer.Buffer) { ok = b.Undo() })
	return ok
}

func (h *ScriptHost) Redo() bool {
	var ok bool
	h.edit(func(b *buffer.Buffer) { ok = b.Redo() })
	return ok
}

func (h *ScriptHost) Yank(text string) {
	h.e.clip.Yank(text)
}

func (h *ScriptHost) Register() (string, bool) {
	return h.e.clip.Peek()
}

func (h *ScriptHost) Mode() string {
	return h.e.Mode().DisplayName()
}

func (h *ScriptHost) Message(msg string) {
	h.e.setStatus("%s", msg)
}

// Execute runs an ex command. A quit request is deferred until the script
// returns.
func (h *ScriptHost) Execute(command string) error {
	err := h.e.Execute(command)
	if errors.Is(err, ErrQuit) {
		h.e.quitRequested = true
		return nil
	}
	return err
}

func (h *ScriptHost) FileName() string {
	doc := h.e.ensureDocument()
	if doc == nil {
		return ""
	}
	return doc.Name()
}
