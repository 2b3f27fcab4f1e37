package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

type fakeHost struct {
	lines    []string
	row, col int
	messages []string
	yanked   []string
	commands []string
	searched string
	blocks   []string
	undos    int
	cmdErr   error
}

func (h *fakeHost) LineCount() int { return len(h.lines) }

func (h *fakeHost) Line(row int) (string, bool) {
	if row < 0 || row >= len(h.lines) {
		return "", false
	}
	return h.lines[row], true
}

func (h *fakeHost) Cursor() (int, int) { return h.row, h.col }
func (h *fakeHost) SetCursor(row, col int) { h.row, h.col = row, col }
func (h *fakeHost) Insert(text string) { h.lines[h.row] += text }
func (h *fakeHost) InsertBlock(t string) bool { h.blocks = append(h.blocks, t); return true }

func (h *fakeHost) Search(q string) bool {
	h.searched = q
	for _, l := range h.lines {
		if strings.Contains(l, q) {
			return true
		}
	}
	return false
}

func (h *fakeHost) Undo() bool { h.undos++; return true }
func (h *fakeHost) Redo() bool { return false }
func (h *fakeHost) Yank(text string) { h.yanked = append(h.yanked, text) }
func (h *fakeHost) Mode() string { return "NORMAL" }
func (h *fakeHost) Message(m string) { h.messages = append(h.messages, m) }
func (h *fakeHost) FileName() string { return "notes.txt" }

func (h *fakeHost) Register() (string, bool) {
	if len(h.yanked) == 0 {
		return "", false
	}
	return h.yanked[len(h.yanked)-1], true
}

func (h *fakeHost) Execute(cmd string) error {
	h.commands = append(h.commands, cmd)
	return h.cmdErr
}

func newTestState(t *testing.T, h *fakeHost, opts ...StateOption) *State {
	t.Helper()
	s := NewState(h, opts...)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStateDoString(t *testing.T) {
	s := newTestState(t, &fakeHost{lines: []string{""}})

	if err := s.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if v := s.GetGlobal("x"); v.String() != "2" {
		t.Errorf("x = %v, want 2", v)
	}
}

func TestStateSyntaxError(t *testing.T) {
	s := newTestState(t, &fakeHost{lines: []string{""}})

	if err := s.DoString(`x = = 1`); err == nil {
		t.Fatal("DoString() with bad syntax should fail")
	}
}

func TestStateRuntimeErrorMessage(t *testing.T) {
	s := newTestState(t, &fakeHost{lines: []string{""}})

	err := s.DoString(`error("boom")`)
	if err == nil {
		t.Fatal("DoString() should return the raised error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %q, want it to mention boom", err)
	}
	if strings.Contains(err.Error(), "stack traceback") {
		t.Errorf("error = %q, should not include a traceback", err)
	}
}

func TestStateSandbox(t *testing.T) {
	s := newTestState(t, &fakeHost{lines: []string{""}})

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		if v := s.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %q = %v, want nil", name, v)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if v := s.GetGlobal(name); v == lua.LNil {
			t.Errorf("global %q missing", name)
		}
	}
}

func TestStatePrintGoesToHost(t *testing.T) {
	h := &fakeHost{lines: []string{""}}
	s := newTestState(t, h)

	if err := s.DoString(`print("a", 1, true)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if len(h.messages) != 1 || h.messages[0] != "a\t1\ttrue" {
		t.Errorf("messages = %q", h.messages)
	}
}

func TestStateTimeout(t *testing.T) {
	s := newTestState(t, &fakeHost{lines: []string{""}}, WithExecutionTimeout(50*time.Millisecond))

	err := s.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable after a timeout.
	if err := s.DoString(`y = 3`); err != nil {
		t.Fatalf("DoString() after timeout error = %v", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState(&fakeHost{lines: []string{""}})
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close error = %v, want ErrStateClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if v := s.GetGlobal("x"); v != lua.LNil {
		t.Errorf("GetGlobal() after Close = %v", v)
	}
}

func TestStateDoFile(t *testing.T) {
	h := &fakeHost{lines: []string{"hello"}}
	s := newTestState(t, h)

	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`zf.message("loaded " .. zf.line(1))`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.DoFile(path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	if len(h.messages) != 1 || h.messages[0] != "loaded hello" {
		t.Errorf("messages = %q", h.messages)
	}

	if err := s.DoFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("DoFile() on a missing file should fail")
	}
}
