package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) (*FileWatcher, <-chan string) {
	t.Helper()
	changes := make(chan string, 16)
	w, err := NewFileWatcher(func(path string) { changes <- path }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, changes
}

func TestFileWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "w.txt", "one\n")
	w, changes := newTestWatcher(t)

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if !w.Watching(path) {
		t.Fatal("Watching() = false after Watch")
	}

	// A burst of writes is reported once.
	for _, s := range []string{"two\n", "three\n", "four\n"} {
		if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	abs, _ := filepath.Abs(path)
	select {
	case got := <-changes:
		if got != abs {
			t.Errorf("changed path = %q, want %q", got, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-changes:
		t.Errorf("unexpected second notification for %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcherIgnoresUnwatchedSiblings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "watched.txt", "x\n")
	other := writeFile(t, dir, "other.txt", "x\n")
	w, changes := newTestWatcher(t)

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := os.WriteFile(other, []byte("y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changes:
		t.Errorf("unexpected notification for %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcherUnwatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "u.txt", "x\n")
	w, changes := newTestWatcher(t)

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if w.Watching(path) {
		t.Error("Watching() = true after Unwatch")
	}
	if err := os.WriteFile(path, []byte("y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changes:
		t.Errorf("unexpected notification for %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcherClose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.txt", "x\n")
	w, _ := newTestWatcher(t)

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch(path); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close error = %v, want ErrWatcherClosed", err)
	}
}

func TestEditorWatchesOpenedFiles(t *testing.T) {
	w, _ := newTestWatcher(t)
	dm := NewDocumentManager()
	e := NewEditor(dm, EditorOptions{Watcher: w})
	path := writeFile(t, t.TempDir(), "e.txt", "x\n")

	doc, err := e.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !w.Watching(path) {
		t.Error("opened file is not watched")
	}

	if err := dm.Close(doc.ID); err != nil {
		t.Fatal(err)
	}
	e.Forget(doc)
	if w.Watching(path) {
		t.Error("closed file is still watched")
	}
}
