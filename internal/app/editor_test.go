package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/zorforge/internal/engine/buffer"
	"github.com/dshills/zorforge/internal/engine/clipboard"
	"github.com/dshills/zorforge/internal/input/mode"
)

type testEditor struct {
	*Editor
	doc    *Document
	path   string
	clip   *clipboard.Clipboard
	system *clipboard.Memory
}

// newTestEditor opens a file holding text in a temporary directory.
func newTestEditor(t *testing.T, text string) *testEditor {
	t.Helper()
	clip := clipboard.New()
	system := clipboard.NewMemory()
	dm := NewDocumentManager(WithBufferOptions(buffer.WithClipboard(clip)))
	e := NewEditor(dm, EditorOptions{Clipboard: clip, System: system})

	path := writeFile(t, t.TempDir(), "a.txt", text+"\n")
	doc, err := e.Open(path)
	require.NoError(t, err)
	return &testEditor{Editor: e, doc: doc, path: path, clip: clip, system: system}
}

func (te *testEditor) press(t *testing.T, triggers ...mode.Trigger) {
	t.Helper()
	for _, tr := range triggers {
		require.NoError(t, te.HandleInput(Input{Trigger: tr}))
	}
}

func (te *testEditor) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerInsertChar, Rune: r}))
	}
}

// command enters command mode, types line and submits it.
func (te *testEditor) command(t *testing.T, line string) error {
	t.Helper()
	te.press(t, mode.TriggerCommandMode)
	te.typeText(t, line)
	return te.HandleInput(Input{Trigger: mode.TriggerEnter})
}

func (te *testEditor) cursor() buffer.Position {
	var pos buffer.Position
	te.doc.View(func(b *buffer.Buffer) { pos = b.Cursor() })
	return pos
}

func (te *testEditor) setCursor(row, col int) {
	te.doc.Edit(func(b *buffer.Buffer) { b.SetCursor(buffer.Position{Row: row, Col: col}) })
}

func (te *testEditor) status() string {
	msg, _ := te.Status()
	return msg
}

func TestEditorInsertAndEscape(t *testing.T) {
	te := newTestEditor(t, "abc")

	te.press(t, mode.TriggerInsert)
	assert.True(t, te.Mode().IsInsert())

	te.typeText(t, "hi")
	assert.Equal(t, "hiabc", te.doc.Content())

	te.press(t, mode.TriggerEscape)
	assert.True(t, te.Mode().IsNormal())
	assert.True(t, te.doc.IsDirty())
}

func TestEditorModeGating(t *testing.T) {
	te := newTestEditor(t, "abc")

	// Characters are not inserted in normal mode.
	te.typeText(t, "z")
	assert.Equal(t, "abc", te.doc.Content())
	assert.True(t, te.Mode().IsNormal())

	// Undo is normal mode only.
	te.press(t, mode.TriggerInsert)
	te.typeText(t, "x")
	te.press(t, mode.TriggerUndo)
	assert.Equal(t, "xabc", te.doc.Content())

	te.press(t, mode.TriggerEscape, mode.TriggerUndo)
	assert.Equal(t, "abc", te.doc.Content())

	te.press(t, mode.TriggerUndo)
	assert.Equal(t, "Already at oldest change", te.status())

	te.press(t, mode.TriggerRedo)
	assert.Equal(t, "xabc", te.doc.Content())
}

func TestEditorInsertEntryPositions(t *testing.T) {
	te := newTestEditor(t, "  foo")

	te.press(t, mode.TriggerInsertAppendEnd)
	assert.Equal(t, mode.Insert(mode.InsertAppendEnd), te.Mode())
	assert.Equal(t, 5, te.cursor().Col)

	te.press(t, mode.TriggerEscape, mode.TriggerInsertLineStart)
	assert.Equal(t, 2, te.cursor().Col)

	te.press(t, mode.TriggerEscape, mode.TriggerInsertLineBelow)
	te.typeText(t, "bar")
	assert.Equal(t, "  foo\n  bar", te.doc.Content())
}

func TestEditorReplaceMode(t *testing.T) {
	te := newTestEditor(t, "abc")

	te.press(t, mode.TriggerInsertReplace)
	assert.True(t, te.Mode().IsReplace())
	te.typeText(t, "xy")
	assert.Equal(t, "xyc", te.doc.Content())
}

func TestEditorVisualYank(t *testing.T) {
	te := newTestEditor(t, "hello world")

	te.press(t, mode.TriggerVisualChar)
	require.True(t, te.Mode().IsVisual())
	for i := 0; i < 5; i++ {
		te.press(t, mode.TriggerRight)
	}
	te.press(t, mode.TriggerVisualYank)

	assert.True(t, te.Mode().IsNormal())
	assert.Equal(t, "Yanked", te.status())
	got, ok := te.clip.Peek()
	require.True(t, ok)
	assert.Equal(t, "hello", got)
	assert.False(t, te.hasSelection(te.doc), "leaving visual mode clears the selection")
}

func TestEditorVisualDeleteAndPaste(t *testing.T) {
	te := newTestEditor(t, "one\ntwo\nthree")

	te.press(t, mode.TriggerVisualLine, mode.TriggerDown, mode.TriggerVisualDelete)
	assert.True(t, te.Mode().IsNormal())
	assert.Equal(t, "three", te.doc.Content())

	te.press(t, mode.TriggerPaste)
	assert.Equal(t, "three\none\ntwo", te.doc.Content())
}

func TestEditorVisualChangeEntersInsert(t *testing.T) {
	te := newTestEditor(t, "abc def")

	te.press(t, mode.TriggerVisualChar, mode.TriggerRight, mode.TriggerRight, mode.TriggerRight)
	te.press(t, mode.TriggerVisualChange)
	assert.Equal(t, mode.Insert(mode.InsertPlain), te.Mode())
	te.typeText(t, "xyz")
	assert.Equal(t, "xyz def", te.doc.Content())
}

func TestEditorPasteOverSelectionReturnsToNormal(t *testing.T) {
	te := newTestEditor(t, "abc def")
	te.clip.Yank("XY")

	te.press(t, mode.TriggerVisualChar, mode.TriggerRight, mode.TriggerRight, mode.TriggerRight)
	te.press(t, mode.TriggerPaste)

	assert.True(t, te.Mode().IsNormal())
	assert.Equal(t, "XY def", te.doc.Content())
}

func TestEditorVisualVariantSwitch(t *testing.T) {
	te := newTestEditor(t, "abc\ndef")

	te.press(t, mode.TriggerVisualChar, mode.TriggerVisualLine)
	assert.Equal(t, mode.Visual(mode.VisualLine), te.Mode())
	te.doc.View(func(b *buffer.Buffer) {
		assert.Equal(t, buffer.SelectionLine, b.VisualMode())
	})

	te.press(t, mode.TriggerVisualBlock)
	te.doc.View(func(b *buffer.Buffer) {
		assert.Equal(t, buffer.SelectionBlock, b.VisualMode())
	})
}

func TestEditorSelectionTriggersStartVisual(t *testing.T) {
	te := newTestEditor(t, "abc")

	te.press(t, mode.TriggerSelectRight, mode.TriggerSelectRight)
	assert.Equal(t, mode.Visual(mode.VisualChar), te.Mode())
	te.doc.View(func(b *buffer.Buffer) {
		text, ok := b.SelectedText()
		assert.True(t, ok)
		assert.Equal(t, "ab", text)
	})
}

func TestEditorIndent(t *testing.T) {
	te := newTestEditor(t, "x\ny")
	te.doc.Edit(func(b *buffer.Buffer) { b.SetTabSize(2) })

	te.press(t, mode.TriggerIndent)
	assert.Equal(t, "  x\ny", te.doc.Content())

	te.press(t, mode.TriggerVisualLine, mode.TriggerDown, mode.TriggerVisualIndent)
	assert.True(t, te.Mode().IsVisual(), "indenting keeps visual mode")
	assert.Equal(t, "    x\n  y", te.doc.Content())

	te.press(t, mode.TriggerEscape, mode.TriggerDedent)
	assert.Equal(t, "    x\ny", te.doc.Content())
}

func TestEditorTextObjects(t *testing.T) {
	te := newTestEditor(t, "foo(bar) baz")
	te.setCursor(0, 5)

	require.NoError(t, te.HandleInput(Input{Op: OpDeleteObject, Object: buffer.ObjectParens}))
	assert.Equal(t, "foo() baz", te.doc.Content())
	assert.True(t, te.Mode().IsNormal())
	got, _ := te.clip.Peek()
	assert.Equal(t, "bar", got)

	te.setCursor(0, 7)
	require.NoError(t, te.HandleInput(Input{Op: OpChangeObject, Object: buffer.ObjectWord}))
	assert.Equal(t, "foo() ", te.doc.Content())
	assert.True(t, te.Mode().IsInsert())
}

func TestEditorSelectTextObject(t *testing.T) {
	te := newTestEditor(t, "say \"hi there\" now")
	te.setCursor(0, 6)

	require.NoError(t, te.HandleInput(Input{Op: OpSelectObject, Object: buffer.ObjectDoubleQuote, Around: true}))
	assert.Equal(t, mode.Visual(mode.VisualChar), te.Mode())
	te.doc.View(func(b *buffer.Buffer) {
		text, ok := b.SelectedText()
		assert.True(t, ok)
		assert.Equal(t, "\"hi there\"", text)
	})
}

func TestEditorMissingTextObject(t *testing.T) {
	te := newTestEditor(t, "no parens here")

	require.NoError(t, te.HandleInput(Input{Op: OpDeleteObject, Object: buffer.ObjectParens}))
	assert.Equal(t, "No text object", te.status())
	assert.True(t, te.Mode().IsNormal())
	assert.Equal(t, "no parens here", te.doc.Content())
}

func TestEditorTextObjectGatedByMode(t *testing.T) {
	te := newTestEditor(t, "foo(bar)")
	te.setCursor(0, 5)
	te.press(t, mode.TriggerInsert)

	require.NoError(t, te.HandleInput(Input{Op: OpDeleteObject, Object: buffer.ObjectParens}))
	assert.Equal(t, "foo(bar)", te.doc.Content())
	assert.True(t, te.Mode().IsInsert())
}

func TestEditorSystemCopyAndPaste(t *testing.T) {
	te := newTestEditor(t, "line")

	te.press(t, mode.TriggerSystemCopy)
	got, err := te.system.Get()
	require.NoError(t, err)
	assert.Equal(t, "line\n", got)
	latest, _ := te.clip.Peek()
	assert.Equal(t, "line\n", latest)

	require.NoError(t, te.system.Set("ext"))
	te.press(t, mode.TriggerInsertAppendEnd, mode.TriggerSystemPaste)
	assert.Equal(t, "lineext", te.doc.Content())
	latest, _ = te.clip.Peek()
	assert.Equal(t, "ext", latest, "imported text joins the yank history")
}

func TestEditorSystemClipboardFallback(t *testing.T) {
	te := newTestEditor(t, "abc")
	te.clip.Yank("local")
	te.system.Fail(errors.New("clipboard unavailable"))

	te.press(t, mode.TriggerInsert, mode.TriggerSystemPaste)
	assert.Equal(t, "localabc", te.doc.Content())

	te.press(t, mode.TriggerEscape, mode.TriggerSystemCopy)
	latest, _ := te.clip.Peek()
	assert.Equal(t, "localabc\n", latest, "copy still reaches the yank history")
}

func TestEditorSystemCutInVisual(t *testing.T) {
	te := newTestEditor(t, "abcdef")

	te.press(t, mode.TriggerVisualChar, mode.TriggerRight, mode.TriggerRight, mode.TriggerSystemCut)
	assert.True(t, te.Mode().IsNormal())
	assert.Equal(t, "cdef", te.doc.Content())
	got, _ := te.system.Get()
	assert.Equal(t, "ab", got)
}

func TestEditorSearch(t *testing.T) {
	te := newTestEditor(t, "q x\nq y")

	te.press(t, mode.TriggerSearchForward)
	assert.Equal(t, "/", te.CommandLine())
	te.typeText(t, "q")
	assert.Equal(t, "/q", te.CommandLine())
	require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerEnter}))

	assert.True(t, te.Mode().IsNormal())
	assert.Equal(t, "[1/2] q", te.status())

	te.press(t, mode.TriggerNextMatch)
	assert.Equal(t, "[2/2] q", te.status())
	assert.Equal(t, buffer.Position{Row: 1, Col: 0}, te.cursor())

	te.press(t, mode.TriggerPrevMatch)
	assert.Equal(t, buffer.Position{Row: 0, Col: 0}, te.cursor())
}

func TestEditorSearchNotFound(t *testing.T) {
	te := newTestEditor(t, "abc")

	te.press(t, mode.TriggerSearchForward)
	te.typeText(t, "X")
	require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerEnter}))

	msg, isErr := te.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Pattern not found: X", msg)
}

func TestEditorNextMatchWithoutPattern(t *testing.T) {
	te := newTestEditor(t, "abc")

	te.press(t, mode.TriggerNextMatch)
	msg, isErr := te.Status()
	assert.True(t, isErr)
	assert.Equal(t, "No previous search pattern", msg)
}

func TestEditorIgnoreCaseSearch(t *testing.T) {
	te := newTestEditor(t, "Foo foo")

	require.NoError(t, te.command(t, "set ic"))
	te.press(t, mode.TriggerSearchForward)
	te.typeText(t, "foo")
	require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerEnter}))
	assert.Equal(t, "[1/2] foo", te.status())
}

func TestEditorCommandLineEditing(t *testing.T) {
	te := newTestEditor(t, "abc")

	te.press(t, mode.TriggerCommandMode)
	te.typeText(t, "ab")
	te.press(t, mode.TriggerDeleteBackward)
	assert.Equal(t, ":a", te.CommandLine())

	te.press(t, mode.TriggerDeleteBackward, mode.TriggerDeleteBackward)
	assert.True(t, te.Mode().IsNormal(), "backspace on an empty command line leaves command mode")
	assert.Equal(t, "", te.CommandLine())

	// The command line starts empty on each entry.
	te.press(t, mode.TriggerCommandMode)
	assert.Equal(t, ":", te.CommandLine())
}

func TestEditorCommandLinePaste(t *testing.T) {
	te := newTestEditor(t, "abc")
	require.NoError(t, te.system.Set("wq\nignored"))

	te.press(t, mode.TriggerCommandMode, mode.TriggerSystemPaste)
	assert.Equal(t, ":wq", te.CommandLine())
}

func TestEditorCommandModeBlocksBuffer(t *testing.T) {
	te := newTestEditor(t, "abc")
	te.press(t, mode.TriggerCommandMode)

	te.press(t, mode.TriggerRight, mode.TriggerMouseClick)
	assert.Equal(t, buffer.Position{}, te.cursor())
	assert.True(t, te.Mode().IsCommand())
}

func TestEditorQuitWithUnsavedChanges(t *testing.T) {
	te := newTestEditor(t, "abc")
	te.press(t, mode.TriggerInsert)
	te.typeText(t, "x")
	te.press(t, mode.TriggerEscape)

	require.NoError(t, te.command(t, "q"))
	msg, isErr := te.Status()
	assert.True(t, isErr)
	assert.Equal(t, "No write since last change (add ! to override)", msg)
	assert.True(t, te.Mode().IsNormal())

	assert.ErrorIs(t, te.command(t, "q!"), ErrQuit)
}

func TestEditorQuitClean(t *testing.T) {
	te := newTestEditor(t, "abc")
	assert.ErrorIs(t, te.command(t, "q"), ErrQuit)
}

func TestEditorUnknownCommand(t *testing.T) {
	te := newTestEditor(t, "abc")

	require.NoError(t, te.command(t, "zz"))
	msg, isErr := te.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Not an editor command: zz", msg)
	assert.True(t, te.Mode().IsNormal())

	assert.ErrorIs(t, te.Execute("zz"), ErrUnknownCommand)
}

func TestEditorWriteCommands(t *testing.T) {
	te := newTestEditor(t, "abc")
	te.press(t, mode.TriggerInsert)
	te.typeText(t, "x")
	te.press(t, mode.TriggerEscape)

	require.NoError(t, te.Execute("w"))
	assert.Equal(t, "\"a.txt\" 1L written", te.status())
	assert.Equal(t, "xabc\n", readFileT(t, te.path))
	assert.False(t, te.doc.IsDirty())

	other := filepath.Join(filepath.Dir(te.path), "b.txt")
	require.NoError(t, te.Execute("w "+other))
	assert.Equal(t, "xabc\n", readFileT(t, other))
	assert.Equal(t, "b.txt", te.doc.Name())

	te.press(t, mode.TriggerInsert)
	te.typeText(t, "y")
	te.press(t, mode.TriggerEscape)
	assert.ErrorIs(t, te.Execute("wq"), ErrQuit)
	assert.Equal(t, "xyabc\n", readFileT(t, other))
}

func TestEditorWriteScratchNeedsName(t *testing.T) {
	te := newTestEditor(t, "abc")
	require.NoError(t, te.Execute("enew"))

	assert.ErrorIs(t, te.Execute("w"), ErrNoFileName)
}

func TestEditorWriteAll(t *testing.T) {
	te := newTestEditor(t, "abc")
	second := writeFile(t, filepath.Dir(te.path), "c.txt", "c\n")
	doc2, err := te.Open(second)
	require.NoError(t, err)

	for _, doc := range []*Document{te.doc, doc2} {
		doc.Edit(func(b *buffer.Buffer) { b.InsertChar('!') })
	}
	require.NoError(t, te.Execute("wa"))
	assert.Equal(t, "2 buffers written", te.status())
	assert.False(t, te.Documents().HasDirty())
	assert.Equal(t, "!c\n", readFileT(t, second))
}

func TestEditorGotoLineCommand(t *testing.T) {
	te := newTestEditor(t, "a\nb\nc")

	require.NoError(t, te.Execute("3"))
	assert.Equal(t, 2, te.cursor().Row)
	require.NoError(t, te.Execute(":1"))
	assert.Equal(t, 0, te.cursor().Row)
}

func TestEditorBufferCommands(t *testing.T) {
	te := newTestEditor(t, "first")
	second := writeFile(t, filepath.Dir(te.path), "second.txt", "two\n")

	require.NoError(t, te.Execute("e "+second))
	assert.Equal(t, "\"second.txt\" 1L", te.status())
	assert.Equal(t, "second.txt", te.Documents().Active().Name())

	require.NoError(t, te.Execute("bn"))
	assert.Equal(t, "a.txt", te.Documents().Active().Name())
	require.NoError(t, te.Execute("bp"))
	assert.Equal(t, "second.txt", te.Documents().Active().Name())

	require.NoError(t, te.Execute("ls"))
	assert.Contains(t, te.status(), "%a \"second.txt\" line 1")

	te.Documents().Active().Edit(func(b *buffer.Buffer) { b.InsertChar('x') })
	assert.ErrorIs(t, te.Execute("bd"), ErrUnsavedChanges)
	require.NoError(t, te.Execute("bd!"))
	assert.Equal(t, 1, te.Documents().Count())
	assert.Equal(t, "a.txt", te.Documents().Active().Name())
}

func TestEditorCloseLastBufferCreatesScratch(t *testing.T) {
	te := newTestEditor(t, "abc")

	require.NoError(t, te.Execute("bd"))
	doc := te.Documents().Active()
	require.NotNil(t, doc)
	assert.True(t, doc.IsScratch())
}

func TestEditorEditReload(t *testing.T) {
	te := newTestEditor(t, "abc")
	writeFile(t, filepath.Dir(te.path), "a.txt", "changed\n")

	require.NoError(t, te.Execute("e"))
	assert.Equal(t, "changed", te.doc.Content())

	te.doc.Edit(func(b *buffer.Buffer) { b.InsertChar('x') })
	assert.ErrorIs(t, te.Execute("e"), ErrUnsavedChanges)
	require.NoError(t, te.Execute("e!"))
	assert.Equal(t, "changed", te.doc.Content())
	assert.False(t, te.doc.IsDirty())
}

func TestEditorSetCommand(t *testing.T) {
	te := newTestEditor(t, "abc")

	require.NoError(t, te.Execute("set"))
	assert.Equal(t, "tabsize=4 noignorecase", te.status())

	require.NoError(t, te.Execute("set ts=2"))
	te.doc.View(func(b *buffer.Buffer) { assert.Equal(t, 2, b.TabSize()) })

	require.NoError(t, te.Execute("set ic"))
	require.NoError(t, te.Execute("set"))
	assert.Equal(t, "tabsize=2 ignorecase", te.status())

	assert.Error(t, te.Execute("set ts=99"))
	assert.Error(t, te.Execute("set bogus"))
}

func TestEditorSetTabSizeAppliesToNewBuffers(t *testing.T) {
	te := newTestEditor(t, "abc")
	other := writeFile(t, filepath.Dir(te.path), "later.txt", "x\n")

	require.NoError(t, te.Execute("set ts=3"))
	require.NoError(t, te.Execute("e "+other))
	te.Documents().Active().View(func(b *buffer.Buffer) { assert.Equal(t, 3, b.TabSize()) })

	scratch, err := te.Documents().CreateScratch()
	require.NoError(t, err)
	scratch.View(func(b *buffer.Buffer) { assert.Equal(t, 3, b.TabSize()) })
}

func TestEditorNoHighlight(t *testing.T) {
	te := newTestEditor(t, "aa")
	te.doc.Edit(func(b *buffer.Buffer) { b.Search("a", true) })

	require.NoError(t, te.Execute("noh"))
	te.doc.View(func(b *buffer.Buffer) { assert.Empty(t, b.Matches()) })
}

type fakeRunner struct {
	code  []string
	files []string
	err   error
	run   func()
}

func (r *fakeRunner) DoString(code string) error {
	r.code = append(r.code, code)
	if r.run != nil {
		r.run()
	}
	return r.err
}

func (r *fakeRunner) DoFile(path string) error {
	r.files = append(r.files, path)
	return r.err
}

func TestEditorLuaCommands(t *testing.T) {
	te := newTestEditor(t, "abc")

	err := te.Execute("lua print(1)")
	require.Error(t, err)
	assert.Equal(t, "lua scripting is not available", err.Error())

	runner := &fakeRunner{}
	te.SetScripts(runner)
	require.NoError(t, te.Execute("lua print(1)"))
	require.NoError(t, te.Execute("luafile init.lua"))
	assert.Equal(t, []string{"print(1)"}, runner.code)
	assert.Equal(t, []string{"init.lua"}, runner.files)

	assert.Error(t, te.Execute("luafile"))

	runner.err = errors.New("boom")
	err = te.Execute("lua x")
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "lua", opErr.Op)
}

func TestEditorLuaQuitIsDeferred(t *testing.T) {
	te := newTestEditor(t, "abc")
	host := te.ScriptHost()
	runner := &fakeRunner{run: func() {
		assert.NoError(t, host.Execute("q"))
	}}
	te.SetScripts(runner)

	assert.ErrorIs(t, te.Execute("lua zf.command('q')"), ErrQuit)
}

func TestEditorMouse(t *testing.T) {
	te := newTestEditor(t, "hello world\nsecond")

	require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerMouseClick, Row: 1, Col: 2}))
	assert.Equal(t, buffer.Position{Row: 1, Col: 2}, te.cursor())
	assert.True(t, te.Mode().IsNormal())

	require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerMouseDoubleClick, Row: 0, Col: 7}))
	assert.Equal(t, mode.Visual(mode.VisualChar), te.Mode())
	te.doc.View(func(b *buffer.Buffer) {
		text, _ := b.SelectedText()
		assert.Equal(t, "world", text)
	})

	require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerMouseClick, Row: 0, Col: 0}))
	assert.True(t, te.Mode().IsNormal(), "a click ends the selection")

	require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerMouseTripleClick, Row: 1, Col: 0}))
	assert.Equal(t, mode.Visual(mode.VisualLine), te.Mode())

	te.press(t, mode.TriggerEscape)
	require.NoError(t, te.HandleInput(Input{Trigger: mode.TriggerMouseDrag, Row: 0, Col: 3}))
	assert.Equal(t, mode.Visual(mode.VisualChar), te.Mode())
}

func TestEditorScroll(t *testing.T) {
	te := newTestEditor(t, strings.Repeat("x\n", 9)+"x")

	te.press(t, mode.TriggerScrollDown)
	assert.Equal(t, DefaultScrollStep, te.cursor().Row)
	te.press(t, mode.TriggerScrollUp)
	assert.Equal(t, 0, te.cursor().Row)

	te.SetPageSize(4)
	te.press(t, mode.TriggerPageDown)
	assert.Equal(t, 4, te.cursor().Row)
}

func TestEditorCompletion(t *testing.T) {
	te := newTestEditor(t, "foobar fooqux\nfo")
	te.setCursor(1, 2)

	te.press(t, mode.TriggerInsertAppendEnd, mode.TriggerCompletion)
	assert.Equal(t, "foobar fooqux\nfoobar", te.doc.Content())

	te.typeText(t, " ")
	te.press(t, mode.TriggerCompletion)
	assert.Equal(t, "No completion", te.status())
}

func TestEditorInsertOperations(t *testing.T) {
	te := newTestEditor(t, "    ab")
	te.doc.Edit(func(b *buffer.Buffer) { b.SetTabSize(4) })

	te.press(t, mode.TriggerInsertAppendEnd, mode.TriggerInsertNewLine)
	assert.Equal(t, "    ab\n    ", te.doc.Content(), "newline keeps indentation")

	te.typeText(t, "cd ef")
	te.press(t, mode.TriggerDeleteWord)
	assert.Equal(t, "    ab\n    cd ", te.doc.Content())

	te.press(t, mode.TriggerDeleteToLineStart)
	assert.Equal(t, "    ab\n", te.doc.Content())

	te.press(t, mode.TriggerInsertTab)
	assert.Equal(t, "    ab\n    ", te.doc.Content())
	te.press(t, mode.TriggerInsertBackTab)
	assert.Equal(t, "    ab\n", te.doc.Content())
}

func TestEditorExternalChange(t *testing.T) {
	te := newTestEditor(t, "abc")
	writeFile(t, filepath.Dir(te.path), "a.txt", "disk\n")

	ch := te.ExternalChange(context.Background(), te.path)
	require.NotNil(t, ch)
	select {
	case res := <-ch:
		require.NoError(t, res.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("reload timed out")
	}
	assert.Equal(t, "disk", te.doc.Content())

	te.doc.Edit(func(b *buffer.Buffer) { b.InsertChar('x') })
	assert.Nil(t, te.ExternalChange(context.Background(), te.path))
	msg, isErr := te.Status()
	assert.True(t, isErr)
	assert.Contains(t, msg, "changed on disk")
	assert.Equal(t, "xdisk", te.doc.Content())

	assert.Nil(t, te.ExternalChange(context.Background(), "/no/such/file"))
}

func TestEditorReloadedReportsRefusedReload(t *testing.T) {
	te := newTestEditor(t, "abc")
	writeFile(t, filepath.Dir(te.path), "a.txt", "disk\n")
	te.doc.Edit(func(b *buffer.Buffer) { b.InsertChar('x') })

	res := <-te.Documents().ReloadAsync(context.Background(), te.doc.ID, false)
	te.Reloaded(res)

	msg, isErr := te.Status()
	assert.True(t, isErr)
	assert.Equal(t, "A.txt changed on disk; buffer has unsaved changes", msg)
	assert.Equal(t, "xabc", te.doc.Content())

	te.Reloaded(LoadResult{Err: NewOperationError("read", "a.txt", errors.New("denied"))})
	msg, _ = te.Status()
	assert.Equal(t, "Read a.txt: denied", msg)
}

func TestEditorAdoptReportsErrors(t *testing.T) {
	te := newTestEditor(t, "abc")

	te.Adopt(LoadResult{Err: NewOperationError("read", "x.txt", errors.New("denied"))})
	msg, isErr := te.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Read x.txt: denied", msg)
}

func TestEditorCreatesScratchWhenEmpty(t *testing.T) {
	e := NewEditor(NewDocumentManager(), EditorOptions{})

	require.NoError(t, e.HandleInput(Input{Trigger: mode.TriggerInsert}))
	require.NoError(t, e.HandleInput(Input{Trigger: mode.TriggerInsertChar, Rune: 'a'}))
	doc := e.Documents().Active()
	require.NotNil(t, doc)
	assert.True(t, doc.IsScratch())
	assert.Equal(t, "a", doc.Content())
}
