package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/zorforge/internal/engine/buffer"
	"github.com/dshills/zorforge/internal/engine/clipboard"
	"github.com/dshills/zorforge/internal/input/mode"
)

// Default editor settings.
const (
	DefaultPageSize   = 20
	DefaultScrollStep = 3
)

// Op is an editor action that has no mode trigger of its own.
type Op uint8

const (
	OpNone Op = iota
	// OpSelectObject selects a text object (visual "iw", "a(", ...).
	OpSelectObject
	// OpDeleteObject yanks and deletes a text object ("diw").
	OpDeleteObject
	// OpChangeObject deletes a text object and starts inserting ("ciw").
	OpChangeObject
)

// Input is one translated user action.
type Input struct {
	Trigger mode.Trigger
	Op      Op

	// Rune is the typed character for TriggerInsertChar.
	Rune rune

	// Row and Col address the buffer for mouse triggers.
	Row, Col int

	// Object and Around describe the text object for object ops.
	Object buffer.TextObject
	Around bool
}

// ScriptRunner executes user scripts for :lua and :luafile.
type ScriptRunner interface {
	DoString(code string) error
	DoFile(path string) error
}

// EditorOptions configures an Editor.
type EditorOptions struct {
	PageSize   int
	IgnoreCase bool
	TabSize    int
	Clipboard  *clipboard.Clipboard
	System     clipboard.Provider
	Watcher    *FileWatcher
	Logger     *Logger
}

// Editor is the interactive session: it turns inputs into permission
// gated buffer operations and mode transitions, and runs ex commands.
//
// Editor is driven from a single goroutine (the event loop). Buffers are
// reached through their document locks so background loads and reloads
// can proceed concurrently.
type Editor struct {
	docs    *DocumentManager
	modes   *mode.Manager
	clip    *clipboard.Clipboard
	system  clipboard.Provider
	watcher *FileWatcher
	scripts ScriptRunner
	logger  *Logger

	pageSize   int
	ignoreCase bool
	tabSize    int

	cmdline []rune
	status  string
	isError bool

	quitRequested bool
	// scriptRunning is set while :lua or :luafile executes.
	scriptRunning bool
}

// NewEditor creates a session over docs.
func NewEditor(docs *DocumentManager, opts EditorOptions) *Editor {
	e := &Editor{
		docs:       docs,
		modes:      mode.NewManager(),
		clip:       opts.Clipboard,
		system:     opts.System,
		watcher:    opts.Watcher,
		logger:     opts.Logger,
		pageSize:   opts.PageSize,
		ignoreCase: opts.IgnoreCase,
		tabSize:    opts.TabSize,
	}
	if e.clip == nil {
		e.clip = clipboard.New()
	}
	if e.system == nil {
		e.system = clipboard.NewMemory()
	}
	if e.logger == nil {
		e.logger = NullLogger
	}
	if e.pageSize <= 0 {
		e.pageSize = DefaultPageSize
	}
	if e.tabSize <= 0 {
		e.tabSize = buffer.DefaultTabSize
	}
	e.modes.OnChange(e.onModeChange)
	return e
}

// SetScripts installs the script runner used by :lua and :luafile.
func (e *Editor) SetScripts(s ScriptRunner) {
	e.scripts = s
}

// Documents returns the document manager.
func (e *Editor) Documents() *DocumentManager {
	return e.docs
}

// Clipboard returns the shared yank history.
func (e *Editor) Clipboard() *clipboard.Clipboard {
	return e.clip
}

// Mode returns the current mode.
func (e *Editor) Mode() mode.Mode {
	return e.modes.Current()
}

// Modes returns the mode manager.
func (e *Editor) Modes() *mode.Manager {
	return e.modes
}

// SetPageSize sets the page motion distance, normally the text height.
func (e *Editor) SetPageSize(n int) {
	if n > 0 {
		e.pageSize = n
	}
}

// Status returns the status message and whether it reports an error.
func (e *Editor) Status() (string, bool) {
	return e.status, e.isError
}

// CommandLine returns the command line, prefix included, while in
// command mode.
func (e *Editor) CommandLine() string {
	m := e.modes.Current()
	if !m.IsCommand() {
		return ""
	}
	return m.CommandPrefix() + string(e.cmdline)
}

func (e *Editor) setStatus(format string, args ...any) {
	e.status = fmt.Sprintf(format, args...)
	e.isError = false
}

func (e *Editor) setError(err error) {
	msg := err.Error()
	if r, size := utf8.DecodeRuneInString(msg); size > 0 {
		msg = string(unicode.ToUpper(r)) + msg[size:]
	}
	e.status = msg
	e.isError = true
	e.logger.WithComponent("editor").Warn("%v", err)
}

// Open opens path as the active document and watches it for changes.
func (e *Editor) Open(path string) (*Document, error) {
	doc, err := e.docs.Open(path)
	if err != nil {
		return nil, err
	}
	e.watch(doc)
	return doc, nil
}

// Adopt reacts to a document that finished loading in the background.
func (e *Editor) Adopt(res LoadResult) {
	if res.Err != nil {
		e.setError(res.Err)
		return
	}
	if res.Doc != nil {
		e.watch(res.Doc)
	}
}

func (e *Editor) watch(doc *Document) {
	if e.watcher == nil || doc.IsScratch() {
		return
	}
	if err := e.watcher.Watch(doc.Path()); err != nil {
		e.logger.WithComponent("editor").Warn("watch %s: %v", doc.Path(), err)
	}
}

// Forget stops watching a closed or evicted document.
func (e *Editor) Forget(doc *Document) {
	if e.watcher == nil || doc.IsScratch() {
		return
	}
	_ = e.watcher.Unwatch(doc.Path())
}

// ExternalChange handles a modification of path made outside the editor.
// Clean documents are reloaded in the background; documents with unsaved
// changes keep their content and a warning is shown.
func (e *Editor) ExternalChange(ctx context.Context, path string) <-chan LoadResult {
	doc := e.docs.FindByPath(path)
	if doc == nil {
		return nil
	}
	if doc.IsDirty() {
		e.warnChangedOnDisk(doc)
		return nil
	}
	return e.docs.ReloadAsync(ctx, doc.ID, false)
}

// Reloaded reports the outcome of a background reload.
func (e *Editor) Reloaded(res LoadResult) {
	switch {
	case res.Err == nil:
	case errors.Is(res.Err, ErrUnsavedChanges) && res.Doc != nil:
		e.warnChangedOnDisk(res.Doc)
	default:
		e.setError(res.Err)
	}
}

func (e *Editor) warnChangedOnDisk(doc *Document) {
	e.setError(fmt.Errorf("%s changed on disk; buffer has unsaved changes", doc.Name()))
}

// ensureDocument guarantees there is an active document.
func (e *Editor) ensureDocument() *Document {
	if doc := e.docs.Active(); doc != nil {
		return doc
	}
	doc, err := e.docs.CreateScratch()
	if err != nil {
		e.setError(err)
		return nil
	}
	return doc
}

// HandleInput applies one input. It returns ErrQuit when the session
// should end; other failures are reported through Status.
func (e *Editor) HandleInput(in Input) error {
	doc := e.ensureDocument()
	if doc == nil {
		return ErrNoActiveDocument
	}
	current := e.modes.Current()

	if in.Op != OpNone {
		e.handleOp(doc, current, in)
		return nil
	}

	if current.IsCommand() && isCommandLineTrigger(in.Trigger) {
		return e.handleCommandLine(current, in)
	}

	var (
		override mode.Mode
		forced   bool
	)
	doc.Edit(func(b *buffer.Buffer) {
		override, forced = e.perform(b, current, in)
	})

	next := mode.Transition(current, in.Trigger)
	if forced {
		next = override
	}
	if current.IsVisual() && next.IsVisual() && !e.hasSelection(doc) {
		next = mode.Normal()
	}
	e.modes.Set(next)
	return nil
}

func (e *Editor) hasSelection(doc *Document) bool {
	var has bool
	doc.View(func(b *buffer.Buffer) { has = b.HasSelection() })
	return has
}

// onModeChange keeps the buffer selection in step with visual mode.
func (e *Editor) onModeChange(from, to mode.Mode) {
	if to.IsCommand() && !from.IsCommand() {
		e.cmdline = e.cmdline[:0]
	}

	doc := e.docs.Active()
	if doc == nil {
		return
	}
	doc.Edit(func(b *buffer.Buffer) {
		v, toVisual := to.VisualVariant()
		switch {
		case toVisual && !from.IsVisual() && !b.HasSelection():
			b.StartVisual(selectionMode(v))
		case toVisual:
			b.SetVisualMode(selectionMode(v))
		case from.IsVisual() || !to.IsInsert():
			b.ClearVisual()
		}
	})
	e.logger.WithComponent("mode").Debug("%s -> %s", from, to)
}

func selectionMode(v mode.VisualVariant) buffer.SelectionMode {
	switch v {
	case mode.VisualLine:
		return buffer.SelectionLine
	case mode.VisualBlock:
		return buffer.SelectionBlock
	default:
		return buffer.SelectionChar
	}
}

func visualVariant(m buffer.SelectionMode) mode.VisualVariant {
	switch m {
	case buffer.SelectionLine:
		return mode.VisualLine
	case buffer.SelectionBlock:
		return mode.VisualBlock
	default:
		return mode.VisualChar
	}
}

// perform runs the buffer side of in under the document lock. It may
// force the next mode when the buffer outcome decides it.
func (e *Editor) perform(b *buffer.Buffer, m mode.Mode, in Input) (mode.Mode, bool) {
	t := in.Trigger
	switch {
	case t.IsMovement():
		if movementAllowed(m, t) {
			e.move(b, t)
		}
	case t.IsSelection():
		if m.AllowsSelection() {
			if !b.HasSelection() {
				b.StartVisual(buffer.SelectionChar)
			}
			e.move(b, selectionMotion(t))
		}
	case t.IsClipboard():
		return e.systemClipboard(b, m, t)
	case t.IsScroll():
		if m.AllowsScrolling() {
			e.scroll(b, t)
		}
	case t.IsMouse():
		if m.AllowsMouse() {
			e.mouse(b, m, in)
		}
	case t.IsInsertEntry():
		if m.IsNormal() {
			e.prepareInsert(b, t)
		}
	case t.IsInsertOperation():
		if m.IsInsert() {
			e.insertOperation(b, m, in)
		}
	default:
		return e.command(b, m, t)
	}
	return mode.Mode{}, false
}

func movementAllowed(m mode.Mode, t mode.Trigger) bool {
	switch {
	case t.IsWordMovement():
		return m.AllowsWordMovement()
	case t.IsPageMovement():
		return m.AllowsPageMovement()
	default:
		return m.AllowsCursorMovement()
	}
}

func (e *Editor) move(b *buffer.Buffer, t mode.Trigger) {
	switch t {
	case mode.TriggerLeft:
		b.MoveCursor(buffer.Left)
	case mode.TriggerRight:
		b.MoveCursor(buffer.Right)
	case mode.TriggerUp:
		b.MoveCursor(buffer.Up)
	case mode.TriggerDown:
		b.MoveCursor(buffer.Down)
	case mode.TriggerWordForward:
		b.MoveWordForward()
	case mode.TriggerWordBackward:
		b.MoveWordBackward()
	case mode.TriggerLineStart:
		b.MoveCursor(buffer.LineStart)
	case mode.TriggerLineEnd:
		b.MoveCursor(buffer.LineEnd)
	case mode.TriggerFileStart:
		b.MoveCursor(buffer.FileStart)
	case mode.TriggerFileEnd:
		b.MoveCursor(buffer.FileEnd)
	case mode.TriggerPageUp:
		b.MovePageUp(e.pageSize)
	case mode.TriggerPageDown:
		b.MovePageDown(e.pageSize)
	}
}

func selectionMotion(t mode.Trigger) mode.Trigger {
	switch t {
	case mode.TriggerSelectLeft:
		return mode.TriggerLeft
	case mode.TriggerSelectRight:
		return mode.TriggerRight
	case mode.TriggerSelectUp:
		return mode.TriggerUp
	case mode.TriggerSelectDown:
		return mode.TriggerDown
	case mode.TriggerSelectWordForward:
		return mode.TriggerWordForward
	case mode.TriggerSelectWordBackward:
		return mode.TriggerWordBackward
	}
	return mode.TriggerNone
}

func (e *Editor) scroll(b *buffer.Buffer, t mode.Trigger) {
	dir := buffer.Down
	if t == mode.TriggerScrollUp {
		dir = buffer.Up
	}
	for i := 0; i < DefaultScrollStep; i++ {
		b.MoveCursor(dir)
	}
}

func (e *Editor) mouse(b *buffer.Buffer, m mode.Mode, in Input) {
	target := buffer.Position{Row: in.Row, Col: in.Col}
	switch in.Trigger {
	case mode.TriggerMouseClick:
		if m.IsVisual() {
			b.ClearVisual()
		}
		b.SetCursor(target)
	case mode.TriggerMouseDoubleClick:
		b.SetCursor(target)
		if !b.SelectTextObject(buffer.ObjectWord, false) {
			b.StartVisual(buffer.SelectionChar)
		}
	case mode.TriggerMouseTripleClick:
		b.SetCursor(target)
		b.StartVisual(buffer.SelectionLine)
	case mode.TriggerMouseDrag:
		if !b.HasSelection() {
			b.StartVisual(buffer.SelectionChar)
		}
		b.SetCursor(target)
	}
}

func (e *Editor) prepareInsert(b *buffer.Buffer, t mode.Trigger) {
	switch t {
	case mode.TriggerInsertAppend:
		b.PrepareAppend()
	case mode.TriggerInsertAppendEnd:
		b.PrepareAppendEndOfLine()
	case mode.TriggerInsertLineStart:
		b.PrepareInsertStartOfLine()
	case mode.TriggerInsertLineBelow:
		b.InsertLineBelow()
	case mode.TriggerInsertLineAbove:
		b.InsertLineAbove()
	}
}

func (e *Editor) insertOperation(b *buffer.Buffer, m mode.Mode, in Input) {
	switch in.Trigger {
	case mode.TriggerInsertChar:
		if !m.AllowsTextInput() {
			return
		}
		if m.IsReplace() {
			b.InsertCharReplace(in.Rune)
		} else {
			b.InsertChar(in.Rune)
		}
	case mode.TriggerDeleteBackward:
		if m.AllowsDeletion() {
			b.DeleteChar()
		}
	case mode.TriggerDeleteForward:
		if m.AllowsDeletion() {
			b.DeleteCharForward()
		}
	case mode.TriggerDeleteWord:
		if m.AllowsDeletion() {
			b.DeleteWordBackward()
		}
	case mode.TriggerDeleteToLineStart:
		if m.AllowsDeletion() {
			b.DeleteToLineStart()
		}
	case mode.TriggerInsertTab:
		if m.AllowsTextInput() {
			b.InsertText(strings.Repeat(" ", b.TabSize()))
		}
	case mode.TriggerInsertBackTab:
		if m.AllowsIndent() {
			b.DedentLine()
		}
	case mode.TriggerInsertNewLine:
		if m.AllowsTextInput() {
			b.InsertNewlineAutoIndent()
		}
	case mode.TriggerCompletion:
		if m.AllowsTextInput() && !completeWord(b) {
			e.setStatus("No completion")
		}
	}
}

// command handles the remaining triggers: visual operators and the
// normal mode editing commands.
func (e *Editor) command(b *buffer.Buffer, m mode.Mode, t mode.Trigger) (mode.Mode, bool) {
	switch t {
	case mode.TriggerVisualYank:
		if m.IsVisual() && b.YankSelection() {
			e.setStatus("Yanked")
		}
	case mode.TriggerVisualDelete, mode.TriggerVisualChange:
		if m.IsVisual() && m.AllowsCut() {
			b.CutSelection()
		}
	case mode.TriggerVisualIndent:
		if m.IsVisual() && m.AllowsIndent() {
			b.IndentSelection()
		}
	case mode.TriggerVisualDedent:
		if m.IsVisual() && m.AllowsIndent() {
			b.DedentSelection()
		}

	case mode.TriggerUndo:
		if m.AllowsUndo() && !b.Undo() {
			e.setStatus("Already at oldest change")
		}
	case mode.TriggerRedo:
		if m.AllowsUndo() && !b.Redo() {
			e.setStatus("Already at newest change")
		}
	case mode.TriggerCutChar:
		if m.AllowsCut() && m.AllowsDeletion() {
			b.CutChar()
		}
	case mode.TriggerDeleteLine:
		if m.AllowsCut() && m.AllowsDeletion() {
			b.CutLine()
		}
	case mode.TriggerYankLine:
		if m.IsNormal() {
			b.YankLine()
		}
	case mode.TriggerPaste:
		switch {
		case m.IsVisual():
			b.PasteOverSelection()
			return mode.Normal(), true
		case m.IsNormal():
			b.Paste()
		}
	case mode.TriggerIndent:
		if m.AllowsIndent() {
			b.IndentLine()
		}
	case mode.TriggerDedent:
		if m.AllowsIndent() {
			b.DedentLine()
		}
	case mode.TriggerNextMatch, mode.TriggerPrevMatch:
		if !m.AllowsCursorMovement() {
			break
		}
		if b.SearchQuery() == "" {
			e.setError(errors.New("no previous search pattern"))
			break
		}
		if t == mode.TriggerNextMatch {
			b.NextMatch()
		} else {
			b.PreviousMatch()
		}
		e.reportMatch(b)
	case mode.TriggerEnter:
		if m.AllowsCursorMovement() {
			b.MoveCursor(buffer.Down)
		}
	}
	return mode.Mode{}, false
}

// systemClipboard routes copy, cut and paste through both the yank
// history and the operating system clipboard.
func (e *Editor) systemClipboard(b *buffer.Buffer, m mode.Mode, t mode.Trigger) (mode.Mode, bool) {
	switch t {
	case mode.TriggerSystemCopy:
		text := copyText(b)
		e.clip.Yank(text)
		e.exportClipboard(text)
	case mode.TriggerSystemCut:
		if !m.AllowsCut() {
			return mode.Mode{}, false
		}
		if b.HasSelection() {
			b.CutSelection()
		} else {
			b.CutLine()
		}
		if text, ok := e.clip.Peek(); ok {
			e.exportClipboard(text)
		}
		if m.IsVisual() {
			return mode.Normal(), true
		}
	case mode.TriggerSystemPaste:
		text, ok := e.importClipboard()
		if !ok {
			return mode.Mode{}, false
		}
		switch {
		case m.IsInsert():
			b.PasteAtCursor(text)
		case m.IsVisual():
			b.ReplaceSelection(text)
			return mode.Normal(), true
		case m.IsNormal():
			b.Paste()
		}
	}
	return mode.Mode{}, false
}

// copyText returns the selection, or the cursor line when nothing is
// selected. Linewise text ends with a line break.
func copyText(b *buffer.Buffer) string {
	if text, ok := b.SelectedText(); ok {
		if b.VisualMode() == buffer.SelectionLine {
			text += "\n"
		}
		return text
	}
	return b.Line(b.Cursor().Row) + "\n"
}

func (e *Editor) exportClipboard(text string) {
	if err := e.system.Set(text); err != nil {
		e.logger.WithComponent("clipboard").Debug("system clipboard: %v", err)
	}
}

// importClipboard returns the system clipboard content, recorded in the
// yank history, or the latest history entry when the system clipboard is
// unavailable or empty.
func (e *Editor) importClipboard() (string, bool) {
	text, err := e.system.Get()
	if err == nil && text != "" {
		if latest, ok := e.clip.Peek(); !ok || latest != text {
			e.clip.Yank(text)
		}
		return text, true
	}
	if err != nil {
		e.logger.WithComponent("clipboard").Debug("system clipboard: %v", err)
	}
	return e.clip.Peek()
}

// handleOp runs the text object operations.
func (e *Editor) handleOp(doc *Document, m mode.Mode, in Input) {
	var (
		ok   bool
		next = m
	)
	switch in.Op {
	case OpSelectObject:
		if !m.AllowsSelection() || m.IsInsert() {
			return
		}
		doc.Edit(func(b *buffer.Buffer) {
			if ok = b.SelectTextObject(in.Object, in.Around); ok {
				next = mode.Visual(visualVariant(b.VisualMode()))
			}
		})
	case OpDeleteObject, OpChangeObject:
		if !m.IsNormal() || !m.AllowsDeletion() {
			return
		}
		doc.Edit(func(b *buffer.Buffer) {
			ok = b.DeleteTextObject(in.Object, in.Around)
		})
		if ok && in.Op == OpChangeObject {
			next = mode.Insert(mode.InsertPlain)
		}
	}
	if !ok {
		e.setStatus("No text object")
		return
	}
	e.modes.Set(next)
}

func isCommandLineTrigger(t mode.Trigger) bool {
	switch t {
	case mode.TriggerInsertChar, mode.TriggerDeleteBackward, mode.TriggerEnter, mode.TriggerSystemPaste:
		return true
	}
	return false
}

// handleCommandLine edits and submits the command line.
func (e *Editor) handleCommandLine(m mode.Mode, in Input) error {
	switch in.Trigger {
	case mode.TriggerInsertChar:
		e.cmdline = append(e.cmdline, in.Rune)
	case mode.TriggerSystemPaste:
		if text, ok := e.importClipboard(); ok {
			first, _, _ := strings.Cut(text, "\n")
			e.cmdline = append(e.cmdline, []rune(first)...)
		}
	case mode.TriggerDeleteBackward:
		if len(e.cmdline) == 0 {
			e.modes.Set(mode.Normal())
			return nil
		}
		e.cmdline = e.cmdline[:len(e.cmdline)-1]
	case mode.TriggerEnter:
		line := string(e.cmdline)
		e.modes.Set(mode.Transition(m, mode.TriggerEnter))
		return e.submit(m, line)
	}
	return nil
}

func (e *Editor) submit(m mode.Mode, line string) error {
	ct, _ := m.CommandType()
	if ct == mode.CommandRegular {
		err := e.Execute(line)
		if errors.Is(err, ErrQuit) {
			return err
		}
		if err != nil {
			e.setError(err)
		}
		return nil
	}

	doc := e.ensureDocument()
	if doc == nil || line == "" {
		return nil
	}
	var n int
	doc.Edit(func(b *buffer.Buffer) {
		if ct == mode.CommandBackward {
			n = b.SearchBackward(line, !e.ignoreCase)
		} else {
			n = b.Search(line, !e.ignoreCase)
		}
		if n > 0 {
			e.reportMatch(b)
		}
	})
	if n == 0 {
		e.setError(fmt.Errorf("pattern not found: %s", line))
	}
	return nil
}

func (e *Editor) reportMatch(b *buffer.Buffer) {
	if _, idx, ok := b.CurrentMatch(); ok {
		e.setStatus("[%d/%d] %s", idx+1, len(b.Matches()), b.SearchQuery())
	}
}

// completeWord extends the word before the cursor with the remainder of
// the alphabetically first longer word in the buffer sharing its prefix.
func completeWord(b *buffer.Buffer) bool {
	cur := b.Cursor()
	line := b.LineRunes(cur.Row)
	start := cur.Col
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:cur.Col])
	if prefix == "" {
		return false
	}

	seen := make(map[string]bool)
	for row := 0; row < b.LineCount(); row++ {
		for _, w := range strings.FieldsFunc(b.Line(row), func(r rune) bool { return !isWordRune(r) }) {
			if len(w) > len(prefix) && strings.HasPrefix(w, prefix) {
				seen[w] = true
			}
		}
	}
	if len(seen) == 0 {
		return false
	}
	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)
	b.InsertText(strings.TrimPrefix(words[0], prefix))
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
