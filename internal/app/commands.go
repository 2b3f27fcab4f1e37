package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/zorforge/internal/engine/buffer"
)

type exCommand struct {
	name  string
	bang  bool
	arg   string
	input string
}

// parseEx splits "name[!] [arg]". A leading ':' is ignored.
func parseEx(line string) exCommand {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	cmd := exCommand{input: line}

	end := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(line)
	}
	if end == 0 {
		// Non-alphabetic commands such as line numbers.
		cmd.name = line
		return cmd
	}
	cmd.name = line[:end]
	rest := line[end:]
	if strings.HasPrefix(rest, "!") {
		cmd.bang = true
		rest = rest[1:]
	}
	cmd.arg = strings.TrimSpace(rest)
	return cmd
}

// Execute runs an ex command line. It returns ErrQuit when the session
// should end.
func (e *Editor) Execute(line string) error {
	cmd := parseEx(line)
	if cmd.name == "" {
		return nil
	}
	e.logger.WithComponent("command").Debug("execute %q", cmd.input)

	if n, err := strconv.Atoi(cmd.name); err == nil {
		return e.gotoLine(n)
	}

	switch cmd.name {
	case "q", "quit":
		return e.quit(cmd.bang)
	case "qa", "qall":
		return e.quit(cmd.bang)
	case "w", "write":
		return e.write(cmd.arg)
	case "wa", "wall":
		return e.writeAll()
	case "wq":
		if err := e.write(cmd.arg); err != nil {
			return err
		}
		return e.quit(cmd.bang)
	case "x", "xit":
		doc := e.docs.Active()
		if doc != nil && (doc.IsDirty() || cmd.arg != "") {
			if err := e.write(cmd.arg); err != nil {
				return err
			}
		}
		return e.quit(cmd.bang)
	case "e", "edit":
		return e.edit(cmd.arg, cmd.bang)
	case "enew":
		_, err := e.docs.CreateScratch()
		return err
	case "bn", "bnext":
		e.switched(e.docs.Next())
		return nil
	case "bp", "bprev", "bprevious", "bN", "bNext":
		e.switched(e.docs.Prev())
		return nil
	case "bd", "bdelete":
		return e.closeBuffer(cmd.bang)
	case "ls", "buffers", "files":
		e.listBuffers()
		return nil
	case "noh", "nohlsearch":
		if doc := e.docs.Active(); doc != nil {
			doc.Edit(func(b *buffer.Buffer) { b.ClearSearch() })
		}
		return nil
	case "set", "se":
		return e.set(cmd.arg)
	case "lua":
		return e.runScript(func(s ScriptRunner) error { return s.DoString(cmd.arg) })
	case "luafile":
		if cmd.arg == "" {
			return errors.New("argument required")
		}
		return e.runScript(func(s ScriptRunner) error { return s.DoFile(cmd.arg) })
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.input)
}

func (e *Editor) gotoLine(n int) error {
	doc := e.ensureDocument()
	if doc == nil {
		return ErrNoActiveDocument
	}
	doc.Edit(func(b *buffer.Buffer) { b.GotoLine(n) })
	return nil
}

func (e *Editor) quit(force bool) error {
	if !force && e.docs.HasDirty() {
		return ErrUnsavedChanges
	}
	return ErrQuit
}

func (e *Editor) write(path string) error {
	doc := e.docs.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}

	var err error
	if path != "" {
		e.Forget(doc)
		err = e.docs.SaveAs(doc.ID, path)
		e.watch(doc)
	} else {
		err = e.docs.Save(doc.ID)
	}
	if err != nil {
		return err
	}

	var lines int
	doc.View(func(b *buffer.Buffer) { lines = b.LineCount() })
	e.setStatus("%q %dL written", doc.Name(), lines)
	return nil
}

func (e *Editor) writeAll() error {
	var errs ErrorList
	written := 0
	for _, doc := range e.docs.All() {
		if doc.IsScratch() || !doc.IsDirty() {
			continue
		}
		if err := e.docs.Save(doc.ID); err != nil {
			errs.Add(err)
			continue
		}
		written++
	}
	if err := errs.AsError(); err != nil {
		return err
	}
	e.setStatus("%d buffers written", written)
	return nil
}

func (e *Editor) edit(path string, force bool) error {
	if path != "" {
		doc, err := e.Open(path)
		if err != nil {
			return err
		}
		e.switched(doc)
		return nil
	}

	doc := e.docs.Active()
	if doc == nil || doc.IsScratch() {
		return ErrNoFileName
	}
	if doc.IsDirty() && !force {
		return ErrUnsavedChanges
	}
	if err := e.docs.Reload(doc.ID, force); err != nil {
		return err
	}
	e.switched(doc)
	return nil
}

func (e *Editor) closeBuffer(force bool) error {
	doc := e.docs.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}
	if doc.IsDirty() && !force {
		return ErrUnsavedChanges
	}
	if err := e.docs.Close(doc.ID); err != nil {
		return err
	}
	e.switched(e.ensureDocument())
	return nil
}

// switched reports the newly active document.
func (e *Editor) switched(doc *Document) {
	if doc == nil {
		return
	}
	var lines int
	doc.View(func(b *buffer.Buffer) { lines = b.LineCount() })
	e.setStatus("%q %dL", doc.Name(), lines)
}

func (e *Editor) listBuffers() {
	active := e.docs.Active()
	var parts []string
	for i, doc := range e.docs.All() {
		flags := " "
		if doc == active {
			flags = "%a"
		}
		if doc.IsDirty() {
			flags += " +"
		}
		var row int
		doc.View(func(b *buffer.Buffer) { row = b.Cursor().Row })
		parts = append(parts, fmt.Sprintf("%d %s %q line %d", i+1, flags, doc.Name(), row+1))
	}
	e.setStatus("%s", strings.Join(parts, " | "))
}

// set handles "tabsize=N", "ignorecase" and "noignorecase" (and their
// short forms).
func (e *Editor) set(arg string) error {
	if arg == "" {
		ic := "noignorecase"
		if e.ignoreCase {
			ic = "ignorecase"
		}
		e.setStatus("tabsize=%d %s", e.tabSize, ic)
		return nil
	}
	name, value, hasValue := strings.Cut(arg, "=")
	switch name {
	case "tabsize", "ts":
		if !hasValue {
			e.setStatus("tabsize=%d", e.tabSize)
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 16 {
			return fmt.Errorf("invalid argument: %s", arg)
		}
		e.tabSize = n
		e.docs.SetTabSize(n)
		for _, doc := range e.docs.All() {
			doc.Edit(func(b *buffer.Buffer) { b.SetTabSize(n) })
		}
		return nil
	case "ignorecase", "ic":
		e.ignoreCase = true
		return nil
	case "noignorecase", "noic":
		e.ignoreCase = false
		return nil
	}
	return fmt.Errorf("unknown option: %s", arg)
}

func (e *Editor) runScript(run func(ScriptRunner) error) error {
	if e.scripts == nil {
		return errors.New("lua scripting is not available")
	}
	// The script state is not re-entrant.
	if e.scriptRunning {
		return ErrNestedScript
	}
	e.scriptRunning = true
	defer func() { e.scriptRunning = false }()

	e.quitRequested = false
	if err := run(e.scripts); err != nil {
		return NewOperationError("lua", "", err)
	}
	if e.quitRequested {
		e.quitRequested = false
		return ErrQuit
	}
	return nil
}
