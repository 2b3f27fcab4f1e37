package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Host is the editor surface scripts operate on. Rows are 0-based.
type Host interface {
	LineCount() int
	Line(row int) (string, bool)
	Cursor() (row, col int)
	SetCursor(row, col int)
	Insert(text string)
	InsertBlock(text string) bool
	Search(query string) bool
	Undo() bool
	Redo() bool
	Yank(text string)
	Register() (string, bool)
	Mode() string
	Message(msg string)
	Execute(command string) error
	FileName() string
}

// ModuleName is the global table holding the editor API.
const ModuleName = "zf"

func registerAPI(L *lua.LState, h Host) {
	api := &api{host: h}
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"line":         api.line,
		"line_count":   api.lineCount,
		"cursor":       api.cursor,
		"set_cursor":   api.setCursor,
		"insert":       api.insert,
		"insert_block": api.insertBlock,
		"search":       api.search,
		"undo":         api.undo,
		"redo":         api.redo,
		"yank":         api.yank,
		"register":     api.register,
		"mode":         api.mode,
		"message":      api.message,
		"command":      api.command,
		"file_name":    api.fileName,
	})
	L.SetGlobal(ModuleName, mod)
}

type api struct {
	host Host
}

// line(n) returns line n (1-based) or nil when out of range.
func (a *api) line(L *lua.LState) int {
	n := L.CheckInt(1)
	s, ok := a.host.Line(n - 1)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(s))
	return 1
}

func (a *api) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(a.host.LineCount()))
	return 1
}

// cursor() returns row (1-based) and column.
func (a *api) cursor(L *lua.LState) int {
	row, col := a.host.Cursor()
	L.Push(lua.LNumber(row + 1))
	L.Push(lua.LNumber(col))
	return 2
}

func (a *api) setCursor(L *lua.LState) int {
	row := L.CheckInt(1)
	col := L.OptInt(2, 0)
	if row < 1 {
		L.ArgError(1, "row must be >= 1")
	}
	if col < 0 {
		L.ArgError(2, "column must be >= 0")
	}
	a.host.SetCursor(row-1, col)
	return 0
}

func (a *api) insert(L *lua.LState) int {
	a.host.Insert(L.CheckString(1))
	return 0
}

func (a *api) insertBlock(L *lua.LState) int {
	L.Push(lua.LBool(a.host.InsertBlock(L.CheckString(1))))
	return 1
}

func (a *api) search(L *lua.LState) int {
	L.Push(lua.LBool(a.host.Search(L.CheckString(1))))
	return 1
}

func (a *api) undo(L *lua.LState) int {
	L.Push(lua.LBool(a.host.Undo()))
	return 1
}

func (a *api) redo(L *lua.LState) int {
	L.Push(lua.LBool(a.host.Redo()))
	return 1
}

func (a *api) yank(L *lua.LState) int {
	a.host.Yank(L.CheckString(1))
	return 0
}

func (a *api) register(L *lua.LState) int {
	s, ok := a.host.Register()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(s))
	return 1
}

func (a *api) mode(L *lua.LState) int {
	L.Push(lua.LString(a.host.Mode()))
	return 1
}

func (a *api) message(L *lua.LState) int {
	a.host.Message(L.CheckString(1))
	return 0
}

// command(cmd) runs an ex command. It returns true, or nil and the error text.
func (a *api) command(L *lua.LState) int {
	if err := a.host.Execute(L.CheckString(1)); err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (a *api) fileName(L *lua.LState) int {
	L.Push(lua.LString(a.host.FileName()))
	return 1
}
