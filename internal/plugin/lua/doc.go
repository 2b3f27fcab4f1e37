// Package lua embeds a sandboxed gopher-lua interpreter for editor scripting.
//
// A State exposes a global `zf` table whose functions call back into a Host.
// Rows are 1-based on the Lua side and 0-based in Go; columns are 0-based rune
// offsets on both sides.
//
// Example:
//
//	local row, col = zf.cursor()
//	zf.insert("-- " .. zf.file_name())
//	if zf.search("TODO") then zf.message("found") end
//	zf.command("w")
//
// The sandbox omits the io, os, debug and package libraries and removes the
// functions that load code from disk or strings. print is routed to the
// host's message line. Each execution runs under a deadline.
package lua
