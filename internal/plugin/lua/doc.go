// Package lua runs snapedit's optional init script.
//
// The script runs in a gopher-lua state with only the base, table, string
// and math libraries opened. It sees a global "snapedit" module:
//
//	snapedit.bind(key, command)   -- bind a key spec to a command
//	snapedit.unbind(key)          -- remove a binding
//	snapedit.log([level,] msg)    -- write to the editor log
//	snapedit.on_command(fn)       -- fn(name, row, col) after each command
//
// The global print logs at info level instead of writing to stdout.
//
// Bindings are recorded, not applied directly, so the editor can reapply
// them on top of a keymap rebuilt from configuration.
package lua
