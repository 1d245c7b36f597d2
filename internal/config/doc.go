// Package config loads snapedit's settings.
//
// Settings come from three layers merged in order of increasing priority:
// built-in defaults, a TOML or YAML config file, and SNAPEDIT_ environment
// variables. The merged map is decoded into a Config, whose sections are
// plain structs. Config.Keymap turns the [keys] section into a key.Keymap.
//
// Example config file:
//
//	[log]
//	level = "debug"
//	file = "/tmp/snapedit.log"
//
//	[history]
//	limit = 500
//
//	[editor]
//	backend = "ansi"
//	scrollOff = 3
//
//	[keys]
//	quit = "^x"
//	undo = "<C-z>"
package config
