package key

import (
	"fmt"
	"strings"
)

// Command identifies what an input code asks the editor to do.
type Command uint8

const (
	// CommandInsert inserts the input character at the cursor.
	// It is the default for unbound printable input.
	CommandInsert Command = iota

	// CommandUnknown is an unbound, non-printable input code.
	CommandUnknown

	CommandQuit
	CommandMoveForward
	CommandMoveBackward
	CommandMoveUp
	CommandMoveDown
	CommandUndo
	CommandDelete
	CommandSave
)

var commandNames = map[Command]string{
	CommandInsert:       "insert",
	CommandUnknown:      "unknown",
	CommandQuit:         "quit",
	CommandMoveForward:  "forward",
	CommandMoveBackward: "backward",
	CommandMoveUp:       "up",
	CommandMoveDown:     "down",
	CommandUndo:         "undo",
	CommandDelete:       "delete",
	CommandSave:         "save",
}

// String returns the command's configuration name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

// Mutates reports whether the command changes the buffer and is recorded
// in undo history.
func (c Command) Mutates() bool {
	return c == CommandInsert || c == CommandDelete
}

// Bindable reports whether the command may be bound to a key.
func (c Command) Bindable() bool {
	return c != CommandInsert && c != CommandUnknown
}

// ParseCommand returns the command with the given configuration name.
// Matching is case-insensitive. The movement commands also accept a "move"
// prefix: "move-forward", "move_forward" and "moveForward" all name forward.
func ParseCommand(name string) (Command, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if rest, ok := strings.CutPrefix(n, "move"); ok {
		n = strings.TrimLeft(rest, "-_")
	}
	for cmd, cmdName := range commandNames {
		if cmdName == n && cmd.Bindable() {
			return cmd, nil
		}
	}
	return CommandUnknown, fmt.Errorf("%w: %q", ErrUnknownCommandName, name)
}

// BindableCommands returns every command that can be bound, in declaration order.
func BindableCommands() []Command {
	return []Command{
		CommandQuit,
		CommandMoveForward,
		CommandMoveBackward,
		CommandMoveUp,
		CommandMoveDown,
		CommandUndo,
		CommandDelete,
		CommandSave,
	}
}
