package key

import (
	"maps"
	"slices"
	"unicode"
)

// Keymap maps input codes to commands.
// Keymap is not safe for concurrent use; Clone it to hand a copy to
// another goroutine.
type Keymap struct {
	bindings map[rune]Command
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[rune]Command)}
}

// DefaultKeymap returns the standard bindings:
//
//	^q quit    ^f forward   ^b backward   ^u up
//	^d down    ^r undo      ^s save       DEL delete
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	km.Bind(0x11, CommandQuit)
	km.Bind(0x06, CommandMoveForward)
	km.Bind(0x02, CommandMoveBackward)
	km.Bind(0x15, CommandMoveUp)
	km.Bind(0x04, CommandMoveDown)
	km.Bind(0x12, CommandUndo)
	km.Bind(0x13, CommandSave)
	km.Bind(CodeDelete, CommandDelete)
	return km
}

// Bind maps code to cmd, replacing any previous binding of code.
// Binding CommandInsert or CommandUnknown removes the binding instead.
func (k *Keymap) Bind(code rune, cmd Command) {
	if !cmd.Bindable() {
		delete(k.bindings, code)
		return
	}
	k.bindings[code] = cmd
}

// Unbind removes the binding of code.
func (k *Keymap) Unbind(code rune) {
	delete(k.bindings, code)
}

// BindExclusive binds code to cmd and removes every other code bound to cmd.
// Configuration uses this so that rebinding a command moves it.
func (k *Keymap) BindExclusive(code rune, cmd Command) {
	for c, bound := range k.bindings {
		if bound == cmd {
			delete(k.bindings, c)
		}
	}
	k.Bind(code, cmd)
}

// Lookup classifies an input code.
// Bound codes return their command. Unbound printable characters, newline and
// tab return CommandInsert; any other unbound code returns CommandUnknown.
func (k *Keymap) Lookup(code rune) Command {
	if cmd, ok := k.bindings[code]; ok {
		return cmd
	}
	if Insertable(code) {
		return CommandInsert
	}
	return CommandUnknown
}

// CodesFor returns the codes bound to cmd in ascending order.
func (k *Keymap) CodesFor(cmd Command) []rune {
	var codes []rune
	for code, bound := range k.bindings {
		if bound == cmd {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	return len(k.bindings)
}

// Clone returns an independent copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	return &Keymap{bindings: maps.Clone(k.bindings)}
}

// Insertable reports whether an unbound code inserts itself into the text.
func Insertable(code rune) bool {
	return code == CodeNewline || code == CodeTab || unicode.IsPrint(code)
}
