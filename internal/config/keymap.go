package config

import (
	"maps"
	"slices"

	"github.com/dshills/snapedit/internal/input/key"
)

// Keymap returns the default keymap with the [keys] overrides applied.
// Each override moves its command to the new code; an empty specification
// removes every binding of the command.
func (c *Config) Keymap() (*key.Keymap, error) {
	km := key.DefaultKeymap()
	if err := ApplyKeys(km, c.Keys); err != nil {
		return nil, err
	}
	return km, nil
}

// ApplyKeys applies command-to-key overrides to km in command-name order.
func ApplyKeys(km *key.Keymap, keys map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(keys)) {
		spec := keys[name]
		path := "keys." + name

		cmd, err := key.ParseCommand(name)
		if err != nil {
			return &ValidationError{Path: path, Value: name, Message: "unknown command", Err: err}
		}

		if spec == "" {
			for _, code := range km.CodesFor(cmd) {
				km.Unbind(code)
			}
			continue
		}

		code, err := key.ParseCode(spec)
		if err != nil {
			return &ValidationError{Path: path, Value: spec, Message: "invalid key", Err: err}
		}
		km.BindExclusive(code, cmd)
	}
	return nil
}
