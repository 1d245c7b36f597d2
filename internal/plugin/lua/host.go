package lua

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/snapedit/internal/input/key"
)

// ModuleName is the global table exposed to scripts.
const ModuleName = "snapedit"

// Logger receives script log calls.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Binding is a key binding requested by a script.
// An unbind request has Unbind set and Command unused.
type Binding struct {
	Code    rune
	Command key.Command
	Unbind  bool
}

// Host owns the script state and what the script registered.
type Host struct {
	state    *State
	logger   Logger
	bindings []Binding
	hooks    []*lua.LFunction
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets where snapedit.log writes.
func WithLogger(l Logger) HostOption {
	return func(h *Host) {
		h.logger = l
	}
}

// WithState sets the Lua state, for custom timeouts.
func WithState(s *State) HostOption {
	return func(h *Host) {
		h.state = s
	}
}

// NewHost creates a host with the snapedit module installed.
func NewHost(opts ...HostOption) *Host {
	h := &Host{}
	for _, opt := range opts {
		opt(h)
	}
	if h.state == nil {
		h.state = NewState()
	}

	h.state.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"bind":       h.luaBind,
		"unbind":     h.luaUnbind,
		"log":        h.luaLog,
		"on_command": h.luaOnCommand,
	})
	h.state.L.SetGlobal("print", h.state.L.NewFunction(h.luaPrint))
	return h
}

// RunFile executes an init script.
func (h *Host) RunFile(ctx context.Context, path string) error {
	if err := h.state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}
	return nil
}

// RunString executes script source.
func (h *Host) RunString(ctx context.Context, code string) error {
	return h.state.DoString(ctx, code)
}

// Bindings returns the bindings requested so far, in call order.
func (h *Host) Bindings() []Binding {
	out := make([]Binding, len(h.bindings))
	copy(out, h.bindings)
	return out
}

// ApplyBindings replays the script's bindings onto km.
func (h *Host) ApplyBindings(km *key.Keymap) {
	for _, b := range h.bindings {
		if b.Unbind {
			km.Unbind(b.Code)
			continue
		}
		km.Bind(b.Code, b.Command)
	}
}

// HookCount returns the number of on_command hooks.
func (h *Host) HookCount() int {
	return len(h.hooks)
}

// NotifyCommand calls every on_command hook with the command name and the
// cursor position after the command. It stops at the first failing hook.
func (h *Host) NotifyCommand(ctx context.Context, cmd key.Command, row, col int) error {
	for _, fn := range h.hooks {
		err := h.state.CallFunction(ctx, fn, lua.LString(cmd.String()), lua.LNumber(row), lua.LNumber(col))
		if err != nil {
			return fmt.Errorf("on_command hook: %w", err)
		}
	}
	return nil
}

// Close releases the script state.
func (h *Host) Close() {
	h.state.Close()
}

// snapedit.bind(key, command)
func (h *Host) luaBind(L *lua.LState) int {
	spec := L.CheckString(1)
	name := L.CheckString(2)

	code, err := key.ParseCode(spec)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	cmd, err := key.ParseCommand(name)
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}

	h.bindings = append(h.bindings, Binding{Code: code, Command: cmd})
	return 0
}

// snapedit.unbind(key)
func (h *Host) luaUnbind(L *lua.LState) int {
	code, err := key.ParseCode(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	h.bindings = append(h.bindings, Binding{Code: code, Unbind: true})
	return 0
}

// snapedit.log([level,] msg)
func (h *Host) luaLog(L *lua.LState) int {
	level, msg := "info", L.CheckString(1)
	if L.GetTop() >= 2 {
		level, msg = msg, L.CheckString(2)
	}
	if h.logger == nil {
		return 0
	}

	switch level {
	case "debug":
		h.logger.Debug("lua: %s", msg)
	case "info":
		h.logger.Info("lua: %s", msg)
	case "warn":
		h.logger.Warn("lua: %s", msg)
	case "error":
		h.logger.Error("lua: %s", msg)
	default:
		L.ArgError(1, "unknown log level "+level)
	}
	return 0
}

// print(...) logs its arguments at info level, tab separated.
func (h *Host) luaPrint(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	if h.logger != nil {
		h.logger.Info("lua: %s", strings.Join(parts, "\t"))
	}
	return 0
}

// snapedit.on_command(fn)
func (h *Host) luaOnCommand(L *lua.LState) int {
	h.hooks = append(h.hooks, L.CheckFunction(1))
	return 0
}
