package lua

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/snapedit/internal/input/key"
)

type recordLogger struct {
	lines []string
}

func (r *recordLogger) record(level, msg string, args ...any) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(msg, args...))
}

func (r *recordLogger) Debug(msg string, args ...any) { r.record("DEBUG", msg, args...) }
func (r *recordLogger) Info(msg string, args ...any)  { r.record("INFO", msg, args...) }
func (r *recordLogger) Warn(msg string, args ...any)  { r.record("WARN", msg, args...) }
func (r *recordLogger) Error(msg string, args ...any) { r.record("ERROR", msg, args...) }

func TestHost_Bind(t *testing.T) {
	h := NewHost()
	defer h.Close()

	err := h.RunString(context.Background(), `
		snapedit.bind("^x", "quit")
		snapedit.bind("<C-z>", "undo")
		snapedit.unbind("^q")
	`)
	if err != nil {
		t.Fatalf("RunString() error = %v", err)
	}

	want := []Binding{
		{Code: 0x18, Command: key.CommandQuit},
		{Code: 0x1a, Command: key.CommandUndo},
		{Code: 0x11, Unbind: true},
	}
	got := h.Bindings()
	if len(got) != len(want) {
		t.Fatalf("Bindings() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Bindings()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	km := key.DefaultKeymap()
	h.ApplyBindings(km)
	if cmd := km.Lookup(0x18); cmd != key.CommandQuit {
		t.Errorf("^x = %v, want quit", cmd)
	}
	if cmd := km.Lookup(0x1a); cmd != key.CommandUndo {
		t.Errorf("^z = %v, want undo", cmd)
	}
	if cmd := km.Lookup(0x11); cmd != key.CommandUnknown {
		t.Errorf("^q = %v, want unknown after unbind", cmd)
	}
}

func TestHost_BindErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"bad key", `snapedit.bind("<nonsense>", "quit")`},
		{"bad command", `snapedit.bind("^x", "explode")`},
		{"insert not bindable", `snapedit.bind("^x", "insert")`},
		{"missing arg", `snapedit.bind("^x")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHost()
			defer h.Close()

			if err := h.RunString(context.Background(), tt.code); err == nil {
				t.Error("expected error")
			}
			if len(h.Bindings()) != 0 {
				t.Errorf("Bindings() = %v, want none", h.Bindings())
			}
		})
	}
}

func TestHost_Log(t *testing.T) {
	logger := &recordLogger{}
	h := NewHost(WithLogger(logger))
	defer h.Close()

	err := h.RunString(context.Background(), `
		snapedit.log("hello")
		snapedit.log("warn", "careful")
		snapedit.log("debug", "details")
	`)
	if err != nil {
		t.Fatalf("RunString() error = %v", err)
	}

	want := []string{"INFO lua: hello", "WARN lua: careful", "DEBUG lua: details"}
	if strings.Join(logger.lines, "|") != strings.Join(want, "|") {
		t.Errorf("logged %q, want %q", logger.lines, want)
	}

	if err := h.RunString(context.Background(), `snapedit.log("loud", "x")`); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestHost_PrintGoesToLog(t *testing.T) {
	logger := &recordLogger{}
	h := NewHost(WithLogger(logger))
	defer h.Close()

	if err := h.RunString(context.Background(), `print("a", 1, true, nil)`); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	want := "INFO lua: a\t1\ttrue\tnil"
	if len(logger.lines) != 1 || logger.lines[0] != want {
		t.Errorf("logged %q, want [%q]", logger.lines, want)
	}

	// Without a logger print is silent.
	quiet := NewHost()
	defer quiet.Close()
	if err := quiet.RunString(context.Background(), `print("dropped")`); err != nil {
		t.Errorf("print without logger: %v", err)
	}
}

func TestHost_OnCommand(t *testing.T) {
	h := NewHost()
	defer h.Close()

	err := h.RunString(context.Background(), `
		seen = {}
		snapedit.on_command(function(name, row, col)
			table.insert(seen, name .. "@" .. row .. ":" .. col)
		end)
	`)
	if err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	if h.HookCount() != 1 {
		t.Fatalf("HookCount() = %d, want 1", h.HookCount())
	}

	ctx := context.Background()
	if err := h.NotifyCommand(ctx, key.CommandInsert, 0, 1); err != nil {
		t.Fatalf("NotifyCommand() error = %v", err)
	}
	if err := h.NotifyCommand(ctx, key.CommandMoveDown, 1, 1); err != nil {
		t.Fatalf("NotifyCommand() error = %v", err)
	}

	if err := h.RunString(ctx, `result = table.concat(seen, ",")`); err != nil {
		t.Fatal(err)
	}
	if got := h.state.GetGlobal("result").String(); got != "insert@0:1,down@1:1" {
		t.Errorf("seen = %q", got)
	}
}

func TestHost_HookError(t *testing.T) {
	h := NewHost()
	defer h.Close()

	if err := h.RunString(context.Background(), `snapedit.on_command(function() error("boom") end)`); err != nil {
		t.Fatal(err)
	}

	err := h.NotifyCommand(context.Background(), key.CommandQuit, 0, 0)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("NotifyCommand() error = %v, want boom", err)
	}
}

func TestHost_RunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(`snapedit.bind("DEL", "backward")`), 0644); err != nil {
		t.Fatal(err)
	}

	h := NewHost()
	defer h.Close()

	if err := h.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
	if b := h.Bindings(); len(b) != 1 || b[0].Code != 0x7f || b[0].Command != key.CommandMoveBackward {
		t.Errorf("Bindings() = %+v", b)
	}

	if err := h.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestState_SafeLibraries(t *testing.T) {
	s := NewState()
	defer s.Close()

	ctx := context.Background()
	for _, code := range []string{
		`return io.open("/etc/passwd")`,
		`return os.exit(1)`,
		`return dofile("/etc/passwd")`,
		`return require("os")`,
		`print("to stdout")`,
	} {
		if err := s.DoString(ctx, code); err == nil {
			t.Errorf("DoString(%q) succeeded, want error", code)
		}
	}

	if err := s.DoString(ctx, `x = string.upper("a") .. math.floor(1.5)`); err != nil {
		t.Errorf("safe libraries unavailable: %v", err)
	}
}

func TestState_Timeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("DoString() error = %v, want ErrExecutionTimeout", err)
	}
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	s.Close()
	s.Close()

	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
}
