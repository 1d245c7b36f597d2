package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/snapedit/internal/config"
	"github.com/dshills/snapedit/internal/renderer/backend"
)

const (
	ctrlQ = 0x11
	ctrlR = 0x12
	ctrlS = 0x13
	ctrlW = 0x17
	ctrlX = 0x18
	del   = 0x7f
)

func keys(s string) []rune {
	return []rune(s)
}

func newTestApp(t *testing.T, opts Options, b backend.Backend) *Application {
	t.Helper()
	opts.ConfigOptions = append(opts.ConfigOptions, config.WithEnvPrefix(""))

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.Close)

	if err := app.SetBackend(b); err != nil {
		t.Fatalf("SetBackend() error = %v", err)
	}
	return app
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runAsync runs app and returns a channel with Run's result.
func runAsync(app *Application) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	return done
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRun_InsertSaveQuit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	b := backend.NewNullKeys(40, 5, append(keys("hi\n"), ctrlS, ctrlQ)...)
	app := newTestApp(t, Options{File: path}, b)

	if err := app.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v, want ErrQuit", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not saved: %v", err)
	}
	if string(data) != "hi\n" {
		t.Errorf("saved %q, want %q", data, "hi\n")
	}

	snap := app.Metrics().Snapshot()
	if snap.Edits != 3 || snap.Saves != 1 || snap.Inputs != 5 {
		t.Errorf("metrics = %+v", snap)
	}
}

func TestRun_Undo(t *testing.T) {
	b := backend.NewNullKeys(40, 5, 'a', 'b', ctrlR, ctrlQ)
	app := newTestApp(t, Options{}, b)

	if err := app.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v", err)
	}

	state := app.Session().State()
	if got := state.Buffer.Text(); got != "a" {
		t.Errorf("text = %q, want 'a'", got)
	}
	if state.Cursor.Col != 1 {
		t.Errorf("cursor = %v, want col 1", state.Cursor)
	}
	if app.Metrics().Snapshot().Undos != 1 {
		t.Errorf("undos = %d, want 1", app.Metrics().Snapshot().Undos)
	}
}

func TestRun_ArrowKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "f.txt", "ab\ncd\n")

	b := backend.NewNull(40, 5,
		backend.ArrowEvent(backend.KeyDown),
		backend.ArrowEvent(backend.KeyRight),
		backend.KeyEvent('x'),
		backend.ArrowEvent(backend.KeyUp),
		backend.ArrowEvent(backend.KeyLeft),
		backend.KeyEvent(ctrlQ),
	)
	app := newTestApp(t, Options{File: path}, b)

	if err := app.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v", err)
	}

	state := app.Session().State()
	if got := state.Buffer.Text(); got != "ab\ncxd\n" {
		t.Errorf("text = %q", got)
	}
	if state.Cursor.Row != 0 || state.Cursor.Col != 1 {
		t.Errorf("cursor = %v, want (0,1)", state.Cursor)
	}
}

func TestRun_ErrorShownAndLoopContinues(t *testing.T) {
	b := backend.NewNullKeys(100, 4, del)
	app := newTestApp(t, Options{}, b)

	done := runAsync(app)
	waitFor(t, "error to be recorded", func() bool {
		return app.Metrics().Snapshot().Errors == 1
	})
	waitFor(t, "error frame", func() bool {
		screen := b.Screen()
		return len(screen) == 4 && strings.Contains(screen[3], "out of range")
	})

	app.Shutdown()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v, want nil after Shutdown", err)
	}
	if got := app.Session().Buffer().Text(); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
}

func TestRun_StatusLine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "one\n")

	b := backend.NewNullKeys(40, 3, 'x')
	app := newTestApp(t, Options{File: path}, b)

	done := runAsync(app)
	waitFor(t, "edit frame", func() bool {
		screen := b.Screen()
		return len(screen) == 3 && screen[0] == "xone"
	})

	status := b.Screen()[2]
	if !strings.Contains(status, "notes.txt [+]") || !strings.Contains(status, "1:2") || !strings.Contains(status, "undo 1") {
		t.Errorf("status = %q", status)
	}

	app.Shutdown()
	<-done
}

func TestRun_ContextCancel(t *testing.T) {
	b := backend.NewNull(20, 3)
	app := newTestApp(t, Options{}, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	waitFor(t, "first frame", func() bool { return b.Frames() > 0 })
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_InputClosed(t *testing.T) {
	a := backend.NewANSIWithIO(strings.NewReader("ok"), &strings.Builder{}, 20, 3)
	app := newTestApp(t, Options{}, a)

	if err := app.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v, want nil when input ends", err)
	}
	if got := app.Session().Buffer().Text(); got != "ok" {
		t.Errorf("text = %q, want 'ok'", got)
	}
}

func TestRun_AlreadyRunning(t *testing.T) {
	b := backend.NewNull(20, 3)
	app := newTestApp(t, Options{}, b)

	done := runAsync(app)
	waitFor(t, "first frame", func() bool { return b.Frames() > 0 })

	if err := app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
	if err := app.SetBackend(backend.NewNull(1, 1)); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("SetBackend() error = %v, want ErrAlreadyRunning", err)
	}

	app.Shutdown()
	<-done
}

func TestNew_ConfigKeys(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", "[keys]\nquit = \"^x\"\n\n[history]\nlimit = 1\n")

	b := backend.NewNullKeys(40, 5, ctrlQ, 'a', 'b', ctrlR, ctrlR, ctrlX)
	app := newTestApp(t, Options{ConfigPath: cfgPath}, b)

	if err := app.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v", err)
	}

	// ^q is unbound, so it was rejected; the history limit kept one state.
	if got := app.Session().Buffer().Text(); got != "a" {
		t.Errorf("text = %q, want 'a'", got)
	}
	if app.Metrics().Snapshot().Errors != 1 {
		t.Errorf("errors = %d, want 1", app.Metrics().Snapshot().Errors)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "config.toml", "[editor]\nbackend = \"gtk\"\n")

	_, err := New(Options{ConfigPath: cfgPath, ConfigOptions: []config.Option{config.WithEnvPrefix("")}})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Fatalf("New() error = %v, want config InitError", err)
	}
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("error %v does not wrap ErrValidationFailed", err)
	}
}

func TestNew_BackendOverride(t *testing.T) {
	app := newTestApp(t, Options{Backend: "ansi", LogLevel: "debug"}, backend.NewNull(1, 1))
	if app.Config().Editor.Backend != config.BackendANSI {
		t.Errorf("Backend = %q, want ansi", app.Config().Editor.Backend)
	}
	if app.Config().Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", app.Config().Log.Level)
	}
}

func TestNewBackend(t *testing.T) {
	if b, err := newBackend(config.BackendANSI); err != nil {
		t.Errorf("newBackend(ansi) error = %v", err)
	} else if _, ok := b.(*backend.ANSI); !ok {
		t.Errorf("newBackend(ansi) = %T", b)
	}
	if _, err := newBackend("gtk"); err == nil {
		t.Error("newBackend(gtk) should fail")
	}
}

func TestRun_LuaInit(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `
		count = 0
		snapedit.bind("^w", "quit")
		snapedit.on_command(function(name, row, col)
			count = count + 1
			snapedit.log(name .. " " .. row .. ":" .. col)
		end)
	`)
	cfgPath := writeFile(t, dir, "config.toml", "[plugin]\ninit = \""+filepath.ToSlash(script)+"\"\n")
	logPath := filepath.Join(dir, "snapedit.log")

	b := backend.NewNullKeys(40, 5, 'a', ctrlW)
	app := newTestApp(t, Options{ConfigPath: cfgPath, LogFile: logPath}, b)

	if err := app.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v, want ErrQuit via script binding", err)
	}
	app.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	log := string(data)
	for _, want := range []string{"lua: insert 0:1", "component=lua", "session=", "quit"} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q:\n%s", want, log)
		}
	}
}

func TestRun_LuaInitError(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `snapedit.bind("^w", "explode")`)
	cfgPath := writeFile(t, dir, "config.toml", "[plugin]\ninit = \""+filepath.ToSlash(script)+"\"\n")

	b := backend.NewNullKeys(40, 5, ctrlQ)
	app := newTestApp(t, Options{ConfigPath: cfgPath}, b)

	if app.Message() == "" {
		t.Error("script error not reported on the status line")
	}
	if err := app.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRun_ConfigReload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", "[keys]\nquit = \"^x\"\n")

	b := backend.NewNull(40, 5)
	app := newTestApp(t, Options{ConfigPath: cfgPath, Watch: true}, b)

	done := runAsync(app)
	waitFor(t, "first frame", func() bool { return b.Frames() > 0 })

	if err := os.WriteFile(cfgPath, []byte("[keys]\nquit = \"^w\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "reload", func() bool { return app.Metrics().Snapshot().Reloads > 0 })

	b.Post(backend.KeyEvent(ctrlW))
	select {
	case err := <-done:
		if !errors.Is(err, ErrQuit) {
			t.Errorf("Run() error = %v, want ErrQuit from reloaded binding", err)
		}
	case <-time.After(3 * time.Second):
		app.Shutdown()
		t.Fatal("reloaded binding did not quit")
	}
}

func TestDocument(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is new", func(t *testing.T) {
		doc, buf, err := OpenDocument(filepath.Join(dir, "missing.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if !doc.IsNew() || buf.LineCount() != 1 || doc.IsModified(buf) {
			t.Errorf("doc = %+v, lines = %d", doc, buf.LineCount())
		}
		if doc.Name() != "missing.txt" {
			t.Errorf("Name() = %q", doc.Name())
		}
	})

	t.Run("scratch cannot save", func(t *testing.T) {
		doc, buf, err := OpenDocument("")
		if err != nil {
			t.Fatal(err)
		}
		if err := doc.Save(buf); !errors.Is(err, ErrNoFileName) {
			t.Errorf("Save() error = %v, want ErrNoFileName", err)
		}
	})

	t.Run("save clears modified", func(t *testing.T) {
		path := writeFile(t, dir, "f.txt", "x\n")
		doc, buf, err := OpenDocument(path)
		if err != nil {
			t.Fatal(err)
		}
		edited, _ := buf.Insert('y', 0, 0)
		if !doc.IsModified(edited) {
			t.Error("edited buffer not modified")
		}
		if err := doc.Save(edited); err != nil {
			t.Fatal(err)
		}
		if doc.IsModified(edited) {
			t.Error("saved buffer still modified")
		}
	})

	t.Run("unreadable path", func(t *testing.T) {
		_, _, err := OpenDocument(dir)
		var opErr *OperationError
		if !errors.As(err, &opErr) || opErr.Op != "open" {
			t.Errorf("OpenDocument(dir) error = %v, want open OperationError", err)
		}
	})
}

func TestRun_UndoEmptyHistoryIsSilent(t *testing.T) {
	b := backend.NewNullKeys(80, 3, ctrlR)
	app := newTestApp(t, Options{}, b)

	done := runAsync(app)
	waitFor(t, "undo to be handled", func() bool {
		return app.Metrics().Snapshot().Inputs == 1 && b.Frames() >= 2
	})
	app.Shutdown()
	<-done

	if app.Message() != "" {
		t.Errorf("Message() = %q, want none", app.Message())
	}
	want := " [No Name]  1:1  undo 0"
	if status := b.Screen()[2]; status != want {
		t.Errorf("status = %q, want %q", status, want)
	}
	if snap := app.Metrics().Snapshot(); snap.Errors != 0 || snap.Undos != 0 {
		t.Errorf("metrics = %+v", snap)
	}
}

func TestRun_SaveKeepsInvalidUTF8(t *testing.T) {
	path := writeFile(t, t.TempDir(), "latin1.txt", "caf\xe9\nnext\n")

	b := backend.NewNullKeys(40, 5, 'x', ctrlS, ctrlQ)
	app := newTestApp(t, Options{File: path}, b)

	if err := app.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "xcaf\xe9\nnext\n"; string(data) != want {
		t.Errorf("saved %q, want %q", data, want)
	}
}

func TestRun_ScrollOff(t *testing.T) {
	dir := t.TempDir()
	var text strings.Builder
	for i := range 20 {
		fmt.Fprintf(&text, "l%d\n", i)
	}
	path := writeFile(t, dir, "long.txt", text.String())
	cfgPath := writeFile(t, dir, "config.toml", "[editor]\nscrollOff = 2\n")

	const ctrlD = 0x04
	b := backend.NewNullKeys(20, 6, ctrlD, ctrlD, ctrlD)
	app := newTestApp(t, Options{File: path, ConfigPath: cfgPath}, b)

	done := runAsync(app)
	waitFor(t, "cursor on row 3", func() bool {
		return app.Metrics().Snapshot().Inputs == 3 && b.Frames() >= 4
	})
	app.Shutdown()
	<-done

	if top := b.Screen()[0]; top != "l1" {
		t.Errorf("first visible line = %q, want l1 with two rows below the cursor", top)
	}
}
