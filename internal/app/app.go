// Package app ties snapedit together: it loads configuration, opens the
// document, runs the init script, and drives the event loop that feeds
// terminal input to the edit session and renders the result.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/snapedit/internal/config"
	"github.com/dshills/snapedit/internal/config/watcher"
	"github.com/dshills/snapedit/internal/engine"
	"github.com/dshills/snapedit/internal/input/key"
	"github.com/dshills/snapedit/internal/plugin/lua"
	"github.com/dshills/snapedit/internal/renderer"
	"github.com/dshills/snapedit/internal/renderer/backend"
)

// Application is the central coordinator for all snapedit components.
// Everything but Shutdown runs on the goroutine that calls Run.
type Application struct {
	mu sync.Mutex

	config   *config.Config
	logger   *Logger
	logFile  io.Closer
	metrics  *Metrics
	session  *engine.Session
	document *Document
	host     *lua.Host
	watcher  *watcher.Watcher

	backend  backend.Backend
	renderer *renderer.Renderer

	// message is shown on the status line until the next key.
	message string

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// File is the file to edit. Empty edits an unnamed buffer.
	File string

	// LogLevel overrides log.level when set.
	LogLevel string

	// LogFile overrides log.file when set.
	LogFile string

	// Backend overrides editor.backend when set.
	Backend string

	// Watch enables live reload of the config file.
	Watch bool

	// ConfigOptions are passed to config.Load.
	ConfigOptions []config.Option
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		metrics: NewMetrics(),
	}

	if err := app.bootstrap(); err != nil {
		app.closeResources()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(app.opts.ConfigPath, app.opts.ConfigOptions...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.applyOverrides(cfg)
	app.config = cfg

	// 2. Logger
	if err := app.setupLogger(); err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	app.logger.Info("starting, config=%q file=%q", cfg.Path, app.opts.File)

	// 3. Document
	doc, buf, err := OpenDocument(app.opts.File)
	if err != nil {
		return err
	}
	app.document = doc
	if doc.IsNew() {
		app.message = "new file"
	}

	// 4. Init script
	if cfg.Plugin.Init != "" {
		app.host = lua.NewHost(lua.WithLogger(app.logger.WithComponent("lua")))
		if err := app.host.RunFile(context.Background(), cfg.Plugin.Init); err != nil {
			app.logger.Warn("init script: %v", err)
			app.message = err.Error()
		}
	}

	// 5. Session
	km, err := app.buildKeymap(cfg)
	if err != nil {
		return &InitError{Component: "keymap", Err: err}
	}
	app.session = engine.New(buf,
		engine.WithKeymap(km),
		engine.WithHistoryLimit(cfg.History.Limit),
	)

	return nil
}

// applyOverrides applies command-line values over the loaded config.
func (app *Application) applyOverrides(cfg *config.Config) {
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}
	if app.opts.LogFile != "" {
		cfg.Log.File = app.opts.LogFile
	}
	if app.opts.Backend != "" {
		cfg.Editor.Backend = app.opts.Backend
	}
}

// setupLogger opens the log file. Without one, logging is disabled since
// the terminal belongs to the editor.
func (app *Application) setupLogger() error {
	if app.config.Log.File == "" {
		app.logger = NullLogger()
		return nil
	}

	f, err := OpenLogFile(app.config.Log.File)
	if err != nil {
		return err
	}
	app.logFile = f
	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(app.config.Log.Level)
	cfg.Output = f
	app.logger = NewLogger(cfg).WithField("session", uuid.New().String())
	return nil
}

// buildKeymap layers the script's bindings over the configured keymap.
func (app *Application) buildKeymap(cfg *config.Config) (*key.Keymap, error) {
	km, err := cfg.Keymap()
	if err != nil {
		return nil, err
	}
	if app.host != nil {
		app.host.ApplyBindings(km)
	}
	return km, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// newBackend creates the backend named by editor.backend.
func newBackend(name string) (backend.Backend, error) {
	switch name {
	case config.BackendANSI:
		return backend.NewANSI(), nil
	case config.BackendTcell, "":
		return backend.NewTerminal()
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// Run starts the event loop and blocks until the session ends. It returns
// ErrQuit when the user quits, and nil when ctx is cancelled, Shutdown is
// called, or input ends.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	if app.backend == nil {
		b, err := newBackend(app.config.Editor.Backend)
		if err != nil {
			app.mu.Unlock()
			return &InitError{Component: "backend", Err: err}
		}
		app.backend = b
	}
	b := app.backend
	app.mu.Unlock()

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.renderer = renderer.New(b,
		renderer.WithStatusLine(app.config.Editor.StatusLine),
		renderer.WithScrollOff(app.config.Editor.ScrollOff),
	)

	if app.opts.Watch && app.opts.ConfigPath != "" {
		w, err := watcher.New(app.opts.ConfigPath)
		if err != nil {
			app.logger.Warn("config watch disabled: %v", err)
		} else {
			app.watcher = w
			defer w.Close()
		}
	}

	err := app.eventLoop(ctx, b)
	app.logger.Info("session ended: %s", app.metrics.Snapshot())
	return err
}

// Shutdown stops a running event loop.
// It is safe to call from any goroutine, and more than once.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() {
		close(app.done)
	})
}

// Close releases the script state and the log file.
func (app *Application) Close() {
	app.closeResources()
}

func (app *Application) closeResources() {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.host != nil {
		app.host.Close()
		app.host = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// Session returns the edit session.
func (app *Application) Session() *engine.Session {
	return app.session
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Metrics returns the session metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Message returns the current status line message.
func (app *Application) Message() string {
	return app.message
}
