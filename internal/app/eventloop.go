package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/snapedit/internal/config"
	"github.com/dshills/snapedit/internal/engine"
	"github.com/dshills/snapedit/internal/input/key"
	"github.com/dshills/snapedit/internal/renderer"
	"github.com/dshills/snapedit/internal/renderer/backend"
)

// errInputClosed ends the loop when the backend has no more events.
var errInputClosed = errors.New("input closed")

// eventLoop renders the initial frame, then handles one event at a time.
// Input is read on a separate goroutine; only this loop touches the session.
func (app *Application) eventLoop(ctx context.Context, b backend.Backend) error {
	events := make(chan backend.Event)
	stop := make(chan struct{})
	defer close(stop)
	go pumpEvents(b, events, stop)

	var reloads <-chan struct{}
	if app.watcher != nil {
		reloads = app.reloadSignals(stop)
	}

	app.render()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-app.done:
			return nil

		case <-reloads:
			app.reloadConfig()
			app.render()

		case ev := <-events:
			err := app.handleEvent(ctx, ev)
			switch {
			case errors.Is(err, ErrQuit):
				return ErrQuit
			case errors.Is(err, errInputClosed):
				return nil
			}
			app.render()
		}
	}
}

// pumpEvents forwards backend events until the backend closes or stop is
// closed.
func pumpEvents(b backend.Backend, events chan<- backend.Event, stop <-chan struct{}) {
	for {
		ev := b.PollEvent()
		select {
		case events <- ev:
		case <-stop:
			return
		}
		if ev.Type == backend.EventClosed {
			return
		}
	}
}

// reloadSignals turns watcher events into reload signals and logs watcher
// errors.
func (app *Application) reloadSignals(stop <-chan struct{}) <-chan struct{} {
	out := make(chan struct{}, 1)
	w := app.watcher
	go func() {
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				app.logger.Debug("config %s: %s", ev.Op, ev.Path)
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				app.logger.Warn("config watcher: %v", err)
			}
		}
	}()
	return out
}

// handleEvent processes one backend event.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ctx context.Context, ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ctx, ev)
	case backend.EventClosed:
		return errInputClosed
	default:
		// Resize needs only the redraw the loop does after every event.
		return nil
	}
}

// handleKey runs one keystroke through the session.
func (app *Application) handleKey(ctx context.Context, ev backend.Event) error {
	app.metrics.RecordInput()
	app.message = ""

	var (
		res engine.Result
		err error
	)
	if ev.Key == backend.KeyRune {
		res, err = app.session.Handle(ev.Rune)
	} else {
		res, err = app.session.Apply(arrowCommand(ev.Key), 0)
	}

	if err != nil {
		app.metrics.RecordError()
		app.logger.Debug("%s: %v", res.Command, err)
		app.message = err.Error()
		return nil
	}

	switch {
	case res.Quit:
		app.logger.Info("quit")
		return ErrQuit
	case res.Save:
		app.save()
	case res.Command == key.CommandUndo && res.Changed:
		app.metrics.RecordUndo()
	case res.Command == key.CommandUndo:
		app.logger.Debug("undo: %v", engine.ErrEmptyHistory)
	case res.Command.Mutates():
		app.metrics.RecordEdit()
	}

	if app.host != nil && app.host.HookCount() > 0 {
		cur := app.session.Cursor()
		if err := app.host.NotifyCommand(ctx, res.Command, cur.Row, cur.Col); err != nil {
			app.logger.Warn("%v", err)
			app.message = err.Error()
		}
	}
	return nil
}

func arrowCommand(k backend.Key) key.Command {
	switch k {
	case backend.KeyUp:
		return key.CommandMoveUp
	case backend.KeyDown:
		return key.CommandMoveDown
	case backend.KeyLeft:
		return key.CommandMoveBackward
	case backend.KeyRight:
		return key.CommandMoveForward
	default:
		return key.CommandUnknown
	}
}

// save writes the session's buffer to the document.
func (app *Application) save() {
	buf := app.session.Buffer()
	if err := app.document.Save(buf); err != nil {
		app.metrics.RecordError()
		app.logger.Error("%v", err)
		app.message = err.Error()
		return
	}
	app.metrics.RecordSave()
	app.logger.Info("wrote %s (%d lines)", app.document.Path, buf.LineCount())
	app.message = "saved"
}

// reloadConfig rereads the config file and applies the settings that can
// change while running. A failed reload keeps the previous settings.
func (app *Application) reloadConfig() {
	cfg, err := app.loadConfig()
	if err != nil {
		app.logger.Warn("%v", err)
		app.message = err.Error()
		return
	}

	km, err := app.buildKeymap(cfg)
	if err != nil {
		app.logger.Warn("reload: %v", err)
		app.message = err.Error()
		return
	}

	app.session.SetKeymap(km)
	app.session.SetHistoryLimit(cfg.History.Limit)
	app.renderer.SetStatusLine(cfg.Editor.StatusLine)
	app.renderer.SetScrollOff(cfg.Editor.ScrollOff)
	app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))

	app.config = cfg
	app.metrics.RecordReload()
	app.logger.Info("config reloaded")
	app.message = "config reloaded"
}

// loadConfig rereads the config file with the command-line overrides.
func (app *Application) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(app.opts.ConfigPath, app.opts.ConfigOptions...)
	if err != nil {
		return nil, &OperationError{Op: "reload", Target: app.opts.ConfigPath, Err: err}
	}
	app.applyOverrides(cfg)
	return cfg, nil
}

// render draws the current state.
func (app *Application) render() {
	start := time.Now()
	app.renderer.Render(app.session.State(), renderer.Status{
		FileName:  app.document.Name(),
		Modified:  app.document.IsModified(app.session.Buffer()),
		UndoDepth: app.session.HistoryLen(),
		Message:   app.message,
	})
	app.metrics.RecordRender(time.Since(start))
}
