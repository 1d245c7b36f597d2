// Package main is the entry point for the snapedit editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/snapedit/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string) (app.Options, error) {
	opts := app.Options{Watch: true}
	var showVersion bool

	fs := flag.NewFlagSet("snapedit", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&opts.Backend, "backend", "", "Terminal backend (tcell, ansi)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "snapedit - a small terminal text editor\n\n")
		fmt.Fprintf(out, "Usage: snapedit [options] [file]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nKeys:\n")
		fmt.Fprintf(out, "  ^f ^b ^u ^d   forward, backward, up, down\n")
		fmt.Fprintf(out, "  DEL           delete the character before the cursor\n")
		fmt.Fprintf(out, "  ^r            undo\n")
		fmt.Fprintf(out, "  ^s            save\n")
		fmt.Fprintf(out, "  ^q            quit\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if showVersion {
		fmt.Printf("snapedit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return opts, flag.ErrHelp
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.File = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}

	if opts.ConfigPath == "" {
		opts.ConfigPath = defaultConfigPath()
	}
	return opts, nil
}

// defaultConfigPath returns the per-user config file location. The file need
// not exist.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "snapedit", "config.toml")
}
