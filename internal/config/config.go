package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/dshills/snapedit/internal/config/loader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SNAPEDIT_"

// Backend names accepted by editor.backend.
const (
	BackendTcell = "tcell"
	BackendANSI  = "ansi"
)

// Config is the decoded configuration.
// Section values are snapshots; changing them does not affect the source.
type Config struct {
	Log     LogConfig
	History HistoryConfig
	Editor  EditorConfig
	Plugin  PluginConfig

	// Keys maps command names to key specifications, as written in the
	// [keys] section. An empty specification unbinds the command.
	Keys map[string]string

	// Path is the config file the settings were read from, if any.
	Path string
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string
	// File is the log destination. Empty disables logging.
	File string
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	// Limit bounds the undo stack. Zero means unbounded.
	Limit int
}

// EditorConfig holds terminal settings.
type EditorConfig struct {
	Backend    string
	StatusLine bool
	// ScrollOff is the number of rows kept visible around the cursor.
	ScrollOff int
}

// PluginConfig holds scripting settings.
type PluginConfig struct {
	// Init is a Lua script run at startup. Empty disables scripting.
	Init string
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
}

// WithFileSystem sets the file system the config file is read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix.
// An empty prefix disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	c, _ := Decode(defaultConfig())
	return c
}

func defaultConfig() map[string]any {
	return map[string]any{
		"log": map[string]any{
			"level": "info",
			"file":  "",
		},
		"history": map[string]any{
			"limit": int64(0),
		},
		"editor": map[string]any{
			"backend":    BackendTcell,
			"statusLine": true,
			"scrollOff":  int64(0),
		},
		"plugin": map[string]any{
			"init": "",
		},
		"keys": map[string]any{},
	}
}

// Load reads the config file at path over the defaults, then applies the
// environment. An empty path or a missing file leaves the defaults in place.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), envPrefix: EnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	merged := defaultConfig()

	if path != "" {
		fileCfg, err := loader.ForPath(o.fs, path).Load()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	if o.envPrefix != "" {
		envCfg, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envCfg)
	}

	c, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	c.Path = path
	return c, nil
}

// Decode converts a merged configuration map into a Config and validates it.
// Missing settings keep their zero value.
func Decode(m map[string]any) (*Config, error) {
	d := decoder{m: m}
	c := &Config{
		Log: LogConfig{
			Level: d.str("log.level"),
			File:  d.str("log.file"),
		},
		History: HistoryConfig{
			Limit: d.int("history.limit"),
		},
		Editor: EditorConfig{
			Backend:    d.str("editor.backend"),
			StatusLine: d.bool("editor.statusLine"),
			ScrollOff:  d.int("editor.scrollOff"),
		},
		Plugin: PluginConfig{
			Init: d.str("plugin.init"),
		},
		Keys: d.keys("keys"),
	}

	d.oneOf("log.level", c.Log.Level, "debug", "info", "warn", "warning", "error")
	d.oneOf("editor.backend", c.Editor.Backend, BackendTcell, BackendANSI)
	if c.History.Limit < 0 {
		d.fail("history.limit", c.History.Limit, "must not be negative", ErrValidationFailed)
	}
	if c.Editor.ScrollOff < 0 {
		d.fail("editor.scrollOff", c.Editor.ScrollOff, "must not be negative", ErrValidationFailed)
	}
	if _, err := c.Keymap(); err != nil {
		d.errs = append(d.errs, err)
	}

	if len(d.errs) > 0 {
		return nil, d.errs[0]
	}
	return c, nil
}

// decoder reads typed values from a nested map, collecting errors.
type decoder struct {
	m    map[string]any
	errs []error
}

func (d *decoder) get(path string) (any, bool) {
	return getPath(d.m, path)
}

func (d *decoder) fail(path string, value any, msg string, err error) {
	d.errs = append(d.errs, &ValidationError{Path: path, Value: value, Message: msg, Err: err})
}

func (d *decoder) str(path string) string {
	v, ok := d.get(path)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(path, v, "expected string, got "+typeName(v), ErrTypeMismatch)
	}
	return s
}

func (d *decoder) int(path string) int {
	v, ok := d.get(path)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	d.fail(path, v, "expected integer, got "+typeName(v), ErrTypeMismatch)
	return 0
}

func (d *decoder) bool(path string) bool {
	v, ok := d.get(path)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(path, v, "expected bool, got "+typeName(v), ErrTypeMismatch)
	}
	return b
}

// keys reads a table of key specifications. Integer values are codes and
// are kept in decimal form.
func (d *decoder) keys(path string) map[string]string {
	out := make(map[string]string)
	v, ok := d.get(path)
	if !ok {
		return out
	}
	table, ok := v.(map[string]any)
	if !ok {
		d.fail(path, v, "expected table, got "+typeName(v), ErrTypeMismatch)
		return out
	}
	for _, name := range slices.Sorted(maps.Keys(table)) {
		switch spec := table[name].(type) {
		case string:
			out[name] = spec
		case int64:
			out[name] = strconv.FormatInt(spec, 10)
		case int:
			out[name] = strconv.Itoa(spec)
		default:
			d.fail(path+"."+name, spec, "expected key string or code, got "+typeName(spec), ErrTypeMismatch)
		}
	}
	return out
}

func (d *decoder) oneOf(path, value string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		d.fail(path, value, fmt.Sprintf("must be one of %v", allowed), ErrValidationFailed)
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	var current any = m
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[path[start:i]]
		if !ok {
			return nil, false
		}
		start = i + 1
	}
	return current, true
}

// typeName returns a human-readable type name.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int, int64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
