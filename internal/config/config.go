// Package config provides configuration loading for zorforge.
//
// Settings are read from a TOML or YAML file, overlaid with ZORFORGE_
// environment variables and validated into a Config. A missing file is
// not an error; the defaults apply.
//
// File layout (TOML):
//
//	[editor]
//	tab_size = 4
//	page_size = 20
//	ignore_case = false
//	line_numbers = true
//
//	[clipboard]
//	history = 100
//
//	[buffers]
//	max = 32
//
//	[logging]
//	level = "info"
//	file = ""
//
//	[scripting]
//	init = ""
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/zorforge/internal/config/loader"
)

// Default values.
const (
	DefaultTabSize          = 4
	DefaultPageSize         = 20
	DefaultClipboardHistory = 100
	DefaultMaxBuffers       = 32
	DefaultLogLevel         = "info"
)

// Config holds the editor settings.
type Config struct {
	TabSize          int
	PageSize         int
	IgnoreCase       bool
	LineNumbers      bool
	ClipboardHistory int
	MaxBuffers       int
	LogLevel         string
	LogFile          string
	InitScript       string
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		TabSize:          DefaultTabSize,
		PageSize:         DefaultPageSize,
		LineNumbers:      true,
		ClipboardHistory: DefaultClipboardHistory,
		MaxBuffers:       DefaultMaxBuffers,
		LogLevel:         DefaultLogLevel,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/zorforge/config.toml, falling back
// to the user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "zorforge", "config.toml")
}

// Options controls where Load reads from.
type Options struct {
	// Path is the config file. Empty means DefaultPath().
	Path string
	// FS overrides the file system (tests).
	FS loader.FileSystem
	// Env overrides the process environment (tests). Nil means os.Environ.
	Env []string
	// EnvPrefix overrides loader.DefaultEnvPrefix.
	EnvPrefix string
}

// Load reads the config file named by opts, applies environment overrides
// and validates the result.
func Load(opts Options) (*Config, error) {
	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}
	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = loader.DefaultEnvPrefix
	}

	data := make(map[string]any)
	if path != "" {
		fileData, err := loader.ForPath(fsys, path).Load()
		if err != nil {
			return nil, err
		}
		data = loader.DeepMerge(data, fileData)
	}

	var env *loader.EnvLoader
	if opts.Env != nil {
		env = loader.NewEnvLoaderFrom(prefix, opts.Env)
	} else {
		env = loader.NewEnvLoader(prefix)
	}
	envData, err := env.Load()
	if err != nil {
		return nil, err
	}
	data = loader.DeepMerge(data, envData)

	return FromMap(data)
}

type setting struct {
	path  string
	apply func(c *Config, v any) error
}

var settings = []setting{
	{"editor.tab_size", intSetting(func(c *Config) *int { return &c.TabSize })},
	{"editor.page_size", intSetting(func(c *Config) *int { return &c.PageSize })},
	{"editor.ignore_case", boolSetting(func(c *Config) *bool { return &c.IgnoreCase })},
	{"editor.line_numbers", boolSetting(func(c *Config) *bool { return &c.LineNumbers })},
	{"clipboard.history", intSetting(func(c *Config) *int { return &c.ClipboardHistory })},
	{"buffers.max", intSetting(func(c *Config) *int { return &c.MaxBuffers })},
	{"logging.level", stringSetting(func(c *Config) *string { return &c.LogLevel })},
	{"logging.file", stringSetting(func(c *Config) *string { return &c.LogFile })},
	{"scripting.init", stringSetting(func(c *Config) *string { return &c.InitScript })},
}

// FromMap builds a Config from a nested settings map over the defaults.
// Unknown keys are rejected so typos don't go unnoticed.
func FromMap(data map[string]any) (*Config, error) {
	cfg := Default()
	known := make(map[string]bool, len(settings))
	for _, s := range settings {
		known[s.path] = true
		v, ok := loader.Lookup(data, s.path)
		if !ok {
			continue
		}
		if err := s.apply(cfg, v); err != nil {
			if te, ok := err.(*TypeError); ok {
				te.Path = s.path
			}
			return nil, err
		}
	}

	if unknown := unknownPaths(data, "", known); len(unknown) > 0 {
		return nil, &ValidationError{
			Path:    unknown[0],
			Message: "unknown setting",
			Value:   nil,
			Code:    ErrCodeUnknownSetting,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	checks := []struct {
		path string
		v    int
		min  int
		max  int
	}{
		{"editor.tab_size", c.TabSize, 1, 16},
		{"editor.page_size", c.PageSize, 1, 1000},
		{"clipboard.history", c.ClipboardHistory, 1, 10000},
		{"buffers.max", c.MaxBuffers, 1, 1000},
	}
	for _, ch := range checks {
		if ch.v < ch.min || ch.v > ch.max {
			return &ValidationError{
				Path:    ch.path,
				Message: fmt.Sprintf("must be between %d and %d", ch.min, ch.max),
				Value:   ch.v,
				Code:    ErrCodeOutOfRange,
			}
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Path:    "logging.level",
			Message: "must be one of debug, info, warn, error",
			Value:   c.LogLevel,
			Code:    ErrCodeInvalidEnum,
		}
	}
	return nil
}

func unknownPaths(data map[string]any, prefix string, known map[string]bool) []string {
	var out []string
	for k, v := range data {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if known[path] {
			continue
		}
		if m, ok := v.(map[string]any); ok {
			out = append(out, unknownPaths(m, path, known)...)
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func intSetting(field func(*Config) *int) func(*Config, any) error {
	return func(c *Config, v any) error {
		switch n := v.(type) {
		case int:
			*field(c) = n
		case int64:
			*field(c) = int(n)
		case uint64:
			*field(c) = int(n)
		case float64:
			if n != float64(int(n)) {
				return &TypeError{Expected: "integer", Actual: "float"}
			}
			*field(c) = int(n)
		default:
			return &TypeError{Expected: "integer", Actual: typeName(v)}
		}
		return nil
	}
}

func boolSetting(field func(*Config) *bool) func(*Config, any) error {
	return func(c *Config, v any) error {
		b, ok := v.(bool)
		if !ok {
			return &TypeError{Expected: "bool", Actual: typeName(v)}
		}
		*field(c) = b
		return nil
	}
}

func stringSetting(field func(*Config) *string) func(*Config, any) error {
	return func(c *Config, v any) error {
		s, ok := v.(string)
		if !ok {
			return &TypeError{Expected: "string", Actual: typeName(v)}
		}
		*field(c) = s
		return nil
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "float"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
