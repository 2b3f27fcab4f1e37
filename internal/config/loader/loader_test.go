package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[editor]
tab_size = 8
ignore_case = true

[logging]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	editor, ok := config["editor"].(map[string]any)
	if !ok {
		t.Fatal("expected editor to be a map")
	}
	if editor["tab_size"] != int64(8) {
		t.Errorf("tab_size = %v (%T), want 8", editor["tab_size"], editor["tab_size"])
	}
	if editor["ignore_case"] != true {
		t.Errorf("ignore_case = %v, want true", editor["ignore_case"])
	}
}

func TestTOMLLoader_FileNotExist(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if config != nil {
		t.Errorf("expected nil config for missing file, got: %v", config)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[editor\ntab_size = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q, want /bad.toml", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("expected a line number")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[buffers]\nmax = 3\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	v, ok := Lookup(config, "buffers.max")
	if !ok || v != int64(3) {
		t.Errorf("buffers.max = %v, want 3", v)
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
editor:
  tab_size: 2
  line_numbers: false
scripting:
  init: ~/.zorforge/init.lua
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := Lookup(config, "editor.tab_size"); v != 2 {
		t.Errorf("tab_size = %v (%T), want 2", v, v)
	}
	if v, _ := Lookup(config, "editor.line_numbers"); v != false {
		t.Errorf("line_numbers = %v, want false", v)
	}
	if v, _ := Lookup(config, "scripting.init"); v != "~/.zorforge/init.lua" {
		t.Errorf("init = %v", v)
	}
}

func TestYAMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yml", "editor: [unclosed\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		yaml bool
	}{
		{"/a/config.toml", false},
		{"/a/config.yaml", true},
		{"/a/config.YML", true},
		{"/a/config", false},
	}
	for _, tt := range tests {
		_, isYAML := ForPath(NewMemFS(), tt.path).(*YAMLLoader)
		if isYAML != tt.yaml {
			t.Errorf("ForPath(%q) yaml = %v, want %v", tt.path, isYAML, tt.yaml)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor":  map[string]any{"tab_size": 4, "ignore_case": false},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"editor": map[string]any{"tab_size": 8},
		"buffers": map[string]any{"max": 5},
	}

	got := DeepMerge(dst, src)
	if v, _ := Lookup(got, "editor.tab_size"); v != 8 {
		t.Errorf("tab_size = %v, want 8", v)
	}
	if v, _ := Lookup(got, "editor.ignore_case"); v != false {
		t.Errorf("ignore_case = %v, want false", v)
	}
	if v, _ := Lookup(got, "buffers.max"); v != 5 {
		t.Errorf("buffers.max = %v, want 5", v)
	}
	if v, _ := Lookup(got, "logging.level"); v != "info" {
		t.Errorf("logging.level = %v, want info", v)
	}
}

func TestLookup_Missing(t *testing.T) {
	data := map[string]any{"editor": map[string]any{"tab_size": 4}}
	for _, path := range []string{"ui", "editor.font", "editor.tab_size.x"} {
		if _, ok := Lookup(data, path); ok {
			t.Errorf("Lookup(%q) found a value", path)
		}
	}
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoaderFrom("ZORFORGE_", []string{
		"ZORFORGE_EDITOR_TAB_SIZE=2",
		"ZORFORGE_EDITOR_IGNORE_CASE=yes",
		"ZORFORGE_LOG_LEVEL=debug",
		"ZORFORGE_INIT=/tmp/init.lua",
		"ZORFORGE_NOSECTION=1",
		"HOME=/root",
	})

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"editor.tab_size", int64(2)},
		{"editor.ignore_case", true},
		{"logging.level", "debug"},
		{"scripting.init", "/tmp/init.lua"},
	}
	for _, tt := range tests {
		got, ok := Lookup(config, tt.path)
		if !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
	if _, ok := config["nosection"]; ok {
		t.Error("variable without a key should be ignored")
	}
	if _, ok := config["home"]; ok {
		t.Error("unprefixed variable should be ignored")
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := NewEnvLoaderFrom("ZF_", []string{"ZF_HIST=50"})
	l.AddMapping("ZF_HIST", "clipboard.history")

	config, _ := l.Load()
	if v, _ := Lookup(config, "clipboard.history"); v != int64(50) {
		t.Errorf("clipboard.history = %v, want 50", v)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Off", false},
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"warn", "warn"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
