// Package main is the entry point for the Zorforge editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/zorforge/internal/app"
	"github.com/dshills/zorforge/internal/config"
	"github.com/dshills/zorforge/internal/engine/buffer"
	"github.com/dshills/zorforge/internal/engine/clipboard"
	"github.com/dshills/zorforge/internal/plugin/lua"
	"github.com/dshills/zorforge/internal/renderer"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	configPath string
	logLevel   string
	logFile    string
	files      []string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	cfg, err := config.Load(config.Options{Path: f.configPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}

	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		file, err := app.OpenLogFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer file.Close()
		out = file
	}
	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.LogLevel),
		Output: out,
		Prefix: "zorforge",
	})

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	// The editor, watcher and application reference each other through
	// callbacks, so they are wired after construction.
	var (
		editor      *app.Editor
		application *app.Application
	)

	clip := clipboard.NewWithCapacity(cfg.ClipboardHistory)
	docs := app.NewDocumentManager(
		app.WithMaxDocuments(cfg.MaxBuffers),
		app.WithBufferOptions(buffer.WithTabSize(cfg.TabSize), buffer.WithClipboard(clip)),
		app.WithEvictHandler(func(d *app.Document) { editor.Forget(d) }),
		app.WithDocumentLogger(logger),
	)
	defer docs.Shutdown()

	watcher, err := app.NewFileWatcher(
		func(path string) { application.FileChanged(path) },
		app.WithWatcherLogger(logger),
	)
	if err != nil {
		logger.Warn("file watching disabled: %v", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	var system clipboard.Provider = clipboard.NewMemory()
	if sys := clipboard.NewSystem(); sys.Available() {
		system = sys
	} else {
		logger.Info("system clipboard unavailable; using in-process clipboard")
	}

	editor = app.NewEditor(docs, app.EditorOptions{
		PageSize:   cfg.PageSize,
		IgnoreCase: cfg.IgnoreCase,
		TabSize:    cfg.TabSize,
		Clipboard:  clip,
		System:     system,
		Watcher:    watcher,
		Logger:     logger,
	})

	scripts := lua.NewState(editor.ScriptHost())
	defer scripts.Close()
	editor.SetScripts(scripts)

	if cfg.InitScript != "" {
		if err := editor.Source(cfg.InitScript); err != nil {
			logger.Error("init script %s: %v", cfg.InitScript, err)
		}
	}

	opts := renderer.DefaultOptions()
	opts.LineNumbers = cfg.LineNumbers
	application = app.New(app.Options{
		Screen:   screen,
		Editor:   editor,
		Renderer: renderer.New(screen, opts),
		Files:    f.files,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() flags {
	var (
		f           flags
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&f.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Zorforge - modal text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: zorforge [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  zorforge                         Open with empty buffer\n")
		fmt.Fprintf(os.Stderr, "  zorforge a.go b.go               Open files\n")
		fmt.Fprintf(os.Stderr, "  zorforge --log-file /tmp/zf.log  Log to a file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Zorforge %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch f.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
		os.Exit(1)
	}

	f.files = flag.Args()
	return f
}
