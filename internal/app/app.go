package app

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/zorforge/internal/engine/buffer"
	"github.com/dshills/zorforge/internal/renderer"
)

// Options configures an Application.
type Options struct {
	// Screen is initialized by Run and finalized when it returns.
	Screen tcell.Screen

	Editor *Editor

	// Renderer defaults to one with DefaultOptions.
	Renderer *renderer.Renderer

	// Files are loaded in the background once Run starts.
	Files []string

	Logger *Logger
}

// Application couples the terminal, the editor and the renderer. All
// editor state is touched from the goroutine running Run; background work
// reports back by posting events to the screen.
type Application struct {
	screen   tcell.Screen
	editor   *Editor
	renderer *renderer.Renderer
	keys     *KeyTranslator
	logger   *Logger
	files    []string

	// empty is drawn until the first document exists.
	empty *buffer.Buffer

	running atomic.Bool
	ready   chan struct{}
}

// New creates an application. Run starts it.
func New(opts Options) *Application {
	app := &Application{
		screen:   opts.Screen,
		editor:   opts.Editor,
		renderer: opts.Renderer,
		keys:     NewKeyTranslator(),
		logger:   opts.Logger,
		files:    opts.Files,
		empty:    buffer.New(),
		ready:    make(chan struct{}),
	}
	if app.logger == nil {
		app.logger = NullLogger
	}
	if app.renderer == nil {
		app.renderer = renderer.New(app.screen, renderer.DefaultOptions())
	}
	return app
}

// Editor returns the editing session.
func (app *Application) Editor() *Editor {
	return app.editor
}

// Ready is closed once Run has initialized the screen and drawn the
// first frame.
func (app *Application) Ready() <-chan struct{} {
	return app.ready
}

// documentLoadedEvent carries a background open back to the event loop.
type documentLoadedEvent struct {
	tcell.EventTime
	result LoadResult
}

// fileChangedEvent reports a watched file modified on disk.
type fileChangedEvent struct {
	tcell.EventTime
	path string
}

// documentReloadedEvent carries a background reload back to the event loop.
type documentReloadedEvent struct {
	tcell.EventTime
	result LoadResult
}

func (app *Application) post(ev tcell.Event) {
	if err := app.screen.PostEvent(ev); err != nil {
		app.logger.WithComponent("app").Warn("dropped event %T: %v", ev, err)
	}
}

// FileChanged queues a change notification for path. It is safe to call
// from any goroutine and is meant as the FileWatcher callback.
func (app *Application) FileChanged(path string) {
	ev := &fileChangedEvent{path: path}
	ev.SetEventNow()
	app.post(ev)
}

// forward posts the result of a background load once it arrives.
func (app *Application) forward(ctx context.Context, ch <-chan LoadResult, wrap func(LoadResult) tcell.Event) {
	select {
	case res, ok := <-ch:
		if ok {
			app.post(wrap(res))
		}
	case <-ctx.Done():
	}
}

func loaded(res LoadResult) tcell.Event {
	ev := &documentLoadedEvent{result: res}
	ev.SetEventNow()
	return ev
}

func reloaded(res LoadResult) tcell.Event {
	ev := &documentReloadedEvent{result: res}
	ev.SetEventNow()
	return ev
}

// Run initializes the screen and processes events until the editor quits
// or ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.screen.Init(); err != nil {
		return NewOperationError("init", "screen", err)
	}
	defer app.screen.Fini()
	app.screen.EnableMouse()
	app.screen.EnablePaste()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.editor.SetPageSize(app.renderer.TextHeight())
	for _, path := range app.files {
		go app.forward(ctx, app.editor.Documents().OpenAsync(ctx, path), loaded)
	}

	events := make(chan tcell.Event, 64)
	go app.poll(ctx, events)

	log := app.logger.WithComponent("app")
	log.Info("started with %d file(s)", len(app.files))
	app.draw()
	close(app.ready)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			err := app.handleEvent(ctx, ev)
			if errors.Is(err, ErrQuit) {
				log.Info("quit")
				return nil
			}
			if err != nil {
				log.Error("%v", err)
			}
			app.draw()
		}
	}
}

// poll feeds screen events to the loop until the screen is finalized.
func (app *Application) poll(ctx context.Context, out chan<- tcell.Event) {
	defer close(out)
	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// handleEvent dispatches one event. Panics in handlers are returned as
// errors so a bad key does not take the session down.
func (app *Application) handleEvent(ctx context.Context, ev tcell.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()

	switch ev := ev.(type) {
	case *tcell.EventResize:
		app.screen.Sync()
		app.editor.SetPageSize(app.renderer.TextHeight())
	case *tcell.EventKey:
		in, ok := app.keys.TranslateKey(app.editor.Mode(), ev)
		if !ok {
			return nil
		}
		return app.editor.HandleInput(in)
	case *tcell.EventMouse:
		in, ok := app.keys.TranslateMouse(ev, app.renderer.ScreenToBuffer)
		if !ok {
			return nil
		}
		return app.editor.HandleInput(in)
	case *documentLoadedEvent:
		app.editor.Adopt(ev.result)
	case *fileChangedEvent:
		if ch := app.editor.ExternalChange(ctx, ev.path); ch != nil {
			go app.forward(ctx, ch, reloaded)
		}
	case *documentReloadedEvent:
		app.editor.Reloaded(ev.result)
	}
	return nil
}

// draw renders the active document and the editor status.
func (app *Application) draw() {
	msg, isErr := app.editor.Status()
	st := renderer.Status{
		Mode:        app.editor.Mode(),
		Message:     msg,
		IsError:     isErr,
		CommandLine: app.editor.CommandLine(),
		Pending:     app.keys.Pending(),
	}

	doc := app.editor.Documents().Active()
	if doc == nil {
		app.renderer.Render(app.empty, st)
		return
	}
	st.Name = doc.Name()
	doc.View(func(b *buffer.Buffer) {
		st.Dirty = b.HasUnsavedChanges()
		app.renderer.Render(b, st)
	})
}
