package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/zorforge/internal/engine/buffer"
)

// DefaultMaxDocuments is the open-document limit when none is configured.
const DefaultMaxDocuments = 32

// Document is an open buffer together with its file identity.
//
// The buffer is guarded by the document's own lock; use View and Edit to
// reach it. Different documents can be used concurrently.
type Document struct {
	// ID identifies the document for its whole lifetime.
	ID uuid.UUID

	mu       sync.RWMutex
	path     string
	name     string
	readOnly bool
	buf      *buffer.Buffer
}

func newDocument(path, name string, buf *buffer.Buffer) *Document {
	return &Document{
		ID:   uuid.New(),
		path: path,
		name: name,
		buf:  buf,
	}
}

// View runs fn with shared access to the buffer.
func (d *Document) View(fn func(b *buffer.Buffer)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.buf)
}

// Edit runs fn with exclusive access to the buffer.
func (d *Document) Edit(fn func(b *buffer.Buffer)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.buf)
}

// Path returns the absolute file path, empty for scratch documents.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// Name returns the display name.
func (d *Document) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// IsScratch reports whether the document has no file path.
func (d *Document) IsScratch() bool {
	return d.Path() == ""
}

// ReadOnly reports whether saving is refused.
func (d *Document) ReadOnly() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readOnly
}

// SetReadOnly sets the read-only flag.
func (d *Document) SetReadOnly(ro bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = ro
}

// IsDirty reports whether the buffer has unsaved changes.
func (d *Document) IsDirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.HasUnsavedChanges()
}

// Content returns the buffer text.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Text()
}

// LoadResult is delivered when an asynchronous load finishes.
type LoadResult struct {
	Doc *Document
	Err error
}

// DocumentManager owns the open documents: lookup by id, the active
// document, navigation order and least-recently-used eviction.
type DocumentManager struct {
	mu      sync.RWMutex
	docs    map[uuid.UUID]*Document
	order   []uuid.UUID // open order, for Next/Prev
	recent  []uuid.UUID // most recently used first
	active  uuid.UUID
	max     int
	counter int // scratch naming
	closed  bool
	opts    []buffer.Option
	tabSize int // overrides opts when set
	onEvict func(*Document)
	logger  *Logger
}

// DocumentManagerOption configures a DocumentManager.
type DocumentManagerOption func(*DocumentManager)

// WithMaxDocuments sets the open-document limit.
func WithMaxDocuments(n int) DocumentManagerOption {
	return func(dm *DocumentManager) {
		if n > 0 {
			dm.max = n
		}
	}
}

// WithBufferOptions sets the options every new buffer is created with.
func WithBufferOptions(opts ...buffer.Option) DocumentManagerOption {
	return func(dm *DocumentManager) {
		dm.opts = append(dm.opts, opts...)
	}
}

// WithEvictHandler registers a function called (without the manager lock)
// for every document dropped by eviction or Close.
func WithEvictHandler(fn func(*Document)) DocumentManagerOption {
	return func(dm *DocumentManager) {
		dm.onEvict = fn
	}
}

// WithDocumentLogger sets the logger.
func WithDocumentLogger(l *Logger) DocumentManagerOption {
	return func(dm *DocumentManager) {
		dm.logger = l
	}
}

// NewDocumentManager creates an empty document manager.
func NewDocumentManager(opts ...DocumentManagerOption) *DocumentManager {
	dm := &DocumentManager{
		docs:   make(map[uuid.UUID]*Document),
		max:    DefaultMaxDocuments,
		logger: NullLogger,
	}
	for _, opt := range opts {
		opt(dm)
	}
	return dm
}

// Open opens the file at path and makes it active. A file that is already
// open is switched to instead. A missing file yields an empty document
// that will be created on save.
func (dm *DocumentManager) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	if doc := dm.FindByPath(abs); doc != nil {
		return doc, dm.Switch(doc.ID)
	}

	doc, err := dm.load(abs)
	if err != nil {
		return nil, err
	}
	return dm.register(doc)
}

// OpenAsync reads the file on a background goroutine and registers the
// document once it is fully populated. The result channel receives exactly
// one value. Loads that finish after ctx is cancelled or the manager is
// shut down are discarded.
func (dm *DocumentManager) OpenAsync(ctx context.Context, path string) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		abs, err := filepath.Abs(path)
		if err != nil {
			out <- LoadResult{Err: NewOperationError("open", path, err)}
			return
		}
		if doc := dm.FindByPath(abs); doc != nil {
			out <- LoadResult{Doc: doc, Err: dm.Switch(doc.ID)}
			return
		}

		doc, err := dm.load(abs)
		if err != nil {
			out <- LoadResult{Err: err}
			return
		}
		if err := ctx.Err(); err != nil {
			out <- LoadResult{Err: NewOperationError("open", abs, err)}
			return
		}
		doc, err = dm.register(doc)
		out <- LoadResult{Doc: doc, Err: err}
	}()
	return out
}

// Reload replaces the buffer of document id with the file content on
// disk. Undo history is reset and the cursor is kept where possible. A
// dirty buffer is only replaced when force is set; otherwise Reload
// returns ErrUnsavedChanges.
func (dm *DocumentManager) Reload(id uuid.UUID, force bool) error {
	doc, ok := dm.Get(id)
	if !ok {
		return ErrDocumentNotFound
	}
	path := doc.Path()
	if path == "" {
		return ErrNoFileName
	}
	data, err := readFile(path)
	if err != nil {
		return err
	}
	return dm.replaceContent(id, data, force)
}

// ReloadAsync is Reload on a background goroutine. The reload is dropped
// if the document was closed or ctx cancelled while the file was read, and
// refused if the buffer became dirty in the meantime and force is unset.
func (dm *DocumentManager) ReloadAsync(ctx context.Context, id uuid.UUID, force bool) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		doc, ok := dm.Get(id)
		if !ok {
			out <- LoadResult{Err: ErrDocumentNotFound}
			return
		}
		path := doc.Path()
		if path == "" {
			out <- LoadResult{Err: ErrNoFileName}
			return
		}
		data, err := readFile(path)
		if err != nil {
			out <- LoadResult{Err: err}
			return
		}
		if err := ctx.Err(); err != nil {
			out <- LoadResult{Err: NewOperationError("reload", path, err)}
			return
		}
		out <- LoadResult{Doc: doc, Err: dm.replaceContent(id, data, force)}
	}()
	return out
}

func (dm *DocumentManager) replaceContent(id uuid.UUID, data string, force bool) error {
	dm.mu.RLock()
	doc, ok := dm.docs[id]
	closed := dm.closed
	dm.mu.RUnlock()
	if closed {
		return ErrManagerClosed
	}
	if !ok {
		return ErrDocumentNotFound
	}

	base := dm.newBufferOptions()
	var err error
	doc.Edit(func(b *buffer.Buffer) {
		// Checked under the document lock: edits may land while the file
		// is read.
		if b.HasUnsavedChanges() && !force {
			err = ErrUnsavedChanges
			return
		}
		if strings.Join(b.Lines(), "\n") == strings.Join(buffer.SplitLines(data), "\n") {
			b.MarkSaved()
			return
		}
		cursor := b.Cursor()
		opts := append(base, buffer.WithTabSize(b.TabSize()), buffer.WithClipboard(b.Clipboard()))
		nb := buffer.NewFromText(data, opts...)
		nb.SetCursor(cursor)
		doc.buf = nb
	})
	if err != nil {
		return err
	}
	dm.logger.Debug("reloaded %s", doc.Path())
	return nil
}

// SetTabSize sets the tab size of buffers created from now on.
func (dm *DocumentManager) SetTabSize(n int) {
	dm.mu.Lock()
	dm.tabSize = n
	dm.mu.Unlock()
}

// newBufferOptions returns the options a new buffer is created with. It
// takes dm.mu, so it must not be called under a document lock.
func (dm *DocumentManager) newBufferOptions() []buffer.Option {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	opts := append([]buffer.Option(nil), dm.opts...)
	if dm.tabSize > 0 {
		opts = append(opts, buffer.WithTabSize(dm.tabSize))
	}
	return opts
}

func (dm *DocumentManager) load(abs string) (*Document, error) {
	data, err := readFile(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data = ""
	case err != nil:
		return nil, err
	}
	buf := buffer.NewFromText(data, dm.newBufferOptions()...)
	return newDocument(abs, filepath.Base(abs), buf), nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewOperationError("read", path, err)
	}
	return string(data), nil
}

// CreateScratch creates an empty document without a path and makes it
// active.
func (dm *DocumentManager) CreateScratch() (*Document, error) {
	dm.mu.Lock()
	dm.counter++
	name := "[No Name]"
	if dm.counter > 1 {
		name = "[No Name " + strconv.Itoa(dm.counter) + "]"
	}
	dm.mu.Unlock()

	return dm.register(newDocument("", name, buffer.New(dm.newBufferOptions()...)))
}

// register adds doc, makes it active and evicts over the limit.
func (dm *DocumentManager) register(doc *Document) (*Document, error) {
	dm.mu.Lock()
	if dm.closed {
		dm.mu.Unlock()
		return nil, ErrManagerClosed
	}
	// Another load of the same path may have won the race.
	if path := doc.Path(); path != "" {
		if existing := dm.findByPathLocked(path); existing != nil {
			dm.activateLocked(existing.ID)
			dm.mu.Unlock()
			return existing, nil
		}
	}
	dm.docs[doc.ID] = doc
	dm.order = append(dm.order, doc.ID)
	dm.activateLocked(doc.ID)
	evicted := dm.evictLocked()
	dm.mu.Unlock()

	dm.logger.WithField("doc", doc.Name()).Debug("opened")
	dm.notifyEvicted(evicted)
	return doc, nil
}

// evictLocked drops least-recently-used documents beyond the limit. The
// active document and documents with unsaved changes are never evicted.
func (dm *DocumentManager) evictLocked() []*Document {
	var evicted []*Document
	for len(dm.docs) > dm.max {
		victim := uuid.Nil
		for i := len(dm.recent) - 1; i >= 0; i-- {
			id := dm.recent[i]
			if id == dm.active || dm.docs[id].IsDirty() {
				continue
			}
			victim = id
			break
		}
		if victim == uuid.Nil {
			break
		}
		evicted = append(evicted, dm.docs[victim])
		dm.removeLocked(victim)
	}
	return evicted
}

func (dm *DocumentManager) notifyEvicted(docs []*Document) {
	for _, doc := range docs {
		dm.logger.WithField("doc", doc.Name()).Debug("evicted")
		if dm.onEvict != nil {
			dm.onEvict(doc)
		}
	}
}

func (dm *DocumentManager) removeLocked(id uuid.UUID) {
	delete(dm.docs, id)
	dm.order = without(dm.order, id)
	dm.recent = without(dm.recent, id)
	if dm.active == id {
		dm.active = uuid.Nil
		if len(dm.recent) > 0 {
			dm.active = dm.recent[0]
		}
	}
}

func (dm *DocumentManager) activateLocked(id uuid.UUID) {
	dm.active = id
	dm.recent = append([]uuid.UUID{id}, without(dm.recent, id)...)
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Close removes a document regardless of unsaved changes. The most
// recently used remaining document becomes active.
func (dm *DocumentManager) Close(id uuid.UUID) error {
	dm.mu.Lock()
	doc, ok := dm.docs[id]
	if !ok {
		dm.mu.Unlock()
		return ErrDocumentNotFound
	}
	dm.removeLocked(id)
	dm.mu.Unlock()

	if dm.onEvict != nil {
		dm.onEvict(doc)
	}
	return nil
}

// Switch makes document id active.
func (dm *DocumentManager) Switch(id uuid.UUID) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if _, ok := dm.docs[id]; !ok {
		return ErrDocumentNotFound
	}
	dm.activateLocked(id)
	return nil
}

// Next activates and returns the document after the active one in open
// order, wrapping around.
func (dm *DocumentManager) Next() *Document {
	return dm.step(1)
}

// Prev activates and returns the document before the active one in open
// order, wrapping around.
func (dm *DocumentManager) Prev() *Document {
	return dm.step(-1)
}

func (dm *DocumentManager) step(delta int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	n := len(dm.order)
	if n == 0 {
		return nil
	}
	idx := 0
	for i, id := range dm.order {
		if id == dm.active {
			idx = (i + delta + n) % n
			break
		}
	}
	id := dm.order[idx]
	dm.activateLocked(id)
	return dm.docs[id]
}

// Active returns the active document, or nil when none is open.
func (dm *DocumentManager) Active() *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.docs[dm.active]
}

// Get returns a document by id.
func (dm *DocumentManager) Get(id uuid.UUID) (*Document, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	doc, ok := dm.docs[id]
	return doc, ok
}

// FindByPath returns the open document for an absolute path, or nil.
func (dm *DocumentManager) FindByPath(path string) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.findByPathLocked(path)
}

func (dm *DocumentManager) findByPathLocked(path string) *Document {
	for _, id := range dm.order {
		if doc := dm.docs[id]; doc.Path() == path {
			return doc
		}
	}
	return nil
}

// All returns the open documents in open order.
func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	docs := make([]*Document, 0, len(dm.order))
	for _, id := range dm.order {
		docs = append(docs, dm.docs[id])
	}
	return docs
}

// Count returns the number of open documents.
func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.docs)
}

// HasDirty returns true if any document has unsaved changes.
func (dm *DocumentManager) HasDirty() bool {
	for _, doc := range dm.All() {
		if doc.IsDirty() {
			return true
		}
	}
	return false
}

// Save writes document id to its path and marks it saved.
func (dm *DocumentManager) Save(id uuid.UUID) error {
	doc, ok := dm.Get(id)
	if !ok {
		return ErrDocumentNotFound
	}
	return dm.write(doc, "")
}

// SaveAs writes document id to path, which becomes its new path.
func (dm *DocumentManager) SaveAs(id uuid.UUID, path string) error {
	doc, ok := dm.Get(id)
	if !ok {
		return ErrDocumentNotFound
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return NewOperationError("save", path, err)
	}
	return dm.write(doc, abs)
}

func (dm *DocumentManager) write(doc *Document, newPath string) error {
	doc.mu.Lock()
	defer doc.mu.Unlock()

	path := doc.path
	if newPath != "" {
		path = newPath
	}
	if path == "" {
		return ErrNoFileName
	}
	if doc.readOnly && newPath == "" {
		return NewOperationError("save", path, ErrReadOnly)
	}

	sep := doc.buf.LineEnding().Sequence()
	content := strings.Join(doc.buf.Lines(), sep) + sep
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return NewOperationError("save", path, err)
	}

	doc.path = path
	doc.name = filepath.Base(path)
	doc.readOnly = false
	doc.buf.MarkSaved()
	dm.logger.WithField("path", path).Info("saved %d lines", doc.buf.LineCount())
	return nil
}

// Shutdown closes the manager. Pending asynchronous loads are discarded.
func (dm *DocumentManager) Shutdown() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.closed = true
}
