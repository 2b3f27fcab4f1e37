package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable indicates the operating system clipboard cannot be used.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Provider abstracts access to an external clipboard.
type Provider interface {
	// Get returns the current clipboard content.
	Get() (string, error)

	// Set replaces the clipboard content.
	Set(content string) error
}

// System is a Provider backed by the operating system clipboard.
type System struct{}

// NewSystem returns the operating system clipboard provider.
func NewSystem() *System {
	return &System{}
}

// Available reports whether a clipboard utility is present.
func (System) Available() bool {
	return !clipboard.Unsupported
}

// Get reads the operating system clipboard.
func (s System) Get() (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

// Set writes the operating system clipboard.
func (s System) Set(content string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	return clipboard.WriteAll(content)
}

// Memory is an in-process Provider, used when no system clipboard exists
// and in tests.
type Memory struct {
	content string
	err     error
}

// NewMemory returns an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the stored content.
func (m *Memory) Get() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

// Set stores content.
func (m *Memory) Set(content string) error {
	if m.err != nil {
		return m.err
	}
	m.content = content
	return nil
}

// Fail makes every subsequent call return err. A nil err restores normal
// operation.
func (m *Memory) Fail(err error) {
	m.err = err
}
