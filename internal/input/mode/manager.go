package mode

import "sync"

// Manager holds the mode of an editor session and coordinates transitions.
type Manager struct {
	mu sync.RWMutex

	// current is the active mode.
	current Mode

	// previous is the mode before the current one.
	previous Mode

	// callbacks are notified on mode changes.
	callbacks []ChangeCallback
}

// ChangeCallback is called when the mode changes.
type ChangeCallback func(from, to Mode)

// NewManager creates a manager in normal mode.
func NewManager() *Manager {
	return &Manager{
		current:  Normal(),
		previous: Normal(),
	}
}

// Current returns the current mode.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the mode that was active before the last change.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// Apply transitions the current mode by trigger and returns the new mode.
// Callbacks run only when the mode actually changes.
func (m *Manager) Apply(trigger Trigger) Mode {
	m.mu.Lock()
	from := m.current
	to := Transition(from, trigger)
	callbacks := m.setLocked(to)
	m.mu.Unlock()

	notify(callbacks, from, to)
	return to
}

// Set replaces the current mode directly, bypassing the transition table.
// Used when the editor itself ends a mode, such as after executing a
// command line.
func (m *Manager) Set(to Mode) {
	m.mu.Lock()
	from := m.current
	callbacks := m.setLocked(to)
	m.mu.Unlock()

	notify(callbacks, from, to)
}

// setLocked updates state and returns the callbacks to notify, or nil if
// the mode did not change (must hold lock).
func (m *Manager) setLocked(to Mode) []ChangeCallback {
	if to == m.current {
		return nil
	}
	m.previous = m.current
	m.current = to

	// Copy callbacks to call outside of lock
	callbacks := make([]ChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	return callbacks
}

func notify(callbacks []ChangeCallback, from, to Mode) {
	for _, cb := range callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (m *Manager) OnChange(callback ChangeCallback) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Remove callback by setting to nil (preserves indices)
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

// Is reports whether the current mode has the given kind.
func (m *Manager) Is(kind Kind) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.kind == kind
}
