// Package history provides a snapshot-based undo/redo stack over a schema
// store. It is a UI affordance, not a transaction log: operating on an empty
// stack is a silent no-op and snapshot restore never fails outward.
package history

import (
	"encoding/json"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

const defaultLimit = 100

// Option customises the manager.
type Option func(*Manager)

// WithLimit caps the undo stack depth. Values below one restore the default.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithRestoreHook registers a callback invoked with the restored document
// after every successful undo or redo. Hosts use it to re-render and resync
// the settings UI.
func WithRestoreHook(fn func(schema.Schema)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.hooks = append(m.hooks, fn)
		}
	}
}

// Manager keeps two bounded stacks of serialized document snapshots. Callers
// commit once per user-visible action (not per keystroke); committing after
// an undo invalidates the redo stack, the standard linear-history rule.
type Manager struct {
	mu    sync.Mutex
	store *schema.Store
	undo  [][]byte
	redo  [][]byte
	limit int
	hooks []func(schema.Schema)
}

// New builds a manager bound to the given store.
func New(store *schema.Store, options ...Option) *Manager {
	m := &Manager{store: store, limit: defaultLimit}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Commit pushes a snapshot of the current document onto the undo stack,
// trimming the oldest entry past the cap, and clears the redo stack.
func (m *Manager) Commit() {
	if m == nil || m.store == nil {
		return
	}
	snap, ok := m.snapshot()
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = append(m.undo, snap)
	if len(m.undo) > m.limit {
		m.undo = m.undo[len(m.undo)-m.limit:]
	}
	m.redo = m.redo[:0]
}

// Undo restores the most recent snapshot, pushing the current document onto
// the redo stack first. Returns false when there is nothing to undo.
func (m *Manager) Undo() bool {
	return m.shift(&m.undo, &m.redo)
}

// Redo re-applies the most recently undone snapshot. Returns false when
// there is nothing to redo.
func (m *Manager) Redo() bool {
	return m.shift(&m.redo, &m.undo)
}

// CanUndo reports whether an undo snapshot is available.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether a redo snapshot is available.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

func (m *Manager) shift(from, to *[][]byte) bool {
	if m == nil || m.store == nil {
		return false
	}
	current, ok := m.snapshot()
	if !ok {
		return false
	}

	m.mu.Lock()
	if len(*from) == 0 {
		m.mu.Unlock()
		return false
	}
	snap := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]

	var restored schema.Schema
	if err := json.Unmarshal(snap, &restored); err != nil {
		// Snapshots are produced by Marshal so this should not happen;
		// drop the corrupt entry and stay on the current document.
		m.mu.Unlock()
		return false
	}
	*to = append(*to, current)
	m.mu.Unlock()

	m.store.Replace(restored)
	for _, hook := range m.hooks {
		hook(m.store.Schema())
	}
	return true
}

func (m *Manager) snapshot() ([]byte, bool) {
	raw, err := json.Marshal(m.store.Schema())
	if err != nil {
		return nil, false
	}
	return raw, true
}
