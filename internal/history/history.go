// Package history keeps snapshot-based undo/redo stacks. Snapshots are
// full clones of the state aggregate; the core is sized for interactive
// latency on human-scale kanban data, so no delta compression.
package history

import "github.com/fulsomenko/kanban-sub000/internal/domain"

// Manager holds the undo and redo stacks plus a suppression flag callers
// set while restoring, so the restore itself does not enter history.
type Manager struct {
	undo     []domain.State
	redo     []domain.State
	suppress bool
}

// NewManager returns an empty history.
func NewManager() *Manager {
	return &Manager{}
}

// CaptureBeforeCommand pushes the pre-batch snapshot onto the undo stack
// and clears redo. Any fresh mutation invalidates the redo stack.
func (m *Manager) CaptureBeforeCommand(snap domain.State) {
	if m.suppress {
		return
	}
	m.undo = append(m.undo, snap)
	m.redo = nil
}

// PopUndo takes the most recent undo snapshot.
func (m *Manager) PopUndo() (domain.State, bool) {
	if len(m.undo) == 0 {
		return domain.State{}, false
	}
	snap := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	return snap, true
}

// PopRedo takes the most recent redo snapshot.
func (m *Manager) PopRedo() (domain.State, bool) {
	if len(m.redo) == 0 {
		return domain.State{}, false
	}
	snap := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	return snap, true
}

// PushUndo pushes directly onto the undo stack; used while performing a
// redo.
func (m *Manager) PushUndo(snap domain.State) {
	m.undo = append(m.undo, snap)
}

// PushRedo pushes directly onto the redo stack; used while performing an
// undo.
func (m *Manager) PushRedo(snap domain.State) {
	m.redo = append(m.redo, snap)
}

// Suppress runs fn with capture disabled.
func (m *Manager) Suppress(fn func()) {
	m.suppress = true
	defer func() { m.suppress = false }()
	fn()
}

func (m *Manager) CanUndo() bool  { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool  { return len(m.redo) > 0 }
func (m *Manager) UndoDepth() int { return len(m.undo) }
func (m *Manager) RedoDepth() int { return len(m.redo) }

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}
