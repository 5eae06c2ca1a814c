package history_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/history"
)

func snapshotNamed(name string) domain.State {
	return domain.State{Boards: []domain.Board{{ID: name, Name: name}}}
}

func TestCaptureAndUndoOrder(t *testing.T) {
	m := history.NewManager()
	require.False(t, m.CanUndo())
	require.False(t, m.CanRedo())

	m.CaptureBeforeCommand(snapshotNamed("first"))
	m.CaptureBeforeCommand(snapshotNamed("second"))
	require.Equal(t, 2, m.UndoDepth())

	snap, ok := m.PopUndo()
	require.True(t, ok)
	require.Equal(t, "second", snap.Boards[0].ID)

	snap, ok = m.PopUndo()
	require.True(t, ok)
	require.Equal(t, "first", snap.Boards[0].ID)

	_, ok = m.PopUndo()
	require.False(t, ok)
}

func TestCaptureClearsRedo(t *testing.T) {
	m := history.NewManager()
	m.PushRedo(snapshotNamed("stale"))
	require.True(t, m.CanRedo())

	m.CaptureBeforeCommand(snapshotNamed("fresh"))
	require.False(t, m.CanRedo())
	require.Zero(t, m.RedoDepth())
}

func TestSuppressDisablesCapture(t *testing.T) {
	m := history.NewManager()
	m.Suppress(func() {
		m.CaptureBeforeCommand(snapshotNamed("hidden"))
	})
	require.False(t, m.CanUndo())

	// Capture works again once the suppressed section ends.
	m.CaptureBeforeCommand(snapshotNamed("visible"))
	require.True(t, m.CanUndo())
}

func TestPushAndPopRedo(t *testing.T) {
	m := history.NewManager()
	m.PushRedo(snapshotNamed("redo"))

	snap, ok := m.PopRedo()
	require.True(t, ok)
	require.Equal(t, "redo", snap.Boards[0].ID)

	_, ok = m.PopRedo()
	require.False(t, ok)
}

func TestClear(t *testing.T) {
	m := history.NewManager()
	m.CaptureBeforeCommand(snapshotNamed("a"))
	m.PushRedo(snapshotNamed("b"))

	m.Clear()
	require.False(t, m.CanUndo())
	require.False(t, m.CanRedo())
}
