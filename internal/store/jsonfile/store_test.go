package jsonfile_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/store"
	"github.com/fulsomenko/kanban-sub000/internal/store/jsonfile"
)

func testSnapshot(t *testing.T) store.Snapshot {
	t.Helper()
	board := domain.NewBoard("b", nil)
	col := domain.NewColumn(board.ID, "Todo", 0)
	card := domain.NewCard(col.ID, "c", board.AllocateCardNumber(), 0)
	state := domain.State{
		Boards:  []domain.Board{*board},
		Columns: []domain.Column{*col},
		Cards:   []domain.Card{*card},
	}
	data, err := json.Marshal(&state)
	require.NoError(t, err)
	return store.Snapshot{
		Data:     data,
		Metadata: store.Metadata{InstanceID: uuid.NewString(), SavedAt: time.Now().UTC()},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanban.json")
	s := jsonfile.New(path, nil)
	require.False(t, s.Exists())
	require.Equal(t, path, s.Path())

	snap := testSnapshot(t)
	meta, err := s.Save(context.Background(), snap)
	require.NoError(t, err)
	require.True(t, meta.Equal(snap.Metadata))
	require.True(t, s.Exists())

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, string(snap.Data), string(loaded.Data))
	require.Equal(t, snap.Metadata.InstanceID, loaded.Metadata.InstanceID)
	require.True(t, loaded.Metadata.SavedAt.Equal(snap.Metadata.SavedAt))
}

func TestLoadMissingFileFails(t *testing.T) {
	s := jsonfile.New(filepath.Join(t.TempDir(), "absent.json"), nil)
	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrIO)
}

func TestSaveDetectsForeignWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanban.json")
	ours := jsonfile.New(path, nil)

	snap := testSnapshot(t)
	_, err := ours.Save(context.Background(), snap)
	require.NoError(t, err)

	// Another process writes the same file behind our back.
	theirs := jsonfile.New(path, nil)
	foreign := testSnapshot(t)
	_, err = theirs.Save(context.Background(), foreign)
	require.NoError(t, err)

	next := testSnapshot(t)
	_, err = ours.Save(context.Background(), next)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Forcing drops the fingerprint and overwrites.
	ours.ClearLastKnownMetadata()
	_, err = ours.Save(context.Background(), next)
	require.NoError(t, err)
}

func TestSaveWithoutPriorObservationNeverConflicts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanban.json")

	first := jsonfile.New(path, nil)
	_, err := first.Save(context.Background(), testSnapshot(t))
	require.NoError(t, err)

	// A fresh store instance has no fingerprint to defend.
	second := jsonfile.New(path, nil)
	_, err = second.Save(context.Background(), testSnapshot(t))
	require.NoError(t, err)
}

func TestLoadThenSaveTracksFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanban.json")

	writer := jsonfile.New(path, nil)
	_, err := writer.Save(context.Background(), testSnapshot(t))
	require.NoError(t, err)

	reader := jsonfile.New(path, nil)
	_, err = reader.Load(context.Background())
	require.NoError(t, err)

	// The file changes after the read; the next save must notice.
	_, err = writer.Save(context.Background(), testSnapshot(t))
	require.NoError(t, err)

	_, err = reader.Save(context.Background(), testSnapshot(t))
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestSaveCancelledContext(t *testing.T) {
	s := jsonfile.New(filepath.Join(t.TempDir(), "kanban.json"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, testSnapshot(t))
	require.ErrorIs(t, err, domain.ErrIO)
	require.False(t, s.Exists())
}
