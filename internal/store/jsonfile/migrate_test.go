package jsonfile_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/store/jsonfile"
)

const v1Payload = `{
  "boards": [{"id": "b1", "name": "legacy", "next_card_number": 3,
    "sprint_names_used": 0, "sort_field": "default", "sort_order": "asc",
    "view_mode": "grouped_by_column",
    "created_at": "2025-01-01T00:00:00Z", "updated_at": "2025-01-01T00:00:00Z"}],
  "columns": [],
  "cards": [],
  "archived_cards": [],
  "sprints": [],
  "edges": []
}`

func TestLoadMigratesV1File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanban.json")
	require.NoError(t, os.WriteFile(path, []byte(v1Payload), 0o644))

	s := jsonfile.New(path, nil)
	snap, err := s.Load(context.Background())
	require.NoError(t, err)

	require.JSONEq(t, v1Payload, string(snap.Data))
	require.NotEmpty(t, snap.Metadata.InstanceID)
	require.False(t, snap.Metadata.SavedAt.IsZero())

	// The file is now a v2 envelope and the backup is gone.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var env struct {
		Version int `json:"version"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	require.Equal(t, jsonfile.FormatVersion, env.Version)

	_, err = os.Stat(path + ".v1.backup")
	require.True(t, os.IsNotExist(err))
}

func TestLoadMigratedFileIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanban.json")
	require.NoError(t, os.WriteFile(path, []byte(v1Payload), 0o644))

	s := jsonfile.New(path, nil)
	first, err := s.Load(context.Background())
	require.NoError(t, err)

	afterFirst, err := os.ReadFile(path)
	require.NoError(t, err)

	// A second load leaves the file byte-identical: migration ran once.
	second, err := s.Load(context.Background())
	require.NoError(t, err)
	afterSecond, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, string(afterFirst), string(afterSecond))
	require.Equal(t, first.Metadata.InstanceID, second.Metadata.InstanceID)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanban.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 9, "metadata": {}, "data": {}}`), 0o644))

	s := jsonfile.New(path, nil)
	_, err := s.Load(context.Background())
	require.Error(t, err)
}
