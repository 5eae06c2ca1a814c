package app_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/app"
	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/store"
	"github.com/fulsomenko/kanban-sub000/internal/store/mocks"
)

func TestLoadMissingStoreStartsEmpty(t *testing.T) {
	st := &mocks.Store{}
	st.On("Exists").Return(false)
	st.On("Path").Return("kanban.json")

	a := app.New(st, nil)
	require.NoError(t, a.Load(context.Background()))
	require.Empty(t, a.State().Boards)
	st.AssertExpectations(t)
}

func TestLoadReplacesStateAndClearsHistory(t *testing.T) {
	stored := domain.State{Boards: []domain.Board{{ID: "b1", Name: "persisted"}}}
	data, err := json.Marshal(&stored)
	require.NoError(t, err)

	st := &mocks.Store{}
	st.On("Exists").Return(true)
	st.On("Path").Return("kanban.json")
	st.On("Load", mock.Anything).Return(store.Snapshot{Data: data}, nil)

	a := app.New(st, nil)
	require.NoError(t, a.Execute(&command.CreateBoard{Name: "scratch"}))
	require.True(t, a.History().CanUndo())

	require.NoError(t, a.Load(context.Background()))
	require.Len(t, a.State().Boards, 1)
	require.Equal(t, "persisted", a.State().Boards[0].Name)
	require.False(t, a.History().CanUndo())
	st.AssertExpectations(t)
}

func TestLoadSurfacesDecodeFailure(t *testing.T) {
	st := &mocks.Store{}
	st.On("Exists").Return(true)
	st.On("Load", mock.Anything).Return(store.Snapshot{Data: []byte("not json")}, nil)

	a := app.New(st, nil)
	err := a.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrSerialization)
}

func TestSaveStampsInstanceMetadata(t *testing.T) {
	st := &mocks.Store{}
	var saved store.Snapshot
	st.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(store.Snapshot)
	}).Return(store.Metadata{}, nil)

	a := app.New(st, nil)
	require.NoError(t, a.Execute(&command.CreateBoard{Name: "b"}))
	require.NoError(t, a.Save(context.Background()))

	require.Equal(t, a.InstanceID(), saved.Metadata.InstanceID)
	require.False(t, saved.Metadata.SavedAt.IsZero())

	var state domain.State
	require.NoError(t, json.Unmarshal(saved.Data, &state))
	require.Len(t, state.Boards, 1)
	st.AssertExpectations(t)
}

func TestSavePropagatesConflict(t *testing.T) {
	st := &mocks.Store{}
	st.On("Save", mock.Anything, mock.Anything).Return(store.Metadata{}, domain.Conflict("kanban.json", nil))

	a := app.New(st, nil)
	err := a.Save(context.Background())
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestForceSaveClearsFingerprintFirst(t *testing.T) {
	st := &mocks.Store{}
	st.On("ClearLastKnownMetadata").Return()
	st.On("Save", mock.Anything, mock.Anything).Return(store.Metadata{}, nil)

	a := app.New(st, nil)
	require.NoError(t, a.ForceSave(context.Background()))
	st.AssertCalled(t, "ClearLastKnownMetadata")
	st.AssertExpectations(t)
}

func TestUndoRedoThroughApp(t *testing.T) {
	a := app.New(&mocks.Store{}, nil)

	require.NoError(t, a.Execute(&command.CreateBoard{Name: "b"}))
	require.NoError(t, a.Undo())
	require.Empty(t, a.State().Boards)
	require.NoError(t, a.Redo())
	require.Len(t, a.State().Boards, 1)
}
