package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/graph"
)

func depWorkspace(t *testing.T) (*command.Executor, []string) {
	t.Helper()
	exec, _, cols := newWorkspace(t, "Todo")
	ids := []string{
		createCard(t, exec, cols[0], "a"),
		createCard(t, exec, cols[0], "b"),
		createCard(t, exec, cols[0], "c"),
	}
	return exec, ids
}

func TestAddBlocksRejectsSelfReference(t *testing.T) {
	exec, ids := depWorkspace(t)
	err := exec.Execute(&command.AddBlocks{SourceID: ids[0], TargetID: ids[0]})
	require.ErrorIs(t, err, domain.ErrSelfReference)
}

func TestAddBlocksRejectsCycle(t *testing.T) {
	exec, ids := depWorkspace(t)
	require.NoError(t, exec.Execute(&command.AddBlocks{SourceID: ids[0], TargetID: ids[1]}))
	require.NoError(t, exec.Execute(&command.AddBlocks{SourceID: ids[1], TargetID: ids[2]}))

	err := exec.Execute(&command.AddBlocks{SourceID: ids[2], TargetID: ids[0]})
	require.ErrorIs(t, err, domain.ErrCycleDetected)
	require.Len(t, exec.State().Graph.Edges, 2, "rejected edge leaves the graph unchanged")
}

func TestAddBlocksRequiresLiveCards(t *testing.T) {
	exec, ids := depWorkspace(t)
	err := exec.Execute(&command.AddBlocks{SourceID: ids[0], TargetID: "missing"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddRelatesToAllowsCycles(t *testing.T) {
	exec, ids := depWorkspace(t)
	w := 0.5
	require.NoError(t, exec.Execute(&command.AddRelatesTo{SourceID: ids[0], TargetID: ids[1], Weight: &w}))
	require.NoError(t, exec.Execute(&command.AddRelatesTo{SourceID: ids[1], TargetID: ids[0]}))

	st := exec.State()
	require.Len(t, st.Graph.Edges, 2)
	require.Equal(t, graph.Bidirectional, st.Graph.Edges[0].Direction)
	require.NotNil(t, st.Graph.Edges[0].Weight)
}

func TestSetParentReplacesExisting(t *testing.T) {
	exec, ids := depWorkspace(t)
	require.NoError(t, exec.Execute(&command.SetParent{ParentID: ids[0], ChildID: ids[2]}))
	require.NoError(t, exec.Execute(&command.SetParent{ParentID: ids[1], ChildID: ids[2]}))

	st := exec.State()
	parent := st.Graph.Parent(ids[2])
	require.NotNil(t, parent)
	require.Equal(t, ids[1], *parent)
	require.Len(t, st.Graph.Edges, 1, "old parent edge is dropped")
}

func TestSetParentRejectsCycle(t *testing.T) {
	exec, ids := depWorkspace(t)
	require.NoError(t, exec.Execute(&command.SetParent{ParentID: ids[0], ChildID: ids[1]}))
	require.NoError(t, exec.Execute(&command.SetParent{ParentID: ids[1], ChildID: ids[2]}))

	err := exec.Execute(&command.SetParent{ParentID: ids[2], ChildID: ids[0]})
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	err = exec.Execute(&command.SetParent{ParentID: ids[0], ChildID: ids[0]})
	require.ErrorIs(t, err, domain.ErrSelfReference)
}

func TestRemoveDependency(t *testing.T) {
	exec, ids := depWorkspace(t)
	require.NoError(t, exec.Execute(&command.AddBlocks{SourceID: ids[0], TargetID: ids[1]}))

	// Order of endpoints does not matter.
	require.NoError(t, exec.Execute(&command.RemoveDependency{SourceID: ids[1], TargetID: ids[0]}))
	require.Empty(t, exec.State().Graph.Edges)

	err := exec.Execute(&command.RemoveDependency{SourceID: ids[0], TargetID: ids[1]})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveParent(t *testing.T) {
	exec, ids := depWorkspace(t)
	require.NoError(t, exec.Execute(&command.SetParent{ParentID: ids[0], ChildID: ids[1]}))

	require.NoError(t, exec.Execute(&command.RemoveParent{ChildID: ids[1]}))
	require.Nil(t, exec.State().Graph.Parent(ids[1]))

	err := exec.Execute(&command.RemoveParent{ChildID: ids[1]})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
