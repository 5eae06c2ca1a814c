package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/history"
)

// newWorkspace builds an executor over a board with the given columns and
// returns the board and column ids.
func newWorkspace(t *testing.T, columnNames ...string) (*command.Executor, string, []string) {
	t.Helper()
	state := &domain.State{}
	exec := command.NewExecutor(state, history.NewManager(), nil)

	createBoard := &command.CreateBoard{Name: "test board"}
	require.NoError(t, exec.Execute(createBoard))

	columnIDs := make([]string, 0, len(columnNames))
	for _, name := range columnNames {
		create := &command.CreateColumn{BoardID: createBoard.CreatedID, Name: name}
		require.NoError(t, exec.Execute(create))
		columnIDs = append(columnIDs, create.CreatedID)
	}
	return exec, createBoard.CreatedID, columnIDs
}

func createCard(t *testing.T, exec *command.Executor, columnID, title string) string {
	t.Helper()
	create := &command.CreateCard{ColumnID: columnID, Title: title}
	require.NoError(t, exec.Execute(create))
	return create.CreatedID
}

type failingCommand struct{}

func (failingCommand) Execute(ctx *command.Context) error {
	return domain.Validationf("forced failure")
}

func (failingCommand) Description() string { return "failing command" }

func TestExecuteBatchRollsBackOnFailure(t *testing.T) {
	exec, _, cols := newWorkspace(t, "Todo")

	err := exec.Execute(
		&command.CreateCard{ColumnID: cols[0], Title: "kept only on success"},
		failingCommand{},
	)
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Empty(t, exec.State().Cards)
}

func TestExecuteEmptyBatchIsNoOp(t *testing.T) {
	state := &domain.State{}
	hist := history.NewManager()
	exec := command.NewExecutor(state, hist, nil)

	require.NoError(t, exec.Execute())
	require.False(t, hist.CanUndo())
}

func TestFailedBatchLeavesNoHistory(t *testing.T) {
	hist := history.NewManager()
	exec := command.NewExecutor(&domain.State{}, hist, nil)

	require.NoError(t, exec.Execute(&command.CreateBoard{Name: "b"}))
	require.Equal(t, 1, hist.UndoDepth())

	require.Error(t, exec.Execute(failingCommand{}))
	require.Equal(t, 1, hist.UndoDepth())
}

func TestUndoRedo(t *testing.T) {
	state := &domain.State{}
	exec := command.NewExecutor(state, history.NewManager(), nil)

	create := &command.CreateBoard{Name: "b"}
	require.NoError(t, exec.Execute(create))
	require.Len(t, state.Boards, 1)

	require.NoError(t, exec.Undo())
	require.Empty(t, state.Boards)

	require.NoError(t, exec.Redo())
	require.Len(t, state.Boards, 1)
	require.Equal(t, create.CreatedID, state.Boards[0].ID)
}

func TestUndoWithEmptyHistoryFails(t *testing.T) {
	exec := command.NewExecutor(&domain.State{}, history.NewManager(), nil)
	require.ErrorIs(t, exec.Undo(), domain.ErrValidation)
	require.ErrorIs(t, exec.Redo(), domain.ErrValidation)
}

func TestFreshMutationClearsRedo(t *testing.T) {
	state := &domain.State{}
	exec := command.NewExecutor(state, history.NewManager(), nil)

	require.NoError(t, exec.Execute(&command.CreateBoard{Name: "one"}))
	require.NoError(t, exec.Undo())
	require.NoError(t, exec.Execute(&command.CreateBoard{Name: "two"}))

	require.ErrorIs(t, exec.Redo(), domain.ErrValidation)
}

func TestUndoDisabledWithoutHistory(t *testing.T) {
	exec := command.NewExecutor(&domain.State{}, nil, nil)
	require.NoError(t, exec.Execute(&command.CreateBoard{Name: "b"}))
	require.ErrorIs(t, exec.Undo(), domain.ErrValidation)
}

func TestObserversSeePostBatchState(t *testing.T) {
	state := &domain.State{}
	exec := command.NewExecutor(state, history.NewManager(), nil)

	var seen []domain.State
	exec.Observe(func(s domain.State) { seen = append(seen, s) })

	require.NoError(t, exec.Execute(&command.CreateBoard{Name: "b"}))
	require.Len(t, seen, 1)
	require.Len(t, seen[0].Boards, 1)

	// Observers receive clones, not the live aggregate.
	seen[0].Boards[0].Name = "mutated"
	require.Equal(t, "b", state.Boards[0].Name)

	// Failed batches notify nobody.
	_ = exec.Execute(failingCommand{})
	require.Len(t, seen, 1)
}
