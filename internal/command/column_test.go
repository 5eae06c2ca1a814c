package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func TestCreateColumnAppendsByDefault(t *testing.T) {
	exec, boardID, _ := newWorkspace(t, "Todo", "Done")

	create := &command.CreateColumn{BoardID: boardID, Name: "Review"}
	require.NoError(t, exec.Execute(create))

	col, err := exec.State().Column(create.CreatedID)
	require.NoError(t, err)
	require.Equal(t, 2, col.Position)

	// An explicit position is taken verbatim.
	pos := 0
	wip := 3
	create2 := &command.CreateColumn{BoardID: boardID, Name: "Inbox", Position: &pos, WIPLimit: &wip}
	require.NoError(t, exec.Execute(create2))
	col2, err := exec.State().Column(create2.CreatedID)
	require.NoError(t, err)
	require.Equal(t, 0, col2.Position)
	require.NotNil(t, col2.WIPLimit)
	require.Equal(t, 3, *col2.WIPLimit)
}

func TestCreateColumnValidation(t *testing.T) {
	exec, boardID, _ := newWorkspace(t)

	err := exec.Execute(&command.CreateColumn{BoardID: boardID, Name: ""})
	require.ErrorIs(t, err, domain.ErrValidation)

	err = exec.Execute(&command.CreateColumn{BoardID: "missing", Name: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateColumn(t *testing.T) {
	exec, _, cols := newWorkspace(t, "Todo")

	err := exec.Execute(&command.UpdateColumn{ColumnID: cols[0], Update: domain.ColumnUpdate{
		Name:     domain.Set("Backlog"),
		WIPLimit: domain.Set(5),
	}})
	require.NoError(t, err)

	col, err := exec.State().Column(cols[0])
	require.NoError(t, err)
	require.Equal(t, "Backlog", col.Name)
	require.NotNil(t, col.WIPLimit)

	err = exec.Execute(&command.UpdateColumn{ColumnID: cols[0], Update: domain.ColumnUpdate{
		WIPLimit: domain.Clear[int](),
	}})
	require.NoError(t, err)
	col, err = exec.State().Column(cols[0])
	require.NoError(t, err)
	require.Nil(t, col.WIPLimit)

	err = exec.Execute(&command.UpdateColumn{ColumnID: cols[0], Update: domain.ColumnUpdate{
		WIPLimit: domain.Set(-1),
	}})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSwapColumns(t *testing.T) {
	exec, _, cols := newWorkspace(t, "A", "B")

	require.NoError(t, exec.Execute(&command.SwapColumns{ColumnA: cols[0], ColumnB: cols[1]}))

	st := exec.State()
	a, err := st.Column(cols[0])
	require.NoError(t, err)
	b, err := st.Column(cols[1])
	require.NoError(t, err)
	require.Equal(t, 1, a.Position)
	require.Equal(t, 0, b.Position)
}

func TestSwapColumnsAcrossBoardsFails(t *testing.T) {
	exec, _, cols := newWorkspace(t, "A")

	otherBoard := &command.CreateBoard{Name: "other"}
	require.NoError(t, exec.Execute(otherBoard))
	otherCol := &command.CreateColumn{BoardID: otherBoard.CreatedID, Name: "B"}
	require.NoError(t, exec.Execute(otherCol))

	err := exec.Execute(&command.SwapColumns{ColumnA: cols[0], ColumnB: otherCol.CreatedID})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteColumnRefusedWhileReferenced(t *testing.T) {
	exec, _, cols := newWorkspace(t, "Todo", "Done")
	id := createCard(t, exec, cols[0], "occupant")

	err := exec.Execute(&command.DeleteColumn{ColumnID: cols[0]})
	require.ErrorIs(t, err, domain.ErrValidation)

	// Archived cards anchored to the column also block deletion.
	require.NoError(t, exec.Execute(&command.ArchiveCard{CardID: id}))
	err = exec.Execute(&command.DeleteColumn{ColumnID: cols[0]})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, exec.Execute(&command.DeleteCard{CardID: id}))
	require.NoError(t, exec.Execute(&command.DeleteColumn{ColumnID: cols[0]}))
	_, err = exec.State().Column(cols[0])
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompactColumnPositions(t *testing.T) {
	exec, _, cols := newWorkspace(t, "Todo")
	a := createCard(t, exec, cols[0], "a")
	b := createCard(t, exec, cols[0], "b")
	c := createCard(t, exec, cols[0], "c")

	// Open holes by hand-positioning.
	require.NoError(t, exec.Execute(&command.UpdateCard{CardID: a, Update: domain.CardUpdate{Position: domain.Set(10)}}))
	require.NoError(t, exec.Execute(&command.UpdateCard{CardID: b, Update: domain.CardUpdate{Position: domain.Set(4)}}))

	require.NoError(t, exec.Execute(&command.CompactColumnPositions{ColumnID: cols[0]}))

	st := exec.State()
	cardC, err := st.Card(c)
	require.NoError(t, err)
	cardB, err := st.Card(b)
	require.NoError(t, err)
	cardA, err := st.Card(a)
	require.NoError(t, err)
	require.Equal(t, 0, cardC.Position)
	require.Equal(t, 1, cardB.Position)
	require.Equal(t, 2, cardA.Position)
}

func TestDeleteBoardCascades(t *testing.T) {
	exec, boardID, cols := newWorkspace(t, "Todo", "Done")
	a := createCard(t, exec, cols[0], "a")
	b := createCard(t, exec, cols[0], "b")
	require.NoError(t, exec.Execute(&command.AddBlocks{SourceID: a, TargetID: b}))
	require.NoError(t, exec.Execute(&command.ArchiveCard{CardID: b}))
	require.NoError(t, exec.Execute(&command.CreateSprint{BoardID: boardID}))

	keepBoard := &command.CreateBoard{Name: "survivor"}
	require.NoError(t, exec.Execute(keepBoard))
	keepCol := &command.CreateColumn{BoardID: keepBoard.CreatedID, Name: "K"}
	require.NoError(t, exec.Execute(keepCol))
	keeper := createCard(t, exec, keepCol.CreatedID, "keeper")

	require.NoError(t, exec.Execute(&command.DeleteBoard{BoardID: boardID}))

	st := exec.State()
	_, err := st.Board(boardID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Empty(t, st.Sprints)
	require.Empty(t, st.ArchivedCards)
	require.Empty(t, st.Graph.Edges)
	require.Len(t, st.Boards, 1)
	require.Len(t, st.Columns, 1)
	_, err = st.Card(keeper)
	require.NoError(t, err)
}
