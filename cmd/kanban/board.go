package main

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fulsomenko/kanban-sub000/internal/app"
	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func boardCmd() *cobra.Command {
	board := &cobra.Command{Use: "board", Short: "Manage boards"}
	board.AddCommand(boardCreateCmd())
	board.AddCommand(boardListCmd())
	board.AddCommand(boardShowCmd())
	board.AddCommand(boardUpdateCmd())
	board.AddCommand(boardDeleteCmd())
	return board
}

func boardCreateCmd() *cobra.Command {
	var name, desc string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				create := &command.CreateBoard{Name: name, Desc: strPtr(cmd, "description", &desc)}
				if err := a.Execute(create); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				board, err := a.State().Board(create.CreatedID)
				if err != nil {
					return err
				}
				return printMutation("board", board, func() {
					renderBoards(a, []domain.Board{*board})
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "board name")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func boardListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				boards := a.State().Boards
				payload := struct {
					Count int            `json:"count"`
					Items []domain.Board `json:"items"`
				}{Count: len(boards), Items: boards}
				return printJSONOrTable(payload, func() {
					renderBoards(a, boards)
				})
			})
		},
	}
	return cmd
}

func boardShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <board-id>",
		Short: "Show a board with its columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				st := a.State()
				board, err := st.Board(args[0])
				if err != nil {
					return err
				}
				columns := st.ColumnsForBoard(board.ID)
				payload := struct {
					Board   *domain.Board   `json:"board"`
					Columns []domain.Column `json:"columns"`
				}{Board: board, Columns: columns}
				return printJSONOrTable(payload, func() {
					renderBoards(a, []domain.Board{*board})
					tw := table.NewWriter()
					tw.SetOutputMirror(os.Stdout)
					tw.AppendHeader(table.Row{"Column", "Name", "Position", "WIP Limit", "Cards"})
					for _, col := range columns {
						wip := ""
						if col.WIPLimit != nil {
							wip = itoa(*col.WIPLimit)
						}
						tw.AppendRow(table.Row{col.ID, col.Name, col.Position, wip, len(st.CardsInColumn(col.ID))})
					}
					tw.Render()
				})
			})
		},
	}
	return cmd
}

func boardUpdateCmd() *cobra.Command {
	var name, desc, cardPrefix, sprintPrefix, sortField, sortOrder, completionColumn string
	var sprintNames []string
	var clearDescription, clearCompletion bool
	cmd := &cobra.Command{
		Use:   "update <board-id>",
		Short: "Update a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				update := domain.BoardUpdate{
					Name:               setOrNoChange(cmd, "name", name),
					Description:        setClearOrNoChange(cmd, "description", desc, clearDescription),
					CardPrefix:         setOrNoChange(cmd, "card-prefix", cardPrefix),
					SprintPrefix:       setOrNoChange(cmd, "sprint-prefix", sprintPrefix),
					CompletionColumnID: setClearOrNoChange(cmd, "completion-column", completionColumn, clearCompletion),
				}
				if cmd.Flags().Changed("sort-field") {
					update.SortField = domain.Set(domain.SortField(sortField))
				}
				if cmd.Flags().Changed("sort-order") {
					update.SortOrder = domain.Set(domain.SortOrder(sortOrder))
				}
				if cmd.Flags().Changed("sprint-names") {
					update.SprintNames = domain.Set(sprintNames)
				}
				if err := a.Execute(&command.UpdateBoard{BoardID: args[0], Update: update}); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				board, err := a.State().Board(args[0])
				if err != nil {
					return err
				}
				return printMutation("board", board, func() {
					renderBoards(a, []domain.Board{*board})
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "board name")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "clear the description")
	cmd.Flags().StringVar(&cardPrefix, "card-prefix", "", "card numbering prefix")
	cmd.Flags().StringVar(&sprintPrefix, "sprint-prefix", "", "sprint numbering prefix")
	cmd.Flags().StringVar(&sortField, "sort-field", "", "sort field (default, points, priority, created_at, updated_at, status, position)")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "", "sort order (asc, desc)")
	cmd.Flags().StringVar(&completionColumn, "completion-column", "", "completion column id")
	cmd.Flags().BoolVar(&clearCompletion, "clear-completion-column", false, "use the last column for completion")
	cmd.Flags().StringSliceVar(&sprintNames, "sprint-names", nil, "reserved sprint names, consumed in order")
	return cmd
}

func boardDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <board-id>",
		Short: "Delete a board and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.DeleteBoard{BoardID: args[0]}); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				return printJSON(map[string]string{"deleted": args[0]})
			})
		},
	}
	return cmd
}

func renderBoards(a *app.App, boards []domain.Board) {
	st := a.State()
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Name", "Columns", "Cards", "Active Sprint"})
	for _, b := range boards {
		active := ""
		if b.ActiveSprintID != nil {
			active = *b.ActiveSprintID
		}
		tw.AppendRow(table.Row{b.ID, b.Name, len(st.ColumnsForBoard(b.ID)), len(st.CardsForBoard(b.ID)), active})
	}
	tw.Render()
}

func setOrNoChange(cmd *cobra.Command, flag, value string) domain.FieldUpdate[string] {
	if cmd.Flags().Changed(flag) {
		return domain.Set(value)
	}
	return domain.NoChange[string]()
}

func setClearOrNoChange(cmd *cobra.Command, flag, value string, clear bool) domain.FieldUpdate[string] {
	if clear {
		return domain.Clear[string]()
	}
	return setOrNoChange(cmd, flag, value)
}
