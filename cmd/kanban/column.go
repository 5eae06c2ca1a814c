package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fulsomenko/kanban-sub000/internal/app"
	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func columnCmd() *cobra.Command {
	column := &cobra.Command{Use: "column", Short: "Manage columns"}
	column.AddCommand(columnCreateCmd())
	column.AddCommand(columnUpdateCmd())
	column.AddCommand(columnSwapCmd())
	column.AddCommand(columnCompactCmd())
	column.AddCommand(columnDeleteCmd())
	return column
}

func columnCreateCmd() *cobra.Command {
	var boardID, name string
	var position, wipLimit int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a column to a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				create := &command.CreateColumn{
					BoardID:  boardID,
					Name:     name,
					Position: intPtr(cmd, "position", &position),
					WIPLimit: intPtr(cmd, "wip-limit", &wipLimit),
				}
				if err := a.Execute(create); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				column, err := a.State().Column(create.CreatedID)
				if err != nil {
					return err
				}
				return printJSON(map[string]any{"success": true, "column": column})
			})
		},
	}
	cmd.Flags().StringVar(&boardID, "board", "", "board id")
	cmd.Flags().StringVar(&name, "name", "", "column name")
	cmd.Flags().IntVar(&position, "position", 0, "insertion position (default append)")
	cmd.Flags().IntVar(&wipLimit, "wip-limit", 0, "work-in-progress limit")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func columnUpdateCmd() *cobra.Command {
	var name string
	var position, wipLimit int
	var clearWIPLimit bool
	cmd := &cobra.Command{
		Use:   "update <column-id>",
		Short: "Update a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				update := domain.ColumnUpdate{
					Name: setOrNoChange(cmd, "name", name),
				}
				if cmd.Flags().Changed("position") {
					update.Position = domain.Set(position)
				}
				if clearWIPLimit {
					update.WIPLimit = domain.Clear[int]()
				} else if cmd.Flags().Changed("wip-limit") {
					update.WIPLimit = domain.Set(wipLimit)
				}
				if err := a.Execute(&command.UpdateColumn{ColumnID: args[0], Update: update}); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				column, err := a.State().Column(args[0])
				if err != nil {
					return err
				}
				return printJSON(map[string]any{"success": true, "column": column})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "column name")
	cmd.Flags().IntVar(&position, "position", 0, "position")
	cmd.Flags().IntVar(&wipLimit, "wip-limit", 0, "work-in-progress limit")
	cmd.Flags().BoolVar(&clearWIPLimit, "clear-wip-limit", false, "remove the WIP limit")
	return cmd
}

func columnSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap <column-id> <column-id>",
		Short: "Swap the positions of two columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.SwapColumns{ColumnA: args[0], ColumnB: args[1]}); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				return printJSON(map[string]bool{"success": true})
			})
		},
	}
	return cmd
}

func columnCompactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact <column-id>",
		Short: "Re-index a column's card positions to 0..N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.CompactColumnPositions{ColumnID: args[0]}); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				return printJSON(map[string]bool{"success": true})
			})
		},
	}
	return cmd
}

func columnDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <column-id>",
		Short: "Delete an empty column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.DeleteColumn{ColumnID: args[0]}); err != nil {
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
