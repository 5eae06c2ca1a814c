package main

import (
	"context"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fulsomenko/kanban-sub000/internal/app"
	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func sprintCmd() *cobra.Command {
	sprint := &cobra.Command{Use: "sprint", Short: "Manage sprints"}
	sprint.AddCommand(sprintCreateCmd())
	sprint.AddCommand(sprintListCmd())
	sprint.AddCommand(sprintShowCmd())
	sprint.AddCommand(sprintActivateCmd())
	sprint.AddCommand(sprintCompleteCmd())
	sprint.AddCommand(sprintCancelCmd())
	sprint.AddCommand(sprintDeleteCmd())
	sprint.AddCommand(sprintAssignCmd())
	sprint.AddCommand(sprintUnassignCmd())
	return sprint
}

func sprintCreateCmd() *cobra.Command {
	var boardID, prefix, cardPrefix, start, end string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a sprint in planning state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				create := &command.CreateSprint{
					BoardID:    boardID,
					Prefix:     strPtr(cmd, "prefix", &prefix),
					CardPrefix: strPtr(cmd, "card-prefix", &cardPrefix),
				}
				if cmd.Flags().Changed("start") {
					t, err := time.Parse(time.RFC3339, start)
					if err != nil {
						return err
					}
					create.StartDate = &t
				}
				if cmd.Flags().Changed("end") {
					t, err := time.Parse(time.RFC3339, end)
					if err != nil {
						return err
					}
					create.EndDate = &t
				}
				if err := a.Execute(create); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				return showSprint(a, create.CreatedID)
			})
		},
	}
	cmd.Flags().StringVar(&boardID, "board", "", "board id")
	cmd.Flags().StringVar(&prefix, "prefix", "", "sprint numbering prefix override")
	cmd.Flags().StringVar(&cardPrefix, "card-prefix", "", "card prefix for cards in this sprint")
	cmd.Flags().StringVar(&start, "start", "", "start date (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "end date (RFC 3339)")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func sprintListCmd() *cobra.Command {
	var boardID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a board's sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				st := a.State()
				board, err := st.Board(boardID)
				if err != nil {
					return err
				}
				sprints := st.SprintsForBoard(board.ID)
				payload := struct {
					Count int             `json:"count"`
					Items []domain.Sprint `json:"items"`
				}{Count: len(sprints), Items: sprints}
				return printJSONOrTable(payload, func() {
					renderSprints(board, sprints)
				})
			})
		},
	}
	cmd.Flags().StringVar(&boardID, "board", "", "board id")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func sprintShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <sprint-id>",
		Short: "Show a sprint and its cards, split by completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				st := a.State()
				sprint, err := st.Sprint(args[0])
				if err != nil {
					return err
				}
				board, err := st.Board(sprint.BoardID)
				if err != nil {
					return err
				}
				completed, uncompleted := domain.PartitionByCompletion(st.CardsForSprint(sprint.ID))
				payload := struct {
					Sprint      *domain.Sprint `json:"sprint"`
					Completed   []domain.Card  `json:"completed_cards"`
					Uncompleted []domain.Card  `json:"uncompleted_cards"`
				}{Sprint: sprint, Completed: completed, Uncompleted: uncompleted}
				return printJSONOrTable(payload, func() {
					renderSprints(board, []domain.Sprint{*sprint})
					renderCards(a, uncompleted)
					renderCards(a, completed)
				})
			})
		},
	}
	return cmd
}

func sprintActivateCmd() *cobra.Command {
	var start string
	var durationDays int
	cmd := &cobra.Command{
		Use:   "activate <sprint-id>",
		Short: "Activate a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				activate := &command.ActivateSprint{
					SprintID:     args[0],
					DurationDays: durationDays,
				}
				if cmd.Flags().Changed("start") {
					t, err := time.Parse(time.RFC3339, start)
					if err != nil {
						return err
					}
					activate.StartDate = &t
				}
				if err := a.Execute(activate); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				return showSprint(a, args[0])
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (RFC 3339, default now)")
	cmd.Flags().IntVar(&durationDays, "duration", 14, "sprint length in days when no end date is set")
	return cmd
}

func sprintCompleteCmd() *cobra.Command {
	return sprintTransitionCmd("complete", "Complete an active sprint", func(id string) command.Command {
		return &command.CompleteSprint{SprintID: id}
	})
}

func sprintCancelCmd() *cobra.Command {
	return sprintTransitionCmd("cancel", "Cancel a planning or active sprint", func(id string) command.Command {
		return &command.CancelSprint{SprintID: id}
	})
}

func sprintTransitionCmd(verb, short string, build func(string) command.Command) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <sprint-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(build(args[0])); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				return showSprint(a, args[0])
			})
		},
	}
}

func sprintDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <sprint-id>",
		Short: "Delete a sprint, unassigning its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.DeleteSprint{SprintID: args[0]}); err != nil {
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

func sprintAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <sprint-id> <card-id>",
		Short: "Assign a card to a sprint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.AssignCardToSprint{CardID: args[1], SprintID: args[0]}); err != nil {
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

func sprintUnassignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unassign <card-id>",
		Short: "Remove a card from its sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.UnassignCardFromSprint{CardID: args[0]}); err != nil {
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

func showSprint(a *app.App, id string) error {
	st := a.State()
	sprint, err := st.Sprint(id)
	if err != nil {
		return err
	}
	board, err := st.Board(sprint.BoardID)
	if err != nil {
		return err
	}
	return printMutation("sprint", sprint, func() {
		renderSprints(board, []domain.Sprint{*sprint})
	})
}

func renderSprints(board *domain.Board, sprints []domain.Sprint) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Number", "Name", "Status", "Start", "End"})
	for i := range sprints {
		sp := &sprints[i]
		name, start, end := "", "", ""
		if n := sp.Name(board); n != nil {
			name = *n
		}
		if sp.StartDate != nil {
			start = sp.StartDate.Format(time.RFC3339)
		}
		if sp.EndDate != nil {
			end = sp.EndDate.Format(time.RFC3339)
		}
		tw.AppendRow(table.Row{sp.ID, sp.SprintNumber, name, sp.Status, start, end})
	}
	tw.Render()
}
