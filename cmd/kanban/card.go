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
	"github.com/fulsomenko/kanban-sub000/internal/view"
)

func cardCmd() *cobra.Command {
	card := &cobra.Command{Use: "card", Short: "Manage cards"}
	card.AddCommand(cardCreateCmd())
	card.AddCommand(cardSubcardCmd())
	card.AddCommand(cardShowCmd())
	card.AddCommand(cardListCmd())
	card.AddCommand(cardUpdateCmd())
	card.AddCommand(cardMoveCmd())
	card.AddCommand(cardToggleCmd())
	card.AddCommand(cardArchiveCmd())
	card.AddCommand(cardRestoreCmd())
	card.AddCommand(cardDeleteCmd())
	card.AddCommand(cardBranchCmd())
	return card
}

func cardCreateCmd() *cobra.Command {
	var columnID, title, desc, priority, due string
	var points int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card at the end of a column",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				create := &command.CreateCard{
					ColumnID: columnID,
					Title:    title,
					Desc:     strPtr(cmd, "description", &desc),
					Points:   intPtr(cmd, "points", &points),
				}
				if cmd.Flags().Changed("priority") {
					p, err := domain.ParsePriority(priority)
					if err != nil {
						return err
					}
					create.Priority = &p
				}
				if cmd.Flags().Changed("due") {
					t, err := time.Parse(time.RFC3339, due)
					if err != nil {
						return err
					}
					create.DueDate = &t
				}
				if err := a.Execute(create); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				card, err := a.State().Card(create.CreatedID)
				if err != nil {
					return err
				}
				return printMutation("card", card, func() {
					renderCards(a, []domain.Card{*card})
				})
			})
		},
	}
	cmd.Flags().StringVar(&columnID, "column", "", "column id")
	cmd.Flags().StringVar(&title, "title", "", "card title")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (low, medium, high, critical)")
	cmd.Flags().IntVar(&points, "points", 0, "story points")
	cmd.Flags().StringVar(&due, "due", "", "due date (RFC 3339)")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func cardSubcardCmd() *cobra.Command {
	var parentID, title string
	cmd := &cobra.Command{
		Use:   "subcard",
		Short: "Create a card linked under a parent card",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				create := &command.CreateSubcard{ParentID: parentID, Title: title}
				if err := a.Execute(create); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				card, err := a.State().Card(create.CreatedID)
				if err != nil {
					return err
				}
				return printMutation("card", card, func() {
					renderCards(a, []domain.Card{*card})
				})
			})
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "parent card id")
	cmd.Flags().StringVar(&title, "title", "", "card title")
	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func cardShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <card-id>",
		Short: "Show a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				card, err := a.State().Card(args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(card, func() {
					renderCards(a, []domain.Card{*card})
				})
			})
		},
	}
	return cmd
}

func cardListCmd() *cobra.Command {
	var boardID, columnID, query, sortField, sortOrder string
	var sprintIDs []string
	var unassignedOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards on a board, filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				st := a.State()
				board, err := st.Board(boardID)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("sort-field") || cmd.Flags().Changed("sort-order") {
					b := *board
					if cmd.Flags().Changed("sort-field") {
						b.SortField = domain.SortField(sortField)
					}
					if cmd.Flags().Changed("sort-order") {
						b.SortOrder = domain.SortOrder(sortOrder)
					}
					board = &b
				}
				rc := &view.RefreshContext{
					Board:               board,
					Cards:               st.CardsForBoard(board.ID),
					Columns:             st.ColumnsForBoard(board.ID),
					Sprints:             st.SprintsForBoard(board.ID),
					ActiveSprintFilters: sprintIDs,
					HideAssigned:        unassignedOnly,
					SearchQuery:         query,
				}
				var filters []view.Filter
				if cmd.Flags().Changed("column") {
					filters = append(filters, &view.ColumnFilter{ColumnID: columnID})
				}
				cards := view.ApplyRefresh(rc, filters...)
				payload := struct {
					Count int           `json:"count"`
					Items []domain.Card `json:"items"`
				}{Count: len(cards), Items: cards}
				return printJSONOrTable(payload, func() {
					renderCards(a, cards)
				})
			})
		},
	}
	cmd.Flags().StringVar(&boardID, "board", "", "board id")
	cmd.Flags().StringVar(&columnID, "column", "", "restrict to one column")
	cmd.Flags().StringSliceVar(&sprintIDs, "sprint", nil, "restrict to sprint ids")
	cmd.Flags().BoolVar(&unassignedOnly, "unassigned", false, "only cards outside any sprint")
	cmd.Flags().StringVar(&query, "query", "", "search title, branch name, or identifier")
	cmd.Flags().StringVar(&sortField, "sort-field", "", "sort field")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "", "sort order (asc, desc)")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func cardUpdateCmd() *cobra.Command {
	var title, desc, priority, status, cardPrefix, due string
	var position, points int
	var clearDescription, clearDue, clearPoints bool
	cmd := &cobra.Command{
		Use:   "update <card-id>",
		Short: "Update a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				update := domain.CardUpdate{
					Title:       setOrNoChange(cmd, "title", title),
					Description: setClearOrNoChange(cmd, "description", desc, clearDescription),
					CardPrefix:  setOrNoChange(cmd, "card-prefix", cardPrefix),
				}
				if cmd.Flags().Changed("priority") {
					p, err := domain.ParsePriority(priority)
					if err != nil {
						return err
					}
					update.Priority = domain.Set(p)
				}
				if cmd.Flags().Changed("status") {
					s, err := domain.ParseStatus(status)
					if err != nil {
						return err
					}
					update.Status = domain.Set(s)
				}
				if cmd.Flags().Changed("position") {
					update.Position = domain.Set(position)
				}
				if clearDue {
					update.DueDate = domain.Clear[time.Time]()
				} else if cmd.Flags().Changed("due") {
					t, err := time.Parse(time.RFC3339, due)
					if err != nil {
						return err
					}
					update.DueDate = domain.Set(t)
				}
				if clearPoints {
					update.Points = domain.Clear[int]()
				} else if cmd.Flags().Changed("points") {
					update.Points = domain.Set(points)
				}
				if err := a.Execute(&command.UpdateCard{CardID: args[0], Update: update}); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				card, err := a.State().Card(args[0])
				if err != nil {
					return err
				}
				return printMutation("card", card, func() {
					renderCards(a, []domain.Card{*card})
				})
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "card title")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "clear the description")
	cmd.Flags().StringVar(&priority, "priority", "", "priority")
	cmd.Flags().StringVar(&status, "status", "", "status (todo, in_progress, blocked, done)")
	cmd.Flags().IntVar(&position, "position", 0, "position within the column")
	cmd.Flags().StringVar(&due, "due", "", "due date (RFC 3339)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "clear the due date")
	cmd.Flags().IntVar(&points, "points", 0, "story points")
	cmd.Flags().BoolVar(&clearPoints, "clear-points", false, "clear story points")
	cmd.Flags().StringVar(&cardPrefix, "card-prefix", "", "per-card prefix override")
	return cmd
}

func cardMoveCmd() *cobra.Command {
	var columnID, direction string
	var position int
	cmd := &cobra.Command{
		Use:   "move <card-id>",
		Short: "Move a card to a column or sideways",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				var mv command.Command
				switch {
				case cmd.Flags().Changed("direction"):
					dir := domain.MoveLeft
					if direction == "right" {
						dir = domain.MoveRight
					}
					mv = &command.MoveCardDirection{CardID: args[0], Direction: dir}
				case cmd.Flags().Changed("column"):
					mv = &command.MoveCard{
						CardID:   args[0],
						ColumnID: columnID,
						Position: intPtr(cmd, "position", &position),
					}
				default:
					return domain.Validationf("either --column or --direction is required")
				}
				if err := a.Execute(mv); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				card, err := a.State().Card(args[0])
				if err != nil {
					return err
				}
				return printMutation("card", card, func() {
					renderCards(a, []domain.Card{*card})
				})
			})
		},
	}
	cmd.Flags().StringVar(&columnID, "column", "", "target column id")
	cmd.Flags().IntVar(&position, "position", 0, "target position (default append)")
	cmd.Flags().StringVar(&direction, "direction", "", "left or right")
	return cmd
}

func cardToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <card-id>",
		Short: "Toggle a card between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.ToggleCardCompletion{CardID: args[0]}); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				card, err := a.State().Card(args[0])
				if err != nil {
					return err
				}
				return printMutation("card", card, func() {
					renderCards(a, []domain.Card{*card})
				})
			})
		},
	}
	return cmd
}

func cardArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <card-id> [card-id...]",
		Short: "Archive one or more cards",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if len(args) == 1 {
					if err := a.Execute(&command.ArchiveCard{CardID: args[0]}); err != nil {
						return err
					}
					if err := save(ctx, a); err != nil {
						return err
					}
					return printJSON(map[string]string{"archived": args[0]})
				}
				// Bulk mode: each card archives independently so one bad
				// id does not sink the rest.
				succeeded := []string{}
				failed := []map[string]string{}
				for _, id := range args {
					if err := a.Execute(&command.ArchiveCard{CardID: id}); err != nil {
						failed = append(failed, map[string]string{"id": id, "error": err.Error()})
						continue
					}
					succeeded = append(succeeded, id)
				}
				if len(succeeded) > 0 {
					if err := save(ctx, a); err != nil {
						return err
					}
				}
				return printJSON(map[string]any{
					"succeeded_count": len(succeeded),
					"failed_count":    len(failed),
					"succeeded":       succeeded,
					"failed":          failed,
				})
			})
		},
	}
	return cmd
}

func cardRestoreCmd() *cobra.Command {
	var columnID string
	cmd := &cobra.Command{
		Use:   "restore <card-id>",
		Short: "Restore an archived card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				restore := &command.RestoreCard{
					CardID:   args[0],
					ColumnID: strPtr(cmd, "column", &columnID),
				}
				if err := a.Execute(restore); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				card, err := a.State().Card(args[0])
				if err != nil {
					return err
				}
				return printMutation("card", card, func() {
					renderCards(a, []domain.Card{*card})
				})
			})
		},
	}
	cmd.Flags().StringVar(&columnID, "column", "", "target column (default the original)")
	return cmd
}

func cardDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Permanently delete an archived card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.DeleteCard{CardID: args[0]}); err != nil {
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

func cardBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch <card-id>",
		Short: "Print the git branch name and checkout command for a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				st := a.State()
				card, err := st.Card(args[0])
				if err != nil {
					return err
				}
				board, err := st.BoardForCard(card)
				if err != nil {
					return err
				}
				sprint := st.SprintForCard(card)
				payload := map[string]string{
					"branch":   domain.BranchName(card, sprint, board, domain.DefaultCardPrefix),
					"checkout": domain.CheckoutCommand(card, sprint, board, domain.DefaultCardPrefix),
				}
				return printJSONOrTable(payload, func() {
					os.Stdout.WriteString(payload["checkout"] + "\n")
				})
			})
		},
	}
	return cmd
}

func renderCards(a *app.App, cards []domain.Card) {
	st := a.State()
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Number", "Title", "Status", "Priority", "Points", "Column"})
	for _, c := range cards {
		identifier := itoa(c.CardNumber)
		if board, err := st.BoardForCard(&c); err == nil {
			prefix := domain.ResolveCardPrefix(&c, st.SprintForCard(&c), board, domain.DefaultCardPrefix)
			identifier = domain.CardIdentifier(prefix, c.CardNumber)
		}
		points := ""
		if c.Points != nil {
			points = itoa(*c.Points)
		}
		columnName := c.ColumnID
		if col, err := st.Column(c.ColumnID); err == nil {
			columnName = col.Name
		}
		tw.AppendRow(table.Row{c.ID, identifier, c.Title, c.Status, c.Priority, points, columnName})
	}
	tw.Render()
}
