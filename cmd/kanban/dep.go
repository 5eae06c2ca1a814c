package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fulsomenko/kanban-sub000/internal/app"
	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func depCmd() *cobra.Command {
	dep := &cobra.Command{Use: "dep", Short: "Manage card dependencies"}
	dep.AddCommand(depAddCmd())
	dep.AddCommand(depRemoveCmd())
	dep.AddCommand(depRemoveParentCmd())
	dep.AddCommand(depShowCmd())
	return dep
}

func depAddCmd() *cobra.Command {
	var kind string
	var weight float64
	cmd := &cobra.Command{
		Use:   "add <source-card> <target-card>",
		Short: "Link two cards (blocks, relates-to, or parent where source is the parent)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				var weightPtr *float64
				if cmd.Flags().Changed("weight") {
					weightPtr = &weight
				}
				var link command.Command
				switch kind {
				case "blocks":
					link = &command.AddBlocks{SourceID: args[0], TargetID: args[1], Weight: weightPtr}
				case "relates-to":
					link = &command.AddRelatesTo{SourceID: args[0], TargetID: args[1], Weight: weightPtr}
				case "parent":
					link = &command.SetParent{ParentID: args[0], ChildID: args[1]}
				default:
					return domain.Validationf("unknown dependency type %q", kind)
				}
				if err := a.Execute(link); err != nil {
					return err
				}
				if err := save(ctx, a); err != nil {
					return err
				}
				return printJSON(map[string]bool{"success": true})
			})
		},
	}
	cmd.Flags().StringVar(&kind, "type", "blocks", "dependency type: blocks, relates-to, parent")
	cmd.Flags().Float64Var(&weight, "weight", 0, "edge weight")
	return cmd
}

func depRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <source-card> <target-card>",
		Short: "Remove every link between two cards",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.RemoveDependency{SourceID: args[0], TargetID: args[1]}); err != nil {
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

func depRemoveParentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-parent <card-id>",
		Short: "Detach a card from its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Execute(&command.RemoveParent{ChildID: args[0]}); err != nil {
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

func depShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <card-id>",
		Short: "Show a card's dependency neighbourhood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				st := a.State()
				if _, err := st.Card(args[0]); err != nil {
					return err
				}
				g := &st.Graph
				payload := struct {
					CardID    string   `json:"card_id"`
					Blockers  []string `json:"blockers"`
					BlockedBy []string `json:"blocked_by"`
					Related   []string `json:"related"`
					Parent    *string  `json:"parent,omitempty"`
					Children  []string `json:"children"`
					CanStart  bool     `json:"can_start"`
				}{
					CardID:    args[0],
					Blockers:  g.Blockers(args[0]),
					BlockedBy: g.BlockedBy(args[0]),
					Related:   g.Related(args[0]),
					Parent:    g.Parent(args[0]),
					Children:  g.Children(args[0]),
					CanStart: g.CanStart(args[0], func(id string) bool {
						card, err := st.Card(id)
						return err == nil && card.Status == domain.StatusDone
					}),
				}
				return printJSON(payload)
			})
		},
	}
	return cmd
}
