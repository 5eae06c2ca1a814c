package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fulsomenko/kanban-sub000/internal/app"
	"github.com/fulsomenko/kanban-sub000/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "kanban",
	Short: "Kanban workspace CLI",
	Long: `kanban manages boards, columns, cards, sprints, and card dependencies
in a single workspace file. Mutations are atomic: a failing command
leaves the workspace exactly as it was. Saves detect concurrent edits
by other processes; pass --force to overwrite anyway.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("KANBAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "workspace path (default kanban.json)")
	rootCmd.PersistentFlags().String("store", "", "store backend: json or sqlite")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("force", false, "overwrite on save conflicts")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("file", rootCmd.PersistentFlags().Lookup("file"))
	_ = viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("force", rootCmd.PersistentFlags().Lookup("force"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(columnCmd())
	rootCmd.AddCommand(cardCmd())
	rootCmd.AddCommand(sprintCmd())
	rootCmd.AddCommand(depCmd())
}

// withApp loads the workspace, runs fn, and leaves saving to fn.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if backend := viper.GetString("store"); backend != "" {
		cfg.Store.Backend = backend
	}
	if path := viper.GetString("file"); path != "" {
		cfg.Store.Path = path
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}

	logger := slog.New(slog.NewTextHandler(logWriter(), &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	st, closeStore, err := app.OpenStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	application := app.New(st, logger)
	if err := application.Load(ctx); err != nil {
		return err
	}
	return fn(ctx, application)
}

// logWriter keeps stdout clean for command output.
func logWriter() io.Writer {
	if viper.GetString("log-level") == "" && os.Getenv("KANBAN_LOG_LEVEL") == "" {
		return io.Discard
	}
	return os.Stderr
}

// save persists the workspace, honoring --force.
func save(ctx context.Context, a *app.App) error {
	if viper.GetBool("force") {
		return a.ForceSave(ctx)
	}
	return a.Save(ctx)
}

func printJSONOrTable(v any, renderTable func()) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	renderTable()
	return nil
}

// printMutation wraps a mutation's result object in the success envelope,
// keyed by entity kind.
func printMutation(key string, v any, renderTable func()) error {
	if viper.GetBool("json") {
		return printJSON(map[string]any{"success": true, key: v})
	}
	renderTable()
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func itoa(n int) string { return strconv.Itoa(n) }

func strPtr(cmd *cobra.Command, flag string, value *string) *string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return nil
}

func intPtr(cmd *cobra.Command, flag string, value *int) *int {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return nil
}
