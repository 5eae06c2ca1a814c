package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fulsomenko/kanban-sub000/internal/command"
	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/history"
	"github.com/fulsomenko/kanban-sub000/internal/store"
)

// App wires the state aggregate, command executor, undo history, and a
// persistence store into one host-facing surface. Each App holds a stable
// instance id for the lifetime of the process; saves stamp it into the
// persisted metadata so concurrent writers can be told apart.
type App struct {
	instanceID string
	state      *domain.State
	history    *history.Manager
	executor   *command.Executor
	store      store.Store
	logger     *slog.Logger
}

// New creates an app over the given store.
func New(st store.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	state := &domain.State{}
	hist := history.NewManager()
	return &App{
		instanceID: uuid.NewString(),
		state:      state,
		history:    hist,
		executor:   command.NewExecutor(state, hist, logger),
		store:      st,
		logger:     logger,
	}
}

// InstanceID returns this process's writer identity.
func (a *App) InstanceID() string { return a.instanceID }

// State exposes the aggregate for queries between batches.
func (a *App) State() *domain.State { return a.state }

// History exposes the undo manager.
func (a *App) History() *history.Manager { return a.history }

// Executor exposes the command executor for observers.
func (a *App) Executor() *command.Executor { return a.executor }

// Load replaces the in-memory aggregate with the stored snapshot and
// clears history. A store with no data loads as an empty workspace.
func (a *App) Load(ctx context.Context) error {
	if !a.store.Exists() {
		*a.state = domain.State{}
		a.history.Clear()
		a.logger.Info("starting empty workspace", "path", a.store.Path())
		return nil
	}
	snap, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	var state domain.State
	if err := json.Unmarshal(snap.Data, &state); err != nil {
		return domain.Serializationf(err, "decoding stored state")
	}
	*a.state = state
	a.history.Clear()
	a.logger.Info("workspace loaded", "path", a.store.Path(),
		"boards", len(state.Boards), "cards", len(state.Cards))
	return nil
}

// Save persists the current aggregate under fresh metadata. The store
// rejects the write when the backing location changed under another
// writer since this app last saw it.
func (a *App) Save(ctx context.Context) error {
	data, err := json.Marshal(a.state)
	if err != nil {
		return domain.Serializationf(err, "encoding state")
	}
	meta := store.Metadata{InstanceID: a.instanceID, SavedAt: time.Now().UTC()}
	if _, err := a.store.Save(ctx, store.Snapshot{Data: data, Metadata: meta}); err != nil {
		return err
	}
	return nil
}

// ForceSave persists unconditionally, discarding conflict protection for
// this one write.
func (a *App) ForceSave(ctx context.Context) error {
	a.store.ClearLastKnownMetadata()
	return a.Save(ctx)
}

// Execute applies a command batch atomically.
func (a *App) Execute(cmds ...command.Command) error {
	return a.executor.Execute(cmds...)
}

// Undo reverts the most recent successful batch.
func (a *App) Undo() error { return a.executor.Undo() }

// Redo reapplies the most recently undone batch.
func (a *App) Redo() error { return a.executor.Redo() }
