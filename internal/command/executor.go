package command

import (
	"log/slog"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/history"
)

// Observer receives the post-batch state. Observers see batches in issue
// order and never a mid-batch state.
type Observer func(domain.State)

// Executor applies command batches atomically against the owned state.
type Executor struct {
	state     *domain.State
	history   *history.Manager
	observers []Observer
	logger    *slog.Logger
}

// NewExecutor creates an executor over the given aggregate. The history
// manager may be nil when undo is not wanted.
func NewExecutor(state *domain.State, hist *history.Manager, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{state: state, history: hist, logger: logger}
}

// State exposes the aggregate for read-only consumers between batches.
func (e *Executor) State() *domain.State { return e.state }

// Observe registers an observer for post-batch states.
func (e *Executor) Observe(fn Observer) {
	e.observers = append(e.observers, fn)
}

// Execute runs the batch. The first error rolls the whole batch back and
// is surfaced unchanged; on success the pre-batch snapshot enters undo
// history and observers see the new state.
func (e *Executor) Execute(cmds ...Command) error {
	if len(cmds) == 0 {
		return nil
	}
	snap := e.state.Clone()
	ctx := &Context{State: e.state}
	for _, cmd := range cmds {
		if err := cmd.Execute(ctx); err != nil {
			*e.state = snap
			e.logger.Debug("batch rolled back", "command", cmd.Description(), "error", err)
			return err
		}
		e.logger.Debug("command applied", "command", cmd.Description())
	}
	if e.history != nil {
		e.history.CaptureBeforeCommand(snap)
	}
	e.notify()
	return nil
}

// Undo restores the previous snapshot, pushing the current state to redo.
func (e *Executor) Undo() error {
	if e.history == nil {
		return domain.Validationf("history disabled")
	}
	snap, ok := e.history.PopUndo()
	if !ok {
		return domain.Validationf("nothing to undo")
	}
	e.history.PushRedo(e.state.Clone())
	e.history.Suppress(func() { *e.state = snap })
	e.notify()
	return nil
}

// Redo restores the next snapshot, pushing the current state to undo.
func (e *Executor) Redo() error {
	if e.history == nil {
		return domain.Validationf("history disabled")
	}
	snap, ok := e.history.PopRedo()
	if !ok {
		return domain.Validationf("nothing to redo")
	}
	e.history.PushUndo(e.state.Clone())
	e.history.Suppress(func() { *e.state = snap })
	e.notify()
	return nil
}

func (e *Executor) notify() {
	if len(e.observers) == 0 {
		return
	}
	snap := e.state.Clone()
	for _, fn := range e.observers {
		fn(snap)
	}
}
