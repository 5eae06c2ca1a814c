// Package command implements the batch-atomic command pipeline. Commands
// mutate the state aggregate through a Context; the Executor guarantees
// a batch either applies in full or leaves no trace.
package command

import "github.com/fulsomenko/kanban-sub000/internal/domain"

// Command is one mutation of the workspace state.
type Command interface {
	Execute(ctx *Context) error
	Description() string
}

// Context carries the mutable aggregate a command operates on. The
// executor holds exclusive access for the duration of a batch.
type Context struct {
	State *domain.State
}
