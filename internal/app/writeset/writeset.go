// Package writeset stages write operations for all-or-nothing execution
// with compensating rollback.
//
// A WriteSet collects domain.Action values and executes them in insertion
// order on Commit. When a step fails, the previously completed steps are
// rolled back in reverse order and the step error is returned. Rollback
// failures are logged and collected but never mask the original error.
//
// A WriteSet is scoped to a single logical operation:
//
//	ws := writeset.New()
//	ws.Add(&insertSurvey{...})
//	ws.Add(&insertQuestions{...})
//	err := ws.Commit(ctx)
package writeset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/platform/logging"
)

// ErrAlreadyCommitted is returned when Add or Commit is called on a
// WriteSet that has already been committed.
var ErrAlreadyCommitted = errors.New("writeset: already committed")

// ErrNilAction is returned when a nil Action is passed to Add.
var ErrNilAction = errors.New("writeset: nil action")

// WriteSet is an ordered queue of staged actions with compensating
// rollback. The zero value is not usable; create one with New.
type WriteSet struct {
	mu        sync.Mutex
	actions   []domain.Action
	committed bool
}

// New returns an empty WriteSet.
func New() *WriteSet {
	return &WriteSet{}
}

// Add stages an action for execution by Commit. Returns ErrNilAction if
// action is nil, or ErrAlreadyCommitted after Commit has run.
func (ws *WriteSet) Add(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.committed {
		return ErrAlreadyCommitted
	}
	ws.actions = append(ws.actions, action)
	return nil
}

// Commit executes the staged actions in insertion order. On the first
// failure, previously completed actions are rolled back in reverse order
// and the failing step's error is returned wrapped with its description.
//
// Commit marks the WriteSet committed whether it succeeds or fails;
// calling it again returns ErrAlreadyCommitted.
func (ws *WriteSet) Commit(ctx context.Context) error {
	ws.mu.Lock()
	if ws.committed {
		ws.mu.Unlock()
		return ErrAlreadyCommitted
	}
	ws.committed = true
	actions := ws.actions
	ws.mu.Unlock()

	// Once execution starts, caller cancellation must not strand the
	// sequence between a write and its compensation.
	ctx = context.WithoutCancel(ctx)

	logger := logging.FromContext(ctx)

	for i, action := range actions {
		logger.InfoContext(ctx, "executing staged write",
			slog.String("operation", "WriteSet.Commit"),
			slog.Int("step", i+1),
			slog.Int("total", len(actions)),
			slog.String("action", action.Description()),
		)

		if err := action.Execute(ctx); err != nil {
			logger.ErrorContext(ctx, "staged write failed, compensating",
				slog.String("operation", "WriteSet.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("action", action.Description()),
				slog.Any("error", err),
			)
			rollback(ctx, actions[:i], logger)
			return fmt.Errorf("executing %s: %w", action.Description(), err)
		}
	}

	return nil
}

// rollback undoes completed actions in reverse order. Rollback errors are
// logged at ERROR level and do not stop the rollback of remaining actions.
func rollback(ctx context.Context, completed []domain.Action, logger *slog.Logger) {
	for i := len(completed) - 1; i >= 0; i-- {
		action := completed[i]

		logger.InfoContext(ctx, "rolling back staged write",
			slog.String("operation", "WriteSet.Commit"),
			slog.Int("step", i+1),
			slog.String("action", action.Description()),
		)

		if err := action.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("operation", "WriteSet.Commit"),
				slog.Int("step", i+1),
				slog.String("action", action.Description()),
				slog.Any("error", err),
			)
		}
	}
}

// Func adapts execute and rollback closures into a domain.Action. A nil
// rollback closure makes Rollback a no-op.
type Func struct {
	Desc string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

func (f Func) Execute(ctx context.Context) error { return f.Do(ctx) }

func (f Func) Rollback(ctx context.Context) error {
	if f.Undo == nil {
		return nil
	}
	return f.Undo(ctx)
}

func (f Func) Description() string { return f.Desc }
