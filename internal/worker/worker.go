// Package worker runs the background side of the tracker: the
// periodic overdue sweep and the AMQP event consumer that mirrors new
// expenses into the spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"pizzaria/internal/amqp"
	"pizzaria/internal/core"
	"pizzaria/internal/services"
	"pizzaria/internal/storage"
)

// EventConsumer blocks delivering expense events until the context is
// cancelled. *amqp.Client is the production implementation.
type EventConsumer interface {
	ConsumeExpenseEvents(ctx context.Context, handler func(*amqp.ExpenseEventMessage) error) error
}

// ExpenseMirror receives a copy of each newly created expense.
type ExpenseMirror interface {
	AppendExpense(ctx context.Context, e core.Expense) error
}

type Worker struct {
	store         storage.Store
	marker        *services.OverdueMarker
	consumer      EventConsumer
	mirror        ExpenseMirror
	sweepInterval time.Duration

	now func() time.Time
}

// New builds a Worker. Consumer and mirror may be nil; the sweep runs
// regardless.
func New(store storage.Store, consumer EventConsumer, mirror ExpenseMirror, sweepInterval time.Duration) *Worker {
	return &Worker{
		store:         store,
		marker:        services.NewOverdueMarker(store),
		consumer:      consumer,
		mirror:        mirror,
		sweepInterval: sweepInterval,
		now:           time.Now,
	}
}

// Run blocks until the context is cancelled or a loop fails.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.runSweepLoop(ctx)
	})

	if w.consumer != nil {
		g.Go(func() error {
			err := w.consumer.ConsumeExpenseEvents(ctx, func(msg *amqp.ExpenseEventMessage) error {
				return w.handleEvent(ctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runSweepLoop sweeps immediately on startup, then on every tick.
// Missing a sweep because the worker was down would leave yesterday's
// bills looking pending all day.
func (w *Worker) runSweepLoop(ctx context.Context) error {
	if _, err := w.marker.Sweep(ctx, w.now()); err != nil {
		slog.ErrorContext(ctx, "Initial overdue sweep failed", "error", err)
	}

	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping overdue sweep loop", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.marker.Sweep(ctx, w.now()); err != nil {
				slog.ErrorContext(ctx, "Overdue sweep failed", "error", err)
			}
		}
	}
}

// handleEvent mirrors created expenses to the spreadsheet. Other
// actions are acknowledged without side effects: the mirror is append
// only.
func (w *Worker) handleEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	if msg.Action != amqp.ActionCreated || w.mirror == nil {
		slog.DebugContext(ctx, "Skipping expense event", "id", msg.ID, "action", msg.Action)
		return nil
	}

	expense, err := w.store.GetExpense(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Deleted before we got to it; nothing to mirror.
			slog.WarnContext(ctx, "Expense gone before mirroring", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("load expense %d: %w", msg.ID, err)
	}

	if err := w.mirror.AppendExpense(ctx, expense); err != nil {
		return fmt.Errorf("mirror expense %d: %w", msg.ID, err)
	}
	return nil
}
