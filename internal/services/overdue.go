package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pizzaria/internal/core"
	"pizzaria/internal/storage"
)

// OverdueMarker flips pending expenses past their due date to overdue.
// The stored status then matches what the UI would otherwise have to
// derive on every render.
type OverdueMarker struct {
	store storage.Store
}

func NewOverdueMarker(store storage.Store) *OverdueMarker {
	return &OverdueMarker{store: store}
}

// Sweep marks everything due before now's calendar date. Returns the
// number of expenses changed.
func (m *OverdueMarker) Sweep(ctx context.Context, now time.Time) (int64, error) {
	today := core.DateOf(now)
	n, err := m.store.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("overdue sweep: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Overdue sweep complete", "marked", n, "as_of", today.String())
	}
	return n, nil
}

// IsOverdue reports whether a pending expense has passed its due date.
// Paid and already-overdue expenses are never reported.
func IsOverdue(e core.Expense, today core.Date) bool {
	if e.Status != core.StatusPending {
		return false
	}
	if e.DueDate.IsEmpty() {
		return false
	}
	return e.DueDate.Before(today)
}
