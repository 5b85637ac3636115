package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"pizzaria/internal/amqp"
	"pizzaria/internal/core"
	"pizzaria/internal/storage"
)

type fakeMirror struct {
	appended []core.Expense
	err      error
}

func (m *fakeMirror) AppendExpense(_ context.Context, e core.Expense) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, e)
	return nil
}

func newTestWorker(mirror ExpenseMirror) (*Worker, *storage.MemStore) {
	store := storage.NewMemStore()
	return New(store, nil, mirror, time.Hour), store
}

func TestHandleEventMirrorsCreatedExpense(t *testing.T) {
	mirror := &fakeMirror{}
	w, store := newTestWorker(mirror)
	ctx := context.Background()

	created, err := store.CreateExpense(ctx, core.Expense{
		Description: "Mussarela 10kg",
		Category:    "Produtos",
		Amount:      280.50,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	msg := amqp.NewExpenseEventMessage(created.ID, amqp.ActionCreated)
	if err := w.handleEvent(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(mirror.appended) != 1 {
		t.Fatalf("mirrored %d expenses, want 1", len(mirror.appended))
	}
	if mirror.appended[0].Description != "Mussarela 10kg" {
		t.Errorf("wrong expense mirrored: %+v", mirror.appended[0])
	}
}

func TestHandleEventIgnoresNonCreateActions(t *testing.T) {
	mirror := &fakeMirror{}
	w, store := newTestWorker(mirror)
	ctx := context.Background()

	created, err := store.CreateExpense(ctx, core.Expense{
		Description: "Boleto", Category: "Boletos", Amount: 100,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, action := range []string{amqp.ActionUpdated, amqp.ActionDeleted, amqp.ActionStatusChanged} {
		if err := w.handleEvent(ctx, amqp.NewExpenseEventMessage(created.ID, action)); err != nil {
			t.Fatalf("handle %s: %v", action, err)
		}
	}
	if len(mirror.appended) != 0 {
		t.Fatalf("mirrored %d expenses, want 0", len(mirror.appended))
	}
}

func TestHandleEventDropsMissingExpense(t *testing.T) {
	mirror := &fakeMirror{}
	w, _ := newTestWorker(mirror)

	// Expense deleted before the event was processed; the message must
	// be acked, not requeued forever.
	msg := amqp.NewExpenseEventMessage(42, amqp.ActionCreated)
	if err := w.handleEvent(context.Background(), msg); err != nil {
		t.Fatalf("expected nil for missing expense, got %v", err)
	}
}

func TestHandleEventPropagatesMirrorError(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("quota exceeded")}
	w, store := newTestWorker(mirror)
	ctx := context.Background()

	created, err := store.CreateExpense(ctx, core.Expense{
		Description: "Farinha", Category: "Produtos", Amount: 89,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := w.handleEvent(ctx, amqp.NewExpenseEventMessage(created.ID, amqp.ActionCreated)); err == nil {
		t.Fatalf("expected mirror error to propagate for requeue")
	}
}

func TestHandleEventWithoutMirrorIsNoop(t *testing.T) {
	w, store := newTestWorker(nil)
	ctx := context.Background()

	created, err := store.CreateExpense(ctx, core.Expense{
		Description: "Gás", Category: "Contas Fixas", Amount: 120,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.handleEvent(ctx, amqp.NewExpenseEventMessage(created.ID, amqp.ActionCreated)); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestRunSweepsOnStartupAndStops(t *testing.T) {
	w, store := newTestWorker(nil)
	ctx := context.Background()

	due, err := core.ParseDate("2025-03-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if _, err := store.CreateExpense(ctx, core.Expense{
		Description: "Luz de fevereiro", Category: "Contas Fixas", Amount: 310, DueDate: due,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	w.now = func() time.Time {
		return time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- w.Run(runCtx) }()

	// The startup sweep runs before the ticker loop; poll briefly.
	deadline := time.After(2 * time.Second)
	for {
		e, err := store.ListExpenses(ctx, core.ExpenseFilter{Status: "overdue"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(e) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("startup sweep did not mark the expense")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop after cancel")
	}
}
