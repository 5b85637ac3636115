package services

import (
	"context"
	"testing"
	"time"

	"pizzaria/internal/core"
	"pizzaria/internal/storage"
)

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestIsOverdue(t *testing.T) {
	today := core.NewDate(2025, 3, 10)

	tests := []struct {
		name string
		exp  core.Expense
		want bool
	}{
		{
			name: "pending past due",
			exp:  core.Expense{Status: core.StatusPending, DueDate: core.NewDate(2025, 3, 9)},
			want: true,
		},
		{
			name: "pending due today",
			exp:  core.Expense{Status: core.StatusPending, DueDate: today},
			want: false,
		},
		{
			name: "pending due tomorrow",
			exp:  core.Expense{Status: core.StatusPending, DueDate: core.NewDate(2025, 3, 11)},
			want: false,
		},
		{
			name: "pending without due date",
			exp:  core.Expense{Status: core.StatusPending},
			want: false,
		},
		{
			name: "paid past due",
			exp:  core.Expense{Status: core.StatusPaid, DueDate: core.NewDate(2025, 3, 1)},
			want: false,
		},
		{
			name: "already overdue",
			exp:  core.Expense{Status: core.StatusOverdue, DueDate: core.NewDate(2025, 3, 1)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.exp, today); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSweepMarksOnlyEligible(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()

	seed := []core.Expense{
		{Description: "Luz de fevereiro", Category: "Contas Fixas", Amount: 310, DueDate: mustDate(t, "2025-03-01")},
		{Description: "Aluguel", Category: "Aluguel", Amount: 3200, DueDate: mustDate(t, "2025-03-20")},
		{Description: "Farinha", Category: "Produtos", Amount: 89},
	}
	for _, e := range seed {
		if _, err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	marker := NewOverdueMarker(store)
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

	n, err := marker.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("marked %d, want 1", n)
	}

	// Second sweep finds nothing new.
	n, err = marker.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if n != 0 {
		t.Fatalf("second sweep marked %d, want 0", n)
	}

	all, err := store.ListExpenses(ctx, core.ExpenseFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	statuses := map[string]core.Status{}
	for _, e := range all {
		statuses[e.Description] = e.Status
	}
	if statuses["Luz de fevereiro"] != core.StatusOverdue {
		t.Errorf("past-due expense not marked overdue: %v", statuses["Luz de fevereiro"])
	}
	if statuses["Aluguel"] != core.StatusPending || statuses["Farinha"] != core.StatusPending {
		t.Errorf("future or undated expenses should stay pending: %v", statuses)
	}
}
