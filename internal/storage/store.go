package storage

import (
	"context"

	"pizzaria/internal/core"
)

// Store is the persistence surface the HTTP handlers and services work
// against. *SQLiteRepository is the only production implementation;
// tests substitute in-memory fakes.
type Store interface {
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	// SeedDefaultCategories inserts each named category only if absent.
	// Existing rows are never touched. Returns the number created.
	SeedDefaultCategories(ctx context.Context, cats []core.Category) (int, error)

	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, id int64, p core.ExpensePatch) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status core.Status) (core.Expense, error)

	Statistics(ctx context.Context) (core.Statistics, error)
	// MarkOverdue flips pending expenses whose due date lies before
	// today to overdue. Returns the number of rows changed.
	MarkOverdue(ctx context.Context, today core.Date) (int64, error)
}
