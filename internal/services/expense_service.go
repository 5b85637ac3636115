package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"pizzaria/internal/amqp"
	"pizzaria/internal/core"
	"pizzaria/internal/storage"
)

// EventPublisher notifies interested consumers about expense changes.
// *amqp.Client is the production implementation.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, id int64, action string) error
}

// ExpenseService wraps the store with change-event publishing. The
// store is the source of truth: events are best effort and a publish
// failure never fails the request.
type ExpenseService struct {
	store  storage.Store
	events EventPublisher
}

func NewExpenseService(store storage.Store, events EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}
	s.publish(ctx, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, id int64, p core.ExpensePatch) (core.Expense, error) {
	updated, err := s.store.UpdateExpense(ctx, id, p)
	if err != nil {
		return core.Expense{}, err
	}
	s.publish(ctx, id, amqp.ActionUpdated)
	return updated, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

func (s *ExpenseService) ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, f)
}

func (s *ExpenseService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	return s.store.CreateCategory(ctx, c)
}

func (s *ExpenseService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *ExpenseService) SeedDefaultCategories(ctx context.Context, cats []core.Category) (int, error) {
	return s.store.SeedDefaultCategories(ctx, cats)
}

func (s *ExpenseService) Statistics(ctx context.Context) (core.Statistics, error) {
	return s.store.Statistics(ctx)
}

func (s *ExpenseService) SetStatus(ctx context.Context, id int64, status core.Status) (core.Expense, error) {
	updated, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return core.Expense{}, err
	}
	s.publish(ctx, id, amqp.ActionStatusChanged)
	return updated, nil
}

func (s *ExpenseService) publish(ctx context.Context, id int64, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"id", id, "action", action, "error", err)
	}
}

// Close closes the store and the publisher when they are closeable.
func (s *ExpenseService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if closer, ok := s.events.(io.Closer); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
