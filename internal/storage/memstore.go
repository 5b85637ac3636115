package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"pizzaria/internal/core"
)

// MemStore is an in-memory Store with the same semantics as the SQLite
// repository. It backs handler tests and ad-hoc development runs where
// a database file is unwanted.
type MemStore struct {
	mu         sync.Mutex
	categories []core.Category
	expenses   []core.Expense
	nextCatID  int64
	nextExpID  int64

	// Now supplies the clock; tests override it for deterministic
	// timestamps and payment dates.
	Now func() time.Time
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{nextCatID: 1, nextExpID: 1, Now: time.Now}
}

func (s *MemStore) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if c.Color == "" {
		c.Color = core.DefaultCategoryColor
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return core.Category{}, fmt.Errorf("category %q: %w", c.Name, core.ErrConflict)
		}
	}
	c.ID = s.nextCatID
	s.nextCatID++
	c.CreatedAt = s.Now().UTC()
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *MemStore) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *MemStore) SeedDefaultCategories(ctx context.Context, cats []core.Category) (int, error) {
	created := 0
	for _, c := range cats {
		_, err := s.CreateCategory(ctx, c)
		switch {
		case err == nil:
			created++
		case isConflict(err):
			// already present, leave it alone
		default:
			return created, err
		}
	}
	return created, nil
}

func (s *MemStore) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if e.Status == "" {
		e.Status = core.StatusPending
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextExpID
	s.nextExpID++
	now := s.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.expenses = append(s.expenses, e)
	return e, nil
}

func (s *MemStore) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
}

func (s *MemStore) ListExpenses(_ context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemStore) UpdateExpense(_ context.Context, id int64, p core.ExpensePatch) (core.Expense, error) {
	if err := p.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID != id {
			continue
		}
		e := s.expenses[i]
		p.Apply(&e)
		now := s.Now().UTC()
		if p.Status != nil && *p.Status == core.StatusPaid && e.PaymentDate.IsEmpty() {
			e.PaymentDate = core.DateOf(now)
		}
		e.UpdatedAt = now
		s.expenses[i] = e
		return e, nil
	}
	return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
}

func (s *MemStore) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
}

func (s *MemStore) SetStatus(ctx context.Context, id int64, status core.Status) (core.Expense, error) {
	if !status.Valid() {
		return core.Expense{}, core.ErrInvalidStatus
	}
	st := status
	return s.UpdateExpense(ctx, id, core.ExpensePatch{Status: &st})
}

func (s *MemStore) Statistics(_ context.Context) (core.Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st core.Statistics
	for _, e := range s.expenses {
		st.TotalCount++
		st.TotalAmount += e.Amount
		switch e.Status {
		case core.StatusPending:
			st.PendingCount++
		case core.StatusPaid:
			st.PaidCount++
		}
	}
	return st, nil
}

func (s *MemStore) MarkOverdue(_ context.Context, today core.Date) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if today.IsEmpty() {
		today = core.DateOf(s.Now().UTC())
	}
	var n int64
	for i := range s.expenses {
		e := s.expenses[i]
		if e.Status == core.StatusPending && !e.DueDate.IsEmpty() && e.DueDate.Before(today) {
			e.Status = core.StatusOverdue
			e.UpdatedAt = s.Now().UTC()
			s.expenses[i] = e
			n++
		}
	}
	return n, nil
}

func isConflict(err error) bool {
	return errors.Is(err, core.ErrConflict)
}
