package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pizzaria/internal/core"

	_ "modernc.org/sqlite"
)

// Timestamps are stored as RFC 3339 UTC text, dates as YYYY-MM-DD text.
// Both stay compatible with SQLite's date() and datetime() functions.
const timestampFormat = time.RFC3339

// SQLiteRepository implements Store over a single embedded database file.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.Color == "" {
		c.Color = core.DefaultCategoryColor
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	c.CreatedAt = r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, color, created_at) VALUES (?, ?, ?, ?)`,
		c.Name, c.Description, c.Color, c.CreatedAt.Format(timestampFormat))
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, fmt.Errorf("category %q: %w", c.Name, core.ErrConflict)
		}
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", c.ID, "name", c.Name)
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, color, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt, _ = time.Parse(timestampFormat, createdAt)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *SQLiteRepository) SeedDefaultCategories(ctx context.Context, cats []core.Category) (int, error) {
	created := 0
	for _, c := range cats {
		if c.Color == "" {
			c.Color = core.DefaultCategoryColor
		}
		if err := c.Validate(); err != nil {
			return created, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (name, description, color, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(name) DO NOTHING`,
			c.Name, c.Description, c.Color, r.now().UTC().Format(timestampFormat))
		if err != nil {
			return created, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created++
		}
	}
	if created > 0 {
		slog.InfoContext(ctx, "Seeded default categories", "created", created, "total", len(cats))
	}
	return created, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Status == "" {
		e.Status = core.StatusPending
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	now := r.now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (description, category, amount, due_date, payment_date, notes, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Description, e.Category, e.Amount,
		nullDate(e.DueDate), nullDate(e.PaymentDate),
		e.Notes, string(e.Status),
		now.Format(timestampFormat), now.Format(timestampFormat))
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", e.ID,
		"description", e.Description,
		"category", e.Category,
		"amount", e.Amount,
		"status", string(e.Status))
	return e, nil
}

const expenseColumns = `id, description, category, amount, due_date, payment_date, notes, status, created_at, updated_at`

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var conds []string
	var args []any

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.Search != "" {
		conds = append(conds, "instr(description, ?) > 0")
		args = append(args, f.Search)
	}
	if !f.Date.IsEmpty() {
		d := f.Date.String()
		conds = append(conds, "(due_date = ? OR payment_date = ? OR date(created_at) = ?)")
		args = append(args, d, d, d)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY datetime(created_at) DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id int64, p core.ExpensePatch) (core.Expense, error) {
	if err := p.Validate(); err != nil {
		return core.Expense{}, err
	}

	e, err := r.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	p.Apply(&e)
	now := r.now().UTC()
	// Canonical policy: marking as paid without an explicit payment
	// date assigns today.
	if p.Status != nil && *p.Status == core.StatusPaid && e.PaymentDate.IsEmpty() {
		e.PaymentDate = core.DateOf(now)
	}
	e.UpdatedAt = now

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, category = ?, amount = ?, due_date = ?, payment_date = ?, notes = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		e.Description, e.Category, e.Amount,
		nullDate(e.DueDate), nullDate(e.PaymentDate),
		e.Notes, string(e.Status), now.Format(timestampFormat), id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated", "id", id, "status", string(e.Status))
	return e, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id int64, status core.Status) (core.Expense, error) {
	if !status.Valid() {
		return core.Expense{}, core.ErrInvalidStatus
	}
	s := status
	return r.UpdateExpense(ctx, id, core.ExpensePatch{Status: &s})
}

func (r *SQLiteRepository) Statistics(ctx context.Context) (core.Statistics, error) {
	var st core.Statistics
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(amount), 0),
		        COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0)
		 FROM expenses`).
		Scan(&st.TotalCount, &st.TotalAmount, &st.PendingCount, &st.PaidCount)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("compute statistics: %w", err)
	}
	return st, nil
}

func (r *SQLiteRepository) MarkOverdue(ctx context.Context, today core.Date) (int64, error) {
	if today.IsEmpty() {
		today = core.DateOf(r.now().UTC())
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET status = 'overdue', updated_at = ?
		 WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < ?`,
		r.now().UTC().Format(timestampFormat), today.String())
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark overdue rows: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Marked expenses overdue", "count", n, "as_of", today.String())
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (core.Expense, error) {
	var (
		e                    core.Expense
		due, paid            sql.NullString
		status               string
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.Description, &e.Category, &e.Amount,
		&due, &paid, &e.Notes, &status, &createdAt, &updatedAt)
	if err != nil {
		return core.Expense{}, err
	}
	e.Status = core.Status(status)
	if due.Valid && due.String != "" {
		if d, err := core.ParseDate(due.String); err == nil {
			e.DueDate = d
		}
	}
	if paid.Valid && paid.String != "" {
		if d, err := core.ParseDate(paid.String); err == nil {
			e.PaymentDate = d
		}
	}
	e.CreatedAt, _ = time.Parse(timestampFormat, createdAt)
	e.UpdatedAt, _ = time.Parse(timestampFormat, updatedAt)
	return e, nil
}

// nullDate renders an optional date as its SQL value: NULL when absent.
func nullDate(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.String()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
