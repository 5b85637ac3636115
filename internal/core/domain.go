package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

const (
	MaxDescriptionLen  = 200
	MaxCategoryNameLen = 50

	// DefaultCategoryColor is applied when a category is created without one.
	DefaultCategoryColor = "#007bff"
)

type (
	// Status is the lifecycle marker of an expense.
	Status string

	// Date is a calendar date without a time component. The zero value
	// means "absent": due and payment dates are both optional.
	Date struct {
		time.Time
	}

	// Expense is a single payable or paid item. Category is a plain
	// label, not a reference: deleting or renaming a Category never
	// touches existing expenses.
	Expense struct {
		ID          int64
		Description string
		Category    string
		Amount      float64
		DueDate     Date
		PaymentDate Date
		Notes       string
		Status      Status
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Category is a named grouping label with a display color.
	Category struct {
		ID          int64
		Name        string
		Description string
		Color       string
		CreatedAt   time.Time
	}
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyName          = errors.New("empty name")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrNameTooLong        = errors.New("name too long (max 50 characters)")
)

// ParseStatus validates a raw status string against the allowed set.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case StatusPending:
		return StatusPending, nil
	case StatusPaid:
		return StatusPaid, nil
	case StatusOverdue:
		return StatusOverdue, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Valid reports whether the status belongs to the allowed set.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// NewDate builds a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// IsEmpty reports whether the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String renders the date as YYYY-MM-DD, or "" when absent.
func (d Date) String() string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Equal compares two dates by calendar day.
func (d Date) Equal(other Date) bool {
	if d.IsEmpty() || other.IsEmpty() {
		return d.IsEmpty() && other.IsEmpty()
	}
	return d.String() == other.String()
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Amount < 0 {
		return ErrInvalidAmount
	}
	if e.Status != "" && !e.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxCategoryNameLen {
		return ErrNameTooLong
	}
	return nil
}
