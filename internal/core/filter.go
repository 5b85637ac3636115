package core

import (
	"strings"
)

// ExpenseFilter narrows a listing. Zero-value fields are ignored; set
// fields are combined conjunctively.
type ExpenseFilter struct {
	// Category matches the expense category label exactly.
	Category string
	// Status matches the expense status exactly.
	Status string
	// Search matches as a substring of the description.
	Search string
	// Date matches when it equals the due date, the payment date, or
	// the calendar date of CreatedAt.
	Date Date
}

// IsEmpty reports whether no clause is set.
func (f ExpenseFilter) IsEmpty() bool {
	return f.Category == "" && f.Status == "" && f.Search == "" && f.Date.IsEmpty()
}

// Matches applies the filter to a single expense. The repository pushes
// the same semantics into SQL; this form backs in-memory fakes and tests.
func (f ExpenseFilter) Matches(e Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Status != "" && string(e.Status) != f.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(e.Description, f.Search) {
		return false
	}
	if !f.Date.IsEmpty() {
		if !f.Date.Equal(e.DueDate) && !f.Date.Equal(e.PaymentDate) && !f.Date.Equal(DateOf(e.CreatedAt)) {
			return false
		}
	}
	return true
}

// ExpensePatch carries a partial update. Nil fields keep their current
// value; set fields replace it. An explicit empty date clears it.
type ExpensePatch struct {
	Description *string
	Category    *string
	Amount      *float64
	DueDate     *Date
	PaymentDate *Date
	Notes       *string
	Status      *Status
}

// Apply merges the supplied fields into e. It does not touch timestamps
// or apply the paid auto-date policy; the store owns those.
func (p ExpensePatch) Apply(e *Expense) {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.DueDate != nil {
		e.DueDate = *p.DueDate
	}
	if p.PaymentDate != nil {
		e.PaymentDate = *p.PaymentDate
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
}

// Validate rejects a patch whose supplied fields would break expense
// invariants.
func (p ExpensePatch) Validate() error {
	if p.Description != nil {
		if strings.TrimSpace(*p.Description) == "" {
			return ErrEmptyDescription
		}
		if len(*p.Description) > MaxDescriptionLen {
			return ErrDescriptionTooLong
		}
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return ErrEmptyCategory
	}
	if p.Amount != nil && *p.Amount < 0 {
		return ErrInvalidAmount
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Statistics is the aggregate over all stored expenses.
type Statistics struct {
	TotalCount   int64
	TotalAmount  float64
	PendingCount int64
	PaidCount    int64
}
