package api

import (
	"time"

	"pizzaria/internal/core"
)

type expenseResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date,omitempty"`
	PaymentDate string  `json:"payment_date,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
		DueDate:     e.DueDate.String(),
		PaymentDate: e.PaymentDate.String(),
		Notes:       e.Notes,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	CreatedAt   string `json:"created_at"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type createExpenseRequest struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date"`
	PaymentDate string  `json:"payment_date"`
	Notes       string  `json:"notes"`
	Status      string  `json:"status"`
}

// updateExpenseRequest carries a partial update: absent fields keep
// their stored value. An explicit empty string clears a date.
type updateExpenseRequest struct {
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Amount      *float64 `json:"amount"`
	DueDate     *string  `json:"due_date"`
	PaymentDate *string  `json:"payment_date"`
	Notes       *string  `json:"notes"`
	Status      *string  `json:"status"`
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}
