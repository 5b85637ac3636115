package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pizzaria/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseFilter builds an ExpenseFilter from query parameters. Unknown
// status values and malformed dates are ignored rather than rejected:
// a bad bookmark should still render the page.
func parseFilter(q url.Values) core.ExpenseFilter {
	f := core.ExpenseFilter{
		Category: sanitizeInput(q.Get("category")),
		Search:   sanitizeInput(q.Get("search")),
	}
	if st, err := core.ParseStatus(q.Get("status")); err == nil {
		f.Status = string(st)
	}
	if d, err := core.ParseDate(strings.TrimSpace(q.Get("date"))); err == nil {
		f.Date = d
	}
	return f
}

// parseExpenseForm reads a full expense from a submitted form.
func parseExpenseForm(r *http.Request) (core.Expense, error) {
	if err := r.ParseForm(); err != nil {
		return core.Expense{}, errors.New("formato de requisição inválido")
	}

	e := core.Expense{
		Description: sanitizeInput(r.Form.Get("description")),
		Category:    sanitizeInput(r.Form.Get("category")),
		Notes:       sanitizeInput(r.Form.Get("notes")),
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	if amountStr != "" {
		amount, err := parseAmount(amountStr)
		if err != nil {
			return core.Expense{}, errors.New("valor inválido")
		}
		e.Amount = amount
	}

	if v := strings.TrimSpace(r.Form.Get("due_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Expense{}, errors.New("data de vencimento inválida")
		}
		e.DueDate = d
	}
	if v := strings.TrimSpace(r.Form.Get("payment_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Expense{}, errors.New("data de pagamento inválida")
		}
		e.PaymentDate = d
	}
	if v := strings.TrimSpace(r.Form.Get("status")); v != "" {
		st, err := core.ParseStatus(v)
		if err != nil {
			return core.Expense{}, errors.New("status inválido")
		}
		e.Status = st
	}

	return e, nil
}

// parseAmount accepts both "12.50" and the Brazilian "12,50".
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || amount < 0 {
		return 0, core.ErrInvalidAmount
	}
	return amount, nil
}

// patchFromForm turns a full edit-form submission into a patch. Every
// field present in the form is applied; empty dates clear stored ones.
func patchFromForm(e core.Expense) core.ExpensePatch {
	return core.ExpensePatch{
		Description: &e.Description,
		Category:    &e.Category,
		Amount:      &e.Amount,
		DueDate:     &e.DueDate,
		PaymentDate: &e.PaymentDate,
		Notes:       &e.Notes,
		Status:      &e.Status,
	}
}

// statusFromError maps domain errors onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrNameTooLong):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func statusLabel(s core.Status) string {
	switch s {
	case core.StatusPending:
		return "Pendente"
	case core.StatusPaid:
		return "Paga"
	case core.StatusOverdue:
		return "Atrasada"
	default:
		return string(s)
	}
}
