package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"pizzaria/internal/core"
	applog "pizzaria/internal/log"
)

type expenseRow struct {
	ID            int64
	Description   string
	Category      string
	CategoryColor string
	Amount        float64
	DueDate       core.Date
	PaymentDate   core.Date
	Status        string
	StatusLabel   string
	Notes         string
}

type indexData struct {
	Stats      core.Statistics
	Categories []core.Category
	Filter     core.ExpenseFilter
	Expenses   []expenseRow
	Flash      string
}

type formExpense struct {
	ID          int64
	Description string
	Category    string
	Amount      float64
	DueDate     core.Date
	PaymentDate core.Date
	Notes       string
	Status      string
}

type formData struct {
	Title      string
	Action     string
	Categories []core.Category
	Expense    formExpense
	Error      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := parseFilter(r.URL.Query())

	expenses, err := s.svc.ListExpenses(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "List expenses failed", "error", err)
		http.Error(w, "erro ao carregar despesas", http.StatusInternalServerError)
		return
	}
	categories, err := s.svc.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "List categories failed", "error", err)
		http.Error(w, "erro ao carregar categorias", http.StatusInternalServerError)
		return
	}
	stats, err := s.svc.Statistics(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Statistics failed", "error", err)
		http.Error(w, "erro ao calcular estatísticas", http.StatusInternalServerError)
		return
	}

	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c.Name] = c.Color
	}

	data := indexData{
		Stats:      stats,
		Categories: categories,
		Filter:     filter,
		Flash:      sanitizeInput(r.URL.Query().Get("flash")),
	}
	for _, e := range expenses {
		color, ok := colors[e.Category]
		if !ok {
			color = core.DefaultCategoryColor
		}
		data.Expenses = append(data.Expenses, expenseRow{
			ID:            e.ID,
			Description:   e.Description,
			Category:      e.Category,
			CategoryColor: color,
			Amount:        e.Amount,
			DueDate:       e.DueDate,
			PaymentDate:   e.PaymentDate,
			Status:        string(e.Status),
			StatusLabel:   statusLabel(e.Status),
			Notes:         e.Notes,
		})
	}

	s.render(w, r, "index.html", data)
}

func (s *Server) handleNewExpenseForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, formData{
		Title:   "Nova despesa",
		Action:  "/expense/new",
		Expense: formExpense{Status: string(core.StatusPending)},
	})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	expense, err := parseExpenseForm(r)
	if err != nil {
		s.renderFormError(w, r, formData{
			Title:  "Nova despesa",
			Action: "/expense/new",
		}, expense, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	created, err := s.svc.CreateExpense(ctx, expense)
	if err != nil {
		status := statusFromError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Create expense failed", "error", err)
			http.Error(w, "erro ao salvar despesa", status)
			return
		}
		s.renderFormError(w, r, formData{
			Title:  "Nova despesa",
			Action: "/expense/new",
		}, expense, err.Error(), status)
		return
	}

	slog.InfoContext(ctx, "Expense created", "id", created.ID, "category", created.Category)
	redirectWithFlash(w, r, "Despesa registrada.")
}

func (s *Server) handleEditExpenseForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	expense, err := s.svc.GetExpense(ctx, id)
	if err != nil {
		http.Error(w, "despesa não encontrada", statusFromError(err))
		return
	}

	s.renderForm(w, r, formData{
		Title:  "Editar despesa",
		Action: expenseAction(id, "edit"),
		Expense: formExpense{
			ID:          expense.ID,
			Description: expense.Description,
			Category:    expense.Category,
			Amount:      expense.Amount,
			DueDate:     expense.DueDate,
			PaymentDate: expense.PaymentDate,
			Notes:       expense.Notes,
			Status:      string(expense.Status),
		},
	})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	expense, err := parseExpenseForm(r)
	if err != nil {
		s.renderFormError(w, r, formData{
			Title:  "Editar despesa",
			Action: expenseAction(id, "edit"),
		}, expense, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if _, err := s.svc.UpdateExpense(ctx, id, patchFromForm(expense)); err != nil {
		status := statusFromError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Update expense failed", "id", id, "error", err)
			http.Error(w, "erro ao salvar despesa", status)
			return
		}
		s.renderFormError(w, r, formData{
			Title:  "Editar despesa",
			Action: expenseAction(id, "edit"),
		}, expense, err.Error(), status)
		return
	}

	slog.InfoContext(ctx, "Expense updated", "id", id)
	redirectWithFlash(w, r, "Despesa atualizada.")
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.svc.DeleteExpense(ctx, id); err != nil {
		status := statusFromError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Delete expense failed", "id", id, "error", err)
		}
		http.Error(w, err.Error(), status)
		return
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	redirectWithFlash(w, r, "Despesa excluída.")
}

// handleSetStatus flips an expense status. Browser forms get a
// redirect back to the listing; JSON clients get the updated expense.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var raw string
	wantsJSON := r.Header.Get("Content-Type") == "application/json"
	if wantsJSON {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		raw = body.Status
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "formato de requisição inválido", http.StatusBadRequest)
			return
		}
		raw = r.Form.Get("status")
	}

	status, err := core.ParseStatus(raw)
	if err != nil {
		if wantsJSON {
			writeJSONError(w, http.StatusBadRequest, "invalid status")
			return
		}
		http.Error(w, "status inválido", http.StatusBadRequest)
		return
	}

	updated, err := s.svc.SetStatus(ctx, id, status)
	if err != nil {
		code := statusFromError(err)
		if code >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Set status failed", "id", id, "error", err)
		}
		if wantsJSON {
			writeJSONError(w, code, err.Error())
			return
		}
		http.Error(w, err.Error(), code)
		return
	}

	slog.InfoContext(ctx, "Expense status changed", "id", id, "status", string(status))
	if wantsJSON {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"message":      "status updated",
			"id":           updated.ID,
			"status":       string(updated.Status),
			"payment_date": updated.PaymentDate.String(),
		})
		return
	}
	redirectWithFlash(w, r, "Status atualizado.")
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Statistics(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Statistics failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_count":   stats.TotalCount,
		"total_amount":  stats.TotalAmount,
		"pending_count": stats.PendingCount,
		"paid_count":    stats.PaidCount,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	logger := applog.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed", "template", name, "error", err)
	}
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, data formData) {
	ctx := r.Context()
	categories, err := s.svc.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "List categories failed", "error", err)
		http.Error(w, "erro ao carregar categorias", http.StatusInternalServerError)
		return
	}
	data.Categories = categories
	s.render(w, r, "expense_form.html", data)
}

// renderFormError re-renders the form with the submitted values so the
// user does not lose what they typed.
func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, data formData, submitted core.Expense, msg string, code int) {
	ctx := r.Context()
	categories, err := s.svc.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "List categories failed", "error", err)
		http.Error(w, "erro ao carregar categorias", http.StatusInternalServerError)
		return
	}
	data.Categories = categories
	data.Error = msg
	data.Expense = formExpense{
		ID:          submitted.ID,
		Description: submitted.Description,
		Category:    submitted.Category,
		Amount:      submitted.Amount,
		DueDate:     submitted.DueDate,
		PaymentDate: submitted.PaymentDate,
		Notes:       submitted.Notes,
		Status:      string(submitted.Status),
	}

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := s.templates.ExecuteTemplate(w, "expense_form.html", data); err != nil {
		slog.ErrorContext(ctx, "Template execution failed", "template", "expense_form.html", "error", err)
	}
}

func expenseAction(id int64, verb string) string {
	return fmt.Sprintf("/expense/%d/%s", id, verb)
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?flash="+url.QueryEscape(msg), http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}
