package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pizzaria/internal/core"
)

func (s *Server) listCategories(c *fiber.Ctx) error {
	cats, err := s.svc.ListCategories(c.Context())
	if err != nil {
		return serverError(c, err)
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResponse(cat))
	}
	return c.JSON(out)
}

func (s *Server) createCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	created, err := s.svc.CreateCategory(c.Context(), core.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Color:       strings.TrimSpace(req.Color),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(created))
}

func (s *Server) seedCategories(c *fiber.Ctx) error {
	created, err := s.svc.SeedDefaultCategories(c.Context(), s.seed)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{"created": created})
}

func (s *Server) listExpenses(c *fiber.Ctx) error {
	filter := core.ExpenseFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("status"); raw != "" {
		st, err := core.ParseStatus(raw)
		if err != nil {
			return badRequest(c, "invalid status filter")
		}
		filter.Status = string(st)
	}
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return badRequest(c, "invalid date filter, expected YYYY-MM-DD")
		}
		filter.Date = d
	}

	expenses, err := s.svc.ListExpenses(c.Context(), filter)
	if err != nil {
		return serverError(c, err)
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return c.JSON(out)
}

func (s *Server) createExpense(c *fiber.Ctx) error {
	var req createExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	expense := core.Expense{
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Amount:      req.Amount,
		Notes:       strings.TrimSpace(req.Notes),
	}
	if req.DueDate != "" {
		d, err := core.ParseDate(req.DueDate)
		if err != nil {
			return badRequest(c, "invalid due_date, expected YYYY-MM-DD")
		}
		expense.DueDate = d
	}
	if req.PaymentDate != "" {
		d, err := core.ParseDate(req.PaymentDate)
		if err != nil {
			return badRequest(c, "invalid payment_date, expected YYYY-MM-DD")
		}
		expense.PaymentDate = d
	}
	if req.Status != "" {
		st, err := core.ParseStatus(req.Status)
		if err != nil {
			return badRequest(c, "invalid status")
		}
		expense.Status = st
	}

	created, err := s.svc.CreateExpense(c.Context(), expense)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(created))
}

func (s *Server) getExpense(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return notFound(c)
	}
	expense, err := s.svc.GetExpense(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toExpenseResponse(expense))
}

func (s *Server) updateExpense(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return notFound(c)
	}

	var req updateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	patch := core.ExpensePatch{
		Amount: req.Amount,
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		patch.Description = &desc
	}
	if req.Category != nil {
		cat := strings.TrimSpace(*req.Category)
		patch.Category = &cat
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		patch.Notes = &notes
	}
	if req.DueDate != nil {
		d, err := parseOptionalDate(*req.DueDate)
		if err != nil {
			return badRequest(c, "invalid due_date, expected YYYY-MM-DD")
		}
		patch.DueDate = &d
	}
	if req.PaymentDate != nil {
		d, err := parseOptionalDate(*req.PaymentDate)
		if err != nil {
			return badRequest(c, "invalid payment_date, expected YYYY-MM-DD")
		}
		patch.PaymentDate = &d
	}
	if req.Status != nil {
		st, err := core.ParseStatus(*req.Status)
		if err != nil {
			return badRequest(c, "invalid status")
		}
		patch.Status = &st
	}

	updated, err := s.svc.UpdateExpense(c.Context(), id, patch)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toExpenseResponse(updated))
}

func (s *Server) deleteExpense(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return notFound(c)
	}
	if err := s.svc.DeleteExpense(c.Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) setStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return notFound(c)
	}

	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	status, err := core.ParseStatus(req.Status)
	if err != nil {
		return badRequest(c, "invalid status")
	}

	updated, err := s.svc.SetStatus(c.Context(), id, status)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toExpenseResponse(updated))
}

func (s *Server) statistics(c *fiber.Ctx) error {
	stats, err := s.svc.Statistics(c.Context())
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"total_count":   stats.TotalCount,
		"total_amount":  stats.TotalAmount,
		"pending_count": stats.PendingCount,
		"paid_count":    stats.PaidCount,
	})
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// parseOptionalDate treats the empty string as "clear this date".
func parseOptionalDate(raw string) (core.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(raw)
}

// domainError maps domain errors onto JSON failure responses.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return notFound(c)
	case errors.Is(err, core.ErrConflict):
		return failure(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrNameTooLong):
		return failure(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return serverError(c, err)
	}
}

func failure(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"success": false, "message": msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return failure(c, fiber.StatusBadRequest, msg)
}

func notFound(c *fiber.Ctx) error {
	return failure(c, fiber.StatusNotFound, "not found")
}

func serverError(c *fiber.Ctx, err error) error {
	return failure(c, fiber.StatusInternalServerError, err.Error())
}
