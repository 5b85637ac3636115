package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pizzaria/internal/core"
	"pizzaria/internal/services"
	"pizzaria/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	store.Now = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	}
	if _, err := store.SeedDefaultCategories(context.Background(), core.DefaultCategories()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewServer(services.NewExpenseService(store, nil), core.DefaultCategories()), store
}

func doJSON(t *testing.T, s *Server, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	resp := doJSON(t, s, http.MethodGet, "/api/v1/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}
}

func TestListSeededCategories(t *testing.T) {
	s, _ := newTestServer(t)
	resp := doJSON(t, s, http.MethodGet, "/api/v1/categories", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}
	cats := decode[[]categoryResponse](t, resp)
	if len(cats) != 8 {
		t.Fatalf("got %d categories, want 8", len(cats))
	}
}

func TestCreateCategoryConflict(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/categories", `{"name":"Limpeza","color":"#123456"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("got %d, want 201", resp.StatusCode)
	}
	created := decode[categoryResponse](t, resp)
	if created.Color != "#123456" {
		t.Errorf("color: got %q", created.Color)
	}

	resp = doJSON(t, s, http.MethodPost, "/api/v1/categories", `{"name":"Limpeza"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: got %d, want 409", resp.StatusCode)
	}
}

func TestCreateCategoryDefaultColor(t *testing.T) {
	s, _ := newTestServer(t)
	resp := doJSON(t, s, http.MethodPost, "/api/v1/categories", `{"name":"Marketing"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("got %d, want 201", resp.StatusCode)
	}
	created := decode[categoryResponse](t, resp)
	if created.Color != core.DefaultCategoryColor {
		t.Errorf("color: got %q, want %q", created.Color, core.DefaultCategoryColor)
	}
}

func TestSeedEndpointIsIdempotent(t *testing.T) {
	s, _ := newTestServer(t)
	resp := doJSON(t, s, http.MethodPost, "/api/v1/seed-categories", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}
	result := decode[map[string]int](t, resp)
	if result["created"] != 0 {
		t.Errorf("second seed created %d categories, want 0", result["created"])
	}
}

func TestSeedEndpointUsesConfiguredList(t *testing.T) {
	store := storage.NewMemStore()
	seed := append(core.DefaultCategories(), core.ExtraCategory())
	s := NewServer(services.NewExpenseService(store, nil), seed)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/seed-categories", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}
	result := decode[map[string]int](t, resp)
	if result["created"] != len(seed) {
		t.Errorf("created %d categories, want %d", result["created"], len(seed))
	}

	cats, err := store.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, c := range cats {
		if c.Name == "Outros" {
			found = true
		}
	}
	if !found {
		t.Errorf("catch-all category missing from seeded list: %+v", cats)
	}
}

func TestExpenseCRUD(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/expenses",
		`{"description":"Mussarela 10kg","category":"Produtos","amount":280.50,"due_date":"2025-03-15"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: got %d, want 201", resp.StatusCode)
	}
	created := decode[expenseResponse](t, resp)
	if created.Status != "pending" {
		t.Errorf("default status: got %q", created.Status)
	}
	if created.DueDate != "2025-03-15" {
		t.Errorf("due date: got %q", created.DueDate)
	}

	resp = doJSON(t, s, http.MethodGet, "/api/v1/expenses/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: got %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, s, http.MethodPut, "/api/v1/expenses/1", `{"amount":295.00,"notes":"preço reajustado"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: got %d, want 200", resp.StatusCode)
	}
	updated := decode[expenseResponse](t, resp)
	if updated.Amount != 295.00 {
		t.Errorf("amount: got %v", updated.Amount)
	}
	if updated.Description != "Mussarela 10kg" {
		t.Errorf("partial update clobbered description: %q", updated.Description)
	}
	if updated.Notes != "preço reajustado" {
		t.Errorf("notes: got %q", updated.Notes)
	}

	resp = doJSON(t, s, http.MethodDelete, "/api/v1/expenses/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: got %d, want 204", resp.StatusCode)
	}

	resp = doJSON(t, s, http.MethodGet, "/api/v1/expenses/1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: got %d, want 404", resp.StatusCode)
	}
}

func TestExpenseNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/expenses/42", ""},
		{http.MethodPut, "/api/v1/expenses/42", `{"amount":10}`},
		{http.MethodDelete, "/api/v1/expenses/42", ""},
		{http.MethodPost, "/api/v1/expenses/42/status", `{"status":"paid"}`},
	} {
		resp := doJSON(t, s, tc.method, tc.path, tc.body)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s: got %d, want 404", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty description", `{"description":"","category":"Produtos","amount":10}`, http.StatusUnprocessableEntity},
		{"empty category", `{"description":"Farinha","category":"","amount":10}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"description":"Farinha","category":"Produtos","amount":-5}`, http.StatusUnprocessableEntity},
		{"bad status", `{"description":"Farinha","category":"Produtos","amount":5,"status":"exploded"}`, http.StatusBadRequest},
		{"bad date", `{"description":"Farinha","category":"Produtos","amount":5,"due_date":"15/03/2025"}`, http.StatusBadRequest},
		{"description over limit", `{"description":"` + strings.Repeat("x", 201) + `","category":"Produtos","amount":5}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, s, http.MethodPost, "/api/v1/expenses", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("got %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestSetStatusPaidAssignsPaymentDate(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/expenses",
		`{"description":"Boleto fornecedor","category":"Boletos","amount":850}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: got %d", resp.StatusCode)
	}

	resp = doJSON(t, s, http.MethodPost, "/api/v1/expenses/1/status", `{"status":"paid"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set status: got %d, want 200", resp.StatusCode)
	}
	updated := decode[expenseResponse](t, resp)
	if updated.Status != "paid" {
		t.Errorf("status: got %q", updated.Status)
	}
	if updated.PaymentDate != "2025-03-10" {
		t.Errorf("payment date: got %q, want 2025-03-10", updated.PaymentDate)
	}
}

func TestClearDueDateWithEmptyString(t *testing.T) {
	s, _ := newTestServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/expenses",
		`{"description":"Internet","category":"Internet","amount":129.9,"due_date":"2025-03-25"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: got %d", resp.StatusCode)
	}

	resp = doJSON(t, s, http.MethodPut, "/api/v1/expenses/1", `{"due_date":""}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: got %d", resp.StatusCode)
	}
	updated := decode[expenseResponse](t, resp)
	if updated.DueDate != "" {
		t.Errorf("due date not cleared: %q", updated.DueDate)
	}
}

func TestListExpensesFilters(t *testing.T) {
	s, _ := newTestServer(t)

	fixtures := []string{
		`{"description":"Aluguel do salão","category":"Aluguel","amount":3200,"due_date":"2025-03-05"}`,
		`{"description":"Entrega sexta","category":"Motoboys","amount":150}`,
		`{"description":"Mussarela","category":"Produtos","amount":280}`,
	}
	for _, body := range fixtures {
		resp := doJSON(t, s, http.MethodPost, "/api/v1/expenses", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("fixture: got %d", resp.StatusCode)
		}
	}

	resp := doJSON(t, s, http.MethodGet, "/api/v1/expenses?category=Motoboys", "")
	list := decode[[]expenseResponse](t, resp)
	if len(list) != 1 || list[0].Description != "Entrega sexta" {
		t.Errorf("category filter: %+v", list)
	}

	resp = doJSON(t, s, http.MethodGet, "/api/v1/expenses?search=ussarel", "")
	list = decode[[]expenseResponse](t, resp)
	if len(list) != 1 || list[0].Description != "Mussarela" {
		t.Errorf("search filter: %+v", list)
	}

	resp = doJSON(t, s, http.MethodGet, "/api/v1/expenses?date=2025-03-05", "")
	list = decode[[]expenseResponse](t, resp)
	if len(list) != 1 || list[0].Description != "Aluguel do salão" {
		t.Errorf("date filter: %+v", list)
	}

	resp = doJSON(t, s, http.MethodGet, "/api/v1/expenses?status=exploded", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("junk status filter: got %d, want 400", resp.StatusCode)
	}
}

func TestStatistics(t *testing.T) {
	s, _ := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/v1/expenses", `{"description":"Farinha","category":"Produtos","amount":25}`)
	doJSON(t, s, http.MethodPost, "/api/v1/expenses", `{"description":"Queijo","category":"Produtos","amount":30}`)
	doJSON(t, s, http.MethodPost, "/api/v1/expenses/2/status", `{"status":"paid"}`)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/statistics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}
	stats := decode[map[string]float64](t, resp)
	if stats["total_count"] != 2 || stats["total_amount"] != 55 || stats["pending_count"] != 1 || stats["paid_count"] != 1 {
		t.Errorf("unexpected statistics: %v", stats)
	}
}
