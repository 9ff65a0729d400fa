package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/monify-app/monify/internal/domain"
	"github.com/monify-app/monify/internal/ledger"
	"github.com/monify-app/monify/internal/store"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}
	return ledger.New(st, zerolog.Nop())
}

func postJSON(t *testing.T, body interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewBuffer(data)
}

func TestTransactionsCreateAndList(t *testing.T) {
	l := newTestLedger(t)
	h := NewTransactionsHandler(l, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", postJSON(t, map[string]interface{}{
		"description": "Mercado",
		"amount":      120.5,
		"type":        "EXPENSE",
		"category":    "mercado",
	}))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Category != "Mercado" {
		t.Errorf("category = %q, want canonical Mercado", created.Category)
	}
	if created.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", created.Status)
	}

	listRec := httptest.NewRecorder()
	h.List(listRec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	var listed []domain.Transaction
	if err := json.Unmarshal(listRec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("listed = %+v", listed)
	}
}

func TestTransactionsCreateValidation(t *testing.T) {
	h := NewTransactionsHandler(newTestLedger(t), zerolog.Nop())

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing description", map[string]interface{}{"amount": 10, "type": "EXPENSE"}},
		{"zero amount", map[string]interface{}{"description": "x", "amount": 0, "type": "EXPENSE"}},
		{"bad type", map[string]interface{}{"description": "x", "amount": 10, "type": "TRANSFER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", postJSON(t, tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestTransactionsDelete(t *testing.T) {
	l := newTestLedger(t)
	h := NewTransactionsHandler(l, zerolog.Nop())

	tx := domain.NewTransaction("Uber", 32, domain.Expense, "Transporte/Combustível")
	if err := l.SaveTransaction(tx); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+tx.ID, nil), tx.ID)
	if rec.Code != http.StatusOK {
		t.Errorf("Delete status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/missing", nil), "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Delete missing status = %d, want 404", rec.Code)
	}
}

func TestGoalsContribute(t *testing.T) {
	l := newTestLedger(t)
	h := NewGoalsHandler(l, zerolog.Nop())
	goalID := l.Goals()[0].ID

	rec := httptest.NewRecorder()
	h.Contribute(rec, httptest.NewRequest(http.MethodPost, "/api/goals/"+goalID+"/contribute",
		postJSON(t, map[string]float64{"amount": 500})), goalID)

	if rec.Code != http.StatusOK {
		t.Fatalf("Contribute status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Goal        domain.Goal        `json:"goal"`
		Transaction domain.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Goal.Current != 8900 {
		t.Errorf("goal.Current = %v, want 8900", resp.Goal.Current)
	}
	if resp.Transaction.Status != domain.StatusPaid {
		t.Errorf("transaction status = %s, want PAID", resp.Transaction.Status)
	}

	rec = httptest.NewRecorder()
	h.Contribute(rec, httptest.NewRequest(http.MethodPost, "/api/goals/missing/contribute",
		postJSON(t, map[string]float64{"amount": 500})), "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Contribute missing goal status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Contribute(rec, httptest.NewRequest(http.MethodPost, "/api/goals/"+goalID+"/contribute",
		postJSON(t, map[string]float64{"amount": -5})), goalID)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Contribute negative amount status = %d, want 400", rec.Code)
	}
}

func TestBudgetUpdate(t *testing.T) {
	l := newTestLedger(t)
	h := NewBudgetHandler(l, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/api/budget", postJSON(t, map[string]float64{"amount": 9000})))
	if rec.Code != http.StatusOK {
		t.Fatalf("Update status = %d", rec.Code)
	}
	if l.Budget() != 9000 {
		t.Errorf("budget = %v, want 9000", l.Budget())
	}

	rec = httptest.NewRecorder()
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/api/budget", postJSON(t, map[string]float64{"amount": -1})))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative budget status = %d, want 400", rec.Code)
	}
}

func TestSummaryDeliversNotifications(t *testing.T) {
	l := newTestLedger(t)
	notifications := &NotificationBuffer{}
	l.SetNotifier(notifications.Push)
	h := NewSummaryHandler(l, notifications, zerolog.Nop())

	if err := l.SetBudget(10000); err != nil {
		t.Fatal(err)
	}
	spend := domain.NewTransaction("Compra grande", 9500, domain.Expense, "Outros")
	if err := l.SaveTransaction(spend); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	var resp struct {
		Summary       domain.MonthlySummary `json:"summary"`
		Notifications []Notification        `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Notifications) != 1 || resp.Notifications[0].Message != "Atenção: Saldo baixo!" {
		t.Errorf("notifications = %+v, want the low-balance alert", resp.Notifications)
	}

	// Second request: latch held, buffer drained.
	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Notifications) != 0 {
		t.Errorf("second request notifications = %+v, want none", resp.Notifications)
	}
}

func TestViewUpdate(t *testing.T) {
	l := newTestLedger(t)
	h := NewViewHandler(l, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/api/view", postJSON(t, map[string]string{"view": store.ViewReports})))
	if rec.Code != http.StatusOK {
		t.Fatalf("Update status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/api/view", postJSON(t, map[string]string{"view": "BOGUS"})))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown view status = %d, want 400", rec.Code)
	}
}

func TestReportsCategories(t *testing.T) {
	l := newTestLedger(t)
	h := NewReportsHandler(l, zerolog.Nop())

	if err := l.SetBudget(1000); err != nil {
		t.Fatal(err)
	}
	if err := l.SaveTransaction(domain.NewTransaction("Mercado", 250, domain.Expense, "Mercado")); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.Categories(rec, httptest.NewRequest(http.MethodGet, "/api/reports/categories", nil))

	var resp struct {
		Categories  []domain.CategoryTotal `json:"categories"`
		Total       float64                `json:"total"`
		Utilization float64                `json:"utilization"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 250 {
		t.Errorf("total = %v, want 250", resp.Total)
	}
	if resp.Utilization != 25 {
		t.Errorf("utilization = %v, want 25", resp.Utilization)
	}
}
