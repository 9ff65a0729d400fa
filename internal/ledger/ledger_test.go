package ledger

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/monify-app/monify/internal/domain"
	"github.com/monify-app/monify/internal/store"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}
	return New(st, zerolog.Nop())
}

func TestSaveTransactionPrepends(t *testing.T) {
	l := newTestLedger(t)

	first := domain.NewTransaction("Mercado", 120, domain.Expense, "Mercado")
	second := domain.NewTransaction("Salário", 5000, domain.Income, "Salário")

	if err := l.SaveTransaction(first); err != nil {
		t.Fatal(err)
	}
	if err := l.SaveTransaction(second); err != nil {
		t.Fatal(err)
	}

	txs := l.Transactions()
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].ID != second.ID {
		t.Error("newest transaction should be first")
	}
}

func TestSaveTransactionReplacesByID(t *testing.T) {
	l := newTestLedger(t)

	tx := domain.NewTransaction("Internet", 99.90, domain.Expense, "Internet/Telefone")
	if err := l.SaveTransaction(tx); err != nil {
		t.Fatal(err)
	}

	tx.Amount = 109.90
	if err := l.SaveTransaction(tx); err != nil {
		t.Fatal(err)
	}

	txs := l.Transactions()
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	if txs[0].Amount != 109.90 {
		t.Errorf("amount = %v, want 109.90", txs[0].Amount)
	}
}

func TestMergeTransactionsKeepsDuplicates(t *testing.T) {
	l := newTestLedger(t)

	batch1 := []domain.Transaction{domain.NewTransaction("Café", 15, domain.Expense, "Alimentação")}
	batch2 := []domain.Transaction{domain.NewTransaction("Café", 15, domain.Expense, "Alimentação")}

	if err := l.MergeTransactions(batch1); err != nil {
		t.Fatal(err)
	}
	if err := l.MergeTransactions(batch2); err != nil {
		t.Fatal(err)
	}

	txs := l.Transactions()
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2 distinct rows", len(txs))
	}
	if txs[0].ID == txs[1].ID {
		t.Error("identical resubmissions must keep distinct IDs")
	}
}

func TestDeleteTransaction(t *testing.T) {
	l := newTestLedger(t)

	tx := domain.NewTransaction("Uber", 32, domain.Expense, "Transporte/Combustível")
	if err := l.SaveTransaction(tx); err != nil {
		t.Fatal(err)
	}

	found, err := l.DeleteTransaction(tx.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("existing transaction not found")
	}
	if len(l.Transactions()) != 0 {
		t.Error("transaction not removed")
	}

	found, err = l.DeleteTransaction("missing")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("deleting a missing ID reported found")
	}
}

func TestToggleStatus(t *testing.T) {
	l := newTestLedger(t)

	tx := domain.NewTransaction("Luz", 210, domain.Expense, "Luz e Água")
	if err := l.SaveTransaction(tx); err != nil {
		t.Fatal(err)
	}

	got, found, err := l.ToggleStatus(tx.ID)
	if err != nil || !found {
		t.Fatalf("ToggleStatus() found=%v err=%v", found, err)
	}
	if got.Status != domain.StatusPaid {
		t.Errorf("status = %s, want PAID", got.Status)
	}

	_, found, _ = l.ToggleStatus("missing")
	if found {
		t.Error("toggling a missing ID reported found")
	}
}

func TestMarkRecurring(t *testing.T) {
	l := newTestLedger(t)

	for _, desc := range []string{"Netflix mensal", "Mercado", "netflix anual"} {
		if err := l.SaveTransaction(domain.NewTransaction(desc, 40, domain.Expense, "Assinaturas/Streaming")); err != nil {
			t.Fatal(err)
		}
	}

	n, err := l.MarkRecurring("NETFLIX")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("marked %d, want 2", n)
	}

	recurring := 0
	for _, tx := range l.Transactions() {
		if tx.IsRecurring {
			recurring++
		}
	}
	if recurring != 2 {
		t.Errorf("%d transactions flagged, want 2", recurring)
	}
}

func TestContribute(t *testing.T) {
	l := newTestLedger(t)

	// Seeded goal "Viagem Japão 2026" starts at 8400.
	goals := l.Goals()
	if len(goals) == 0 {
		t.Fatal("no seeded goals")
	}
	goalID := goals[0].ID

	goal, tx, err := l.Contribute(goalID, 500)
	if err != nil {
		t.Fatalf("Contribute() error: %v", err)
	}

	if math.Abs(goal.Current-8900) > 1e-9 {
		t.Errorf("goal.Current = %v, want 8900", goal.Current)
	}
	if tx.Type != domain.Expense || tx.Status != domain.StatusPaid {
		t.Errorf("synthesized tx = %s/%s, want EXPENSE/PAID", tx.Type, tx.Status)
	}
	if tx.Category != domain.CategoryGoalContribution {
		t.Errorf("synthesized tx category = %q, want %q", tx.Category, domain.CategoryGoalContribution)
	}
	if tx.Description != "Aceleração: Viagem Japão 2026" {
		t.Errorf("synthesized tx description = %q", tx.Description)
	}
	if tx.Amount != 500 {
		t.Errorf("synthesized tx amount = %v, want 500", tx.Amount)
	}

	txs := l.Transactions()
	if len(txs) != 1 || txs[0].ID != tx.ID {
		t.Error("synthesized transaction not prepended to the ledger")
	}
}

func TestContributeRejectsBadInput(t *testing.T) {
	l := newTestLedger(t)
	goalID := l.Goals()[0].ID

	if _, _, err := l.Contribute(goalID, 0); err == nil {
		t.Error("zero amount accepted")
	}
	if _, _, err := l.Contribute(goalID, -10); err == nil {
		t.Error("negative amount accepted")
	}
	if _, _, err := l.Contribute("missing", 100); err == nil {
		t.Error("missing goal accepted")
	}
}

func TestGoalLifecycle(t *testing.T) {
	l := newTestLedger(t)
	initial := len(l.Goals())

	g := domain.NewGoal("Carro novo", "Carro", 60000)
	if err := l.SaveGoal(g); err != nil {
		t.Fatal(err)
	}
	if got := l.Goals(); len(got) != initial+1 || got[0].ID != g.ID {
		t.Error("goal not prepended")
	}

	found, err := l.DeleteGoal(g.ID)
	if err != nil || !found {
		t.Fatalf("DeleteGoal() found=%v err=%v", found, err)
	}
	if len(l.Goals()) != initial {
		t.Error("goal not removed")
	}
}

func TestLowBalanceAlertLatch(t *testing.T) {
	l := newTestLedger(t)

	var alerts []string
	l.SetNotifier(func(message, level string) {
		alerts = append(alerts, message)
	})

	if err := l.SetBudget(10000); err != nil {
		t.Fatal(err)
	}
	// Alerts from before the budget change do not count.
	alerts = nil

	// Push the balance into the warning band: 10000 - 9500 = 500 < 1000.
	spend := domain.NewTransaction("Compra grande", 9500, domain.Expense, "Outros")
	spend.Status = domain.StatusPaid
	if err := l.SaveTransaction(spend); err != nil {
		t.Fatal(err)
	}

	l.Summary()
	if len(alerts) != 1 {
		t.Fatalf("after first summary alerts = %d, want 1", len(alerts))
	}
	if alerts[0] != "Atenção: Saldo baixo!" {
		t.Errorf("alert message = %q", alerts[0])
	}

	// Recomputing while still low must not fire again.
	l.Summary()
	l.Summary()
	if len(alerts) != 1 {
		t.Errorf("latched alert fired again, alerts = %d", len(alerts))
	}

	// Changing the budget re-arms the latch.
	if err := l.SetBudget(9800); err != nil {
		t.Fatal(err)
	}
	l.Summary()
	if len(alerts) != 2 {
		t.Errorf("after budget change alerts = %d, want 2", len(alerts))
	}
}

func TestSetBudgetRejectsNegative(t *testing.T) {
	l := newTestLedger(t)
	if err := l.SetBudget(-1); err == nil {
		t.Error("negative budget accepted")
	}
}

func TestCategoryReport(t *testing.T) {
	l := newTestLedger(t)

	entries := []struct {
		desc     string
		amount   float64
		typ      domain.TransactionType
		category string
	}{
		{"Mercado 1", 300, domain.Expense, "Mercado"},
		{"Mercado 2", 200, domain.Expense, "Mercado"},
		{"Aluguel", 1800, domain.Expense, "Aluguel/Moradia"},
		{"Salário", 5000, domain.Income, "Salário"},
	}
	for _, e := range entries {
		if err := l.SaveTransaction(domain.NewTransaction(e.desc, e.amount, e.typ, e.category)); err != nil {
			t.Fatal(err)
		}
	}

	report := l.CategoryReport()
	if len(report) != 2 {
		t.Fatalf("report rows = %d, want 2 (income excluded)", len(report))
	}
	if report[0].Name != "Aluguel/Moradia" || report[0].Value != 1800 {
		t.Errorf("first row = %+v, want Aluguel/Moradia 1800", report[0])
	}
	if report[1].Name != "Mercado" || report[1].Value != 500 {
		t.Errorf("second row = %+v, want Mercado 500", report[1])
	}
}

func TestLastViewPersists(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	l := New(st, zerolog.Nop())
	if err := l.SetLastView(store.ViewReports); err != nil {
		t.Fatal(err)
	}
	if err := l.SetLastView("BOGUS"); err == nil {
		t.Error("unknown view accepted")
	}

	// A fresh ledger over the same store sees the persisted view.
	reloaded := New(st, zerolog.Nop())
	if got := reloaded.LastView(); got != store.ViewReports {
		t.Errorf("reloaded view = %q, want %q", got, store.ViewReports)
	}
}
