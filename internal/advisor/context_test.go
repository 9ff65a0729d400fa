package advisor

import (
	"strings"
	"testing"

	"github.com/monify-app/monify/internal/domain"
)

func TestBuildContext(t *testing.T) {
	snap := Snapshot{
		Budget: 10000,
		Transactions: []domain.Transaction{
			{Description: "Salário", Amount: 5000, Type: domain.Income, Status: domain.StatusPaid},
			{Description: "Aluguel", Amount: 1800, Type: domain.Expense, Status: domain.StatusPaid, Category: "Aluguel/Moradia"},
			{Description: "Mercado", Amount: 600, Type: domain.Expense, Status: domain.StatusPaid, Category: "Mercado"},
			{Description: "Internet", Amount: 100, Type: domain.Expense, Status: domain.StatusPending, Category: "Internet/Telefone"},
		},
		Goals: []domain.Goal{
			{Name: "Viagem Japão 2026", Target: 25000, Current: 8400},
		},
	}

	fc := BuildContext(snap)

	// 10000 + 5000 - 2500
	if fc.CurrentBalance != 12500 {
		t.Errorf("CurrentBalance = %v, want 12500", fc.CurrentBalance)
	}
	if fc.MonthlyBudget != 10000 {
		t.Errorf("MonthlyBudget = %v, want 10000", fc.MonthlyBudget)
	}

	if len(fc.TopExpenses) != 3 {
		t.Fatalf("TopExpenses = %v, want 3 entries", fc.TopExpenses)
	}
	if fc.TopExpenses[0] != "Aluguel: R$ 1800.00" {
		t.Errorf("largest expense = %q", fc.TopExpenses[0])
	}

	if fc.TopCategory != "Aluguel/Moradia (R$ 1800.00)" {
		t.Errorf("TopCategory = %q", fc.TopCategory)
	}

	if len(fc.Goals) != 1 || fc.Goals[0] != "Viagem Japão 2026: Alvo 25000, Atual 8400" {
		t.Errorf("Goals = %v", fc.Goals)
	}
}

func TestBuildContextCapsTopExpenses(t *testing.T) {
	snap := Snapshot{Budget: 1000}
	for i := 0; i < 8; i++ {
		snap.Transactions = append(snap.Transactions, domain.Transaction{
			Description: "gasto", Amount: float64(10 + i), Type: domain.Expense, Category: "Outros",
		})
	}

	fc := BuildContext(snap)
	if len(fc.TopExpenses) != 5 {
		t.Errorf("TopExpenses has %d entries, want 5", len(fc.TopExpenses))
	}
	// Largest first.
	if !strings.Contains(fc.TopExpenses[0], "17.00") {
		t.Errorf("first expense = %q, want the largest (17.00)", fc.TopExpenses[0])
	}
}

func TestBuildContextEmpty(t *testing.T) {
	fc := BuildContext(Snapshot{Budget: 500})
	if fc.TopCategory != "Nenhuma" {
		t.Errorf("TopCategory = %q, want Nenhuma", fc.TopCategory)
	}
	if len(fc.TopExpenses) != 0 {
		t.Errorf("TopExpenses = %v, want empty", fc.TopExpenses)
	}
	if fc.CurrentBalance != 500 {
		t.Errorf("CurrentBalance = %v, want 500", fc.CurrentBalance)
	}
}

func TestBuildContextCategoryTieBreaksByName(t *testing.T) {
	snap := Snapshot{
		Transactions: []domain.Transaction{
			{Description: "a", Amount: 100, Type: domain.Expense, Category: "Mercado"},
			{Description: "b", Amount: 100, Type: domain.Expense, Category: "Alimentação"},
		},
	}
	fc := BuildContext(snap)
	if fc.TopCategory != "Alimentação (R$ 100.00)" {
		t.Errorf("TopCategory = %q, want deterministic alphabetical tie-break", fc.TopCategory)
	}
}
