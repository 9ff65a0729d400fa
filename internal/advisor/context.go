package advisor

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/monify-app/monify/internal/domain"
)

// Snapshot is the caller-owned financial state handed to Dispatch. The
// dispatcher never mutates it.
type Snapshot struct {
	Transactions []domain.Transaction
	Budget       float64
	Goals        []domain.Goal
}

// FinancialContext is the per-command grounding context serialized into
// the model prompt. Rebuilt fresh on every invocation, never persisted.
type FinancialContext struct {
	CurrentBalance float64  `json:"currentBalance"`
	MonthlyBudget  float64  `json:"monthlyBudget"`
	TopExpenses    []string `json:"topExpenses"`
	TopCategory    string   `json:"topCategory"`
	Goals          []string `json:"goals"`
}

// BuildContext condenses the snapshot into the grounding context: current
// balance, the five largest expenses, the heaviest category and one line
// per goal.
func BuildContext(snap Snapshot) FinancialContext {
	summary := domain.Summarize(snap.Transactions, snap.Budget)

	var expenses []domain.Transaction
	categoryTotals := make(map[string]decimal.Decimal)
	for _, t := range snap.Transactions {
		if t.Type != domain.Expense {
			continue
		}
		expenses = append(expenses, t)
		categoryTotals[t.Category] = categoryTotals[t.Category].Add(decimal.NewFromFloat(t.Amount))
	}

	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Amount > expenses[j].Amount })
	if len(expenses) > 5 {
		expenses = expenses[:5]
	}
	top := make([]string, 0, len(expenses))
	for _, t := range expenses {
		top = append(top, fmt.Sprintf("%s: R$ %.2f", t.Description, t.Amount))
	}

	type catTotal struct {
		name  string
		total decimal.Decimal
	}
	cats := make([]catTotal, 0, len(categoryTotals))
	for name, total := range categoryTotals {
		cats = append(cats, catTotal{name, total})
	}
	sort.Slice(cats, func(i, j int) bool {
		if !cats[i].total.Equal(cats[j].total) {
			return cats[i].total.GreaterThan(cats[j].total)
		}
		return cats[i].name < cats[j].name
	})
	topCategory := "Nenhuma"
	if len(cats) > 0 {
		topCategory = fmt.Sprintf("%s (R$ %s)", cats[0].name, cats[0].total.StringFixed(2))
	}

	goalLines := make([]string, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		goalLines = append(goalLines, fmt.Sprintf("%s: Alvo %.0f, Atual %.0f", g.Name, g.Target, g.Current))
	}

	return FinancialContext{
		CurrentBalance: summary.Balance,
		MonthlyBudget:  snap.Budget,
		TopExpenses:    top,
		TopCategory:    topCategory,
		Goals:          goalLines,
	}
}
