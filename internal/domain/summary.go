package domain

import "github.com/shopspring/decimal"

// MonthlySummary is derived from the transaction list and the budget.
// It is recomputed on every change and never persisted.
type MonthlySummary struct {
	TotalIncome    float64 `json:"totalIncome"`
	TotalExpense   float64 `json:"totalExpense"`
	Balance        float64 `json:"balance"`
	PendingExpense float64 `json:"pendingExpense"`
}

// Summarize folds the transaction list into a monthly summary.
// Balance is budget + income - expense. Totals are accumulated with
// decimal arithmetic so long lists do not drift.
func Summarize(transactions []Transaction, budget float64) MonthlySummary {
	income := decimal.Zero
	expense := decimal.Zero
	pending := decimal.Zero

	for _, t := range transactions {
		amount := decimal.NewFromFloat(t.Amount)
		if t.Type == Income {
			income = income.Add(amount)
			continue
		}
		expense = expense.Add(amount)
		if t.Status != StatusPaid {
			pending = pending.Add(amount)
		}
	}

	balance := decimal.NewFromFloat(budget).Add(income).Sub(expense)

	return MonthlySummary{
		TotalIncome:    income.InexactFloat64(),
		TotalExpense:   expense.InexactFloat64(),
		Balance:        balance.InexactFloat64(),
		PendingExpense: pending.InexactFloat64(),
	}
}

// LowBalance reports whether the balance is in the warning band:
// below 10% of the budget but still positive.
func (s MonthlySummary) LowBalance(budget float64) bool {
	return s.Balance < budget*0.1 && s.Balance > 0
}

// CategoryTotal is one row of the per-category expense report.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
