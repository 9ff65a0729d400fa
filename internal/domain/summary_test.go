package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	transactions := []Transaction{
		{Type: Income, Amount: 5000, Status: StatusPaid},
		{Type: Income, Amount: 1200.50, Status: StatusPaid},
		{Type: Expense, Amount: 800, Status: StatusPaid},
		{Type: Expense, Amount: 300.25, Status: StatusPending},
		{Type: Expense, Amount: 99.99, Status: StatusOverdue},
	}

	s := Summarize(transactions, 1000)

	if !almostEqual(s.TotalIncome, 6200.50) {
		t.Errorf("TotalIncome = %v, want 6200.50", s.TotalIncome)
	}
	if !almostEqual(s.TotalExpense, 1200.24) {
		t.Errorf("TotalExpense = %v, want 1200.24", s.TotalExpense)
	}
	if !almostEqual(s.PendingExpense, 400.24) {
		t.Errorf("PendingExpense = %v, want 400.24", s.PendingExpense)
	}
	// balance = budget + income - expense
	if !almostEqual(s.Balance, 1000+6200.50-1200.24) {
		t.Errorf("Balance = %v, want %v", s.Balance, 1000+6200.50-1200.24)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 500)
	if s.TotalIncome != 0 || s.TotalExpense != 0 || s.PendingExpense != 0 {
		t.Errorf("empty summary has non-zero totals: %+v", s)
	}
	if !almostEqual(s.Balance, 500) {
		t.Errorf("Balance = %v, want 500", s.Balance)
	}
}

func TestSummarizeNoDrift(t *testing.T) {
	// 0.1 added 1000 times must be exactly 100 with decimal accumulation.
	var transactions []Transaction
	for i := 0; i < 1000; i++ {
		transactions = append(transactions, Transaction{Type: Expense, Amount: 0.1, Status: StatusPaid})
	}

	s := Summarize(transactions, 0)
	if s.TotalExpense != 100 {
		t.Errorf("TotalExpense = %v, want exactly 100", s.TotalExpense)
	}
}

func TestLowBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		budget  float64
		want    bool
	}{
		{"inside warning band", 500, 10000, true},
		{"exactly at threshold", 1000, 10000, false},
		{"healthy balance", 5000, 10000, false},
		{"zero balance", 0, 10000, false},
		{"negative balance", -100, 10000, false},
		{"zero budget", 50, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MonthlySummary{Balance: tt.balance}
			if got := s.LowBalance(tt.budget); got != tt.want {
				t.Errorf("LowBalance(%v) with balance %v = %v, want %v", tt.budget, tt.balance, got, tt.want)
			}
		})
	}
}
