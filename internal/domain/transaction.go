package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// TransactionStatus tracks the settlement state of a transaction.
// Income is always PAID; PENDING and OVERDUE only apply to expenses.
type TransactionStatus string

const (
	StatusPaid    TransactionStatus = "PAID"
	StatusPending TransactionStatus = "PENDING"
	StatusOverdue TransactionStatus = "OVERDUE"
)

// Transaction represents one recorded income or expense event.
type Transaction struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Amount      float64           `json:"amount"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	Date        time.Time         `json:"date"`
	Category    string            `json:"category"`
	DueDay      int               `json:"dueDay,omitempty"`
	IsRecurring bool              `json:"isRecurring,omitempty"`
}

// NewTransaction builds a transaction with a fresh ID and the current
// timestamp. Income collapses to PAID; expenses start PENDING.
func NewTransaction(description string, amount float64, typ TransactionType, category string) Transaction {
	t := Transaction{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Type:        typ,
		Date:        time.Now(),
		Category:    category,
		Status:      StatusPending,
	}
	t.Normalize()
	return t
}

// Normalize enforces the status invariant: there is no such thing as
// pending income.
func (t *Transaction) Normalize() {
	if t.Type == Income {
		t.Status = StatusPaid
	} else if t.Status == "" {
		t.Status = StatusPending
	}
}

// ToggleStatus flips an expense between PAID and PENDING. Income is
// left untouched.
func (t *Transaction) ToggleStatus() {
	if t.Type == Income {
		return
	}
	if t.Status == StatusPaid {
		t.Status = StatusPending
	} else {
		t.Status = StatusPaid
	}
}

// ValidType reports whether s is a known transaction type.
func ValidType(s string) bool {
	return TransactionType(s) == Income || TransactionType(s) == Expense
}
