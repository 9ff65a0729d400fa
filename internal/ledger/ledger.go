// Package ledger owns the long-lived session state: the transaction list,
// the goal list, the monthly budget and the last active view. Every
// mutation goes through a designated method that persists through the
// store; nothing outside this package writes these datasets.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/monify-app/monify/internal/domain"
	"github.com/monify-app/monify/internal/store"
)

// NotifyFunc receives user-facing notifications raised by the ledger,
// such as the low-balance warning.
type NotifyFunc func(message, level string)

// Ledger is the state container for one user session.
type Ledger struct {
	mu             sync.RWMutex
	store          *store.Store
	log            zerolog.Logger
	transactions   []domain.Transaction
	goals          []domain.Goal
	budget         float64
	lastView       string
	alertTriggered bool
	notify         NotifyFunc
}

// New loads the persisted state into a fresh ledger.
func New(st *store.Store, log zerolog.Logger) *Ledger {
	return &Ledger{
		store:        st,
		log:          log,
		transactions: st.Transactions(),
		goals:        st.Goals(),
		budget:       st.Budget(),
		lastView:     st.LastView(store.ViewDashboard),
		notify:       func(string, string) {},
	}
}

// SetNotifier installs the notification sink. Passing nil silences
// notifications.
func (l *Ledger) SetNotifier(fn NotifyFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if fn == nil {
		fn = func(string, string) {}
	}
	l.notify = fn
}

// Transactions returns a copy of the transaction list, newest first.
func (l *Ledger) Transactions() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// SaveTransaction inserts a new transaction at the head of the list, or
// replaces an existing one with the same ID.
func (l *Ledger) SaveTransaction(t domain.Transaction) error {
	t.Normalize()

	l.mu.Lock()
	defer l.mu.Unlock()

	replaced := false
	for i, existing := range l.transactions {
		if existing.ID == t.ID {
			l.transactions[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		l.transactions = append([]domain.Transaction{t}, l.transactions...)
	}
	return l.persistTransactions()
}

// MergeTransactions prepends a validated batch, newest first. Items keep
// the identifiers they arrived with; identical resubmissions therefore
// produce distinct rows, which is intentional.
func (l *Ledger) MergeTransactions(items []domain.Transaction) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].Normalize()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append(append([]domain.Transaction{}, items...), l.transactions...)
	return l.persistTransactions()
}

// DeleteTransaction removes a transaction by ID.
func (l *Ledger) DeleteTransaction(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, t := range l.transactions {
		if t.ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			return true, l.persistTransactions()
		}
	}
	return false, nil
}

// ToggleStatus flips an expense between PAID and PENDING.
func (l *Ledger) ToggleStatus(id string) (domain.Transaction, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.transactions {
		if l.transactions[i].ID == id {
			l.transactions[i].ToggleStatus()
			t := l.transactions[i]
			return t, true, l.persistTransactions()
		}
	}
	return domain.Transaction{}, false, nil
}

// MarkRecurring flags every transaction whose description contains the
// given text (case-insensitive) as a fixed monthly entry. Returns how
// many were flagged.
func (l *Ledger) MarkRecurring(description string) (int, error) {
	needle := strings.ToLower(description)

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for i := range l.transactions {
		if strings.Contains(strings.ToLower(l.transactions[i].Description), needle) {
			l.transactions[i].IsRecurring = true
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, l.persistTransactions()
}

// Goals returns a copy of the goal list.
func (l *Ledger) Goals() []domain.Goal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Goal, len(l.goals))
	copy(out, l.goals)
	return out
}

// SaveGoal prepends a new goal.
func (l *Ledger) SaveGoal(g domain.Goal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.goals = append([]domain.Goal{g}, l.goals...)
	if err := l.store.SaveGoals(l.goals); err != nil {
		return fmt.Errorf("ledger.SaveGoal: %w", err)
	}
	return nil
}

// DeleteGoal removes a goal by ID.
func (l *Ledger) DeleteGoal(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, g := range l.goals {
		if g.ID == id {
			l.goals = append(l.goals[:i], l.goals[i+1:]...)
			if err := l.store.SaveGoals(l.goals); err != nil {
				return true, fmt.Errorf("ledger.DeleteGoal: %w", err)
			}
			return true, nil
		}
	}
	return false, nil
}

// Contribute adds amount to a goal's accumulated total and synthesizes
// the matching PAID expense transaction representing the diverted funds.
func (l *Ledger) Contribute(goalID string, amount float64) (domain.Goal, domain.Transaction, error) {
	if amount <= 0 {
		return domain.Goal{}, domain.Transaction{}, fmt.Errorf("ledger.Contribute: amount must be positive, got %v", amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, g := range l.goals {
		if g.ID == goalID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Goal{}, domain.Transaction{}, fmt.Errorf("ledger.Contribute: goal %q not found", goalID)
	}

	l.goals[idx].Current = decimal.NewFromFloat(l.goals[idx].Current).
		Add(decimal.NewFromFloat(amount)).InexactFloat64()
	goal := l.goals[idx]

	tx := domain.NewTransaction(
		fmt.Sprintf("Aceleração: %s", goal.Name),
		amount,
		domain.Expense,
		domain.CategoryGoalContribution,
	)
	tx.Status = domain.StatusPaid

	l.transactions = append([]domain.Transaction{tx}, l.transactions...)

	if err := l.store.SaveGoals(l.goals); err != nil {
		return goal, tx, fmt.Errorf("ledger.Contribute: %w", err)
	}
	if err := l.persistTransactions(); err != nil {
		return goal, tx, fmt.Errorf("ledger.Contribute: %w", err)
	}
	return goal, tx, nil
}

// Budget returns the monthly budget.
func (l *Ledger) Budget() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.budget
}

// SetBudget updates the monthly budget and re-arms the low-balance
// alert latch.
func (l *Ledger) SetBudget(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("ledger.SetBudget: budget must be non-negative, got %v", amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.budget = amount
	l.alertTriggered = false
	if err := l.store.SaveBudget(amount); err != nil {
		return fmt.Errorf("ledger.SetBudget: %w", err)
	}
	return nil
}

// LastView returns the persisted active view.
func (l *Ledger) LastView() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastView
}

// SetLastView persists the active view.
func (l *Ledger) SetLastView(view string) error {
	if !store.ValidView(view) {
		return fmt.Errorf("ledger.SetLastView: unknown view %q", view)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastView = view
	if err := l.store.SaveLastView(view); err != nil {
		return fmt.Errorf("ledger.SetLastView: %w", err)
	}
	return nil
}

// Summary recomputes the monthly summary. The first time the balance
// drops into the warning band a single low-balance notification fires;
// the latch re-arms only when the budget changes.
func (l *Ledger) Summary() domain.MonthlySummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := domain.Summarize(l.transactions, l.budget)
	if s.LowBalance(l.budget) && !l.alertTriggered {
		l.alertTriggered = true
		l.log.Warn().Float64("balance", s.Balance).Float64("budget", l.budget).Msg("Balance below 10% of budget")
		l.notify("Atenção: Saldo baixo!", "warning")
	}
	return s
}

// CategoryReport returns expense totals per category, largest first.
func (l *Ledger) CategoryReport() []domain.CategoryTotal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	totals := make(map[string]decimal.Decimal)
	for _, t := range l.transactions {
		if t.Type != domain.Expense {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(decimal.NewFromFloat(t.Amount))
	}

	out := make([]domain.CategoryTotal, 0, len(totals))
	for name, v := range totals {
		out = append(out, domain.CategoryTotal{Name: name, Value: v.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// persistTransactions writes the list through the store. Callers hold l.mu.
func (l *Ledger) persistTransactions() error {
	if err := l.store.SaveTransactions(l.transactions); err != nil {
		return fmt.Errorf("ledger: persisting transactions: %w", err)
	}
	return nil
}
