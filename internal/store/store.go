// Package store persists the ledger datasets as JSON files, one file per
// logical dataset. Reads fail open: a missing or corrupted file yields the
// dataset's default rather than an error, so a damaged data directory never
// locks the user out of the application.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/monify-app/monify/internal/domain"
)

const (
	transactionsFile = "monify_data_v2_main.json"
	backupFile       = "monify_data_v2_backup.json"
	budgetFile       = "monify_budget_v2.json"
	goalsFile        = "monify_goals_v2.json"
	viewFile         = "monify_view_v2.json"
)

// DefaultBudget is the monthly budget used before the user sets one.
const DefaultBudget = 12816

// Known application views for the persisted last-view dataset.
const (
	ViewDashboard = "DASHBOARD"
	ViewBudget    = "BUDGET"
	ViewExpenses  = "EXPENSES"
	ViewReports   = "REPORTS"
)

// ValidView reports whether v names a known application view.
func ValidView(v string) bool {
	switch v {
	case ViewDashboard, ViewBudget, ViewExpenses, ViewReports:
		return true
	}
	return false
}

// Store is a file-backed key-value store for the ledger datasets.
// It is safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store.New: creating data dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}

// Transactions loads the transaction list. When the primary file is
// missing but the mirrored backup exists, the backup is promoted back to
// primary and returned.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []domain.Transaction
	if readJSON(s.path(transactionsFile), &txs) {
		return txs
	}

	// Primary missing or unreadable; try the mirror.
	txs = nil
	if readJSON(s.path(backupFile), &txs) {
		_ = writeJSON(s.path(transactionsFile), txs)
		return txs
	}

	return []domain.Transaction{}
}

// SaveTransactions writes the transaction list to the primary file and
// its mirrored backup.
func (s *Store) SaveTransactions(txs []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.path(transactionsFile), txs); err != nil {
		return fmt.Errorf("store.SaveTransactions: %w", err)
	}
	if err := writeJSON(s.path(backupFile), txs); err != nil {
		return fmt.Errorf("store.SaveTransactions: mirror: %w", err)
	}
	return nil
}

// Budget loads the monthly budget, falling back to DefaultBudget.
func (s *Store) Budget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(budgetFile))
	if err != nil {
		return DefaultBudget
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return DefaultBudget
	}
	return v
}

// SaveBudget persists the monthly budget.
func (s *Store) SaveBudget(amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path(budgetFile), []byte(strconv.FormatFloat(amount, 'f', -1, 64))); err != nil {
		return fmt.Errorf("store.SaveBudget: %w", err)
	}
	return nil
}

// Goals loads the goal list, seeding the defaults on first run.
func (s *Store) Goals() []domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var goals []domain.Goal
	if readJSON(s.path(goalsFile), &goals) {
		return goals
	}
	return domain.DefaultGoals()
}

// SaveGoals persists the goal list.
func (s *Store) SaveGoals(goals []domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.path(goalsFile), goals); err != nil {
		return fmt.Errorf("store.SaveGoals: %w", err)
	}
	return nil
}

// LastView loads the last active view, or fallback when unset or invalid.
func (s *Store) LastView(fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(viewFile))
	if err != nil {
		return fallback
	}
	v := string(data)
	if !ValidView(v) {
		return fallback
	}
	return v
}

// SaveLastView persists the last active view.
func (s *Store) SaveLastView(view string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path(viewFile), []byte(view)); err != nil {
		return fmt.Errorf("store.SaveLastView: %w", err)
	}
	return nil
}

// Snapshot bundles every dataset into a single JSON document, suitable
// for cloud backup.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(map[string]json.RawMessage)
	for _, name := range []string{transactionsFile, backupFile, budgetFile, goalsFile, viewFile} {
		data, err := os.ReadFile(s.path(name))
		if err != nil {
			continue
		}
		if name == budgetFile || name == viewFile {
			// Scalar datasets are stored raw; quote them for the bundle.
			data, err = json.Marshal(string(data))
			if err != nil {
				continue
			}
		}
		snap[name] = data
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("store.Snapshot: %w", err)
	}
	return out, nil
}

// RestoreSnapshot writes every dataset found in a snapshot bundle back
// into the data directory.
func (s *Store) RestoreSnapshot(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap map[string]json.RawMessage
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("store.RestoreSnapshot: decoding bundle: %w", err)
	}

	for name, raw := range snap {
		content := []byte(raw)
		if name == budgetFile || name == viewFile {
			var scalar string
			if err := json.Unmarshal(raw, &scalar); err != nil {
				return fmt.Errorf("store.RestoreSnapshot: dataset %q: %w", name, err)
			}
			content = []byte(scalar)
		}
		if err := writeFileAtomic(s.path(filepath.Base(name)), content); err != nil {
			return fmt.Errorf("store.RestoreSnapshot: dataset %q: %w", name, err)
		}
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readJSON reports whether the file existed and decoded cleanly.
func readJSON(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes via a temp file and rename so a crash mid-write
// never leaves a truncated dataset.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
