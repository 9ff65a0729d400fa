// Package bigquery exports the local ledger to a BigQuery table for
// long-term analysis. The local JSON files stay the source of truth;
// the warehouse copy is append-only.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/monify-app/monify/internal/domain"
)

const transactionsTable = "transactions"

// TransactionRow represents a ledger transaction in BigQuery.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"`

	Description string  `bigquery:"description"`
	Amount      float64 `bigquery:"amount"`
	Type        string  `bigquery:"type"`
	Status      string  `bigquery:"status"`
	Category    string  `bigquery:"category"`

	TransactionDate civil.Date         `bigquery:"transaction_date"`
	DueDay          bigquery.NullInt64 `bigquery:"due_day"`
	IsRecurring     bool               `bigquery:"is_recurring"`

	ExportedTS time.Time `bigquery:"exported_ts"`
}

// RowFromTransaction converts a ledger transaction into its warehouse row.
func RowFromTransaction(t domain.Transaction, exportedAt time.Time) *TransactionRow {
	row := &TransactionRow{
		TransactionID:   t.ID,
		Description:     t.Description,
		Amount:          t.Amount,
		Type:            string(t.Type),
		Status:          string(t.Status),
		Category:        t.Category,
		TransactionDate: civil.DateOf(t.Date),
		IsRecurring:     t.IsRecurring,
		ExportedTS:      exportedAt,
	}
	if t.DueDay > 0 {
		row.DueDay = bigquery.NullInt64{Int64: int64(t.DueDay), Valid: true}
	}
	return row
}

// Exporter writes transaction rows into a BigQuery dataset.
type Exporter struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewExporter creates an exporter bound to the given project and dataset.
func NewExporter(ctx context.Context, projectID, datasetID string) (*Exporter, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewExporter: creating client: %w", err)
	}
	return &Exporter{client: client, projectID: projectID, datasetID: datasetID}, nil
}

// Close releases the underlying client.
func (e *Exporter) Close() error {
	return e.client.Close()
}

// InsertTransactions inserts a batch of rows into the transactions table.
func (e *Exporter) InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	table := e.client.DatasetInProject(e.projectID, e.datasetID).Table(transactionsTable)
	inserter := table.Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}

// ExportTransactions converts and inserts the full transaction list.
// Returns how many rows were written.
func (e *Exporter) ExportTransactions(ctx context.Context, transactions []domain.Transaction) (int, error) {
	now := time.Now().UTC()
	rows := make([]*TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, RowFromTransaction(t, now))
	}
	if err := e.InsertTransactions(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
