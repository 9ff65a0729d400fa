package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/monify-app/monify/internal/domain"
	"github.com/monify-app/monify/internal/logger"
)

// SyncResult summarizes one sync run.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Total   int
}

// SyncTransactions mirrors the ledger's transaction list into a Notion
// database. Pages are matched on the ID property; stale pages are
// archived, existing ones updated in place. dryRun logs the plan
// without touching Notion.
func SyncTransactions(ctx context.Context, svc Service, databaseID string, transactions []domain.Transaction, dryRun bool) (SyncResult, error) {
	log := logger.FromContext(ctx)
	var res SyncResult
	res.Total = len(transactions)

	log.Info().
		Bool("dry_run", dryRun).
		Int("transaction_count", len(transactions)).
		Msg("Starting transaction sync to Notion")

	valid := make(map[string]bool, len(transactions))
	for _, t := range transactions {
		valid[t.ID] = true
	}

	pages, err := queryAllPages(ctx, svc, databaseID)
	if err != nil {
		return res, fmt.Errorf("SyncTransactions: %w", err)
	}

	log.Info().Int("notion_page_count", len(pages)).Msg("Retrieved existing Notion pages")

	// Page ID per transaction ID, for in-place updates.
	existing := make(map[string]string, len(pages))
	for _, page := range pages {
		txID := extractTransactionID(page)

		if txID == "" || !valid[txID] {
			if dryRun {
				log.Info().
					Str("transaction_id", txID).
					Str("page_id", string(page.ID)).
					Msg("[DRY RUN] Would archive stale Notion page")
				res.Deleted++
				continue
			}
			if err := svc.DeletePage(ctx, string(page.ID)); err != nil {
				log.Warn().
					Err(err).
					Str("transaction_id", txID).
					Str("page_id", string(page.ID)).
					Msg("Failed to archive stale Notion page")
				continue
			}
			res.Deleted++
			continue
		}
		existing[txID] = string(page.ID)
	}

	for _, t := range transactions {
		props := TransactionToProperties(t)
		pageID, known := existing[t.ID]

		if dryRun {
			if known {
				res.Updated++
			} else {
				res.Created++
			}
			continue
		}

		if known {
			if _, err := svc.UpdatePage(ctx, pageID, props); err != nil {
				log.Warn().
					Err(err).
					Str("transaction_id", t.ID).
					Str("page_id", pageID).
					Msg("Failed to update Notion page")
				continue
			}
			res.Updated++
			continue
		}

		page, err := svc.CreatePage(ctx, databaseID, props)
		if err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", t.ID).
				Msg("Failed to create Notion page")
			continue
		}
		log.Debug().
			Str("transaction_id", t.ID).
			Str("page_id", string(page.ID)).
			Msg("Created Notion page")
		res.Created++
	}

	log.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("deleted", res.Deleted).
		Int("total", res.Total).
		Msg("Transaction sync completed")

	return res, nil
}

// queryAllPages pages through the whole database.
func queryAllPages(ctx context.Context, svc Service, databaseID string) ([]notionapi.Page, error) {
	var all []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := svc.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllPages: %w", err)
		}

		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return all, nil
}
