package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/monify-app/monify/internal/logger"
	"github.com/monify-app/monify/internal/notion"
	"github.com/monify-app/monify/internal/store"
)

func main() {
	// Initialize structured logger
	log := logger.New()
	_ = godotenv.Load()

	// Parse CLI flags
	notionToken := flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN)")
	notionDBID := flag.String("notion-db-id", os.Getenv("NOTION_DB_ID"), "Notion database ID (or set NOTION_DB_ID)")
	dataDir := flag.String("data-dir", "data", "Directory for the local JSON datasets")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	flag.Parse()

	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}

	st, err := store.New(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", *dataDir).Msg("Failed to open data directory")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	client := notion.NewClient(*notionToken)

	res, err := notion.SyncTransactions(ctx, client, *notionDBID, st.Transactions(), *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Printf("Sync completed: %d created, %d updated, %d archived (of %d).\n",
		res.Created, res.Updated, res.Deleted, res.Total)
}
