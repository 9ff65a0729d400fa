package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/monify-app/monify/internal/export/bigquery"
	"github.com/monify-app/monify/internal/logger"
	"github.com/monify-app/monify/internal/store"
)

func main() {
	// Initialize structured logger
	log := logger.New()
	_ = godotenv.Load()

	// Parse CLI flags
	projectID := flag.String("project", os.Getenv("MONIFY_BQ_PROJECT"), "GCP project ID (or set MONIFY_BQ_PROJECT)")
	datasetID := flag.String("dataset", "monify", "BigQuery dataset ID")
	dataDir := flag.String("data-dir", "data", "Directory for the local JSON datasets")
	flag.Parse()

	if *projectID == "" {
		log.Fatal().Msg("Error: --project is required")
	}

	st, err := store.New(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", *dataDir).Msg("Failed to open data directory")
	}

	transactions := st.Transactions()
	if len(transactions) == 0 {
		fmt.Println("Nothing to export.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("project", *projectID).
		Str("dataset", *datasetID).
		Int("transaction_count", len(transactions)).
		Msg("Starting BigQuery export")

	exporter, err := bigquery.NewExporter(ctx, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exporter")
	}
	defer exporter.Close()

	n, err := exporter.ExportTransactions(ctx, transactions)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Exported %d transaction(s) to %s.%s.transactions\n", n, *projectID, *datasetID)
}
