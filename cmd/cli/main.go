package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/monify-app/monify/internal/advisor"
	"github.com/monify-app/monify/internal/backup"
	"github.com/monify-app/monify/internal/domain"
	"github.com/monify-app/monify/internal/ledger"
	"github.com/monify-app/monify/internal/logger"
	"github.com/monify-app/monify/internal/store"
)

func main() {
	log := logger.New()
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ask":
		runAsk(log)
	case "add":
		runAdd(log)
	case "list":
		runList(log)
	case "summary":
		runSummary(log)
	case "backup":
		runBackup(log)
	case "restore":
		runRestore(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Monify CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ask       Run a natural-language command through the AI advisor")
	fmt.Println("  add       Record a transaction directly")
	fmt.Println("  list      List transactions")
	fmt.Println("  summary   Show the monthly summary")
	fmt.Println("  backup    Upload a snapshot of the local data to GCS")
	fmt.Println("  restore   Restore the local data from a GCS snapshot")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func openLedger(log zerolog.Logger, dataDir string) *ledger.Ledger {
	st, err := store.New(dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", dataDir).Msg("Failed to open data directory")
	}
	return ledger.New(st, log)
}

func dataDirFlag(fs *flag.FlagSet) *string {
	dir := os.Getenv("MONIFY_DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	return fs.String("data-dir", dir, "Directory for the local JSON datasets")
}

func runAsk(log zerolog.Logger) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	dataDir := dataDirFlag(fs)
	fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		log.Fatal().Msg("Usage: cli ask [options] \"<prompt>\"")
	}
	prompt := fs.Arg(0)

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("Error: GEMINI_API_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	led := openLedger(log, *dataDir)

	dispatcher, err := advisor.NewDispatcher(ctx, apiKey, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create AI dispatcher")
	}

	fmt.Printf("[%s]\n", advisor.ButtonLabel(prompt))

	result, err := dispatcher.Dispatch(ctx, prompt, advisor.Snapshot{
		Transactions: led.Transactions(),
		Budget:       led.Budget(),
		Goals:        led.Goals(),
	})
	if err != nil {
		if advisor.IsValidationError(err) {
			log.Fatal().Err(err).Msg("Não consegui entender o lançamento. Tente reformular.")
		}
		log.Fatal().Err(err).Msg("Command failed")
	}

	if len(result.Recorded) > 0 {
		if err := led.MergeTransactions(result.Recorded); err != nil {
			log.Fatal().Err(err).Msg("Failed to persist recorded transactions")
		}
	}

	fmt.Println(result.Message)
	for _, c := range result.Citations {
		fmt.Printf("  fonte: %s (%s)\n", c.Title, c.URI)
	}
}

func runAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	dataDir := dataDirFlag(fs)
	description := fs.String("description", "", "Transaction description")
	amount := fs.Float64("amount", 0, "Transaction amount (positive)")
	txType := fs.String("type", "EXPENSE", "Transaction type: INCOME or EXPENSE")
	category := fs.String("category", "", "Category (defaults to Outros)")
	fs.Parse(os.Args[2:])

	if *description == "" || *amount <= 0 {
		log.Fatal().Msg("Usage: cli add -description TEXT -amount N [-type INCOME|EXPENSE] [-category NAME]")
	}
	if !domain.ValidType(*txType) {
		log.Fatal().Str("type", *txType).Msg("Error: type must be INCOME or EXPENSE")
	}

	led := openLedger(log, *dataDir)

	typ := domain.TransactionType(*txType)
	t := domain.NewTransaction(*description, *amount, typ, domain.CanonicalCategory(typ, *category))
	if err := led.SaveTransaction(t); err != nil {
		log.Fatal().Err(err).Msg("Failed to save transaction")
	}

	fmt.Printf("Recorded %s: %s (%s)\n", t.Type, t.Description, t.Category)
}

func runList(log zerolog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dataDir := dataDirFlag(fs)
	private := fs.Bool("private", false, "Mask amounts")
	limit := fs.Int("limit", 20, "Maximum number of transactions to show")
	fs.Parse(os.Args[2:])

	led := openLedger(log, *dataDir)

	transactions := led.Transactions()
	if *limit > 0 && len(transactions) > *limit {
		transactions = transactions[:*limit]
	}

	for _, t := range transactions {
		marker := "-"
		if t.Type == domain.Income {
			marker = "+"
		}
		fmt.Printf("%s  %s%s  %-10s %-20s %s\n",
			t.Date.Format("2006-01-02"), marker, formatAmount(t.Amount, *private),
			t.Status, t.Category, t.Description)
	}
	fmt.Printf("\n%d transaction(s)\n", len(transactions))
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	dataDir := dataDirFlag(fs)
	private := fs.Bool("private", false, "Mask amounts")
	fs.Parse(os.Args[2:])

	led := openLedger(log, *dataDir)
	s := led.Summary()

	fmt.Printf("Orçamento:  %s\n", formatAmount(led.Budget(), *private))
	fmt.Printf("Receitas:   %s\n", formatAmount(s.TotalIncome, *private))
	fmt.Printf("Despesas:   %s\n", formatAmount(s.TotalExpense, *private))
	fmt.Printf("Pendentes:  %s\n", formatAmount(s.PendingExpense, *private))
	fmt.Printf("Saldo:      %s\n", formatAmount(s.Balance, *private))
}

func runBackup(log zerolog.Logger) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	dataDir := dataDirFlag(fs)
	bucket := fs.String("bucket", os.Getenv("MONIFY_GCS_BUCKET"), "GCS bucket name (or set MONIFY_GCS_BUCKET)")
	fs.Parse(os.Args[2:])

	if *bucket == "" {
		log.Fatal().Msg("Usage: cli backup -bucket NAME")
	}

	st, err := store.New(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", *dataDir).Msg("Failed to open data directory")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	objectName, err := backup.Upload(ctx, st, *bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Backup failed")
	}

	fmt.Printf("Uploaded snapshot to gs://%s/%s\n", *bucket, objectName)
}

func runRestore(log zerolog.Logger) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	dataDir := dataDirFlag(fs)
	bucket := fs.String("bucket", os.Getenv("MONIFY_GCS_BUCKET"), "GCS bucket name (or set MONIFY_GCS_BUCKET)")
	object := fs.String("object", "", "Snapshot object name")
	fs.Parse(os.Args[2:])

	if *bucket == "" || *object == "" {
		log.Fatal().Msg("Usage: cli restore -bucket NAME -object PATH")
	}

	st, err := store.New(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", *dataDir).Msg("Failed to open data directory")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	if err := backup.Download(ctx, st, *bucket, *object); err != nil {
		log.Fatal().Err(err).Msg("Restore failed")
	}

	fmt.Printf("Restored snapshot gs://%s/%s into %s\n", *bucket, *object, *dataDir)
}

// formatAmount renders a money value, masked in privacy mode.
func formatAmount(v float64, private bool) string {
	if private {
		return "R$ ••••••"
	}
	return fmt.Sprintf("R$ %.2f", v)
}
