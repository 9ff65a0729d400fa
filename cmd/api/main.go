package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/monify-app/monify/internal/advisor"
	"github.com/monify-app/monify/internal/api/handlers"
	"github.com/monify-app/monify/internal/api/middleware"
	"github.com/monify-app/monify/internal/ledger"
	"github.com/monify-app/monify/internal/logger"
	"github.com/monify-app/monify/internal/store"
	"github.com/monify-app/monify/internal/ticker"
)

func main() {
	// Parse command-line flags
	var (
		port    = flag.String("port", "8080", "HTTP server port")
		dataDir = flag.String("data-dir", defaultDataDir(), "Directory for the local JSON datasets")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	// .env is optional; environment variables win
	_ = godotenv.Load()

	ctx := context.Background()

	st, err := store.New(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", *dataDir).Msg("Failed to open data directory")
	}

	led := ledger.New(st, log)
	notifications := &handlers.NotificationBuffer{}
	led.SetNotifier(notifications.Push)

	// The assistant is optional; without a key the command endpoint
	// answers 503 and everything else keeps working.
	var dispatcher *advisor.Dispatcher
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		dispatcher, err = advisor.NewDispatcher(ctx, apiKey, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create AI dispatcher")
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set - AI command bar disabled")
	}

	// Market ticker
	tickerCtx, cancelTicker := context.WithCancel(ctx)
	defer cancelTicker()

	tk := ticker.New(5*time.Second, log)
	tk.Start(tickerCtx)

	// Initialize handlers
	sessions := handlers.NewSessions()
	authHandler := handlers.NewAuthHandler(sessions, log)
	transactionsHandler := handlers.NewTransactionsHandler(led, log)
	goalsHandler := handlers.NewGoalsHandler(led, log)
	budgetHandler := handlers.NewBudgetHandler(led, log)
	summaryHandler := handlers.NewSummaryHandler(led, notifications, log)
	reportsHandler := handlers.NewReportsHandler(led, log)
	viewHandler := handlers.NewViewHandler(led, log)
	tickerHandler := handlers.NewTickerHandler(tk, log)
	commandHandler := handlers.NewCommandHandler(led, dispatcher, log)
	suggestionsHandler := handlers.NewSuggestionsHandler(led, dispatcher, log)

	// Create router
	mux := http.NewServeMux()

	// Session endpoints
	mux.HandleFunc("/api/login", middleware.Method(http.MethodPost, authHandler.Login))
	mux.HandleFunc("/api/logout", middleware.Method(http.MethodPost, authHandler.Logout))

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.List(w, r)
		case http.MethodPost:
			transactionsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/recurring", middleware.Method(http.MethodPost, transactionsHandler.MarkRecurring))

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/transactions/")

		if id, ok := strings.CutSuffix(rest, "/status"); ok && id != "" {
			if r.Method != http.MethodPatch {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			transactionsHandler.ToggleStatus(w, r, id)
			return
		}

		if rest == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		if r.Method != http.MethodDelete {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		transactionsHandler.Delete(w, r, rest)
	})

	// Goals endpoints
	mux.HandleFunc("/api/goals", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			goalsHandler.List(w, r)
		case http.MethodPost:
			goalsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/goals/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/goals/")

		if id, ok := strings.CutSuffix(rest, "/contribute"); ok && id != "" {
			if r.Method != http.MethodPost {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			goalsHandler.Contribute(w, r, id)
			return
		}

		if rest == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Goal ID is required")
			return
		}
		if r.Method != http.MethodDelete {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		goalsHandler.Delete(w, r, rest)
	})

	// Budget endpoints
	mux.HandleFunc("/api/budget", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			budgetHandler.Get(w, r)
		case http.MethodPut:
			budgetHandler.Update(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Summary and reports
	mux.HandleFunc("/api/summary", middleware.Method(http.MethodGet, summaryHandler.Get))
	mux.HandleFunc("/api/reports/categories", middleware.Method(http.MethodGet, reportsHandler.Categories))

	// View persistence
	mux.HandleFunc("/api/view", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			viewHandler.Get(w, r)
		case http.MethodPut:
			viewHandler.Update(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Market ticker
	mux.HandleFunc("/api/ticker", middleware.Method(http.MethodGet, tickerHandler.Get))

	// AI command bar
	mux.HandleFunc("/api/command", middleware.Method(http.MethodPost, commandHandler.Execute))
	mux.HandleFunc("/api/command/label", middleware.Method(http.MethodGet, commandHandler.Label))
	mux.HandleFunc("/api/suggestions", middleware.Method(http.MethodGet, suggestionsHandler.Get))

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(sessions)(mux),
				),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Str("data_dir", *dataDir).Msg("Starting Monify API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelTicker()
	tk.Stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func defaultDataDir() string {
	if dir := os.Getenv("MONIFY_DATA_DIR"); dir != "" {
		return dir
	}
	return "data"
}
