// Package handlers exposes the ledger, the AI command bar and the market
// ticker over HTTP. Handlers never hold ledger state of their own; all
// reads and writes go through the ledger's designated methods.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/monify-app/monify/internal/api/middleware"
	"github.com/monify-app/monify/internal/domain"
	"github.com/monify-app/monify/internal/ledger"
	"github.com/monify-app/monify/internal/ticker"
)

// Notification is one user-facing alert raised by the ledger, such as
// the low-balance warning.
type Notification struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

// NotificationBuffer collects ledger notifications until the client
// drains them.
type NotificationBuffer struct {
	mu      sync.Mutex
	pending []Notification
}

// Push implements ledger.NotifyFunc.
func (b *NotificationBuffer) Push(message, level string) {
	b.mu.Lock()
	b.pending = append(b.pending, Notification{Message: message, Level: level})
	b.mu.Unlock()
}

// Drain returns and clears the pending notifications.
func (b *NotificationBuffer) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(l *ledger.Ledger, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{ledger: l, log: log}
}

// List handles GET /api/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.ledger.Transactions())
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Category    string  `json:"category"`
		DueDay      int     `json:"dueDay"`
		IsRecurring bool    `json:"isRecurring"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Description is required")
		return
	}
	if req.Amount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}
	if !domain.ValidType(req.Type) {
		middleware.WriteError(w, http.StatusBadRequest, "Type must be INCOME or EXPENSE")
		return
	}

	typ := domain.TransactionType(req.Type)
	t := domain.NewTransaction(req.Description, req.Amount, typ, domain.CanonicalCategory(typ, req.Category))
	t.DueDay = req.DueDay
	t.IsRecurring = req.IsRecurring

	if err := h.ledger.SaveTransaction(t); err != nil {
		h.log.Error().Err(err).Msg("Failed to save transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, t)
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	found, err := h.ledger.DeleteTransaction(id)
	if err != nil {
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	if !found {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ToggleStatus handles PATCH /api/transactions/{id}/status
func (h *TransactionsHandler) ToggleStatus(w http.ResponseWriter, r *http.Request, id string) {
	t, found, err := h.ledger.ToggleStatus(id)
	if err != nil {
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to toggle status")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to toggle status")
		return
	}
	if !found {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, t)
}

// MarkRecurring handles POST /api/transactions/recurring
func (h *TransactionsHandler) MarkRecurring(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Description) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "description is required")
		return
	}

	n, err := h.ledger.MarkRecurring(req.Description)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to mark recurring")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to mark recurring")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]int{"updated": n})
}

// GoalsHandler handles goal endpoints.
type GoalsHandler struct {
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(l *ledger.Ledger, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{ledger: l, log: log}
}

// List handles GET /api/goals
func (h *GoalsHandler) List(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.ledger.Goals())
}

// Create handles POST /api/goals
func (h *GoalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string  `json:"name"`
		Type   string  `json:"type"`
		Target float64 `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Target <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Target must be positive")
		return
	}

	g := domain.NewGoal(req.Name, req.Type, req.Target)
	if err := h.ledger.SaveGoal(g); err != nil {
		h.log.Error().Err(err).Msg("Failed to save goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save goal")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, g)
}

// Delete handles DELETE /api/goals/{id}
func (h *GoalsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	found, err := h.ledger.DeleteGoal(id)
	if err != nil {
		h.log.Error().Err(err).Str("goal_id", id).Msg("Failed to delete goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}
	if !found {
		middleware.WriteError(w, http.StatusNotFound, "Goal not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Contribute handles POST /api/goals/{id}/contribute
func (h *GoalsHandler) Contribute(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	goal, tx, err := h.ledger.Contribute(id, req.Amount)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			middleware.WriteError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.log.Error().Err(err).Str("goal_id", id).Msg("Failed to contribute to goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to contribute to goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"goal":        goal,
		"transaction": tx,
	})
}

// BudgetHandler handles the monthly budget endpoints.
type BudgetHandler struct {
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(l *ledger.Ledger, log zerolog.Logger) *BudgetHandler {
	return &BudgetHandler{ledger: l, log: log}
}

// Get handles GET /api/budget
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]float64{"amount": h.ledger.Budget()})
}

// Update handles PUT /api/budget
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.ledger.SetBudget(req.Amount); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Budget must be non-negative")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]float64{"amount": req.Amount})
}

// SummaryHandler handles the derived monthly summary.
type SummaryHandler struct {
	ledger        *ledger.Ledger
	notifications *NotificationBuffer
	log           zerolog.Logger
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(l *ledger.Ledger, notifications *NotificationBuffer, log zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{ledger: l, notifications: notifications, log: log}
}

// Get handles GET /api/summary. Recomputing the summary is what arms and
// fires the low-balance notification, so pending notifications ride along.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary := h.ledger.Summary()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary":       summary,
		"notifications": h.notifications.Drain(),
	})
}

// ReportsHandler handles the analytics report endpoints.
type ReportsHandler struct {
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(l *ledger.Ledger, log zerolog.Logger) *ReportsHandler {
	return &ReportsHandler{ledger: l, log: log}
}

// Categories handles GET /api/reports/categories
func (h *ReportsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	report := h.ledger.CategoryReport()

	total := decimal.Zero
	for _, row := range report {
		total = total.Add(decimal.NewFromFloat(row.Value))
	}

	utilization := 0.0
	if budget := h.ledger.Budget(); budget > 0 {
		utilization = total.Div(decimal.NewFromFloat(budget)).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories":  report,
		"total":       total.InexactFloat64(),
		"utilization": utilization,
	})
}

// ViewHandler persists the last active application view.
type ViewHandler struct {
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// NewViewHandler creates a new view handler.
func NewViewHandler(l *ledger.Ledger, log zerolog.Logger) *ViewHandler {
	return &ViewHandler{ledger: l, log: log}
}

// Get handles GET /api/view
func (h *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"view": h.ledger.LastView()})
}

// Update handles PUT /api/view
func (h *ViewHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.ledger.SetLastView(req.View); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown view")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"view": req.View})
}

// TickerHandler serves the simulated market quotes.
type TickerHandler struct {
	ticker *ticker.Ticker
	log    zerolog.Logger
}

// NewTickerHandler creates a new ticker handler.
func NewTickerHandler(t *ticker.Ticker, log zerolog.Logger) *TickerHandler {
	return &TickerHandler{ticker: t, log: log}
}

// Get handles GET /api/ticker
func (h *TickerHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.ticker.Quotes())
}
