package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/monify-app/monify/internal/advisor"
	"github.com/monify-app/monify/internal/api/middleware"
	"github.com/monify-app/monify/internal/ledger"
)

// CommandHandler runs natural-language commands through the advisor and
// applies any recorded transactions to the ledger. Only one command runs
// at a time; concurrent submissions get a 409.
type CommandHandler struct {
	ledger     *ledger.Ledger
	dispatcher *advisor.Dispatcher
	busy       atomic.Bool
	log        zerolog.Logger
}

// NewCommandHandler creates a new command handler. dispatcher may be nil
// when no API key is configured; the endpoint then answers 503.
func NewCommandHandler(l *ledger.Ledger, d *advisor.Dispatcher, log zerolog.Logger) *CommandHandler {
	return &CommandHandler{ledger: l, dispatcher: d, log: log}
}

// Execute handles POST /api/command
func (h *CommandHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Assistente indisponível: chave de API não configurada.")
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	if !h.busy.CompareAndSwap(false, true) {
		middleware.WriteError(w, http.StatusConflict, "Um comando já está em execução.")
		return
	}
	defer h.busy.Store(false)

	snap := advisor.Snapshot{
		Transactions: h.ledger.Transactions(),
		Budget:       h.ledger.Budget(),
		Goals:        h.ledger.Goals(),
	}

	result, err := h.dispatcher.Dispatch(r.Context(), req.Prompt, snap)
	if err != nil {
		h.writeDispatchError(w, req.Prompt, err)
		return
	}

	if len(result.Recorded) > 0 {
		if err := h.ledger.MergeTransactions(result.Recorded); err != nil {
			h.log.Error().Err(err).Msg("Failed to persist recorded transactions")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to persist transactions")
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// writeDispatchError maps advisor failures onto the responses the client
// acts on. Validation problems ask the user to rephrase and keep the
// prompt in the input; everything else gets the generic retry message.
func (h *CommandHandler) writeDispatchError(w http.ResponseWriter, prompt string, err error) {
	if advisor.IsValidationError(err) {
		h.log.Warn().Err(err).Msg("Command rejected by validation")
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":       "Não consegui entender o lançamento. Tente reformular.",
			"clearPrompt": false,
		})
		return
	}

	if advisor.IsQuotaExceeded(err) {
		h.log.Warn().Err(err).Msg("Command failed: quota exhausted after retries")
	} else {
		h.log.Error().Err(err).Msg("Command failed")
	}
	middleware.WriteJSON(w, http.StatusBadGateway, map[string]interface{}{
		"error":       "Tente novamente em breve.",
		"clearPrompt": false,
	})
}

// Label handles GET /api/command/label?q=...
// It returns the action button caption for what the user typed so far.
func (h *CommandHandler) Label(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"label": advisor.ButtonLabel(q),
		"shape": string(advisor.Classify(q)),
	})
}

// SuggestionsHandler serves the AI spending suggestions and the
// recurring-expense candidates.
type SuggestionsHandler struct {
	ledger     *ledger.Ledger
	dispatcher *advisor.Dispatcher
	log        zerolog.Logger
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(l *ledger.Ledger, d *advisor.Dispatcher, log zerolog.Logger) *SuggestionsHandler {
	return &SuggestionsHandler{ledger: l, dispatcher: d, log: log}
}

// Get handles GET /api/suggestions. Model failures fall back to the
// canned copy; the endpoint never errors on the model's account.
func (h *SuggestionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary := h.ledger.Summary()

	suggestions := advisor.FallbackSuggestions()
	if h.dispatcher != nil && summary.Balance > 0 {
		got, err := h.dispatcher.SmartSuggestions(r.Context(), summary.Balance)
		if err != nil {
			h.log.Warn().Err(err).Msg("Smart suggestions unavailable, using fallback")
		} else {
			suggestions = got
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"recurring":   advisor.RecurringCandidates(h.ledger.Transactions()),
	})
}
