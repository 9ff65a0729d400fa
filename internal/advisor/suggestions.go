package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"

	"github.com/monify-app/monify/internal/domain"
)

// Suggestions is the {travel, invest} pair shown on the dashboard
// suggestion card.
type Suggestions struct {
	Travel string `json:"travel"`
	Invest string `json:"invest"`
}

// FallbackSuggestions is the canned copy used when the model call fails.
func FallbackSuggestions() Suggestions {
	return Suggestions{
		Travel: "Com este saldo, você pode planejar um jantar especial ou um passeio cultural local.",
		Invest: "Considere guardar este valor em uma reserva de emergência com liquidez diária.",
	}
}

// SmartSuggestions asks the model for personalized travel and investment
// one-liners for the given balance, using JSON response mode. Callers
// should fall back to FallbackSuggestions on error.
func (d *Dispatcher) SmartSuggestions(ctx context.Context, balance float64) (Suggestions, error) {
	if balance <= 0 {
		return Suggestions{}, fmt.Errorf("SmartSuggestions: non-positive balance %v", balance)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	contents := genai.Text(suggestionsPrompt(balance))

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := WithRetry(callCtx, d.retry, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return d.client.Models.GenerateContent(ctx, d.model, contents, config)
	})
	if err != nil {
		return Suggestions{}, fmt.Errorf("SmartSuggestions: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return Suggestions{}, fmt.Errorf("SmartSuggestions: empty response from model")
	}

	var s Suggestions
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &s); err != nil {
		return Suggestions{}, fmt.Errorf("SmartSuggestions: unmarshal JSON: %w", err)
	}
	return s, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the strict-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// Descriptions commonly belonging to fixed monthly costs; one occurrence
// is enough to suggest automating these.
var commonFixedNames = []string{
	"aluguel", "condomínio", "carro", "seguro", "cnpj", "contadora",
	"internet", "netflix", "spotify", "mercado",
}

// RecurringCandidates finds descriptions worth marking as fixed monthly
// entries: seen at least twice, or matching a common fixed-cost name.
// Already-recurring transactions are skipped. Returns at most two.
func RecurringCandidates(transactions []domain.Transaction) []string {
	counts := make(map[string]int)
	for _, t := range transactions {
		if t.IsRecurring {
			continue
		}
		counts[strings.ToLower(t.Description)]++
	}

	var names []string
	for name, count := range counts {
		if count >= 2 || matchesFixedName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]string, 0, 2)
	for _, name := range names {
		out = append(out, capitalize(name))
		if len(out) == 2 {
			break
		}
	}
	return out
}

func matchesFixedName(name string) bool {
	for _, fixed := range commonFixedNames {
		if strings.Contains(name, fixed) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
