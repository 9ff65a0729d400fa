package advisor

import (
	"strings"
	"unicode"
)

// Shape is the classifier's decision of which request type to send to
// the external model.
type Shape string

const (
	// ShapeRecord maps to the add_transactions function declaration.
	ShapeRecord Shape = "record"
	// ShapeSimulate maps to grounded web search.
	ShapeSimulate Shape = "simulate"
	// ShapeAdvisory sends no tools; general reasoning only.
	ShapeAdvisory Shape = "advisory"
)

// Transactional verbs that signal a record intent. Portuguese first, since
// that is the application locale, with English equivalents.
var recordVerbs = []string{
	"ganhei", "gastei", "recebi", "paguei", "lance", "comprei",
	"received", "spent", "paid", "earned", "record", "bought",
}

// Purchase and price-inquiry markers that signal a simulation intent.
var simulateMarkers = []string{
	"se ", "comprar", "preço", "custo", "queria", "vale a pena",
	"pretendo", "posso",
	"buy", "price", "cost", "wanted", "worth it", "intend", "can i",
}

// Classify decides the request shape for the given raw input.
//
// Precedence is fixed as record > simulate > advisory: a sentence that
// records money movement must never be shadowed by an incidental price
// word, since the two shapes trigger materially different API behavior
// (structured write vs. free-text read).
func Classify(text string) Shape {
	p := strings.ToLower(strings.TrimSpace(text))
	if p == "" {
		return ShapeAdvisory
	}

	if containsDigit(p) || containsAny(p, recordVerbs) {
		return ShapeRecord
	}
	if containsAny(p, simulateMarkers) {
		return ShapeSimulate
	}
	return ShapeAdvisory
}

// ButtonLabel maps the classified shape to the action label shown on the
// command bar submit button.
func ButtonLabel(text string) string {
	switch Classify(text) {
	case ShapeRecord:
		return "Lançar"
	case ShapeSimulate:
		return "Simular"
	default:
		return "Analisar"
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
