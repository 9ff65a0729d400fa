package advisor

import (
	"fmt"
	"strings"

	"github.com/monify-app/monify/internal/domain"
)

// decodeAddTransactions converts the untyped add_transactions arguments
// into domain transactions. The decode is all-or-nothing: one invalid
// item rejects the whole batch so a partial write never happens.
//
// Each decoded transaction gets a fresh ID and the current timestamp.
// Status collapses to PAID for income and PENDING for expenses; unknown
// categories fall back to "Outros".
func decodeAddTransactions(args map[string]interface{}) ([]domain.Transaction, error) {
	itemsAny, ok := args["items"]
	if !ok {
		return nil, &ValidationError{Reason: "missing 'items'"}
	}
	itemsSlice, ok := itemsAny.([]interface{})
	if !ok {
		return nil, &ValidationError{Reason: fmt.Sprintf("'items' is %T, want array", itemsAny)}
	}
	if len(itemsSlice) == 0 {
		return nil, &ValidationError{Reason: "'items' is empty"}
	}

	result := make([]domain.Transaction, 0, len(itemsSlice))
	for i, itemAny := range itemsSlice {
		obj, ok := itemAny.(map[string]interface{})
		if !ok {
			return nil, &ValidationError{Reason: fmt.Sprintf("item %d is %T, want object", i, itemAny)}
		}

		desc, err := getStringField(obj, "description")
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("item %d: %v", i, err)}
		}
		amount, err := getNumberField(obj, "amount")
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("item %d: %v", i, err)}
		}
		if amount <= 0 {
			return nil, &ValidationError{Reason: fmt.Sprintf("item %d: amount must be positive, got %v", i, amount)}
		}
		typStr, err := getStringField(obj, "type")
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("item %d: %v", i, err)}
		}
		if !domain.ValidType(typStr) {
			return nil, &ValidationError{Reason: fmt.Sprintf("item %d: unknown type %q", i, typStr)}
		}
		typ := domain.TransactionType(typStr)

		// Category is soft-validated: anything outside the taxonomy
		// becomes "Outros" rather than failing the batch.
		rawCategory, _ := obj["category"].(string)
		category := domain.CanonicalCategory(typ, rawCategory)

		result = append(result, domain.NewTransaction(desc, amount, typ, category))
	}

	return result, nil
}

func getStringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("required field %q is empty", key)
	}
	return s, nil
}

func getNumberField(m map[string]interface{}, key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing required field %q", key)
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from JSON decoding, but harmless to support
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
