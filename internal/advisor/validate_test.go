package advisor

import (
	"testing"

	"github.com/monify-app/monify/internal/domain"
)

func item(desc string, amount interface{}, typ, category string) map[string]interface{} {
	m := map[string]interface{}{
		"description": desc,
		"amount":      amount,
		"type":        typ,
	}
	if category != "" {
		m["category"] = category
	}
	return m
}

func TestDecodeAddTransactions(t *testing.T) {
	args := map[string]interface{}{
		"items": []interface{}{
			item("Salário", 5000.0, "INCOME", "Salário"),
			item("Mercado", 120.5, "EXPENSE", "Mercado"),
		},
	}

	txs, err := decodeAddTransactions(args)
	if err != nil {
		t.Fatalf("decodeAddTransactions() error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("decoded %d, want 2", len(txs))
	}

	if txs[0].Status != domain.StatusPaid {
		t.Errorf("income status = %s, want PAID", txs[0].Status)
	}
	if txs[1].Status != domain.StatusPending {
		t.Errorf("expense status = %s, want PENDING", txs[1].Status)
	}
	if txs[0].ID == txs[1].ID || txs[0].ID == "" {
		t.Error("decoded transactions must get fresh distinct IDs")
	}
}

func TestDecodeAddTransactionsUnknownCategory(t *testing.T) {
	args := map[string]interface{}{
		"items": []interface{}{item("Aposta", 50.0, "EXPENSE", "Jogos de Azar")},
	}

	txs, err := decodeAddTransactions(args)
	if err != nil {
		t.Fatalf("decodeAddTransactions() error: %v", err)
	}
	if txs[0].Category != domain.CategoryOther {
		t.Errorf("category = %q, want %q", txs[0].Category, domain.CategoryOther)
	}
}

func TestDecodeAddTransactionsRejectsBatch(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing items", map[string]interface{}{}},
		{"items not array", map[string]interface{}{"items": "nope"}},
		{"empty items", map[string]interface{}{"items": []interface{}{}}},
		{"item not object", map[string]interface{}{"items": []interface{}{"nope"}}},
		{"missing description", map[string]interface{}{"items": []interface{}{
			map[string]interface{}{"amount": 10.0, "type": "EXPENSE"},
		}}},
		{"empty description", map[string]interface{}{"items": []interface{}{
			item("  ", 10.0, "EXPENSE", ""),
		}}},
		{"zero amount", map[string]interface{}{"items": []interface{}{
			item("Café", 0.0, "EXPENSE", ""),
		}}},
		{"negative amount", map[string]interface{}{"items": []interface{}{
			item("Café", -5.0, "EXPENSE", ""),
		}}},
		{"amount wrong type", map[string]interface{}{"items": []interface{}{
			item("Café", "dez", "EXPENSE", ""),
		}}},
		{"unknown type", map[string]interface{}{"items": []interface{}{
			item("Café", 10.0, "TRANSFER", ""),
		}}},
		{"one bad item rejects all", map[string]interface{}{"items": []interface{}{
			item("Válido", 10.0, "EXPENSE", "Mercado"),
			item("Inválido", -1.0, "EXPENSE", "Mercado"),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := decodeAddTransactions(tt.args)
			if err == nil {
				t.Fatalf("decodeAddTransactions() accepted invalid input, got %d transactions", len(txs))
			}
			if !IsValidationError(err) {
				t.Errorf("error %v is not a ValidationError", err)
			}
			if txs != nil {
				t.Error("rejected batch must not return partial transactions")
			}
		})
	}
}
