package domain

import "strings"

// Category assigned when the model returns something outside the taxonomy.
const CategoryOther = "Outros"

// Category used for the expense synthesized by a goal contribution.
const CategoryGoalContribution = "Lazer/Viagens"

// IncomeCategories is the fixed taxonomy for income transactions.
var IncomeCategories = []string{
	"Salário",
	"Freelance",
	"Investimentos",
	"Reembolso",
	"Presente/Prêmio",
	"Venda de Ativos",
	"Outros",
}

// ExpenseCategories is the fixed taxonomy for expense transactions.
var ExpenseCategories = []string{
	"Aluguel/Moradia",
	"Luz e Água",
	"Internet/Telefone",
	"Alimentação",
	"Mercado",
	"Transporte/Combustível",
	"Saúde/Farmácia",
	"Educação",
	"Lazer/Viagens",
	"Assinaturas/Streaming",
	"Vestuário",
	"Manutenção Casa",
	"Impostos/Taxas",
	"Outros",
}

// CategoriesFor returns the taxonomy that applies to the given type.
func CategoriesFor(typ TransactionType) []string {
	if typ == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

// ValidCategory reports whether name belongs to the taxonomy for typ.
// Comparison is case-insensitive and ignores surrounding whitespace.
func ValidCategory(typ TransactionType, name string) bool {
	norm := normalizeCategory(name)
	for _, c := range CategoriesFor(typ) {
		if normalizeCategory(c) == norm {
			return true
		}
	}
	return false
}

// CanonicalCategory returns the taxonomy spelling for name, or
// CategoryOther when the name is unknown or empty.
func CanonicalCategory(typ TransactionType, name string) string {
	norm := normalizeCategory(name)
	if norm == "" {
		return CategoryOther
	}
	for _, c := range CategoriesFor(typ) {
		if normalizeCategory(c) == norm {
			return c
		}
	}
	return CategoryOther
}

func normalizeCategory(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
