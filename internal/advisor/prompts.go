package advisor

import (
	"fmt"
	"strings"

	"github.com/monify-app/monify/internal/domain"
)

// systemInstruction builds the fixed advisor persona. The model must be
// concise, use bullets, bold monetary values and always close with a
// verdict.
func systemInstruction(balance float64) string {
	return fmt.Sprintf(`Você é o Monify Advisor. Seja EXTREMAMENTE conciso e direto.

ESTILO DE RESPOSTA:
- Use Bullet Points (•) para listar opções ou dados.
- Não escreva parágrafos longos. Seja telegráfico se necessário.
- Limite sua resposta a no máximo 150-200 palavras.
- Destaque valores em **negrito**.

Habilidades:
1. ANALISAR GASTOS: Foque no impacto real no saldo de R$ %.2f.
2. BUSCAR PREÇOS: Use Google Search para preços reais. Liste apenas as 3 melhores opções.
3. SIMULAR: Diga exatamente quantos %% do saldo a compra representa.
4. LANÇAR: Use add_transactions para registros.

Veredito Final: Sempre termine com uma frase curta de "Pode comprar", "Melhor esperar" ou "Lançado".`, balance)
}

// categoriesPrompt lists the fixed taxonomy so the model only ever emits
// official category names.
func categoriesPrompt() string {
	var b strings.Builder
	b.WriteString("Use SOMENTE as categorias oficiais abaixo.\n\n")

	b.WriteString("Categorias de RECEITA (INCOME):\n")
	for _, c := range domain.IncomeCategories {
		b.WriteString("  - " + c + "\n")
	}
	b.WriteString("\nCategorias de DESPESA (EXPENSE):\n")
	for _, c := range domain.ExpenseCategories {
		b.WriteString("  - " + c + "\n")
	}

	b.WriteString("\nREGRAS:\n")
	b.WriteString("1. A categoria deve ser EXATAMENTE um dos nomes acima.\n")
	b.WriteString("2. Em caso de dúvida, use \"Outros\".\n")

	return b.String()
}

// suggestionsPrompt asks for the {travel, invest} JSON pair used by the
// dashboard suggestion card.
func suggestionsPrompt(balance float64) string {
	return fmt.Sprintf(`Analise um saldo disponível de R$ %.2f.
Retorne um JSON com:
- "travel": Uma frase curta sugerindo uma viagem ou lazer acessível.
- "invest": Uma frase curta sugerindo um tipo de investimento para este valor.
Linguagem motivadora.`, balance)
}
