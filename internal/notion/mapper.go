package notion

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/monify-app/monify/internal/domain"
)

// TransactionToProperties converts a ledger transaction to Notion
// properties. The Notion database needs these columns: Descrição
// (title), ID, Valor, Tipo, Status, Categoria, Data, Recorrente.
func TransactionToProperties(t domain.Transaction) notionapi.Properties {
	props := notionapi.Properties{
		"Descrição": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: t.Description,
					},
				},
			},
		},
		"ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: t.ID,
					},
				},
			},
		},
		"Valor": notionapi.NumberProperty{
			Number: t.Amount,
		},
		"Tipo": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(t.Type),
			},
		},
		"Status": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(t.Status),
			},
		},
		"Recorrente": notionapi.CheckboxProperty{
			Checkbox: t.IsRecurring,
		},
	}

	if t.Category != "" {
		props["Categoria"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: t.Category,
			},
		}
	}

	if !t.Date.IsZero() {
		props["Data"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					d := notionapi.Date(time.Date(
						t.Date.Year(), t.Date.Month(), t.Date.Day(),
						0, 0, 0, 0, time.UTC,
					))
					return &d
				}(),
			},
		}
	}

	return props
}

// extractTransactionID reads the ledger transaction ID back out of a
// Notion page's properties. Returns "" when the page lacks one.
func extractTransactionID(page notionapi.Page) string {
	if prop, ok := page.Properties["ID"]; ok {
		if richText, ok := prop.(*notionapi.RichTextProperty); ok {
			if len(richText.RichText) > 0 {
				return richText.RichText[0].PlainText
			}
		}
	}
	return ""
}
