// Package advisor implements the natural-language financial command
// interpreter: intent classification, the Gemini request/response cycle
// with quota-aware retries, and strict validation of structured tool
// output before any of it reaches the ledger.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/monify-app/monify/internal/domain"
)

const defaultModel = "gemini-3-flash-preview"

// DefaultCallTimeout bounds one command round-trip, retries included.
// The external API documents no timeout of its own.
const DefaultCallTimeout = 30 * time.Second

// Citation is one grounded-search source attached to a text answer.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Result is the terminal outcome of one dispatched command.
type Result struct {
	Shape Shape `json:"shape"`

	// Recorded holds validated transactions when the model invoked
	// add_transactions. The caller merges them; the dispatcher never
	// touches the ledger.
	Recorded []domain.Transaction `json:"recorded,omitempty"`

	// Message is the user-facing feedback: a recorded-items summary or
	// the model's free text verbatim.
	Message   string     `json:"message"`
	Citations []Citation `json:"citations,omitempty"`

	// ClearPrompt tells the UI to clear the input. True on any terminal
	// response; validation failures leave the prompt for amendment.
	ClearPrompt bool `json:"clearPrompt"`
}

// Dispatcher executes user commands against the Gemini API.
type Dispatcher struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	retry   RetryOptions
	log     zerolog.Logger
}

// NewDispatcher creates a dispatcher. The API key is required up front;
// a missing credential fails fast instead of surfacing as an opaque API
// error on first use.
func NewDispatcher(ctx context.Context, apiKey string, log zerolog.Logger) (*Dispatcher, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewDispatcher: create genai client: %w", err)
	}

	return &Dispatcher{
		client:  client,
		model:   defaultModel,
		timeout: DefaultCallTimeout,
		log:     log,
	}, nil
}

// Dispatch runs one command end-to-end: classify, build the request for
// that shape, call the model through the retry wrapper, and interpret
// the response. Callers enforce the single-flight discipline.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string, snap Snapshot) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	shape := Classify(prompt)
	fc := BuildContext(snap)

	ctxJSON, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("Dispatch: marshal context: %w", err)
	}

	sys := systemInstruction(fc.CurrentBalance)
	if shape == ShapeRecord {
		sys += "\n\n" + categoriesPrompt()
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: sys}},
		},
		Tools: toolsForShape(shape),
	}

	contents := genai.Text(fmt.Sprintf("Comando: %q. Contexto: %s", prompt, ctxJSON))

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.log.Info().
		Str("shape", string(shape)).
		Int("prompt_len", len(prompt)).
		Msg("Dispatching command")

	resp, err := WithRetry(callCtx, d.retry, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return d.client.Models.GenerateContent(ctx, d.model, contents, config)
	})
	if err != nil {
		return nil, fmt.Errorf("Dispatch: generate content: %w", err)
	}

	return d.interpret(shape, resp)
}

// interpret turns the raw model response into a Result: a validated
// transaction batch for a function invocation, or verbatim text with
// citations otherwise.
func (d *Dispatcher) interpret(shape Shape, resp *genai.GenerateContentResponse) (*Result, error) {
	if calls := resp.FunctionCalls(); len(calls) > 0 {
		call := calls[0]
		if call.Name != "add_transactions" {
			return nil, &ValidationError{Reason: fmt.Sprintf("unexpected function %q", call.Name)}
		}

		items, err := decodeAddTransactions(call.Args)
		if err != nil {
			return nil, err
		}

		names := make([]string, 0, len(items))
		for _, t := range items {
			names = append(names, t.Description)
		}

		d.log.Info().Int("items", len(items)).Msg("Model returned transaction batch")

		return &Result{
			Shape:       shape,
			Recorded:    items,
			Message:     fmt.Sprintf("Lançado: %s.", strings.Join(names, ", ")),
			ClearPrompt: true,
		}, nil
	}

	text := resp.Text()
	if text == "" {
		text = "Comando processado."
	}

	return &Result{
		Shape:       shape,
		Message:     text,
		Citations:   extractCitations(resp),
		ClearPrompt: true,
	}, nil
}

// toolsForShape selects the tool set for the outbound request. The API
// rejects requests combining search grounding with function declarations,
// so each shape carries at most one capability.
func toolsForShape(shape Shape) []*genai.Tool {
	switch shape {
	case ShapeRecord:
		return []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{addTransactionsDeclaration()},
		}}
	case ShapeSimulate:
		return []*genai.Tool{{
			GoogleSearch: &genai.GoogleSearch{},
		}}
	default:
		return nil
	}
}

// addTransactionsDeclaration is the structured tool the model invokes to
// record financial entries. All four item fields are required.
func addTransactionsDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "add_transactions",
		Description: "Lança registros financeiros reais.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"items": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"description": {Type: genai.TypeString},
							"amount":      {Type: genai.TypeNumber},
							"type":        {Type: genai.TypeString, Enum: []string{"INCOME", "EXPENSE"}},
							"category":    {Type: genai.TypeString, Description: "Categoria oficial."},
						},
						Required: []string{"description", "amount", "type", "category"},
					},
				},
			},
			Required: []string{"items"},
		},
	}
}

func extractCitations(resp *genai.GenerateContentResponse) []Citation {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var out []Citation
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Fonte"
		}
		out = append(out, Citation{Title: title, URI: chunk.Web.URI})
	}
	return out
}
