package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/mmynk/budgetwise/internal/models"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// GenerateFunc matches genai's Models.GenerateContent.
type GenerateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Gemini implements Assistant on the Gemini API with structured JSON output.
type Gemini struct {
	generate GenerateFunc
	model    string
	timeout  time.Duration
}

// NewGemini creates a client for the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return NewGeminiWithFunc(client.Models.GenerateContent, model, timeout), nil
}

// NewGeminiWithFunc creates a Gemini assistant over an arbitrary generate
// function. Tests use it to stub the API.
func NewGeminiWithFunc(generate GenerateFunc, model string, timeout time.Duration) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Gemini{
		generate: generate,
		model:    model,
		timeout:  timeout,
	}
}

// generateJSON runs one request and decodes the JSON answer into out.
func (g *Gemini) generateJSON(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config.ResponseMIMEType = "application/json"

	resp, err := g.generate(ctx, g.model, contents, config)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return errors.New("empty response")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return errors.New("model returned no text")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("response did not match schema: %w", err)
	}
	return nil
}

// SuggestCategory implements Assistant.
func (g *Gemini) SuggestCategory(ctx context.Context, description string, categories []string) (string, error) {
	if strings.TrimSpace(description) == "" || len(categories) == 0 {
		return "", nil
	}

	var out struct {
		Category string `json:"category"`
	}
	config := &genai.GenerateContentConfig{
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"category": {
					Type:        genai.TypeString,
					Description: "The suggested category for the transaction.",
					Enum:        categories,
				},
			},
			Required: []string{"category"},
		},
	}

	prompt := buildCategorizePrompt(description, categories)
	if err := g.generateJSON(ctx, genai.Text(prompt), config, &out); err != nil {
		return "", err
	}
	return matchCategory(out.Category, categories), nil
}

// ExtractReceipt implements Assistant.
func (g *Gemini) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*Receipt, error) {
	if len(image) == 0 {
		return nil, errors.New("image is empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	var out struct {
		Amount        *float64 `json:"amount"`
		Date          string   `json:"date"`
		Merchant      string   `json:"merchant"`
		TransactionID string   `json:"transactionId"`
		Description   string   `json:"description"`
		CategoryHint  string   `json:"categoryHint"`
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"amount":        {Type: genai.TypeNumber},
				"date":          {Type: genai.TypeString},
				"merchant":      {Type: genai.TypeString},
				"transactionId": {Type: genai.TypeString},
				"description":   {Type: genai.TypeString},
				"categoryHint":  {Type: genai.TypeString},
			},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(receiptPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	if err := g.generateJSON(ctx, contents, config, &out); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Date:          strings.TrimSpace(out.Date),
		Merchant:      strings.TrimSpace(out.Merchant),
		TransactionID: strings.TrimSpace(out.TransactionID),
		Description:   strings.TrimSpace(out.Description),
		CategoryHint:  strings.TrimSpace(out.CategoryHint),
	}
	if out.Amount != nil {
		receipt.Amount = decimal.NewNullDecimal(decimal.NewFromFloat(*out.Amount))
	}
	return receipt, nil
}

// SpendingSuggestions implements Assistant.
func (g *Gemini) SpendingSuggestions(ctx context.Context, txns []models.Transaction, budgets []models.Budget) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	config := &genai.GenerateContentConfig{
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"suggestions": {
					Type:        genai.TypeArray,
					Description: "Suggestions on areas to cut spending.",
					Items:       &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"suggestions"},
		},
	}

	prompt := buildSuggestionsPrompt(txns, budgets)
	if err := g.generateJSON(ctx, genai.Text(prompt), config, &out); err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, len(out.Suggestions))
	for _, s := range out.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions, nil
}
