package assist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/mmynk/budgetwise/internal/metrics"
	"github.com/mmynk/budgetwise/internal/models"
)

type recordedCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// stubGenerate answers every request with text, recording what was asked.
func stubGenerate(text string, err error, calls *[]recordedCall) GenerateFunc {
	return func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		*calls = append(*calls, recordedCall{model: model, contents: contents, config: config})
		if err != nil {
			return nil, err
		}
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: genai.NewContentFromText(text, genai.RoleModel)},
			},
		}, nil
	}
}

func promptText(c recordedCall) string {
	var b strings.Builder
	for _, content := range c.contents {
		for _, part := range content.Parts {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

var vocabulary = []string{"Groceries", "Utilities", "Entertainment"}

func TestSuggestCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("label from vocabulary", func(t *testing.T) {
		var calls []recordedCall
		g := NewGeminiWithFunc(stubGenerate(`{"category":"groceries"}`, nil, &calls), "", time.Second)

		got, err := g.SuggestCategory(ctx, "Whole Foods Market", vocabulary)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got)

		require.Len(t, calls, 1)
		assert.Equal(t, DefaultModel, calls[0].model)
		assert.Equal(t, "application/json", calls[0].config.ResponseMIMEType)
		assert.Contains(t, promptText(calls[0]), `"Whole Foods Market"`)
		assert.Contains(t, promptText(calls[0]), "- Utilities")
	})

	t.Run("label outside vocabulary", func(t *testing.T) {
		var calls []recordedCall
		g := NewGeminiWithFunc(stubGenerate(`{"category":"Travel"}`, nil, &calls), "", time.Second)

		got, err := g.SuggestCategory(ctx, "Flight to Paris", vocabulary)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("empty description skips the model", func(t *testing.T) {
		var calls []recordedCall
		g := NewGeminiWithFunc(stubGenerate(`{"category":"Groceries"}`, nil, &calls), "", time.Second)

		got, err := g.SuggestCategory(ctx, "   ", vocabulary)
		require.NoError(t, err)
		assert.Equal(t, "", got)
		assert.Empty(t, calls)
	})

	t.Run("malformed answer", func(t *testing.T) {
		var calls []recordedCall
		g := NewGeminiWithFunc(stubGenerate(`Groceries`, nil, &calls), "", time.Second)

		_, err := g.SuggestCategory(ctx, "Milk", vocabulary)
		assert.Error(t, err)
	})
}

func TestExtractReceipt(t *testing.T) {
	var calls []recordedCall
	answer := `{"amount":249.5,"date":"2024-07-20","merchant":" Cafe Mocha ","categoryHint":"Food"}`
	g := NewGeminiWithFunc(stubGenerate(answer, nil, &calls), "gemini-test", time.Second)

	receipt, err := g.ExtractReceipt(context.Background(), []byte{0xFF, 0xD8}, "")
	require.NoError(t, err)

	require.True(t, receipt.Amount.Valid)
	assert.True(t, receipt.Amount.Decimal.Equal(decimal.RequireFromString("249.5")))
	assert.Equal(t, "2024-07-20", receipt.Date)
	assert.Equal(t, "Cafe Mocha", receipt.Merchant)
	assert.Equal(t, "", receipt.TransactionID)
	assert.Equal(t, "Food", receipt.CategoryHint)

	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].config.Temperature)
	assert.InDelta(t, 0.1, *calls[0].config.Temperature, 0.0001)

	parts := calls[0].contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
}

func TestExtractReceiptWithoutAmount(t *testing.T) {
	var calls []recordedCall
	g := NewGeminiWithFunc(stubGenerate(`{"merchant":"Metro"}`, nil, &calls), "", time.Second)

	receipt, err := g.ExtractReceipt(context.Background(), []byte("png"), "image/png")
	require.NoError(t, err)
	assert.False(t, receipt.Amount.Valid)
	assert.Equal(t, "Metro", receipt.Merchant)
}

func TestSpendingSuggestions(t *testing.T) {
	var calls []recordedCall
	answer := `{"suggestions":["Cook at home twice a week."," ","Cancel unused subscriptions."]}`
	g := NewGeminiWithFunc(stubGenerate(answer, nil, &calls), "", time.Second)

	txns := []models.Transaction{
		{Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Category: "Salary", Amount: decimal.NewFromInt(3000), Type: models.TransactionIncome},
		{Date: time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC), Category: "Groceries", Amount: decimal.NewFromInt(120), Type: models.TransactionExpense},
	}
	budgets := []models.Budget{{Category: "Groceries", Limit: decimal.NewFromInt(100)}}

	got, err := g.SpendingSuggestions(context.Background(), txns, budgets)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cook at home twice a week.", "Cancel unused subscriptions."}, got)

	prompt := promptText(calls[0])
	assert.Contains(t, prompt, "category,amount,date\nGroceries,120,2024-07-02\n")
	assert.NotContains(t, prompt, "Salary")
	assert.Contains(t, prompt, "category,budget\nGroceries,100\n")
}

type failingAssistant struct{ err error }

func (f failingAssistant) SuggestCategory(context.Context, string, []string) (string, error) {
	return "", f.err
}

func (f failingAssistant) ExtractReceipt(context.Context, []byte, string) (*Receipt, error) {
	return nil, f.err
}

func (f failingAssistant) SpendingSuggestions(context.Context, []models.Transaction, []models.Budget) ([]string, error) {
	return nil, f.err
}

func TestAdvisorDegrades(t *testing.T) {
	ctx := context.Background()

	for _, assistant := range []Assistant{failingAssistant{err: errors.New("quota exceeded")}, Disabled{}, nil} {
		a := NewAdvisor(assistant, metrics.New(), nil)

		assert.Equal(t, "", a.SuggestCategory(ctx, "Coffee", vocabulary))
		assert.Equal(t, Receipt{}, a.ExtractReceipt(ctx, []byte("img"), "image/png"))

		suggestions, message := a.SpendingSuggestions(ctx, nil, nil)
		assert.NotNil(t, suggestions)
		assert.Empty(t, suggestions)
		assert.Equal(t, SuggestionsFailedMessage, message)
	}
}

func TestAdvisorTimeout(t *testing.T) {
	slow := func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	a := NewAdvisor(NewGeminiWithFunc(slow, "", 20*time.Millisecond), nil, nil)

	start := time.Now()
	assert.Equal(t, "", a.SuggestCategory(context.Background(), "Coffee", vocabulary))
	assert.Less(t, time.Since(start), 2*time.Second)
}
