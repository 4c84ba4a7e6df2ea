// Package assist wraps the generative AI collaborator used for category
// suggestions, receipt extraction and spending advice. Results are hints:
// they never bypass ledger validation.
package assist

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/models"
)

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("ai assistance is not configured")

// Receipt holds the fields extracted from a payment screenshot. Every field
// is optional.
type Receipt struct {
	Amount        decimal.NullDecimal
	Date          string
	Merchant      string
	TransactionID string
	Description   string
	CategoryHint  string
}

// Assistant handles the three AI flows.
type Assistant interface {
	// SuggestCategory returns one label from categories, or "" when the
	// model has no confident answer.
	SuggestCategory(ctx context.Context, description string, categories []string) (string, error)

	// ExtractReceipt reads transaction details from an image.
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*Receipt, error)

	// SpendingSuggestions returns actionable ways to cut spending.
	SpendingSuggestions(ctx context.Context, txns []models.Transaction, budgets []models.Budget) ([]string, error)
}

// Disabled is the Assistant used when no API key is configured.
type Disabled struct{}

func (Disabled) SuggestCategory(context.Context, string, []string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) ExtractReceipt(context.Context, []byte, string) (*Receipt, error) {
	return nil, ErrDisabled
}

func (Disabled) SpendingSuggestions(context.Context, []models.Transaction, []models.Budget) ([]string, error) {
	return nil, ErrDisabled
}
