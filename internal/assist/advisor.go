package assist

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/budgetwise/internal/metrics"
	"github.com/mmynk/budgetwise/internal/models"
)

// SuggestionsFailedMessage is shown when spending suggestions are unavailable.
const SuggestionsFailedMessage = "Failed to generate suggestions. Please try again later."

// Advisor degrades every Assistant failure to an empty result. Callers
// never see an AI error.
type Advisor struct {
	assistant Assistant
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewAdvisor wraps assistant. A nil assistant behaves like Disabled.
func NewAdvisor(assistant Assistant, m *metrics.Metrics, logger *slog.Logger) *Advisor {
	if assistant == nil {
		assistant = Disabled{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{assistant: assistant, metrics: m, logger: logger}
}

func (a *Advisor) failed(ctx context.Context, flow string, err error) {
	a.metrics.AIFailure(flow)
	if errors.Is(err, ErrDisabled) {
		a.logger.DebugContext(ctx, "AI assistance disabled", "flow", flow)
		return
	}
	a.logger.WarnContext(ctx, "AI request degraded to empty result", "flow", flow, "error", err)
}

// SuggestCategory returns a vocabulary label or "".
func (a *Advisor) SuggestCategory(ctx context.Context, description string, categories []string) string {
	category, err := a.assistant.SuggestCategory(ctx, description, categories)
	if err != nil {
		a.failed(ctx, "categorize", err)
		return ""
	}
	return matchCategory(category, categories)
}

// ExtractReceipt returns the extracted fields, or an empty Receipt.
func (a *Advisor) ExtractReceipt(ctx context.Context, image []byte, mimeType string) Receipt {
	receipt, err := a.assistant.ExtractReceipt(ctx, image, mimeType)
	if err != nil || receipt == nil {
		if err != nil {
			a.failed(ctx, "receipt", err)
		}
		return Receipt{}
	}
	return *receipt
}

// SpendingSuggestions returns suggestions, or an empty list and a
// user-facing message when none could be generated.
func (a *Advisor) SpendingSuggestions(ctx context.Context, txns []models.Transaction, budgets []models.Budget) ([]string, string) {
	suggestions, err := a.assistant.SpendingSuggestions(ctx, txns, budgets)
	if err != nil {
		a.failed(ctx, "suggestions", err)
		return []string{}, SuggestionsFailedMessage
	}
	return suggestions, ""
}
