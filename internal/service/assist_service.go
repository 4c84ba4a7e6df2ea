package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwise/internal/assist"
	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/ledger"
	"github.com/mmynk/budgetwise/pkg/api"
)

// maxReceiptBytes caps uploaded receipt images.
const maxReceiptBytes = 10 << 20

// AssistService implements the AssistService RPC interface. AI failures are
// absorbed by the advisor; only ledger reads can fail a call.
type AssistService struct {
	advisor *assist.Advisor
	ledger  *ledger.Ledger
	logger  *slog.Logger
}

// NewAssistService creates an AssistService.
func NewAssistService(advisor *assist.Advisor, l *ledger.Ledger, logger *slog.Logger) *AssistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistService{advisor: advisor, ledger: l, logger: logger}
}

// SuggestCategory proposes a category for a transaction description.
func (s *AssistService) SuggestCategory(ctx context.Context, req *connect.Request[api.SuggestCategoryRequest]) (*connect.Response[api.SuggestCategoryResponse], error) {
	id := auth.IdentityFromContext(ctx)

	categories := req.Msg.Categories
	if len(categories) == 0 {
		var err error
		if categories, err = s.ledger.Categories(ctx, id); err != nil {
			return nil, toConnectError(err)
		}
	}

	category := s.advisor.SuggestCategory(ctx, req.Msg.Description, categories)
	return connect.NewResponse(&api.SuggestCategoryResponse{Category: category}), nil
}

// ExtractReceipt reads payment details from a receipt screenshot.
func (s *AssistService) ExtractReceipt(ctx context.Context, req *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error) {
	if !auth.IdentityFromContext(ctx).Authenticated() {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrUnauthenticated)
	}
	if len(req.Msg.Image) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, &ledger.ValidationError{Field: "image", Message: "This field is required"})
	}
	if len(req.Msg.Image) > maxReceiptBytes {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("image exceeds 10 MiB"))
	}

	receipt := s.advisor.ExtractReceipt(ctx, req.Msg.Image, req.Msg.MimeType)
	return connect.NewResponse(&api.ExtractReceiptResponse{
		Amount:        receipt.Amount,
		Date:          receipt.Date,
		Merchant:      receipt.Merchant,
		TransactionID: receipt.TransactionID,
		Description:   receipt.Description,
		CategoryHint:  receipt.CategoryHint,
	}), nil
}

// SpendingSuggestions returns advice based on the caller's spending and budgets.
func (s *AssistService) SpendingSuggestions(ctx context.Context, req *connect.Request[api.SpendingSuggestionsRequest]) (*connect.Response[api.SpendingSuggestionsResponse], error) {
	id := auth.IdentityFromContext(ctx)

	txns, err := s.ledger.Transactions(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	budgets, err := s.ledger.Budgets(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}

	suggestions, message := s.advisor.SpendingSuggestions(ctx, txns, budgets)
	return connect.NewResponse(&api.SpendingSuggestionsResponse{
		Suggestions: suggestions,
		Message:     message,
	}), nil
}
