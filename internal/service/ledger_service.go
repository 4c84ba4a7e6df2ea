package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/csvio"
	"github.com/mmynk/budgetwise/internal/ledger"
	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/pkg/api"
)

// LedgerService implements the LedgerService RPC interface on top of the
// budget and transaction ledgers.
type LedgerService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewLedgerService creates a LedgerService backed by l.
func NewLedgerService(l *ledger.Ledger, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{ledger: l, logger: logger}
}

// ListTransactions returns the caller's transactions, most recent first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	txns, err := s.ledger.Transactions(ctx, auth.IdentityFromContext(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: api.TransactionsFromModels(txns)}), nil
}

// AddTransaction records a new income or expense.
func (s *LedgerService) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	id := auth.IdentityFromContext(ctx)
	s.logger.Debug("AddTransaction request received", "user_id", id.UserID(), "category", req.Msg.Category)

	txn, err := s.ledger.AddTransaction(ctx, id, ledger.TransactionInput{
		Date:        req.Msg.Date,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Category:    req.Msg.Category,
		Type:        models.TransactionType(req.Msg.Type),
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddTransactionResponse{Transaction: api.TransactionFromModel(*txn)}), nil
}

// DeleteTransaction removes one of the caller's transactions.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	if err := s.ledger.DeleteTransaction(ctx, auth.IdentityFromContext(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// ListBudgets returns the caller's budgets.
func (s *LedgerService) ListBudgets(ctx context.Context, req *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error) {
	budgets, err := s.ledger.Budgets(ctx, auth.IdentityFromContext(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListBudgetsResponse{Budgets: api.BudgetsFromModels(budgets)}), nil
}

// SetBudget creates or replaces the budget for a category.
func (s *LedgerService) SetBudget(ctx context.Context, req *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error) {
	budget, err := s.ledger.SetBudget(ctx, auth.IdentityFromContext(ctx), ledger.BudgetInput{
		Category: req.Msg.Category,
		Limit:    req.Msg.Limit,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SetBudgetResponse{Budget: api.BudgetFromModel(*budget)}), nil
}

// ListCategories returns the caller's category vocabulary.
func (s *LedgerService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	names, err := s.ledger.Categories(ctx, auth.IdentityFromContext(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: names}), nil
}

// AddCategory adds a category to the caller's vocabulary.
func (s *LedgerService) AddCategory(ctx context.Context, req *connect.Request[api.AddCategoryRequest]) (*connect.Response[api.AddCategoryResponse], error) {
	created, err := s.ledger.AddCategory(ctx, auth.IdentityFromContext(ctx), req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AddCategoryResponse{Created: created}), nil
}

// GetDashboard returns the derived overview, spending and budget figures.
func (s *LedgerService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	var month time.Time
	if m := strings.TrimSpace(req.Msg.Month); m != "" {
		parsed, err := time.Parse("2006-01", m)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, &ledger.ValidationError{
				Field:   "month",
				Message: "Must be a month in YYYY-MM format",
			})
		}
		month = parsed
	}

	dashboard, err := s.ledger.Dashboard(ctx, auth.IdentityFromContext(ctx), month)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(api.DashboardFromCalculator(dashboard)), nil
}

// ImportCSV parses the uploaded CSV documents and imports every row atomically.
func (s *LedgerService) ImportCSV(ctx context.Context, req *connect.Request[api.ImportCSVRequest]) (*connect.Response[api.ImportCSVResponse], error) {
	id := auth.IdentityFromContext(ctx)

	var (
		txns    []ledger.TransactionInput
		budgets []ledger.BudgetInput
		err     error
	)
	if strings.TrimSpace(req.Msg.Transactions) != "" {
		if txns, err = csvio.ReadTransactions(strings.NewReader(req.Msg.Transactions)); err != nil {
			return nil, toConnectError(fmt.Errorf("transactions csv: %w", err))
		}
	}
	if strings.TrimSpace(req.Msg.Budgets) != "" {
		if budgets, err = csvio.ReadBudgets(strings.NewReader(req.Msg.Budgets)); err != nil {
			return nil, toConnectError(fmt.Errorf("budgets csv: %w", err))
		}
	}

	result, err := s.ledger.Import(ctx, id, txns, budgets)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ImportCSVResponse{
		Transactions: result.Transactions,
		Budgets:      result.Budgets,
	}), nil
}

// ExportCSV renders the caller's transactions and budgets as CSV.
func (s *LedgerService) ExportCSV(ctx context.Context, req *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	id := auth.IdentityFromContext(ctx)

	txns, err := s.ledger.Transactions(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	budgets, err := s.ledger.Budgets(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}

	var txnBuf, budgetBuf bytes.Buffer
	if err := csvio.WriteTransactions(&txnBuf, txns); err != nil {
		s.logger.Error("ExportCSV failed", "user_id", id.UserID(), "error", err)
		return nil, toConnectError(err)
	}
	if err := csvio.WriteBudgets(&budgetBuf, budgets); err != nil {
		s.logger.Error("ExportCSV failed", "user_id", id.UserID(), "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ExportCSVResponse{
		Transactions: txnBuf.String(),
		Budgets:      budgetBuf.String(),
	}), nil
}
