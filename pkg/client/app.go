package client

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/budgetwise/pkg/api"
)

// RecentTransactions is the number of recent rows on a locally computed dashboard.
const RecentTransactions = 5

// App pairs a Client with the State it keeps current.
type App struct {
	client *Client
	state  *State
}

// NewApp creates an App over c with an empty state.
func NewApp(c *Client) *App {
	return &App{client: c, state: NewState()}
}

// Client returns the underlying API client.
func (a *App) Client() *Client { return a.client }

// State returns the local state.
func (a *App) State() *State { return a.state }

// Refresh reloads transactions, budgets and categories from the server.
func (a *App) Refresh(ctx context.Context) error {
	txns, err := a.client.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	budgets, err := a.client.ListBudgets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load budgets: %w", err)
	}
	categories, err := a.client.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	a.state.SetTransactions(txns)
	a.state.SetBudgets(budgets)
	a.state.SetCategories(categories)
	return nil
}

// AddTransaction shows req immediately as a pending placeholder, then
// commits the server's record or rolls the placeholder back on error.
func (a *App) AddTransaction(ctx context.Context, req *api.AddTransactionRequest) (*api.Transaction, error) {
	tempID := a.state.BeginAddTransaction(req)

	txn, err := a.client.AddTransaction(ctx, req)
	if err != nil {
		a.state.RollbackTransaction(tempID)
		return nil, err
	}

	a.state.CommitTransaction(tempID, *txn)
	return txn, nil
}

// DeleteTransaction deletes on the server, then locally.
func (a *App) DeleteTransaction(ctx context.Context, id string) error {
	if err := a.client.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	a.state.RemoveTransaction(id)
	return nil
}

// SetBudget upserts on the server and merges the result by category.
func (a *App) SetBudget(ctx context.Context, req *api.SetBudgetRequest) (*api.Budget, error) {
	budget, err := a.client.SetBudget(ctx, req)
	if err != nil {
		return nil, err
	}
	a.state.MergeBudget(*budget)
	return budget, nil
}

// Dashboard recomputes the dashboard from local state.
func (a *App) Dashboard(month time.Time) *api.GetDashboardResponse {
	return a.state.Dashboard(month, RecentTransactions)
}
