package ledger

import (
	"context"
	"time"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/calculator"
)

// RecentTransactions is the number of transactions shown on the dashboard.
const RecentTransactions = 5

// Dashboard derives the caller's dashboard. A non-zero month restricts the
// figures to that calendar month.
func (l *Ledger) Dashboard(ctx context.Context, id auth.Identity, month time.Time) (calculator.Dashboard, error) {
	txns, err := l.Transactions(ctx, id)
	if err != nil {
		return calculator.Dashboard{}, err
	}
	budgets, err := l.Budgets(ctx, id)
	if err != nil {
		return calculator.Dashboard{}, err
	}
	vocabulary, err := l.Categories(ctx, id)
	if err != nil {
		return calculator.Dashboard{}, err
	}

	if !month.IsZero() {
		txns = calculator.FilterMonth(txns, month)
	}

	return calculator.BuildDashboard(txns, budgets, vocabulary, RecentTransactions), nil
}
