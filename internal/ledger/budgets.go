package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/models"
)

// BudgetInput is an unvalidated budget limit for one category.
type BudgetInput struct {
	Category string          `json:"category" validate:"required,max=64"`
	Limit    decimal.Decimal `json:"limit" validate:"gt=0"`
}

func (l *Ledger) checkBudget(in *BudgetInput, row int) error {
	in.Category = strings.TrimSpace(in.Category)
	return check(l.validate, *in, row)
}

// SetBudget creates or overwrites the caller's limit for a category. The
// write is a single upsert keyed on (user, category).
func (l *Ledger) SetBudget(ctx context.Context, id auth.Identity, in BudgetInput) (*models.Budget, error) {
	if err := l.authorizeMutation(id, OpSetBudget); err != nil {
		return nil, err
	}
	if err := l.checkBudget(&in, 0); err != nil {
		return nil, err
	}

	budget, err := l.store.UpsertBudget(ctx, id.UserID(), in.Category, in.Limit)
	if err != nil {
		return nil, l.persistenceError(ctx, OpSetBudget, id, err)
	}

	l.metrics.LedgerMutation(OpSetBudget)
	return budget, nil
}

// Budgets returns every budget the caller owns.
func (l *Ledger) Budgets(ctx context.Context, id auth.Identity) ([]models.Budget, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	if id.IsGuest() {
		return l.guests.Snapshot(id.UserID()).Budgets, nil
	}

	budgets, err := l.store.ListBudgets(ctx, id.UserID())
	if err != nil {
		return nil, l.persistenceError(ctx, "list_budgets", id, err)
	}
	return budgets, nil
}
