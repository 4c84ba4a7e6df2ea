package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/models"
)

// upsertBudgetStatement relies on the UNIQUE (user_id, category) constraint
// so that concurrent upserts for the same pair never create two rows.
const upsertBudgetStatement = `
	INSERT INTO budgets (id, user_id, category, amount_limit, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (user_id, category) DO UPDATE
	SET amount_limit = excluded.amount_limit, updated_at = excluded.updated_at`

const upsertBudgetQuery = upsertBudgetStatement + `
	RETURNING id, user_id, category, amount_limit, updated_at`

// UpsertBudget creates the budget for (userID, category) or overwrites its limit.
func (s *SQLiteStore) UpsertBudget(ctx context.Context, userID, category string, limit decimal.Decimal) (*models.Budget, error) {
	budget := &models.Budget{}
	err := s.db.QueryRowContext(ctx, upsertBudgetQuery,
		uuid.New().String(), userID, category, limit.String(), time.Now().Unix(),
	).Scan(&budget.ID, &budget.UserID, &budget.Category, &budget.Limit, &budget.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return budget, nil
}

// ListBudgets retrieves the user's budgets ordered by category.
func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount_limit, updated_at
		 FROM budgets
		 WHERE user_id = ?
		 ORDER BY category`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}
