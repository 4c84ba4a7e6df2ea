package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/budgetwise/internal/models"
)

// ImportBatch writes imported transactions and budgets in a single database
// transaction. Budgets go through the same upsert as UpsertBudget.
func (s *SQLiteStore) ImportBatch(ctx context.Context, userID string, txs []*models.Transaction, budgets []models.Budget) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, tx := range txs {
		tx.UserID = userID
		if err := insertTransaction(ctx, dbTx, tx); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	now := time.Now().Unix()
	for _, b := range budgets {
		_, err := dbTx.ExecContext(ctx, upsertBudgetStatement,
			uuid.New().String(), userID, b.Category, b.Limit.String(), now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert budget %q: %w", b.Category, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
