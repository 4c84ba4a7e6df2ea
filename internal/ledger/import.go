package ledger

import (
	"context"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/models"
)

// ImportResult counts the records written by Import.
type ImportResult struct {
	Transactions int
	Budgets      int
}

// Import validates every transaction and budget row, then writes them all
// in one store transaction. The first invalid row aborts the import with a
// row-numbered *ValidationError and nothing is written. Budgets are upserted
// by category, so a later row for the same category wins.
func (l *Ledger) Import(ctx context.Context, id auth.Identity, txns []TransactionInput, budgets []BudgetInput) (ImportResult, error) {
	if err := l.authorizeMutation(id, OpImport); err != nil {
		return ImportResult{}, err
	}

	records := make([]*models.Transaction, 0, len(txns))
	for i, in := range txns {
		txn, err := l.build(id.UserID(), in, i+1)
		if err != nil {
			return ImportResult{}, err
		}
		records = append(records, txn)
	}

	limits := make([]models.Budget, 0, len(budgets))
	for i := range budgets {
		in := budgets[i]
		if err := l.checkBudget(&in, i+1); err != nil {
			return ImportResult{}, err
		}
		limits = append(limits, models.Budget{
			UserID:   id.UserID(),
			Category: in.Category,
			Limit:    in.Limit,
		})
	}

	if len(records) == 0 && len(limits) == 0 {
		return ImportResult{}, nil
	}

	if err := l.store.ImportBatch(ctx, id.UserID(), records, limits); err != nil {
		return ImportResult{}, l.persistenceError(ctx, OpImport, id, err)
	}

	l.metrics.LedgerMutation(OpImport)
	l.logger.Info("Import completed", "user_id", id.UserID(), "transactions", len(records), "budgets", len(limits))
	return ImportResult{Transactions: len(records), Budgets: len(limits)}, nil
}
