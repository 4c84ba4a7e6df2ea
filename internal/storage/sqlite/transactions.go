package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/internal/storage"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateTransaction persists a new transaction to the database.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := insertTransaction(ctx, s.db, tx); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, ex execer, tx *models.Transaction) error {
	// Generate ID if not set
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}

	_, err := ex.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, date, description, amount, category, type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.DateString(), tx.Description, tx.Amount.String(),
		tx.Category, string(tx.Type), tx.CreatedAt,
	)
	return err
}

// ListTransactions retrieves the user's transactions ordered by date, most
// recent first. Rows sharing a date keep reverse insertion order.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, date, description, amount, category, type, created_at
		 FROM transactions
		 WHERE user_id = ?
		 ORDER BY date DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			tx     models.Transaction
			date   string
			txType string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &date, &tx.Description, &tx.Amount,
			&tx.Category, &txType, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Date, err = time.Parse(models.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q on transaction %s: %w", date, tx.ID, err)
		}
		tx.Type = models.TransactionType(txType)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

// DeleteTransaction deletes a transaction owned by userID.
// A missing transaction and one owned by someone else both yield storage.ErrNotFound.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?",
		transactionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}
