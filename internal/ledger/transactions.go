package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/internal/storage"
)

// TransactionInput is an unvalidated transaction as submitted by a client.
type TransactionInput struct {
	Date        string                 `json:"date" validate:"required"`
	Description string                 `json:"description" validate:"required,max=200"`
	Amount      decimal.Decimal        `json:"amount" validate:"gt=0"`
	Category    string                 `json:"category" validate:"required,max=64"`
	Type        models.TransactionType `json:"type" validate:"required,oneof=income expense"`
}

// normalize trims free-text fields in place.
func (in *TransactionInput) normalize() {
	in.Date = strings.TrimSpace(in.Date)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Type = models.TransactionType(strings.ToLower(strings.TrimSpace(string(in.Type))))
}

// build validates in and returns the record to store for userID.
func (l *Ledger) build(userID string, in TransactionInput, row int) (*models.Transaction, error) {
	in.normalize()
	if err := check(l.validate, in, row); err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date, row)
	if err != nil {
		return nil, err
	}
	return &models.Transaction{
		UserID:      userID,
		Date:        date,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Type:        in.Type,
	}, nil
}

// AddTransaction validates and stores a transaction, returning the stored
// record with its new ID.
func (l *Ledger) AddTransaction(ctx context.Context, id auth.Identity, in TransactionInput) (*models.Transaction, error) {
	if err := l.authorizeMutation(id, OpAddTransaction); err != nil {
		return nil, err
	}

	txn, err := l.build(id.UserID(), in, 0)
	if err != nil {
		return nil, err
	}

	if err := l.store.CreateTransaction(ctx, txn); err != nil {
		return nil, l.persistenceError(ctx, OpAddTransaction, id, err)
	}

	l.metrics.LedgerMutation(OpAddTransaction)
	l.logger.Debug("Transaction added", "user_id", id.UserID(), "transaction_id", txn.ID)
	return txn, nil
}

// Transactions returns the caller's transactions, most recent date first.
func (l *Ledger) Transactions(ctx context.Context, id auth.Identity) ([]models.Transaction, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	if id.IsGuest() {
		return l.guests.Snapshot(id.UserID()).Transactions, nil
	}

	txns, err := l.store.ListTransactions(ctx, id.UserID())
	if err != nil {
		return nil, l.persistenceError(ctx, "list_transactions", id, err)
	}
	return txns, nil
}

// DeleteTransaction removes one of the caller's transactions. Missing and
// foreign transactions both yield ErrNotFound.
func (l *Ledger) DeleteTransaction(ctx context.Context, id auth.Identity, transactionID string) error {
	if err := l.authorizeMutation(id, OpDeleteTransaction); err != nil {
		return err
	}
	if strings.TrimSpace(transactionID) == "" {
		return &ValidationError{Field: "id", Message: "This field is required"}
	}

	err := l.store.DeleteTransaction(ctx, id.UserID(), transactionID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return l.persistenceError(ctx, OpDeleteTransaction, id, err)
	}

	l.metrics.LedgerMutation(OpDeleteTransaction)
	return nil
}
