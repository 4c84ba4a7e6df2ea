// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or is not owned
	// by the requesting user. The two cases are deliberately not distinguished.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("record already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error)
}

// TransactionStore persists income and expense records.
type TransactionStore interface {
	// CreateTransaction stores a new transaction. ID and CreatedAt are
	// assigned by the store when empty.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactions returns the user's transactions, most recent date first.
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)

	// DeleteTransaction removes a transaction only if userID owns it.
	// Returns ErrNotFound otherwise.
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// BudgetStore persists per-category budget limits.
type BudgetStore interface {
	// UpsertBudget creates or overwrites the budget for (userID, category)
	// in a single atomic statement.
	UpsertBudget(ctx context.Context, userID, category string, limit decimal.Decimal) (*models.Budget, error)

	// ListBudgets returns every budget the user owns.
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
}

// CategoryStore persists the category vocabulary.
type CategoryStore interface {
	// EnsureCategory creates the category if it does not exist yet.
	// An empty userID creates a global category.
	EnsureCategory(ctx context.Context, name, userID string) (created bool, err error)

	// ListCategories returns global categories plus those owned by userID.
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
}

// ImportStore writes a batch of imported records atomically.
type ImportStore interface {
	// ImportBatch inserts the transactions and upserts the budgets in one
	// database transaction. Either everything is written or nothing is.
	ImportBatch(ctx context.Context, userID string, txs []*models.Transaction, budgets []models.Budget) error
}

// Store combines every storage capability the application needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
type Store interface {
	UserStore
	TransactionStore
	BudgetStore
	CategoryStore
	ImportStore

	// Close releases any resources held by the store.
	Close() error
}
