// Package ledger implements the budget and transaction ledgers.
//
// Every operation takes an auth.Identity, which only auth.Gate can produce,
// so callers cannot reach persistence without a resolved session. Guest
// identities read a fixed snapshot and are refused every mutation with
// ErrFeatureLocked before validation or persistence runs.
package ledger

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/guest"
	"github.com/mmynk/budgetwise/internal/metrics"
	"github.com/mmynk/budgetwise/internal/storage"
)

// Operation names used for metrics and logs.
const (
	OpAddTransaction    = "add_transaction"
	OpDeleteTransaction = "delete_transaction"
	OpSetBudget         = "set_budget"
	OpAddCategory       = "add_category"
	OpImport            = "import"
)

// Store is the persistence the ledger needs.
type Store interface {
	storage.TransactionStore
	storage.BudgetStore
	storage.CategoryStore
	storage.ImportStore
}

// Ledger validates and persists transactions, budgets and categories.
type Ledger struct {
	store    Store
	guests   *guest.Provider
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMetrics records mutations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New creates a ledger over store. guests may be nil, in which case a
// provider using the wall clock is created.
func New(store Store, guests *guest.Provider, opts ...Option) *Ledger {
	if guests == nil {
		guests = guest.NewProvider(nil)
	}
	l := &Ledger{
		store:    store,
		guests:   guests,
		validate: newValidator(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// authorize rejects unresolved identities.
func authorize(id auth.Identity) error {
	if !id.Authenticated() {
		return auth.ErrUnauthenticated
	}
	return nil
}

// authorizeMutation additionally refuses guests.
func (l *Ledger) authorizeMutation(id auth.Identity, op string) error {
	if err := authorize(id); err != nil {
		return err
	}
	if id.IsGuest() {
		l.metrics.LockedMutation(op)
		l.logger.Debug("Guest mutation refused", "user_id", id.UserID(), "operation", op)
		return ErrFeatureLocked
	}
	return nil
}

// persistenceError logs a store failure and wraps it.
func (l *Ledger) persistenceError(ctx context.Context, op string, id auth.Identity, err error) error {
	l.logger.ErrorContext(ctx, "Ledger persistence failed", "operation", op, "user_id", id.UserID(), "error", err)
	return &PersistenceError{Op: op, Err: err}
}
