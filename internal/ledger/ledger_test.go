package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/guest"
	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/internal/storage/sqlite"
)

type fixture struct {
	ledger *Ledger
	store  *sqlite.SQLiteStore
	codec  *auth.Codec
	gate   *auth.Gate
}

func setup(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	codec := auth.NewCodec("ledger-test-secret")
	clock := func() time.Time { return time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC) }

	return &fixture{
		ledger: New(store, guest.NewProvider(clock)),
		store:  store,
		codec:  codec,
		gate:   auth.NewGate(codec, store),
	}
}

// signIn registers a user and resolves an identity through the gate.
func (f *fixture) signIn(t *testing.T, email string) auth.Identity {
	t.Helper()

	user := models.NewUser(email, "Test User", "hash")
	require.NoError(t, f.store.CreateUser(context.Background(), user))

	token, _, err := f.codec.Issue(auth.ClaimsForUser(user), time.Hour)
	require.NoError(t, err)

	id, err := f.gate.Resolve(context.Background(), token)
	require.NoError(t, err)
	return id
}

func (f *fixture) guest(t *testing.T) auth.Identity {
	t.Helper()

	token, _, err := f.codec.Issue(auth.NewGuestClaims(), time.Hour)
	require.NoError(t, err)

	id, err := f.gate.Resolve(context.Background(), token)
	require.NoError(t, err)
	return id
}

func coffee() TransactionInput {
	return TransactionInput{
		Date:        "2024-07-20",
		Description: "Coffee",
		Amount:      decimal.RequireFromString("4.5"),
		Category:    "Groceries",
		Type:        models.TransactionExpense,
	}
}

func TestAddAndListTransactions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")

	txn, err := f.ledger.AddTransaction(ctx, alice, coffee())
	require.NoError(t, err)
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "2024-07-20", txn.DateString())
	assert.Equal(t, alice.UserID(), txn.UserID)

	older := coffee()
	older.Date = "2024-07-01T18:30:00Z"
	older.Description = "Paycheck"
	older.Type = "Income"
	older.Category = "Salary"
	_, err = f.ledger.AddTransaction(ctx, alice, older)
	require.NoError(t, err)

	txns, err := f.ledger.Transactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "Coffee", txns[0].Description)
	assert.Equal(t, "2024-07-01", txns[1].DateString())
	assert.Equal(t, models.TransactionIncome, txns[1].Type)
}

func TestAddTransactionValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")

	tests := []struct {
		name      string
		mutate    func(*TransactionInput)
		wantField string
	}{
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) }, "amount"},
		{"blank description", func(in *TransactionInput) { in.Description = "   " }, "description"},
		{"missing category", func(in *TransactionInput) { in.Category = "" }, "category"},
		{"unknown type", func(in *TransactionInput) { in.Type = "transfer" }, "type"},
		{"bad date", func(in *TransactionInput) { in.Date = "20/07/2024" }, "date"},
		{"missing date", func(in *TransactionInput) { in.Date = "" }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := coffee()
			tt.mutate(&in)

			_, err := f.ledger.AddTransaction(ctx, alice, in)
			require.ErrorIs(t, err, ErrValidation)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}

	txns, err := f.ledger.Transactions(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, txns, "invalid input must never be persisted")
}

func TestDeleteTransactionOwnership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")
	bob := f.signIn(t, "bob@example.com")

	txn, err := f.ledger.AddTransaction(ctx, alice, coffee())
	require.NoError(t, err)

	foreignErr := f.ledger.DeleteTransaction(ctx, bob, txn.ID)
	missingErr := f.ledger.DeleteTransaction(ctx, bob, "does-not-exist")
	assert.ErrorIs(t, foreignErr, ErrNotFound)
	assert.ErrorIs(t, missingErr, ErrNotFound)
	assert.Equal(t, foreignErr.Error(), missingErr.Error())

	txns, err := f.ledger.Transactions(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	require.NoError(t, f.ledger.DeleteTransaction(ctx, alice, txn.ID))
	txns, err = f.ledger.Transactions(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestSetBudgetUpsert(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")

	first, err := f.ledger.SetBudget(ctx, alice, BudgetInput{Category: "Groceries", Limit: decimal.NewFromInt(100)})
	require.NoError(t, err)

	second, err := f.ledger.SetBudget(ctx, alice, BudgetInput{Category: " Groceries ", Limit: decimal.NewFromInt(250)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	budgets, err := f.ledger.Budgets(ctx, alice)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Limit.Equal(decimal.NewFromInt(250)))
}

func TestSetBudgetValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")

	for _, limit := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := f.ledger.SetBudget(ctx, alice, BudgetInput{Category: "Groceries", Limit: limit})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), "limit %s: got %v", limit, err)
		assert.Equal(t, "limit", vErr.Field)
	}

	budgets, err := f.ledger.Budgets(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestUnauthenticatedIdentity(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	var nobody auth.Identity

	_, err := f.ledger.AddTransaction(ctx, nobody, coffee())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = f.ledger.Transactions(ctx, nobody)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = f.ledger.SetBudget(ctx, nobody, BudgetInput{Category: "Groceries", Limit: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = f.ledger.Dashboard(ctx, nobody, time.Time{})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestGuestIsReadOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	visitor := f.guest(t)

	before, err := f.ledger.Transactions(ctx, visitor)
	require.NoError(t, err)
	require.Len(t, before, 7)

	_, err = f.ledger.AddTransaction(ctx, visitor, coffee())
	assert.ErrorIs(t, err, ErrFeatureLocked)

	// Locked even when the input is invalid.
	_, err = f.ledger.SetBudget(ctx, visitor, BudgetInput{})
	assert.ErrorIs(t, err, ErrFeatureLocked)

	assert.ErrorIs(t, f.ledger.DeleteTransaction(ctx, visitor, before[0].ID), ErrFeatureLocked)

	_, err = f.ledger.AddCategory(ctx, visitor, "Pets")
	assert.ErrorIs(t, err, ErrFeatureLocked)

	_, err = f.ledger.Import(ctx, visitor, []TransactionInput{coffee()}, nil)
	assert.ErrorIs(t, err, ErrFeatureLocked)

	after, err := f.ledger.Transactions(ctx, visitor)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	budgets, err := f.ledger.Budgets(ctx, visitor)
	require.NoError(t, err)
	assert.Len(t, budgets, 4)

	categories, err := f.ledger.Categories(ctx, visitor)
	require.NoError(t, err)
	assert.Contains(t, categories, "Dining Out")
}

func TestCategories(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")
	bob := f.signIn(t, "bob@example.com")

	_, err := f.store.EnsureCategory(ctx, "Utilities", "")
	require.NoError(t, err)

	created, err := f.ledger.AddCategory(ctx, alice, "Pets")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.ledger.AddCategory(ctx, alice, "Pets")
	require.NoError(t, err)
	assert.False(t, created)

	// A personal copy of a global name is listed once.
	_, err = f.ledger.AddCategory(ctx, alice, "Utilities")
	require.NoError(t, err)

	names, err := f.ledger.Categories(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pets", "Utilities"}, names)

	names, err = f.ledger.Categories(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Utilities"}, names)

	_, err = f.ledger.AddCategory(ctx, alice, "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestImport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")

	rent := coffee()
	rent.Description = "Rent"
	rent.Amount = decimal.NewFromInt(1500)
	rent.Category = "Housing"

	result, err := f.ledger.Import(ctx, alice,
		[]TransactionInput{coffee(), rent},
		[]BudgetInput{
			{Category: "Groceries", Limit: decimal.NewFromInt(100)},
			{Category: "Groceries", Limit: decimal.NewFromInt(300)},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Transactions: 2, Budgets: 2}, result)

	budgets, err := f.ledger.Budgets(ctx, alice)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Limit.Equal(decimal.NewFromInt(300)))

	bad := coffee()
	bad.Amount = decimal.Zero
	_, err = f.ledger.Import(ctx, alice, []TransactionInput{coffee(), bad}, nil)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, 2, vErr.Row)
	assert.Equal(t, "amount", vErr.Field)

	txns, err := f.ledger.Transactions(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, txns, 2, "a rejected import writes nothing")
}

func TestDashboard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")

	_, err := f.ledger.SetBudget(ctx, alice, BudgetInput{Category: "Groceries", Limit: decimal.NewFromInt(100)})
	require.NoError(t, err)

	for _, amount := range []string{"70", "50"} {
		in := coffee()
		in.Amount = decimal.RequireFromString(amount)
		_, err := f.ledger.AddTransaction(ctx, alice, in)
		require.NoError(t, err)
	}

	d, err := f.ledger.Dashboard(ctx, alice, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "N/A", d.Overview.SavingsRatePercent())
	require.Len(t, d.Budgets, 1)
	assert.True(t, d.Budgets[0].OverBudget)
	assert.True(t, d.Budgets[0].Spent.Equal(decimal.NewFromInt(120)))

	d, err = f.ledger.Dashboard(ctx, alice, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, d.Overview.Expenses.IsZero())
}

func TestGuestDashboard(t *testing.T) {
	f := setup(t)
	visitor := f.guest(t)

	d, err := f.ledger.Dashboard(context.Background(), visitor, time.Time{})
	require.NoError(t, err)
	assert.True(t, d.Overview.Income.Equal(decimal.NewFromInt(3000)))
	assert.True(t, d.Overview.Expenses.Equal(decimal.NewFromInt(2155)))
	assert.Equal(t, "28.2", d.Overview.SavingsRatePercent())
	assert.Len(t, d.Recent, RecentTransactions)
}

type failingStore struct {
	Store
	err error
}

func (s failingStore) CreateTransaction(context.Context, *models.Transaction) error {
	return s.err
}

func (s failingStore) UpsertBudget(context.Context, string, string, decimal.Decimal) (*models.Budget, error) {
	return nil, s.err
}

func TestPersistenceErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.signIn(t, "alice@example.com")

	storeErr := errors.New("database is locked")
	l := New(failingStore{Store: f.store, err: storeErr}, nil)

	_, err := l.AddTransaction(ctx, alice, coffee())
	var pErr *PersistenceError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, OpAddTransaction, pErr.Op)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrValidation)

	_, err = l.SetBudget(ctx, alice, BudgetInput{Category: "Groceries", Limit: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, storeErr)

	// Validation still runs first.
	_, err = l.SetBudget(ctx, alice, BudgetInput{Category: "Groceries"})
	assert.ErrorIs(t, err, ErrValidation)
}
