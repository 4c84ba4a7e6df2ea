// Package guest supplies the read-only dataset shown to trial sessions.
package guest

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/models"
)

// Snapshot is a self-contained copy of the guest dataset.
// Callers may modify it freely; the provider never shares backing arrays.
type Snapshot struct {
	Categories   []models.Category
	Transactions []models.Transaction
	Budgets      []models.Budget
}

type seedTransaction struct {
	day         int
	description string
	amount      string
	category    string
	kind        models.TransactionType
}

var (
	seedCategories = []string{
		"Groceries",
		"Salary",
		"Utilities",
		"Rent",
		"Entertainment",
		"Transportation",
		"Dining Out",
		"Shopping",
	}

	// Ordered most recent first, matching the ledger's list order.
	seedTransactions = []seedTransaction{
		{15, "Online Shopping", "120.00", "Shopping", models.TransactionExpense},
		{12, "Restaurant Dinner", "60.00", "Dining Out", models.TransactionExpense},
		{10, "Movie Night", "75.00", "Entertainment", models.TransactionExpense},
		{7, "Grocery Shopping", "250.00", "Groceries", models.TransactionExpense},
		{5, "Electricity Bill", "150.00", "Utilities", models.TransactionExpense},
		{2, "Rent Payment", "1500.00", "Rent", models.TransactionExpense},
		{1, "Monthly Salary", "3000.00", "Salary", models.TransactionIncome},
	}

	seedBudgets = []struct {
		category string
		limit    string
	}{
		{"Dining Out", "250"},
		{"Entertainment", "150"},
		{"Groceries", "400"},
		{"Shopping", "200"},
	}
)

// Provider builds guest snapshots dated relative to the current month.
type Provider struct {
	now func() time.Time
}

// NewProvider creates a provider. A nil clock defaults to time.Now.
func NewProvider(now func() time.Time) *Provider {
	if now == nil {
		now = time.Now
	}
	return &Provider{now: now}
}

// Snapshot returns a fresh copy of the guest dataset for userID.
func (p *Provider) Snapshot(userID string) Snapshot {
	now := p.now().UTC()
	year, month, _ := now.Date()

	snap := Snapshot{
		Categories:   make([]models.Category, 0, len(seedCategories)),
		Transactions: make([]models.Transaction, 0, len(seedTransactions)),
		Budgets:      make([]models.Budget, 0, len(seedBudgets)),
	}

	for i, name := range seedCategories {
		snap.Categories = append(snap.Categories, models.Category{
			ID:   fmt.Sprintf("guest-category-%d", i+1),
			Name: name,
		})
	}

	for i, seed := range seedTransactions {
		snap.Transactions = append(snap.Transactions, models.Transaction{
			ID:          fmt.Sprintf("guest-txn-%d", len(seedTransactions)-i),
			UserID:      userID,
			Date:        time.Date(year, month, seed.day, 0, 0, 0, 0, time.UTC),
			Description: seed.description,
			Amount:      decimal.RequireFromString(seed.amount),
			Category:    seed.category,
			Type:        seed.kind,
		})
	}

	for i, seed := range seedBudgets {
		snap.Budgets = append(snap.Budgets, models.Budget{
			ID:       fmt.Sprintf("guest-budget-%d", i+1),
			UserID:   userID,
			Category: seed.category,
			Limit:    decimal.RequireFromString(seed.limit),
		})
	}

	return snap
}

// CategoryNames returns the guest vocabulary.
func CategoryNames() []string {
	return append([]string(nil), seedCategories...)
}
