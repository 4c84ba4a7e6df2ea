// Package calculator derives dashboard figures from transactions and budgets.
// Every function here is pure and safe to recompute on each render.
package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/models"
)

// NotApplicable is rendered in place of a savings rate when there is no income.
const NotApplicable = "N/A"

var hundred = decimal.NewFromInt(100)

// Overview holds the headline metrics for a set of transactions.
type Overview struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal

	// SavingsRate is Balance / Income as a fraction. It is invalid when
	// Income is zero.
	SavingsRate decimal.NullDecimal
}

// SavingsRatePercent renders the savings rate as a percentage with one
// decimal place, e.g. "25.0", or NotApplicable.
func (o Overview) SavingsRatePercent() string {
	if !o.SavingsRate.Valid {
		return NotApplicable
	}
	return o.SavingsRate.Decimal.Mul(hundred).StringFixed(1)
}

// ComputeOverview sums income and expenses and derives balance and savings rate.
func ComputeOverview(txns []models.Transaction) Overview {
	var o Overview
	for _, t := range txns {
		switch t.Type {
		case models.TransactionIncome:
			o.Income = o.Income.Add(t.Amount)
		case models.TransactionExpense:
			o.Expenses = o.Expenses.Add(t.Amount)
		}
	}

	o.Balance = o.Income.Sub(o.Expenses)

	// Division by zero income has no meaningful rate.
	if !o.Income.IsZero() {
		o.SavingsRate = decimal.NewNullDecimal(o.Balance.Div(o.Income))
	}

	return o
}

// SpendingByCategory totals expense amounts per category label.
// Income transactions are ignored.
func SpendingByCategory(txns []models.Transaction) map[string]decimal.Decimal {
	spend := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Type != models.TransactionExpense {
			continue
		}
		spend[t.Category] = spend[t.Category].Add(t.Amount)
	}
	return spend
}

// CategorySpend is one row of the spending-by-category chart.
type CategorySpend struct {
	Category string
	Spent    decimal.Decimal
}

// SpendingAgainst renders spend against a category vocabulary. Every
// vocabulary entry appears (with zero when nothing was spent), in vocabulary
// order, followed by any categories with spend that the vocabulary lacks,
// sorted by name.
func SpendingAgainst(spend map[string]decimal.Decimal, vocabulary []string) []CategorySpend {
	rows := make([]CategorySpend, 0, len(vocabulary)+len(spend))
	seen := make(map[string]bool, len(vocabulary))

	for _, name := range vocabulary {
		if seen[name] {
			continue
		}
		seen[name] = true
		rows = append(rows, CategorySpend{Category: name, Spent: spend[name]})
	}

	var extra []string
	for name := range spend {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		rows = append(rows, CategorySpend{Category: name, Spent: spend[name]})
	}

	return rows
}

// FilterMonth returns the transactions dated within the calendar month of t.
func FilterMonth(txns []models.Transaction, t time.Time) []models.Transaction {
	year, month, _ := t.UTC().Date()
	var out []models.Transaction
	for _, txn := range txns {
		y, m, _ := txn.Date.UTC().Date()
		if y == year && m == month {
			out = append(out, txn)
		}
	}
	return out
}
