package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/models"
)

// BudgetStatus compares one budget limit with the money spent against it.
type BudgetStatus struct {
	Category string
	Limit    decimal.Decimal
	Spent    decimal.Decimal

	// Remaining is Limit - Spent; negative when over budget.
	Remaining decimal.Decimal

	// PercentUsed is Spent / Limit * 100, rounded to one decimal place.
	PercentUsed decimal.Decimal

	OverBudget bool
}

// ComputeBudgetStatus looks up the spend for each budget (zero if absent)
// and flags budgets where spend strictly exceeds the limit. Output order
// follows the input budgets.
func ComputeBudgetStatus(budgets []models.Budget, spend map[string]decimal.Decimal) []BudgetStatus {
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := spend[b.Category]

		percent := decimal.Zero
		if b.Limit.IsPositive() {
			percent = spent.Div(b.Limit).Mul(hundred).Round(1)
		}

		statuses = append(statuses, BudgetStatus{
			Category:    b.Category,
			Limit:       b.Limit,
			Spent:       spent,
			Remaining:   b.Limit.Sub(spent),
			PercentUsed: percent,
			OverBudget:  spent.GreaterThan(b.Limit),
		})
	}
	return statuses
}

// OverBudget returns only the statuses whose spend exceeds the limit.
func OverBudget(statuses []BudgetStatus) []BudgetStatus {
	var over []BudgetStatus
	for _, s := range statuses {
		if s.OverBudget {
			over = append(over, s)
		}
	}
	return over
}
