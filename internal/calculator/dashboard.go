package calculator

import "github.com/mmynk/budgetwise/internal/models"

// Dashboard is the full derived view for one user.
type Dashboard struct {
	Overview Overview
	Spending []CategorySpend
	Budgets  []BudgetStatus
	Recent   []models.Transaction
}

// BuildDashboard derives every dashboard figure in one pass over its inputs.
// txns must already be ordered most recent first; the first recent entries
// are returned as Recent (all of them when recent <= 0).
//
// Spending is rendered against the vocabulary plus every budget category,
// so a budget with no matching transactions shows zero instead of vanishing.
func BuildDashboard(txns []models.Transaction, budgets []models.Budget, vocabulary []string, recent int) Dashboard {
	spend := SpendingByCategory(txns)

	names := make([]string, 0, len(vocabulary)+len(budgets))
	names = append(names, vocabulary...)
	for _, b := range budgets {
		names = append(names, b.Category)
	}

	if recent <= 0 || recent > len(txns) {
		recent = len(txns)
	}

	return Dashboard{
		Overview: ComputeOverview(txns),
		Spending: SpendingAgainst(spend, names),
		Budgets:  ComputeBudgetStatus(budgets, spend),
		Recent:   txns[:recent:recent],
	}
}
