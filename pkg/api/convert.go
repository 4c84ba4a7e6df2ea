package api

import (
	"github.com/mmynk/budgetwise/internal/calculator"
	"github.com/mmynk/budgetwise/internal/models"
)

// TransactionFromModel converts a stored transaction to its wire form.
func TransactionFromModel(t models.Transaction) Transaction {
	return Transaction{
		ID:          t.ID,
		Date:        t.DateString(),
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Type:        string(t.Type),
		CreatedAt:   t.CreatedAt,
	}
}

func TransactionsFromModels(txns []models.Transaction) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		out = append(out, TransactionFromModel(t))
	}
	return out
}

func BudgetFromModel(b models.Budget) Budget {
	return Budget{
		ID:        b.ID,
		Category:  b.Category,
		Limit:     b.Limit,
		UpdatedAt: b.UpdatedAt,
	}
}

func BudgetsFromModels(budgets []models.Budget) []Budget {
	out := make([]Budget, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetFromModel(b))
	}
	return out
}

// DashboardFromCalculator converts derived dashboard figures to the
// GetDashboard response. Servers and clients share it so both render the
// same savings rate.
func DashboardFromCalculator(d calculator.Dashboard) *GetDashboardResponse {
	resp := &GetDashboardResponse{
		Overview: Overview{
			Income:      d.Overview.Income,
			Expenses:    d.Overview.Expenses,
			Balance:     d.Overview.Balance,
			SavingsRate: d.Overview.SavingsRatePercent(),
		},
		Spending: make([]CategorySpend, 0, len(d.Spending)),
		Budgets:  make([]BudgetStatus, 0, len(d.Budgets)),
		Recent:   TransactionsFromModels(d.Recent),
	}
	for _, s := range d.Spending {
		resp.Spending = append(resp.Spending, CategorySpend{Category: s.Category, Spent: s.Spent})
	}
	for _, b := range d.Budgets {
		resp.Budgets = append(resp.Budgets, BudgetStatus{
			Category:    b.Category,
			Limit:       b.Limit,
			Spent:       b.Spent,
			Remaining:   b.Remaining,
			PercentUsed: b.PercentUsed,
			OverBudget:  b.OverBudget,
		})
	}
	return resp
}
