package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/models"
)

func txn(date, category string, kind models.TransactionType, amount string) models.Transaction {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		Date:     d,
		Category: category,
		Type:     kind,
		Amount:   decimal.RequireFromString(amount),
	}
}

func TestComputeOverview(t *testing.T) {
	tests := []struct {
		name         string
		txns         []models.Transaction
		wantIncome   string
		wantExpenses string
		wantBalance  string
		wantRate     string
	}{
		{
			name:         "no transactions",
			txns:         nil,
			wantIncome:   "0",
			wantExpenses: "0",
			wantBalance:  "0",
			wantRate:     "N/A",
		},
		{
			name: "expenses only",
			txns: []models.Transaction{
				txn("2024-07-20", "Groceries", models.TransactionExpense, "4.5"),
			},
			wantIncome:   "0",
			wantExpenses: "4.5",
			wantBalance:  "-4.5",
			wantRate:     "N/A",
		},
		{
			name: "income and expenses",
			txns: []models.Transaction{
				txn("2024-07-01", "Salary", models.TransactionIncome, "3000"),
				txn("2024-07-02", "Rent", models.TransactionExpense, "1500"),
				txn("2024-07-07", "Groceries", models.TransactionExpense, "750"),
			},
			wantIncome:   "3000",
			wantExpenses: "2250",
			wantBalance:  "750",
			wantRate:     "25.0",
		},
		{
			name: "overspent",
			txns: []models.Transaction{
				txn("2024-07-01", "Salary", models.TransactionIncome, "100"),
				txn("2024-07-02", "Rent", models.TransactionExpense, "150"),
			},
			wantIncome:   "100",
			wantExpenses: "150",
			wantBalance:  "-50",
			wantRate:     "-50.0",
		},
		{
			name: "repeating fraction",
			txns: []models.Transaction{
				txn("2024-07-01", "Salary", models.TransactionIncome, "3"),
				txn("2024-07-02", "Groceries", models.TransactionExpense, "2"),
			},
			wantIncome:   "3",
			wantExpenses: "2",
			wantBalance:  "1",
			wantRate:     "33.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := ComputeOverview(tt.txns)
			if got := o.Income.String(); got != tt.wantIncome {
				t.Errorf("Income = %s, want %s", got, tt.wantIncome)
			}
			if got := o.Expenses.String(); got != tt.wantExpenses {
				t.Errorf("Expenses = %s, want %s", got, tt.wantExpenses)
			}
			if got := o.Balance.String(); got != tt.wantBalance {
				t.Errorf("Balance = %s, want %s", got, tt.wantBalance)
			}
			if got := o.SavingsRatePercent(); got != tt.wantRate {
				t.Errorf("SavingsRatePercent = %s, want %s", got, tt.wantRate)
			}
		})
	}
}

func TestOverviewBalanceIsExact(t *testing.T) {
	// Amounts that drift under binary floating point.
	var txns []models.Transaction
	for i := 0; i < 10; i++ {
		txns = append(txns, txn("2024-07-01", "Salary", models.TransactionIncome, "0.1"))
		txns = append(txns, txn("2024-07-01", "Groceries", models.TransactionExpense, "0.07"))
	}

	o := ComputeOverview(txns)
	if !o.Income.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Income = %s, want 1", o.Income)
	}
	if !o.Balance.Equal(o.Income.Sub(o.Expenses)) {
		t.Errorf("Balance %s != Income %s - Expenses %s", o.Balance, o.Income, o.Expenses)
	}
	if !o.Balance.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("Balance = %s, want 0.3", o.Balance)
	}
}

func TestSpendingByCategory(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-07-20", "Groceries", models.TransactionExpense, "4.5"),
		txn("2024-07-19", "Groceries", models.TransactionExpense, "10"),
		txn("2024-07-18", "Utilities", models.TransactionExpense, "80"),
		txn("2024-07-01", "Salary", models.TransactionIncome, "3000"),
	}

	spend := SpendingByCategory(txns)
	if len(spend) != 2 {
		t.Fatalf("expected 2 categories, got %d: %v", len(spend), spend)
	}
	if !spend["Groceries"].Equal(decimal.RequireFromString("14.5")) {
		t.Errorf("Groceries = %s, want 14.5", spend["Groceries"])
	}
	if _, ok := spend["Salary"]; ok {
		t.Error("income category should not appear in spending")
	}
}

func TestSpendingAgainst(t *testing.T) {
	spend := map[string]decimal.Decimal{
		"Groceries": decimal.RequireFromString("12"),
		"Pets":      decimal.RequireFromString("30"),
	}

	rows := SpendingAgainst(spend, []string{"Utilities", "Groceries", "Utilities"})
	want := []struct {
		category string
		spent    string
	}{
		{"Utilities", "0"},
		{"Groceries", "12"},
		{"Pets", "30"},
	}

	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(rows), rows)
	}
	for i, w := range want {
		if rows[i].Category != w.category || rows[i].Spent.String() != w.spent {
			t.Errorf("row %d = {%s %s}, want {%s %s}", i, rows[i].Category, rows[i].Spent, w.category, w.spent)
		}
	}
}

func TestFilterMonth(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-08-01", "Groceries", models.TransactionExpense, "1"),
		txn("2024-07-31", "Groceries", models.TransactionExpense, "2"),
		txn("2024-07-01", "Groceries", models.TransactionExpense, "3"),
		txn("2023-07-15", "Groceries", models.TransactionExpense, "4"),
	}

	got := FilterMonth(txns, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions in July 2024, got %d", len(got))
	}
}
