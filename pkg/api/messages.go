package api

import "github.com/shopspring/decimal"

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
	Guest       bool   `json:"guest,omitempty"`
}

// Session describes the cookie that was just issued.
type Session struct {
	User      *User `json:"user"`
	ExpiresAt int64 `json:"expiresAt"`
}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type SignUpResponse struct {
	Session
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	Session
}

type SignInGuestRequest struct{}

type SignInGuestResponse struct {
	Session
}

type SignOutRequest struct{}

type SignOutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
	PhotoURL    string `json:"photoUrl"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}

// Transaction is an income or expense record.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	CreatedAt   int64           `json:"createdAt,omitempty"`
}

type ListTransactionsRequest struct{}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type AddTransactionRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
}

type AddTransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	ID string `json:"id"`
}

type DeleteTransactionResponse struct{}

// Budget is a spending limit for one category.
type Budget struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	UpdatedAt int64           `json:"updatedAt,omitempty"`
}

type ListBudgetsRequest struct{}

type ListBudgetsResponse struct {
	Budgets []Budget `json:"budgets"`
}

type SetBudgetRequest struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

type SetBudgetResponse struct {
	Budget Budget `json:"budget"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

type AddCategoryRequest struct {
	Name string `json:"name"`
}

type AddCategoryResponse struct {
	Created bool `json:"created"`
}

// Overview holds the headline dashboard figures. SavingsRate is a
// percentage with one decimal place, or "N/A" without income.
type Overview struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Balance     decimal.Decimal `json:"balance"`
	SavingsRate string          `json:"savingsRate"`
}

type CategorySpend struct {
	Category string          `json:"category"`
	Spent    decimal.Decimal `json:"spent"`
}

type BudgetStatus struct {
	Category    string          `json:"category"`
	Limit       decimal.Decimal `json:"limit"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed decimal.Decimal `json:"percentUsed"`
	OverBudget  bool            `json:"overBudget"`
}

type GetDashboardRequest struct {
	// Month restricts the figures to one calendar month, as YYYY-MM.
	// Empty means all time.
	Month string `json:"month,omitempty"`
}

type GetDashboardResponse struct {
	Overview Overview        `json:"overview"`
	Spending []CategorySpend `json:"spending"`
	Budgets  []BudgetStatus  `json:"budgets"`
	Recent   []Transaction   `json:"recent"`
}

// ImportCSVRequest carries CSV documents as text. Either may be empty.
type ImportCSVRequest struct {
	Transactions string `json:"transactions,omitempty"`
	Budgets      string `json:"budgets,omitempty"`
}

type ImportCSVResponse struct {
	Transactions int `json:"transactions"`
	Budgets      int `json:"budgets"`
}

type ExportCSVRequest struct{}

type ExportCSVResponse struct {
	Transactions string `json:"transactions"`
	Budgets      string `json:"budgets"`
}

type SuggestCategoryRequest struct {
	Description string `json:"description"`
	// Categories overrides the caller's vocabulary when set.
	Categories []string `json:"categories,omitempty"`
}

type SuggestCategoryResponse struct {
	Category string `json:"category"`
}

type ExtractReceiptRequest struct {
	Image    []byte `json:"image"`
	MimeType string `json:"mimeType,omitempty"`
}

type ExtractReceiptResponse struct {
	Amount        decimal.NullDecimal `json:"amount"`
	Date          string              `json:"date,omitempty"`
	Merchant      string              `json:"merchant,omitempty"`
	TransactionID string              `json:"transactionId,omitempty"`
	Description   string              `json:"description,omitempty"`
	CategoryHint  string              `json:"categoryHint,omitempty"`
}

type SpendingSuggestionsRequest struct{}

type SpendingSuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Message     string   `json:"message,omitempty"`
}
