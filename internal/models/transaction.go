package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for transaction dates.
const DateLayout = "2006-01-02"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single income or expense record.
// Transactions are created and deleted but never updated.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID is the owning user.
	UserID string

	// Date is the calendar day of the transaction (midnight UTC).
	Date time.Time

	// Description is free text, e.g. "Coffee".
	Description string

	// Amount is always positive; Type carries the direction.
	Amount decimal.Decimal

	// Category is a label from the category vocabulary.
	Category string

	// Type is income or expense.
	Type TransactionType

	// CreatedAt is the Unix timestamp when the record was stored.
	CreatedAt int64
}

// DateString returns the transaction date formatted as YYYY-MM-DD.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// Day truncates a time to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
