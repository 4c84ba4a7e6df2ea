package models

import "github.com/shopspring/decimal"

// Budget is a spending limit for one category.
// There is at most one budget per (UserID, Category).
type Budget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string

	// UserID is the owning user.
	UserID string

	// Category is the label the limit applies to.
	Category string

	// Limit is the positive spending ceiling.
	Limit decimal.Decimal

	// UpdatedAt is the Unix timestamp of the last upsert.
	UpdatedAt int64
}

// Category is a label used to classify transactions and budgets.
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// Name is the label, e.g. "Groceries".
	Name string

	// UserID scopes the category to one user. Empty means global.
	UserID string

	// CreatedAt is the Unix timestamp when the category was created.
	CreatedAt int64
}

// DefaultCategories is the vocabulary seeded into a fresh database.
var DefaultCategories = []string{
	"Groceries",
	"Utilities",
	"Entertainment",
	"Transport",
	"Housing",
	"Health",
	"Food and Drink Item",
	"Other",
}
