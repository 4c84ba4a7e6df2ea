// Package models defines the core domain models for BudgetWise.
//
// # Ownership
//
// Every Transaction and Budget belongs to exactly one User, referenced by
// UserID. Categories are either global (empty UserID, created by seeding) or
// scoped to a single user.
//
// # Money
//
// Amounts and limits are decimal.Decimal values so that sums and differences
// are exact for the decimal inputs users type in. They are persisted as text.
//
// # Design Principles
//
//  1. **Flat records**: models carry IDs, never pointers to other models
//  2. **Day granularity**: transaction dates are calendar days in UTC
//  3. **Storage agnostic**: no SQL or JSON tags; wire types live in pkg/api
package models
