package core

import (
	"time"
)

// BookIDString represents a book identifier.
type BookIDString = string

// LoanIDString represents a loan identifier.
type LoanIDString = string

// UserIDString represents a user identifier as resolved by the upstream identity provider.
type UserIDString = string

// OccurredAt represents when an event occurred.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision
// (the precision of a PostgreSQL timestamp).
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

const (
	// DefaultLoanPeriodDays is the number of days between borrowing a book and its due date.
	DefaultLoanPeriodDays = 14

	// DefaultMaxConcurrentLoans is the maximum number of open loans a user may have.
	DefaultMaxConcurrentLoans = 3

	MinRating = 1
	MaxRating = 5
)

// DueDateFor returns the due date of a loan borrowed at borrowedAt.
func DueDateFor(borrowedAt time.Time, loanPeriodDays int) time.Time {
	return ToOccurredAt(borrowedAt).AddDate(0, 0, loanPeriodDays)
}
