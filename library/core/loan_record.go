package core

import (
	"time"
)

// LoanRecord is one borrow-to-return cycle of a book by a user.
//
// It is created by BookBorrowed, gets ReturnedAt once from BookReturned
// and Rating at most once from LoanRated. DueDate never changes.
type LoanRecord struct {
	ID         LoanIDString
	UserID     UserIDString
	BookID     BookIDString
	BorrowedAt time.Time
	DueDate    time.Time
	ReturnedAt *time.Time
	Rating     *int
}

// IsOpen reports whether the book is still held (not returned).
func (l LoanRecord) IsOpen() bool {
	return l.ReturnedAt == nil
}

// IsOverdue reports whether the loan is open and its due date is before now.
// It depends on now only, so it must be evaluated on every read.
func (l LoanRecord) IsOverdue(now time.Time) bool {
	return l.IsOpen() && l.DueDate.Before(now)
}

// IsRated reports whether the loan carries a rating.
func (l LoanRecord) IsRated() bool {
	return l.Rating != nil
}

// clone returns a copy that shares no pointers with l.
func (l LoanRecord) clone() LoanRecord {
	c := l

	if l.ReturnedAt != nil {
		returnedAt := *l.ReturnedAt
		c.ReturnedAt = &returnedAt
	}

	if l.Rating != nil {
		rating := *l.Rating
		c.Rating = &rating
	}

	return c
}
