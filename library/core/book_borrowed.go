package core

import (
	"time"

	"github.com/google/uuid"
)

// BookBorrowedEventType is the event type identifier.
const BookBorrowedEventType = "BookBorrowed"

// BookBorrowed represents the start of a loan. It flips the book to borrowed.
type BookBorrowed struct {
	LoanID     LoanIDString
	BookID     BookIDString
	UserID     UserIDString
	BorrowedAt OccurredAt
	DueDate    time.Time
}

// BuildBookBorrowed creates a new BookBorrowed event. The due date is fixed here and never changes.
func BuildBookBorrowed(
	loanID uuid.UUID,
	bookID uuid.UUID,
	userID uuid.UUID,
	borrowedAt time.Time,
	loanPeriodDays int,
) BookBorrowed {

	return BookBorrowed{
		LoanID:     loanID.String(),
		BookID:     bookID.String(),
		UserID:     userID.String(),
		BorrowedAt: ToOccurredAt(borrowedAt),
		DueDate:    DueDateFor(borrowedAt, loanPeriodDays),
	}
}

// IsEventType returns the event type identifier.
func (e BookBorrowed) IsEventType() string {
	return BookBorrowedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookBorrowed) HasOccurredAt() time.Time {
	return e.BorrowedAt
}
