package core

import (
	"time"

	"github.com/google/uuid"
)

// BookReturnedEventType is the event type identifier.
const BookReturnedEventType = "BookReturned"

// BookReturned represents the end of a loan. It flips the book back to available.
type BookReturned struct {
	LoanID     LoanIDString
	BookID     BookIDString
	UserID     UserIDString
	ReturnedAt OccurredAt
}

// BuildBookReturned creates a new BookReturned event.
func BuildBookReturned(loanID uuid.UUID, bookID BookIDString, userID UserIDString, returnedAt time.Time) BookReturned {
	return BookReturned{
		LoanID:     loanID.String(),
		BookID:     bookID,
		UserID:     userID,
		ReturnedAt: ToOccurredAt(returnedAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReturned) IsEventType() string {
	return BookReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReturned) HasOccurredAt() time.Time {
	return e.ReturnedAt
}
