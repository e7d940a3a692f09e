package core

import (
	"time"

	"github.com/google/uuid"
)

// LoanRatedEventType is the event type identifier.
const LoanRatedEventType = "LoanRated"

// LoanRated represents the rating a user gave the book of one of their returned loans.
type LoanRated struct {
	LoanID  LoanIDString
	BookID  BookIDString
	UserID  UserIDString
	Rating  int
	RatedAt OccurredAt
}

// BuildLoanRated creates a new LoanRated event.
func BuildLoanRated(loanID uuid.UUID, bookID BookIDString, userID UserIDString, rating int, ratedAt time.Time) LoanRated {
	return LoanRated{
		LoanID:  loanID.String(),
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		RatedAt: ToOccurredAt(ratedAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanRated) IsEventType() string {
	return LoanRatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanRated) HasOccurredAt() time.Time {
	return e.RatedAt
}
