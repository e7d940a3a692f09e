package core

import (
	"time"
)

// DomainEvents is the history a decision or projection folds over, in sequence order.
type DomainEvents = []DomainEvent

// DomainEvent is one of the loan facts: BookAddedToCatalog, BookBorrowed, BookReturned or LoanRated.
type DomainEvent interface {
	IsEventType() string
	HasOccurredAt() time.Time
}

