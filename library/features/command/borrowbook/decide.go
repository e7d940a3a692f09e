package borrowbook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// Policy holds the configurable loan rules.
type Policy struct {
	LoanPeriodDays     int
	MaxConcurrentLoans int
}

// DefaultPolicy returns the library's standard loan rules.
func DefaultPolicy() Policy {
	return Policy{
		LoanPeriodDays:     core.DefaultLoanPeriodDays,
		MaxConcurrentLoans: core.DefaultMaxConcurrentLoans,
	}
}

// Decide implements the business logic to determine whether a user may borrow a book.
//
//	GIVEN: a book with BookID and a user with UserID
//	WHEN: BorrowBook is received
//	THEN: BookBorrowed is generated, due LoanPeriodDays after OccurredAt
//	ERROR: core.ErrNotFound if the book is not in the catalog
//	ERROR: core.ErrAlreadyBorrowed if the book has an open loan (also when this user holds it)
//	ERROR: core.ErrBorrowLimitExceeded if the user already has MaxConcurrentLoans open loans
func Decide(history core.DomainEvents, command Command, policy Policy) core.DecisionResult {
	bookID := command.BookID.String()
	ledger := core.ProjectLoanLedger(history)

	if _, exists := ledger.Book(bookID); !exists {
		return core.ErrorDecision(fmt.Errorf("%s: book %s: %w", commandType, bookID, core.ErrNotFound))
	}

	if _, borrowed := ledger.OpenLoanForBook(bookID); borrowed {
		return core.ErrorDecision(fmt.Errorf("%s: book %s: %w", commandType, bookID, core.ErrAlreadyBorrowed))
	}

	if openLoans := ledger.OpenLoansOfUser(command.UserID.String()); len(openLoans) >= policy.MaxConcurrentLoans {
		return core.ErrorDecision(
			fmt.Errorf(
				"%s: user %s has %d open loans: %w",
				commandType,
				command.UserID,
				len(openLoans),
				core.ErrBorrowLimitExceeded,
			),
		)
	}

	return core.SuccessDecision(
		core.BuildBookBorrowed(
			command.LoanID,
			command.BookID,
			command.UserID,
			command.OccurredAt,
			policy.LoanPeriodDays,
		),
	)
}

// BuildEventFilter creates the filter for all events related to the book or the user
// which are relevant for this use case.
func BuildEventFilter(bookID uuid.UUID, userID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookID", bookID.String()),
			eventstore.P("UserID", userID.String()),
		).
		Finalize()
}
