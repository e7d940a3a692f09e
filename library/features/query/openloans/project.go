package openloans

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// ProjectOpenLoans is a pure function that returns the open loans of the queried user.
//
//	GIVEN: a user with UserID
//	WHEN: ListOpenLoans is executed
//	THEN: all loans without a return are listed, ordered by BorrowedAt
//	EXCLUDES: returned loans and loans of other users
func ProjectOpenLoans(history core.DomainEvents, query Query, maxSequenceNumber uint) OpenLoans {
	userID := query.UserID.String()
	loans := core.ProjectLoanLedger(history).OpenLoansOfUser(userID)

	return OpenLoans{
		UserID:         userID,
		Loans:          loans,
		Count:          len(loans),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter creates the filter for all loan events of the user.
func BuildEventFilter(userID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
			core.LoanRatedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("UserID", userID.String()),
		).
		Finalize()
}
