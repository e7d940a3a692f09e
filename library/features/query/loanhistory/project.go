package loanhistory

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// ProjectLoanHistory is a pure function that returns every loan of the queried user.
//
//	GIVEN: a user with UserID
//	WHEN: LoanHistory is executed
//	THEN: all loans of the user are listed, ordered by BorrowedAt
//	INCLUDES: ReturnedAt and Rating where present
func ProjectLoanHistory(history core.DomainEvents, query Query, maxSequenceNumber uint) LoanHistory {
	userID := query.UserID.String()
	loans := core.ProjectLoanLedger(history).LoansOfUser(userID)

	openCount := 0
	for _, loan := range loans {
		if loan.IsOpen() {
			openCount++
		}
	}

	return LoanHistory{
		UserID:         userID,
		Loans:          loans,
		Count:          len(loans),
		OpenCount:      openCount,
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
