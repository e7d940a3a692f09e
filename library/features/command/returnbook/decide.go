package returnbook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// Decide implements the business logic to determine whether a loan can be closed.
//
//	GIVEN: an open loan with LoanID
//	WHEN: ReturnBook is received from the borrower
//	THEN: BookReturned is generated
//	ERROR: core.ErrNotFound if the loan does not exist
//	ERROR: core.ErrAlreadyReturned if the loan is closed
//	ERROR: core.ErrForbidden if ActorID is not the borrower
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	loanID := command.LoanID.String()
	ledger := core.ProjectLoanLedger(history)

	loan, exists := ledger.Loan(loanID)
	if !exists {
		return core.ErrorDecision(fmt.Errorf("%s: loan %s: %w", commandType, loanID, core.ErrNotFound))
	}

	if !loan.IsOpen() {
		return core.ErrorDecision(fmt.Errorf("%s: loan %s: %w", commandType, loanID, core.ErrAlreadyReturned))
	}

	if loan.UserID != command.ActorID.String() {
		return core.ErrorDecision(
			fmt.Errorf("%s: loan %s: user %s is not the borrower: %w", commandType, loanID, command.ActorID, core.ErrForbidden),
		)
	}

	return core.SuccessDecision(
		core.BuildBookReturned(command.LoanID, loan.BookID, loan.UserID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for all events of the loan.
func BuildEventFilter(loanID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
			core.LoanRatedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("LoanID", loanID.String()),
		).
		Finalize()
}
