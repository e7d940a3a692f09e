package rateloan

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// Decide implements the business logic to determine whether a loan can be rated.
//
//	GIVEN: a returned loan with LoanID
//	WHEN: RateLoan is received from the borrower
//	THEN: LoanRated is generated
//	ERROR: core.ErrNotFound if the loan does not exist
//	ERROR: core.ErrForbidden if ActorID is not the borrower
//	ERROR: core.ErrInvalidInput if Rating is outside core.MinRating..core.MaxRating
//	ERROR: core.ErrLoanNotYetReturned if the loan is still open
//	ERROR: core.ErrAlreadyRated if the loan carries a rating
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	loanID := command.LoanID.String()
	ledger := core.ProjectLoanLedger(history)

	loan, exists := ledger.Loan(loanID)
	if !exists {
		return core.ErrorDecision(fmt.Errorf("%s: loan %s: %w", commandType, loanID, core.ErrNotFound))
	}

	if loan.UserID != command.ActorID.String() {
		return core.ErrorDecision(
			fmt.Errorf("%s: loan %s: user %s is not the borrower: %w", commandType, loanID, command.ActorID, core.ErrForbidden),
		)
	}

	if command.Rating < core.MinRating || command.Rating > core.MaxRating {
		return core.ErrorDecision(
			fmt.Errorf(
				"%s: loan %s: rating %d is not between %d and %d: %w",
				commandType,
				loanID,
				command.Rating,
				core.MinRating,
				core.MaxRating,
				core.ErrInvalidInput,
			),
		)
	}

	if loan.IsOpen() {
		return core.ErrorDecision(fmt.Errorf("%s: loan %s: %w", commandType, loanID, core.ErrLoanNotYetReturned))
	}

	if loan.IsRated() {
		return core.ErrorDecision(fmt.Errorf("%s: loan %s: %w", commandType, loanID, core.ErrAlreadyRated))
	}

	return core.SuccessDecision(
		core.BuildLoanRated(command.LoanID, loan.BookID, loan.UserID, command.Rating, command.OccurredAt),
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
