package overdueloans

import (
	"slices"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// ProjectOverdueLoans is a pure function that returns all loans overdue at query.Now.
//
//	GIVEN: the loan history of the library
//	WHEN: OverdueLoans is executed
//	THEN: all open loans with DueDate before Now are listed, ordered by DueDate
//	EXCLUDES: returned loans, loans due exactly at Now or later
func ProjectOverdueLoans(history core.DomainEvents, query Query, maxSequenceNumber uint) OverdueLoans {
	overdue := make([]core.LoanRecord, 0)
	for _, loan := range core.ProjectLoanLedger(history).OpenLoans() {
		if loan.IsOverdue(query.Now) {
			overdue = append(overdue, loan)
		}
	}

	slices.SortStableFunc(overdue, func(a, b core.LoanRecord) int {
		return a.DueDate.Compare(b.DueDate)
	})

	return OverdueLoans{
		Now:            query.Now,
		Loans:          overdue,
		Count:          len(overdue),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter creates the filter for all borrow and return events.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}
