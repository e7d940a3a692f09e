package bookdetails

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

// ProjectBookDetails is a pure function that returns the queried book.
//
//	GIVEN: a book with BookID
//	WHEN: BookDetails is executed
//	THEN: the book with its derived status and average rating is returned
//	ERROR: core.ErrNotFound if the book is not in the catalog
func ProjectBookDetails(history core.DomainEvents, query Query, maxSequenceNumber uint) (BookDetails, error) {
	bookID := query.BookID.String()
	ledger := core.ProjectLoanLedger(history)

	book, exists := ledger.Book(bookID)
	if !exists {
		return BookDetails{}, fmt.Errorf("%s: book %s: %w", queryType, bookID, core.ErrNotFound)
	}

	ratings := ledger.RatingsOfBook(bookID)

	return BookDetails{
		Book:           book,
		AverageRating:  core.AverageRating(ratings),
		RatingCount:    len(ratings),
		SequenceNumber: maxSequenceNumber,
	}, nil
}

// BuildEventFilter creates the filter for all catalog and loan events of the book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
			core.LoanRatedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookID", bookID.String()),
		).
		Finalize()
}
